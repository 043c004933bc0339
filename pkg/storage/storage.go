package storage

import (
	"context"
	"encoding/json"
)

// RecordLog persists an ordered, append-only sequence of records. The
// ledger appends one serialized record at a time and replays the whole
// log on startup.
type RecordLog interface {
	// Load returns every persisted record in append order; an empty slice
	// when nothing has been written yet.
	Load(ctx context.Context) ([]json.RawMessage, error)
	// Append durably writes one record; it must not return before the
	// record is flushed.
	Append(ctx context.Context, record any) error
}

// DocStore persists a whole document atomically. The advisory store
// overwrites its full subject map on every mutation, mirroring the
// JSON-file-per-concern layout of the original data files.
type DocStore interface {
	// Load decodes the persisted document into dest. The boolean is false
	// when nothing has been persisted yet; dest is left untouched then.
	Load(ctx context.Context, dest any) (bool, error)
	// Overwrite durably replaces the document.
	Overwrite(ctx context.Context, doc any) error
}
