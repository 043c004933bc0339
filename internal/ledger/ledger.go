package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
	"github.com/krishichetan/krishichetan-backend/pkg/storage"
)

// Ledger is the append-only, hash-chained audit log. A single instance
// owns the whole sequence: it is created once at startup, seeded with a
// genesis record, and only ever grows.
type Ledger struct {
	mu      sync.RWMutex
	records []Record
	log     storage.RecordLog
	tainted atomic.Bool
	now     func() time.Time
}

type genesisPayload struct {
	Event enums.LedgerEventKind `json:"event"`
}

// New loads the persisted chain, or seeds a genesis record when the log is
// empty. A chain that fails verification on load marks the ledger tainted:
// reads keep working for audit, appends are refused until an operator
// intervenes.
func New(ctx context.Context, log storage.RecordLog) (*Ledger, error) {
	l := &Ledger{log: log, now: time.Now}

	raw, err := log.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading ledger")
	}

	if len(raw) == 0 {
		genesis, err := l.buildRecord(genesisPayload{Event: enums.LedgerEventKindGenesis}, 0, GenesisHash)
		if err != nil {
			return nil, err
		}
		if err := log.Append(ctx, genesis); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting genesis record")
		}
		l.records = []Record{genesis}
		return l, nil
	}

	l.records = make([]Record, 0, len(raw))
	for i, data := range raw {
		var record Record
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decoding ledger record %d", i))
		}
		l.records = append(l.records, record)
	}

	if err := l.verifyLocked(); err != nil {
		l.tainted.Store(true)
	}
	return l, nil
}

// Append records a new payload at the chain tip. The record is durable
// before Append returns. Fails with InvalidPayload when the payload cannot
// be serialized and with IntegrityViolation while the chain is tainted.
func (l *Ledger) Append(ctx context.Context, payload any) (Record, error) {
	if l.tainted.Load() {
		return Record{}, pkgerrors.New(pkgerrors.CodeIntegrity, "ledger is tainted, appends refused")
	}

	canonical, err := canonicalPayload(payload)
	if err != nil {
		return Record{}, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "payload cannot be serialized")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tail := l.records[len(l.records)-1]
	record := Record{
		Index:     tail.Index + 1,
		Timestamp: l.now().UTC(),
		Payload:   canonical,
		PrevHash:  tail.Hash,
	}
	record.Hash = hashRecord(&record)

	if err := l.log.Append(ctx, record); err != nil {
		return Record{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting ledger record")
	}
	l.records = append(l.records, record)
	return record, nil
}

// Verify recomputes every hash and checks the linkage end to end. The
// first mismatch wins. A failed verification taints the ledger so further
// appends are refused (fail-closed).
func (l *Ledger) Verify(_ context.Context) error {
	l.mu.RLock()
	err := l.verifyLocked()
	l.mu.RUnlock()

	if err != nil {
		l.tainted.Store(true)
	}
	return err
}

func (l *Ledger) verifyLocked() error {
	for i := range l.records {
		curr := &l.records[i]
		if uint64(i) != curr.Index {
			return pkgerrors.New(pkgerrors.CodeIntegrity, fmt.Sprintf("record %d has index %d", i, curr.Index))
		}
		if i == 0 {
			if curr.PrevHash != GenesisHash {
				return pkgerrors.New(pkgerrors.CodeIntegrity, "genesis record has wrong previous hash")
			}
		} else if curr.PrevHash != l.records[i-1].Hash {
			return pkgerrors.New(pkgerrors.CodeIntegrity, fmt.Sprintf("chain broken at index %d", curr.Index))
		}
		if curr.Hash != hashRecord(curr) {
			return pkgerrors.New(pkgerrors.CodeIntegrity, fmt.Sprintf("record %d has invalid hash", curr.Index))
		}
	}
	return nil
}

// Snapshot returns a copy of the full chain for audit export. Safe to call
// concurrently with Append; it never observes a half-written record.
func (l *Ledger) Snapshot(_ context.Context) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records including genesis.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Tainted reports whether the chain is known-broken and appends are refused.
func (l *Ledger) Tainted() bool {
	return l.tainted.Load()
}

func (l *Ledger) buildRecord(payload any, index uint64, prevHash string) (Record, error) {
	canonical, err := canonicalPayload(payload)
	if err != nil {
		return Record{}, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "payload cannot be serialized")
	}
	record := Record{
		Index:     index,
		Timestamp: l.now().UTC(),
		Payload:   canonical,
		PrevHash:  prevHash,
	}
	record.Hash = hashRecord(&record)
	return record, nil
}
