package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryRecordLog keeps the append log in memory for tests and ephemeral runs.
type MemoryRecordLog struct {
	mu      sync.Mutex
	records []json.RawMessage
}

func NewMemoryRecordLog() *MemoryRecordLog {
	return &MemoryRecordLog{}
}

func (l *MemoryRecordLog) Load(_ context.Context) ([]json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]json.RawMessage, len(l.records))
	copy(out, l.records)
	return out, nil
}

func (l *MemoryRecordLog) Append(_ context.Context, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, data)
	return nil
}

// MemoryDocStore keeps the document in memory for tests and ephemeral runs.
type MemoryDocStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryDocStore() *MemoryDocStore {
	return &MemoryDocStore{}
}

func (s *MemoryDocStore) Load(_ context.Context, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return false, nil
	}
	if err := json.Unmarshal(s.data, dest); err != nil {
		return false, fmt.Errorf("decoding document: %w", err)
	}
	return true, nil
}

func (s *MemoryDocStore) Overwrite(_ context.Context, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}
