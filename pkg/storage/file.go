package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRecordLog is a newline-delimited JSON append log. Appends are
// serialized, written, and fsynced before returning.
type FileRecordLog struct {
	mu   sync.Mutex
	path string
}

// NewFileRecordLog creates the parent directory if needed.
func NewFileRecordLog(path string) (*FileRecordLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &FileRecordLog{path: path}, nil
}

func (l *FileRecordLog) Load(_ context.Context) ([]json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening record log: %w", err)
	}
	defer file.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		record := make(json.RawMessage, len(line))
		copy(record, line)
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading record log: %w", err)
	}
	return records, nil
}

func (l *FileRecordLog) Append(_ context.Context, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening record log: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending record: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("flushing record log: %w", err)
	}
	return nil
}

// FileDocStore persists a single JSON document with write-to-temp,
// fsync, rename so readers never observe a partial write.
type FileDocStore struct {
	mu   sync.Mutex
	path string
}

// NewFileDocStore creates the parent directory if needed.
func NewFileDocStore(path string) (*FileDocStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileDocStore{path: path}, nil
}

func (s *FileDocStore) Load(_ context.Context, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading document: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decoding document: %w", err)
	}
	return true, nil
}

func (s *FileDocStore) Overwrite(_ context.Context, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp document: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp document: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}
