package advisory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
	"github.com/krishichetan/krishichetan-backend/pkg/metrics"
	"github.com/krishichetan/krishichetan-backend/pkg/storage"
)

// Notifier is told about newly issued advisories. Implementations must not
// block the issue path on failure; delivery is best-effort.
type Notifier interface {
	AdvisoryIssued(ctx context.Context, record Record)
}

// Store owns every subject's advisory history. Same-subject mutations are
// serialized through a per-subject lock so the pending check-then-set is
// atomic; the store lock guards the subject map and the shared document
// write.
type Store struct {
	mu       sync.RWMutex
	subjects map[string]*subjectHistory
	seq      uint64

	doc      storage.DocStore
	metrics  *metrics.AdvisoryMetrics
	notifier Notifier
}

type subjectHistory struct {
	mu      sync.Mutex
	records []Record
}

// StoreParams wires the advisory store's collaborators. Metrics and
// Notifier are optional.
type StoreParams struct {
	Doc      storage.DocStore
	Metrics  *metrics.AdvisoryMetrics
	Notifier Notifier
}

// NewStore reloads any persisted histories and resumes the id counter
// past the highest persisted sequence.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.Doc == nil {
		return nil, fmt.Errorf("advisory document store required")
	}

	s := &Store{
		subjects: map[string]*subjectHistory{},
		doc:      params.Doc,
		metrics:  params.Metrics,
		notifier: params.Notifier,
	}

	persisted := map[string][]Record{}
	if _, err := params.Doc.Load(ctx, &persisted); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading advisory store")
	}
	for subject, records := range persisted {
		s.subjects[subject] = &subjectHistory{records: records}
		for _, record := range records {
			if seq := sequenceOf(record.ID); seq > s.seq {
				s.seq = seq
			}
		}
	}
	return s, nil
}

// Create issues a new pending advisory at the end of the subject's
// sequence and persists before returning.
func (s *Store) Create(ctx context.Context, subject string, kind enums.AdvisoryKind, message string, lang enums.Language, issuedAt time.Time) (Record, error) {
	if subject == "" {
		return Record{}, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}
	if !kind.IsValid() {
		return Record{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid advisory kind %q", kind))
	}
	if message == "" {
		return Record{}, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	h := s.handleFor(subject)

	h.mu.Lock()
	defer h.mu.Unlock()

	s.mu.Lock()
	s.seq++
	record := Record{
		ID:       recordID(s.seq, subject),
		Subject:  subject,
		Kind:     kind,
		Message:  message,
		Language: lang.OrDefault(),
		IssuedAt: issuedAt.UTC(),
		Status:   enums.AdvisoryStatusPending,
	}
	previous := h.records
	h.records = append(append([]Record{}, previous...), record)
	err := s.persistLocked(ctx)
	if err != nil {
		h.records = previous
		s.seq--
	}
	s.mu.Unlock()

	if err != nil {
		return Record{}, err
	}

	s.metrics.IncIssued(string(kind))
	if s.notifier != nil {
		s.notifier.AdvisoryIssued(ctx, record)
	}
	return record, nil
}

// Transition resolves a pending advisory to followed or ignored. The
// transition is strictly one-shot: when two callers race, exactly one wins
// and the other fails with AlreadyResolved.
func (s *Store) Transition(ctx context.Context, subject, id string, status enums.AdvisoryStatus) (Record, error) {
	if !status.IsResolved() {
		return Record{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("status must be followed or ignored, got %q", status))
	}

	s.mu.RLock()
	h, ok := s.subjects[subject]
	s.mu.RUnlock()
	if !ok {
		return Record{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no advisories for subject %s", subject))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range h.records {
		if h.records[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Record{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("advisory %s not found", id))
	}
	if h.records[idx].Status != enums.AdvisoryStatusPending {
		return Record{}, pkgerrors.New(pkgerrors.CodeAlreadyResolved,
			fmt.Sprintf("advisory %s already %s", id, h.records[idx].Status))
	}

	previous := h.records
	updated := append([]Record{}, previous...)
	updated[idx].Status = status
	h.records = updated
	if err := s.persistLocked(ctx); err != nil {
		h.records = previous
		return Record{}, err
	}

	s.metrics.IncResolved(string(status))
	return updated[idx], nil
}

// History returns the most recent limit records in chronological order,
// oldest of the returned window first. Unknown subjects yield an empty
// sequence, not an error.
func (s *Store) History(_ context.Context, subject string, limit int) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.subjects[subject]
	if !ok {
		return []Record{}
	}
	records := h.records
	if limit > 0 && limit < len(records) {
		records = records[len(records)-limit:]
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// SnapshotAll returns a consistent copy of every subject's history for
// the aggregator; it never observes a history mid-mutation.
func (s *Store) SnapshotAll(_ context.Context) map[string][]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]Record, len(s.subjects))
	for subject, h := range s.subjects {
		records := make([]Record, len(h.records))
		copy(records, h.records)
		out[subject] = records
	}
	return out
}

func (s *Store) handleFor(subject string) *subjectHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.subjects[subject]
	if !ok {
		h = &subjectHistory{}
		s.subjects[subject] = h
	}
	return h
}

// persistLocked overwrites the whole document. Caller holds s.mu, so the
// encoded snapshot is consistent across subjects.
func (s *Store) persistLocked(ctx context.Context) error {
	doc := make(map[string][]Record, len(s.subjects))
	for subject, h := range s.subjects {
		doc[subject] = h.records
	}
	if err := s.doc.Overwrite(ctx, doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting advisory store")
	}
	return nil
}
