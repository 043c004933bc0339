package advisory

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
	"github.com/krishichetan/krishichetan-backend/pkg/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), StoreParams{Doc: storage.NewMemoryDocStore()})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func mustCreate(t *testing.T, s *Store, subject, message string) Record {
	t.Helper()
	record, err := s.Create(context.Background(), subject, enums.AdvisoryKindIrrigation, message, enums.LanguageEnglish, time.Time{})
	if err != nil {
		t.Fatalf("create advisory: %v", err)
	}
	return record
}

func TestCreateStartsPending(t *testing.T) {
	s := newTestStore(t)
	record := mustCreate(t, s, "9876543210", "Irrigate tonight")

	if record.Status != enums.AdvisoryStatusPending {
		t.Fatalf("new advisory status = %q", record.Status)
	}
	if record.ID == "" || record.Subject != "9876543210" {
		t.Fatalf("unexpected record identity: %+v", record)
	}
	if record.Language != enums.LanguageEnglish {
		t.Fatalf("language = %q", record.Language)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "", enums.AdvisoryKindIrrigation, "msg", enums.LanguageEnglish, time.Time{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("empty subject: expected validation error, got %v", err)
	}
	if _, err := s.Create(ctx, "9876543210", enums.AdvisoryKind("prophecy"), "msg", enums.LanguageEnglish, time.Time{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("bad kind: expected validation error, got %v", err)
	}
	if _, err := s.Create(ctx, "9876543210", enums.AdvisoryKindIrrigation, "", enums.LanguageEnglish, time.Time{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("empty message: expected validation error, got %v", err)
	}
}

func TestTransitionIsOneShot(t *testing.T) {
	s := newTestStore(t)
	record := mustCreate(t, s, "9876543210", "Spray neem oil")

	updated, err := s.Transition(context.Background(), record.Subject, record.ID, enums.AdvisoryStatusFollowed)
	if err != nil {
		t.Fatalf("first transition: %v", err)
	}
	if updated.Status != enums.AdvisoryStatusFollowed {
		t.Fatalf("status after transition = %q", updated.Status)
	}

	_, err = s.Transition(context.Background(), record.Subject, record.ID, enums.AdvisoryStatusIgnored)
	if !pkgerrors.IsCode(err, pkgerrors.CodeAlreadyResolved) {
		t.Fatalf("second transition: expected already-resolved, got %v", err)
	}
}

func TestConcurrentTransitionOneWinner(t *testing.T) {
	s := newTestStore(t)
	record := mustCreate(t, s, "9876543210", "Delay sowing")

	statuses := []enums.AdvisoryStatus{enums.AdvisoryStatusFollowed, enums.AdvisoryStatusIgnored}
	errs := make([]error, len(statuses))

	var wg sync.WaitGroup
	for i, status := range statuses {
		wg.Add(1)
		go func(i int, status enums.AdvisoryStatus) {
			defer wg.Done()
			_, errs[i] = s.Transition(context.Background(), record.Subject, record.ID, status)
		}(i, status)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case pkgerrors.IsCode(err, pkgerrors.CodeAlreadyResolved):
			losses++
		default:
			t.Fatalf("unexpected transition error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner, got %d wins / %d already-resolved", wins, losses)
	}
}

func TestTransitionRejectsPendingAndUnknown(t *testing.T) {
	s := newTestStore(t)
	record := mustCreate(t, s, "9876543210", "Apply urea split dose")
	ctx := context.Background()

	if _, err := s.Transition(ctx, record.Subject, record.ID, enums.AdvisoryStatusPending); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("pending target: expected validation error, got %v", err)
	}
	if _, err := s.Transition(ctx, "0000000000", record.ID, enums.AdvisoryStatusFollowed); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("unknown subject: expected not-found, got %v", err)
	}
	if _, err := s.Transition(ctx, record.Subject, "999_9876543210", enums.AdvisoryStatusFollowed); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("unknown id: expected not-found, got %v", err)
	}
}

func TestHistoryWindowIsLatestOldestFirst(t *testing.T) {
	s := newTestStore(t)
	for i := 1; i <= 5; i++ {
		mustCreate(t, s, "9876543210", fmt.Sprintf("advisory %d", i))
	}

	window := s.History(context.Background(), "9876543210", 2)
	if len(window) != 2 {
		t.Fatalf("expected window of 2, got %d", len(window))
	}
	if window[0].Message != "advisory 4" || window[1].Message != "advisory 5" {
		t.Fatalf("expected latest two oldest-first, got %q then %q", window[0].Message, window[1].Message)
	}

	all := s.History(context.Background(), "9876543210", 0)
	if len(all) != 5 {
		t.Fatalf("zero limit should return all, got %d", len(all))
	}
}

func TestHistoryUnknownSubjectEmpty(t *testing.T) {
	s := newTestStore(t)
	window := s.History(context.Background(), "1111111111", 10)
	if window == nil || len(window) != 0 {
		t.Fatalf("expected empty history, got %#v", window)
	}
}

func TestStoreSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisories.json")
	ctx := context.Background()

	doc, err := storage.NewFileDocStore(path)
	if err != nil {
		t.Fatalf("doc store: %v", err)
	}
	first, err := NewStore(ctx, StoreParams{Doc: doc})
	if err != nil {
		t.Fatalf("first store: %v", err)
	}
	created := mustCreate(t, first, "9876543210", "Harvest this week")
	mustCreate(t, first, "9123456780", "Check soil moisture")
	if _, err := first.Transition(ctx, created.Subject, created.ID, enums.AdvisoryStatusIgnored); err != nil {
		t.Fatalf("transition before restart: %v", err)
	}

	reopened, err := storage.NewFileDocStore(path)
	if err != nil {
		t.Fatalf("doc store: %v", err)
	}
	second, err := NewStore(ctx, StoreParams{Doc: reopened})
	if err != nil {
		t.Fatalf("second store: %v", err)
	}

	history := second.History(ctx, "9876543210", 0)
	if len(history) != 1 {
		t.Fatalf("expected 1 reloaded advisory, got %d", len(history))
	}
	if history[0].ID != created.ID || history[0].Status != enums.AdvisoryStatusIgnored {
		t.Fatalf("reloaded record mismatch: %+v", history[0])
	}

	// The id counter resumes past the persisted high-water mark.
	next := mustCreate(t, second, "9876543210", "Top-dress nitrogen")
	if sequenceOf(next.ID) <= sequenceOf(created.ID) {
		t.Fatalf("sequence did not resume: created %s, next %s", created.ID, next.ID)
	}
}

func TestConcurrentCreatesUniqueIDs(t *testing.T) {
	s := newTestStore(t)

	const n = 25
	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, err := s.Create(context.Background(), fmt.Sprintf("98765432%02d", i%5), enums.AdvisoryKindIrrigation, "bulk advisory", enums.LanguageEnglish, time.Time{})
			ids[i], errs[i] = record.ID, err
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, err := range errs {
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate advisory id %s", id)
		}
		seen[id] = true
	}
}
