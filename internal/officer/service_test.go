package officer

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/krishichetan/krishichetan-backend/internal/gateway"
	"github.com/krishichetan/krishichetan-backend/pkg/db/models"
	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
)

type fakeRepository struct {
	createFn func(ctx context.Context, rec *models.PendingRecommendation) error
	findFn   func(ctx context.Context, id string) (*models.PendingRecommendation, error)
	updateFn func(ctx context.Context, rec *models.PendingRecommendation) error
	listFn   func(ctx context.Context, status string) ([]models.PendingRecommendation, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, rec *models.PendingRecommendation) error {
	if f.createFn != nil {
		return f.createFn(ctx, rec)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id string) (*models.PendingRecommendation, error) {
	if f.findFn != nil {
		return f.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, rec *models.PendingRecommendation) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, rec)
	}
	return nil
}

func (f *fakeRepository) ListByStatus(ctx context.Context, status string) ([]models.PendingRecommendation, error) {
	if f.listFn != nil {
		return f.listFn(ctx, status)
	}
	return nil, nil
}

type fakeForwarder struct {
	forwardFn func(ctx context.Context, req gateway.ForwardValidatedRequest) (gateway.ForwardValidatedResult, error)
	calls     []gateway.ForwardValidatedRequest
}

func (f *fakeForwarder) ForwardValidated(ctx context.Context, req gateway.ForwardValidatedRequest) (gateway.ForwardValidatedResult, error) {
	f.calls = append(f.calls, req)
	if f.forwardFn != nil {
		return f.forwardFn(ctx, req)
	}
	return gateway.ForwardValidatedResult{LedgerIndex: 1}, nil
}

func TestService_Submit(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo, &fakeForwarder{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.PendingRecommendation
	repo.createFn = func(ctx context.Context, rec *models.PendingRecommendation) error {
		created = rec
		return nil
	}

	rec, err := svc.Submit(context.Background(), SubmitInput{
		Farmer: "9876543210",
		Source: "Soil AI",
		Text:   "Use 20kg extra Urea for Wheat.",
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if created == nil || created.ID == "" {
		t.Fatalf("recommendation not persisted: %+v", created)
	}
	if rec.Status != RecStatusPending {
		t.Fatalf("new recommendation status = %q", rec.Status)
	}
}

func TestService_SubmitValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{}, &fakeForwarder{})
	ctx := context.Background()

	if _, err := svc.Submit(ctx, SubmitInput{Text: "msg"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("missing farmer: expected validation error, got %v", err)
	}
	if _, err := svc.Submit(ctx, SubmitInput{Farmer: "9876543210"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("missing text: expected validation error, got %v", err)
	}
}

func TestService_ValidateForwardsThenMarks(t *testing.T) {
	stored := &models.PendingRecommendation{
		ID:     "rec-1",
		Farmer: "9876543210",
		Source: "Doctor AI",
		Text:   "Spray Copper Oxychloride for Blight.",
		Status: RecStatusPending,
	}
	var updated *models.PendingRecommendation
	repo := &fakeRepository{
		findFn: func(ctx context.Context, id string) (*models.PendingRecommendation, error) {
			return stored, nil
		},
		updateFn: func(ctx context.Context, rec *models.PendingRecommendation) error {
			updated = rec
			return nil
		},
	}
	forwarder := &fakeForwarder{}
	svc, _ := NewService(repo, forwarder)

	result, err := svc.Validate(context.Background(), ValidateInput{
		RecommendationID: "rec-1",
		Officer:          "officer-12",
		Text:             "Spray copper oxychloride at 3g/l.",
		Kind:             enums.AdvisoryKindPesticide,
		Language:         enums.LanguageMarathi,
	})
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	if len(forwarder.calls) != 1 {
		t.Fatalf("expected one forward, got %d", len(forwarder.calls))
	}
	call := forwarder.calls[0]
	if call.Subject != "9876543210" || call.Message != "Spray copper oxychloride at 3g/l." {
		t.Fatalf("unexpected forward request: %+v", call)
	}
	if updated == nil || updated.Status != RecStatusValidated {
		t.Fatalf("recommendation not marked validated: %+v", updated)
	}
	if result.Recommendation.Text != "Spray copper oxychloride at 3g/l." {
		t.Fatalf("edited text not applied: %q", result.Recommendation.Text)
	}
}

func TestService_ValidateKeepsOriginalTextWhenUnedited(t *testing.T) {
	stored := &models.PendingRecommendation{ID: "rec-2", Farmer: "9876543210", Text: "original text", Status: RecStatusPending}
	repo := &fakeRepository{
		findFn: func(ctx context.Context, id string) (*models.PendingRecommendation, error) {
			return stored, nil
		},
	}
	forwarder := &fakeForwarder{}
	svc, _ := NewService(repo, forwarder)

	if _, err := svc.Validate(context.Background(), ValidateInput{
		RecommendationID: "rec-2",
		Kind:             enums.AdvisoryKindFertilizer,
	}); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if forwarder.calls[0].Message != "original text" {
		t.Fatalf("expected original text forwarded, got %q", forwarder.calls[0].Message)
	}
}

func TestService_ValidateRejectsResolvedAndUnknown(t *testing.T) {
	repo := &fakeRepository{
		findFn: func(ctx context.Context, id string) (*models.PendingRecommendation, error) {
			if id == "rec-done" {
				return &models.PendingRecommendation{ID: id, Farmer: "9", Status: RecStatusValidated}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, _ := NewService(repo, &fakeForwarder{})
	ctx := context.Background()

	_, err := svc.Validate(ctx, ValidateInput{RecommendationID: "rec-done", Kind: enums.AdvisoryKindPest})
	if !pkgerrors.IsCode(err, pkgerrors.CodeAlreadyResolved) {
		t.Fatalf("expected already-resolved, got %v", err)
	}
	_, err = svc.Validate(ctx, ValidateInput{RecommendationID: "rec-missing", Kind: enums.AdvisoryKindPest})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestService_ValidateDoesNotMarkOnForwardFailure(t *testing.T) {
	stored := &models.PendingRecommendation{ID: "rec-3", Farmer: "9876543210", Text: "text", Status: RecStatusPending}
	var updateCalls int
	repo := &fakeRepository{
		findFn: func(ctx context.Context, id string) (*models.PendingRecommendation, error) {
			return stored, nil
		},
		updateFn: func(ctx context.Context, rec *models.PendingRecommendation) error {
			updateCalls++
			return nil
		},
	}
	forwarder := &fakeForwarder{
		forwardFn: func(ctx context.Context, req gateway.ForwardValidatedRequest) (gateway.ForwardValidatedResult, error) {
			return gateway.ForwardValidatedResult{}, pkgerrors.New(pkgerrors.CodeIntegrity, "ledger integrity compromised")
		},
	}
	svc, _ := NewService(repo, forwarder)

	_, err := svc.Validate(context.Background(), ValidateInput{RecommendationID: "rec-3", Kind: enums.AdvisoryKindPest})
	if !pkgerrors.IsCode(err, pkgerrors.CodeIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if updateCalls != 0 {
		t.Fatalf("recommendation must stay pending when the forward fails")
	}
}

func TestService_AlertsLocalization(t *testing.T) {
	svc, _ := NewService(&fakeRepository{}, &fakeForwarder{})
	ctx := context.Background()

	en := svc.Alerts(ctx, enums.LanguageEnglish)
	if len(en) != 2 || en[0].Zone != "Zone A (North)" {
		t.Fatalf("unexpected english alerts: %+v", en)
	}
	mr := svc.Alerts(ctx, enums.LanguageMarathi)
	if mr[0].Risk != "जास्त" {
		t.Fatalf("unexpected marathi alert: %+v", mr[0])
	}
	fallback := svc.Alerts(ctx, enums.Language("fr"))
	if fallback[0].Zone != "Zone A (North)" {
		t.Fatalf("expected english fallback, got %+v", fallback[0])
	}
}
