package officer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krishichetan/krishichetan-backend/internal/gateway"
	"github.com/krishichetan/krishichetan-backend/pkg/db/models"
	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
)

// Recommendation statuses. A recommendation is validated at most once.
const (
	RecStatusPending   = "pending"
	RecStatusValidated = "validated"
)

// Forwarder relays a validated recommendation through the ingestion
// gateway, which owns the ledger and advisory writes.
type Forwarder interface {
	ForwardValidated(ctx context.Context, req gateway.ForwardValidatedRequest) (gateway.ForwardValidatedResult, error)
}

// Service defines the officer review surface over AI recommendations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.PendingRecommendation, error)
	Pending(ctx context.Context) ([]models.PendingRecommendation, error)
	Validate(ctx context.Context, input ValidateInput) (*ValidateResult, error)
	Alerts(ctx context.Context, lang enums.Language) []ZoneAlert
}

type service struct {
	repo      Repository
	forwarder Forwarder
}

// SubmitInput is a machine-generated recommendation entering the review
// queue.
type SubmitInput struct {
	Farmer string
	Source string
	Text   string
}

// ValidateInput is the officer's sign-off, optionally with edited text.
type ValidateInput struct {
	RecommendationID string
	Officer          string
	Text             string
	Kind             enums.AdvisoryKind
	Language         enums.Language
}

// ValidateResult reports the updated recommendation and the mutations the
// forward produced.
type ValidateResult struct {
	Recommendation *models.PendingRecommendation  `json:"recommendation"`
	Forward        gateway.ForwardValidatedResult `json:"forward"`
}

// NewService wires the officer review service.
func NewService(repo Repository, forwarder Forwarder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("recommendation repository required")
	}
	if forwarder == nil {
		return nil, fmt.Errorf("gateway forwarder required")
	}
	return &service{repo: repo, forwarder: forwarder}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.PendingRecommendation, error) {
	if input.Farmer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer is required")
	}
	if input.Text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recommendation text is required")
	}
	if input.Source == "" {
		input.Source = "ai"
	}

	rec := &models.PendingRecommendation{
		ID:     uuid.NewString(),
		Farmer: input.Farmer,
		Source: input.Source,
		Text:   input.Text,
		Status: RecStatusPending,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating recommendation")
	}
	return rec, nil
}

func (s *service) Pending(ctx context.Context) ([]models.PendingRecommendation, error) {
	recs, err := s.repo.ListByStatus(ctx, RecStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing pending recommendations")
	}
	return recs, nil
}

// Validate signs a pending recommendation off and forwards it. The
// gateway writes the audit record and the advisory first; only then is
// the recommendation marked validated, so a crash in between leaves a
// reviewable pending row rather than a lost sign-off.
func (s *service) Validate(ctx context.Context, input ValidateInput) (*ValidateResult, error) {
	if input.RecommendationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recommendation id is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid advisory kind %q", input.Kind))
	}

	rec, err := s.repo.FindByID(ctx, input.RecommendationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("recommendation %s not found", input.RecommendationID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading recommendation")
	}
	if rec.Status != RecStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyResolved,
			fmt.Sprintf("recommendation %s already %s", rec.ID, rec.Status))
	}

	text := input.Text
	if text == "" {
		text = rec.Text
	}

	forward, err := s.forwarder.ForwardValidated(ctx, gateway.ForwardValidatedRequest{
		RecommendationID: rec.ID,
		Subject:          rec.Farmer,
		Officer:          input.Officer,
		Kind:             input.Kind,
		Message:          text,
		Language:         input.Language,
	})
	if err != nil {
		return nil, err
	}

	rec.Text = text
	rec.Status = RecStatusValidated
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking recommendation validated").
			WithDetails(map[string]string{"failed_step": "recommendation"})
	}
	return &ValidateResult{Recommendation: rec, Forward: forward}, nil
}
