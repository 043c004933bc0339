package farmers

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/krishichetan/krishichetan-backend/internal/analytics"
	"github.com/krishichetan/krishichetan-backend/pkg/db"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
	"github.com/krishichetan/krishichetan-backend/pkg/db/models"
)

// Service defines farmer profile operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.FarmerProfile, error)
	GetByPhone(ctx context.Context, phone string) (*models.FarmerProfile, error)
	UpdateRiskScore(ctx context.Context, phone string, score int) (*models.FarmerProfile, error)
	ListSummaries(ctx context.Context) ([]analytics.FarmerSummary, error)
}

type service struct {
	repo Repository
}

// RegisterInput captures the data required to enroll a farmer.
type RegisterInput struct {
	Phone         string
	Name          string
	CropType      string
	Location      string
	SowingDate    string
	LandSizeAcres float64
	GrowthStage   string
	SoilType      string
}

// NewService wires a farmer profile service over the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("farmer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.FarmerProfile, error) {
	if input.Phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.LandSizeAcres < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "land size must not be negative")
	}

	profile := &models.FarmerProfile{
		Phone:         input.Phone,
		Name:          input.Name,
		CropType:      input.CropType,
		Location:      input.Location,
		SowingDate:    input.SowingDate,
		LandSizeAcres: input.LandSizeAcres,
		GrowthStage:   input.GrowthStage,
		SoilType:      input.SoilType,
	}
	if profile.GrowthStage == "" {
		profile.GrowthStage = "seedling"
	}
	if profile.SoilType == "" {
		profile.SoilType = "loamy"
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("farmer %s already registered", input.Phone))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating farmer profile")
	}
	return profile, nil
}

func (s *service) GetByPhone(ctx context.Context, phone string) (*models.FarmerProfile, error) {
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	profile, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("farmer %s not found", phone))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading farmer profile")
	}
	return profile, nil
}

func (s *service) UpdateRiskScore(ctx context.Context, phone string, score int) (*models.FarmerProfile, error) {
	if score < 0 || score > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("risk score must be 0-100, got %d", score))
	}
	profile, err := s.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	profile.RiskScore = score
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating risk score")
	}
	return profile, nil
}

// ListSummaries adapts stored profiles to the aggregator's read shape.
func (s *service) ListSummaries(ctx context.Context) ([]analytics.FarmerSummary, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing farmer profiles")
	}
	summaries := make([]analytics.FarmerSummary, len(profiles))
	for i, profile := range profiles {
		summaries[i] = analytics.FarmerSummary{
			Phone:     profile.Phone,
			Name:      profile.Name,
			Location:  profile.Location,
			CropType:  profile.CropType,
			RiskScore: profile.RiskScore,
		}
	}
	return summaries, nil
}
