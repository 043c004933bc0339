package farmers

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/krishichetan/krishichetan-backend/pkg/db/models"
	pkgerrors "github.com/krishichetan/krishichetan-backend/pkg/errors"
)

type fakeRepository struct {
	createFn func(ctx context.Context, profile *models.FarmerProfile) error
	findFn   func(ctx context.Context, phone string) (*models.FarmerProfile, error)
	updateFn func(ctx context.Context, profile *models.FarmerProfile) error
	listFn   func(ctx context.Context) ([]models.FarmerProfile, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, profile *models.FarmerProfile) error {
	if f.createFn != nil {
		return f.createFn(ctx, profile)
	}
	return nil
}

func (f *fakeRepository) FindByPhone(ctx context.Context, phone string) (*models.FarmerProfile, error) {
	if f.findFn != nil {
		return f.findFn(ctx, phone)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, profile *models.FarmerProfile) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, profile)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context) ([]models.FarmerProfile, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func TestService_Register(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.FarmerProfile
	repo.createFn = func(ctx context.Context, profile *models.FarmerProfile) error {
		created = profile
		return nil
	}

	profile, err := svc.Register(context.Background(), RegisterInput{
		Phone:         "9876543210",
		Name:          "Ramesh Patil",
		CropType:      "wheat",
		Location:      "Satara",
		LandSizeAcres: 2.5,
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if created == nil || created.Phone != "9876543210" {
		t.Fatalf("profile not persisted: %+v", created)
	}
	if profile.GrowthStage != "seedling" || profile.SoilType != "loamy" {
		t.Fatalf("defaults not applied: %+v", profile)
	}
}

func TestService_RegisterValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing phone", RegisterInput{Name: "Ramesh"}},
		{"missing name", RegisterInput{Phone: "9876543210"}},
		{"negative land", RegisterInput{Phone: "9876543210", Name: "Ramesh", LandSizeAcres: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_RegisterDuplicatePhone(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, profile *models.FarmerProfile) error {
			return gorm.ErrDuplicatedKey
		},
	}
	svc, _ := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{Phone: "9876543210", Name: "Ramesh"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestService_GetByPhoneNotFound(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})
	_, err := svc.GetByPhone(context.Background(), "0000000000")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestService_UpdateRiskScore(t *testing.T) {
	stored := &models.FarmerProfile{Phone: "9876543210", Name: "Ramesh", RiskScore: 10}
	repo := &fakeRepository{
		findFn: func(ctx context.Context, phone string) (*models.FarmerProfile, error) {
			return stored, nil
		},
	}
	svc, _ := NewService(repo)

	profile, err := svc.UpdateRiskScore(context.Background(), "9876543210", 85)
	if err != nil {
		t.Fatalf("UpdateRiskScore error: %v", err)
	}
	if profile.RiskScore != 85 {
		t.Fatalf("risk score = %d", profile.RiskScore)
	}

	if _, err := svc.UpdateRiskScore(context.Background(), "9876543210", 120); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for out-of-range score, got %v", err)
	}
}

func TestService_ListSummaries(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context) ([]models.FarmerProfile, error) {
			return []models.FarmerProfile{
				{Phone: "9876543210", Name: "Ramesh", Location: "Satara", CropType: "wheat", RiskScore: 70},
				{Phone: "9123456780", Name: "Sunita", Location: "Pune", CropType: "onion", RiskScore: 20},
			}, nil
		},
	}
	svc, _ := NewService(repo)

	summaries, err := svc.ListSummaries(context.Background())
	if err != nil {
		t.Fatalf("ListSummaries error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Phone != "9876543210" || summaries[0].RiskScore != 70 {
		t.Fatalf("unexpected summary: %+v", summaries[0])
	}
}
