package farmers

import (
	"context"

	"gorm.io/gorm"

	"github.com/krishichetan/krishichetan-backend/pkg/db/models"
)

// Repository manages persistence for farmer profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, profile *models.FarmerProfile) error
	FindByPhone(ctx context.Context, phone string) (*models.FarmerProfile, error)
	Update(ctx context.Context, profile *models.FarmerProfile) error
	List(ctx context.Context) ([]models.FarmerProfile, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a profile repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, profile *models.FarmerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) Update(ctx context.Context, profile *models.FarmerProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *repository) List(ctx context.Context) ([]models.FarmerProfile, error) {
	var profiles []models.FarmerProfile
	if err := r.db.WithContext(ctx).Order("phone ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
