package officer

import (
	"context"

	"gorm.io/gorm"

	"github.com/krishichetan/krishichetan-backend/pkg/db/models"
)

// Repository manages persistence for pending AI recommendations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rec *models.PendingRecommendation) error
	FindByID(ctx context.Context, id string) (*models.PendingRecommendation, error)
	Update(ctx context.Context, rec *models.PendingRecommendation) error
	ListByStatus(ctx context.Context, status string) ([]models.PendingRecommendation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a recommendation repository bound to the provided
// database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rec *models.PendingRecommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.PendingRecommendation, error) {
	var rec models.PendingRecommendation
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Update(ctx context.Context, rec *models.PendingRecommendation) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) ListByStatus(ctx context.Context, status string) ([]models.PendingRecommendation, error) {
	var recs []models.PendingRecommendation
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
