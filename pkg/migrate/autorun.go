package migrate

import (
	"context"
	"fmt"

	"github.com/krishichetan/krishichetan-backend/pkg/config"
	"github.com/krishichetan/krishichetan-backend/pkg/db"
	"github.com/krishichetan/krishichetan-backend/pkg/db/models"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
)

// MaybeAutoMigrate builds the schema through GORM when the app runs in dev
// mode with the feature flag enabled. This is the path SQLite uses; Postgres
// deployments run the goose migrations through cmd/migrate.
func MaybeAutoMigrate(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithField(ctx, "driver", cfg.DB.Driver)
	logg.Info(ctx, "running dev auto-migration")

	if err := client.DB().WithContext(ctx).AutoMigrate(
		&models.FarmerProfile{},
		&models.PendingRecommendation{},
	); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}

	logg.Info(ctx, "dev auto-migration completed")
	return nil
}
