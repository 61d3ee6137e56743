package migrate

import (
	"context"
	"fmt"

	"github.com/vendorahq/vendora-backend/pkg/config"
	"github.com/vendorahq/vendora-backend/pkg/db"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at boot when auto-migrate is enabled.
// Production deploys run cmd/migrate explicitly instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || client == nil {
		return fmt.Errorf("config and db client are required")
	}
	if !cfg.DB.AutoMigrate {
		return nil
	}
	if cfg.App.IsProd() {
		logg.Warn(ctx, "auto-migrate requested in production, skipping")
		return nil
	}
	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("getting sql handle: %w", err)
	}
	logg.Info(ctx, "running dev auto-migrations")
	return Up(ctx, sqlDB)
}
