package migrate

import (
	"context"
	"fmt"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/config"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/db/models"
	"github.com/cafeteria-labs/coffeeshop-backend/pkg/logger"
)

// MaybeRun brings the schema up to date at boot when the auto-migrate flag
// is set. Postgres runs the goose migrations in dir; SQLite, which the SQL
// files do not target, is migrated from the GORM models instead.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client, dir string) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if client == nil {
		return fmt.Errorf("db client is required")
	}
	if dir == "" {
		dir = DefaultDir
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver, "dir": dir})
	}

	if cfg.DB.IsSQLite() {
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
		if logg != nil {
			logg.Info(ctx, "sqlite schema migrated")
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "running goose migrations")
	}
	if err := Run(ctx, sqlDB, dir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "goose migrations completed")
	}
	return nil
}
