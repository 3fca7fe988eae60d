package migrate

import (
	"context"
	"fmt"

	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
)

// MaybeAutoMigrate brings the schema up to date at startup. Postgres runs the
// embedded goose migrations when PROYEC_AUTO_MIGRATE is set. SQLite always
// uses gorm AutoMigrate since the migrations are written for Postgres.
func MaybeAutoMigrate(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	sqlite := cfg.DB.Driver == config.DBDriverSQLite
	if !cfg.FeatureFlags.AutoMigrate && !sqlite {
		return nil
	}

	if sqlite {
		logg.Info(logg.WithField(ctx, "driver", cfg.DB.Driver), "running gorm auto-migrate")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "source": "embedded"})
	logg.Info(ctx, "running goose migrations (auto-run)")

	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
