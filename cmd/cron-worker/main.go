package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/nomedigasn781-code/proyec/internal/cron"
	"github.com/nomedigasn781-code/proyec/pkg/auth/session"
	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db"
	"github.com/nomedigasn781-code/proyec/pkg/instance"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
	"github.com/nomedigasn781-code/proyec/pkg/metrics"
	"github.com/nomedigasn781-code/proyec/pkg/migrate"
	"github.com/nomedigasn781-code/proyec/pkg/redis"
)

const lockName = "cron-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeAutoMigrate(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var lock cron.Lock = &cron.LocalLock{}
	if cfg.Redis.Enabled() {
		var redisClient *redis.Client
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(lockName+":"+envOrLocal(cfg.App.Env)), cfg.Cron.Interval)
		if err != nil {
			return err
		}
	} else {
		logg.Warn(ctx, "redis not configured; cron lock is process-local")
	}

	cleanup, err := cron.NewSessionCleanupJob(cron.SessionCleanupJobParams{
		Logger:     logg,
		Repository: session.NewRepository(dbClient.DB()),
		Retention:  cfg.Cron.SessionRetention,
	})
	if err != nil {
		return err
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(cleanup),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
		"interval": cfg.Cron.Interval.String(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
	return nil
}

func envOrLocal(env string) string {
	if env == "" {
		return "local"
	}
	return env
}
