package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/nomedigasn781-code/proyec/pkg/logger"
)

const defaultSessionRetention = 24 * time.Hour

type SessionCleanupJobParams struct {
	Logger     *logger.Logger
	Repository expiredSessionPurger
	// Retention keeps expired rows around for this long before deleting them.
	Retention time.Duration
}

type expiredSessionPurger interface {
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

func NewSessionCleanupJob(params SessionCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("session repository required")
	}
	retention := params.Retention
	if retention < 0 {
		retention = defaultSessionRetention
	}
	return &sessionCleanupJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type sessionCleanupJob struct {
	logg      *logger.Logger
	repo      expiredSessionPurger
	retention time.Duration
	now       func() time.Time
}

func (j *sessionCleanupJob) Name() string { return "session-cleanup" }

func (j *sessionCleanupJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.PurgeExpired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("session cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"retention":    j.retention.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "session cleanup complete")
	return deleted, nil
}
