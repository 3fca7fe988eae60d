package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomedigasn781-code/proyec/pkg/auth/session"
	"github.com/nomedigasn781-code/proyec/pkg/db/dbtest"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
)

func TestSessionCleanupDeletesOnlyExpiredPastRetention(t *testing.T) {
	conn := dbtest.SQLite(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	user := &models.User{ID: uuid.New(), DisplayName: "Ana", Email: "ana@example.com", PasswordHash: "h", RegisteredAt: now}
	require.NoError(t, conn.Create(user).Error)

	rows := []models.Session{
		{TokenHash: "old", UserID: user.ID, IssuedAt: now.Add(-72 * time.Hour), ExpiresAt: now.Add(-48 * time.Hour)},
		{TokenHash: "recently-expired", UserID: user.ID, IssuedAt: now.Add(-3 * time.Hour), ExpiresAt: now.Add(-time.Hour)},
		{TokenHash: "live", UserID: user.ID, IssuedAt: now, ExpiresAt: now.Add(time.Hour)},
	}
	require.NoError(t, conn.Create(&rows).Error)

	job, err := NewSessionCleanupJob(SessionCleanupJobParams{
		Logger:     logger.Nop(),
		Repository: session.NewRepository(conn),
		Retention:  24 * time.Hour,
	})
	require.NoError(t, err)
	job.(*sessionCleanupJob).now = func() time.Time { return now }

	deleted, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []string
	require.NoError(t, conn.Model(&models.Session{}).Order("token_hash").Pluck("token_hash", &remaining).Error)
	assert.Equal(t, []string{"live", "recently-expired"}, remaining)
}

type failingPurger struct{}

func (failingPurger) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestSessionCleanupPropagatesErrors(t *testing.T) {
	job, err := NewSessionCleanupJob(SessionCleanupJobParams{Logger: logger.Nop(), Repository: failingPurger{}})
	require.NoError(t, err)

	_, err = job.Run(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, "session-cleanup", job.Name())
}

func TestNewSessionCleanupJobValidation(t *testing.T) {
	_, err := NewSessionCleanupJob(SessionCleanupJobParams{Repository: failingPurger{}})
	assert.Error(t, err)
	_, err = NewSessionCleanupJob(SessionCleanupJobParams{Logger: logger.Nop()})
	assert.Error(t, err)
}
