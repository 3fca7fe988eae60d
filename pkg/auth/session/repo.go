package session

import (
	"context"
	"time"

	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists sessions in the relational store.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a pool or transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, s *models.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindByTokenHash returns gorm.ErrRecordNotFound when no row matches.
func (r *Repository) FindByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	var s models.Session
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Take(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// PurgeExpired deletes sessions whose expiry is at or before cutoff.
func (r *Repository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", cutoff).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
