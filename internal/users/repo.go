package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. A duplicate email surfaces as the driver's unique violation.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the canonical email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", CanonicalEmail(email)).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByDisplayName returns at most limit users carrying the exact display name.
func (r *Repository) FindByDisplayName(ctx context.Context, name string, limit int) ([]models.User, error) {
	var found []models.User
	err := r.db.WithContext(ctx).
		Where("display_name = ?", name).
		Order("registered_at ASC").
		Limit(limit).
		Find(&found).Error
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Take(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastSeen refreshes the user's last_seen_at timestamp.
func (r *Repository) UpdateLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_seen_at", at).Error
}

// MarkVerified flips a pending user to verified when code matches, clearing
// the code in the same statement. It reports whether a row changed.
func (r *Repository) MarkVerified(ctx context.Context, email, code string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? AND pending_code = ? AND is_verified = ?", CanonicalEmail(email), code, false).
		UpdateColumns(map[string]any{
			"is_verified":  true,
			"pending_code": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
