package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered customer.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	DisplayName  string     `gorm:"column:display_name;not null;index"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	Phone        string     `gorm:"column:phone;not null"`
	Address      string     `gorm:"column:address;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsVerified   bool       `gorm:"column:is_verified;not null;default:false"`
	PendingCode  *string    `gorm:"column:pending_code"`
	RegisteredAt time.Time  `gorm:"column:registered_at;not null"`
	LastSeenAt   *time.Time `gorm:"column:last_seen_at"`
}
