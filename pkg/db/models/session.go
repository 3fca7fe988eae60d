package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is an issued bearer token. Only the SHA-256 of the token is stored.
type Session struct {
	TokenHash   string    `gorm:"column:token_hash;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	IssuedAt    time.Time `gorm:"column:issued_at;not null"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null;index"`
	ClientIP    *string   `gorm:"column:client_ip"`
	ClientAgent *string   `gorm:"column:client_agent"`
}
