// Package session issues and validates opaque bearer tokens.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db"
	"github.com/nomedigasn781-code/proyec/pkg/db/models"
)

const tokenBytes = 32

// ErrInvalidSession covers absent, expired, and empty tokens alike.
var ErrInvalidSession = errors.New("invalid or expired session")

type store interface {
	Create(ctx context.Context, s *models.Session) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
}

// Session is an issued token. Token is the raw bearer value and is never persisted.
type Session struct {
	Token     string
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Client describes where a login came from.
type Client struct {
	IP    string
	Agent string
}

// Validator is the read-only surface used by HTTP middleware.
type Validator interface {
	Validate(ctx context.Context, token string) (uuid.UUID, error)
}

// Manager handles token creation and lookup.
type Manager struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager constructs a manager over the provided store.
func NewManager(s store, cfg config.SessionConfig) (*Manager, error) {
	if s == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: s,
		ttl:   cfg.TTL,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// Issue creates and persists a new session for userID.
func (m *Manager) Issue(ctx context.Context, userID uuid.UUID, client Client) (Session, error) {
	if userID == uuid.Nil {
		return Session{}, fmt.Errorf("user id is required")
	}
	token, err := generateToken()
	if err != nil {
		return Session{}, err
	}

	issued := m.now()
	row := &models.Session{
		TokenHash:   HashToken(token),
		UserID:      userID,
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(m.ttl),
		ClientIP:    optional(client.IP),
		ClientAgent: optional(client.Agent),
	}
	if err := m.store.Create(ctx, row); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}

	return Session{
		Token:     token,
		UserID:    userID,
		IssuedAt:  row.IssuedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// Validate resolves token to its user. The session is valid while now < expires_at.
func (m *Manager) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, ErrInvalidSession
	}

	row, err := m.store.FindByTokenHash(ctx, HashToken(token))
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, ErrInvalidSession
		}
		return uuid.Nil, err
	}
	if !m.now().Before(row.ExpiresAt) {
		return uuid.Nil, ErrInvalidSession
	}
	return row.UserID, nil
}

// HashToken is the storage key for a raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
