package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nomedigasn781-code/proyec/pkg/db/models"
)

// RegisteredAtLayout is how registration timestamps are rendered to clients.
const RegisteredAtLayout = "2006-01-02 15:04:05"

// UserDTO is the transport shape that omits credentials and verification state.
type UserDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	Phone        string    `json:"telefono"`
	Address      string    `json:"direccion"`
	RegisteredAt string    `json:"fecha_registro"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	DisplayName  string
	Email        string
	Phone        string
	Address      string
	PasswordHash string
	Verified     bool
	PendingCode  *string
	RegisteredAt time.Time
}

// CanonicalEmail is the stored form of an email address.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:           u.ID,
		Name:         u.DisplayName,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		RegisteredAt: u.RegisteredAt.UTC().Format(RegisteredAtLayout),
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	registered := c.RegisteredAt
	if registered.IsZero() {
		registered = time.Now().UTC()
	}

	return &models.User{
		ID:           uuid.New(),
		DisplayName:  strings.TrimSpace(c.DisplayName),
		Email:        CanonicalEmail(c.Email),
		Phone:        strings.TrimSpace(c.Phone),
		Address:      strings.TrimSpace(c.Address),
		PasswordHash: c.PasswordHash,
		IsVerified:   c.Verified,
		PendingCode:  c.PendingCode,
		RegisteredAt: registered,
	}
}
