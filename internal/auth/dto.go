package auth

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nomedigasn781-code/proyec/internal/users"
)

// LoginRequest accepts either an email or a display name in Usuario.
type LoginRequest struct {
	Usuario  string `json:"usuario" validate:"required" msg:"Usuario es requerido"`
	Password string `json:"password" validate:"required" msg:"Contraseña es requerida"`
}

func (r *LoginRequest) Normalize() {
	r.Usuario = strings.TrimSpace(r.Usuario)
}

// LoginResponse carries the raw session token and the public profile.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"usuario"`
}

// RegisterRequest fields are checked in declaration order; the first failure is reported.
// Email syntax is checked after the password length.
type RegisterRequest struct {
	Nombre    string `json:"nombre" validate:"required" msg:"El nombre es obligatorio"`
	Email     string `json:"email" validate:"required" msg:"El email es obligatorio"`
	Telefono  string `json:"telefono" validate:"required" msg:"El teléfono es obligatorio"`
	Direccion string `json:"direccion" validate:"required" msg:"La dirección es obligatoria"`
	Password  string `json:"password" validate:"min=6" msg:"La contraseña debe tener al menos 6 caracteres"`
}

func (r *RegisterRequest) Normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Email = strings.TrimSpace(r.Email)
	r.Telefono = strings.TrimSpace(r.Telefono)
	r.Direccion = strings.TrimSpace(r.Direccion)
}

// RegisterResponse is the payload returned after a successful registration.
type RegisterResponse struct {
	UserID uuid.UUID `json:"usuario_id"`
	Email  string    `json:"email"`
}

// VerifyEmailRequest confirms ownership of an email with the code sent at registration.
type VerifyEmailRequest struct {
	Email  string `json:"email" validate:"required" msg:"Email y código son requeridos"`
	Codigo string `json:"codigo" validate:"required" msg:"Email y código son requeridos"`
}

func (r *VerifyEmailRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Codigo = strings.TrimSpace(r.Codigo)
}

// VerifyEmailResponse identifies the account that was verified.
type VerifyEmailResponse struct {
	UserID uuid.UUID `json:"usuario_id"`
	Name   string    `json:"nombre"`
	Email  string    `json:"email"`
}
