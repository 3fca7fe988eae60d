package auth

import (
	"net/http"

	"github.com/nomedigasn781-code/proyec/api/middleware"
	"github.com/nomedigasn781-code/proyec/api/responses"
	"github.com/nomedigasn781-code/proyec/api/validators"
	"github.com/nomedigasn781-code/proyec/internal/auth"
	"github.com/nomedigasn781-code/proyec/pkg/auth/session"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
)

const (
	loginSucceeded = "Inicio de sesión exitoso"
	emailVerified  = "Email verificado correctamente"
)

// AuthLogin exchanges a username or email plus password for a session token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		client := session.Client{IP: middleware.ClientIP(r), Agent: r.UserAgent()}
		result, err := svc.Login(r.Context(), body, client)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loginSucceeded, result)
	}
}

// AuthRegister creates an account. The email syntax is checked only after
// every required field is present.
func AuthRegister(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateEmail(body.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := reg.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result.Message, auth.RegisterResponse{
			UserID: result.User.ID,
			Email:  result.User.Email,
		})
	}
}

// AuthVerifyEmail consumes the code sent at registration.
func AuthVerifyEmail(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.VerifyEmailRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateEmail(body.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := reg.VerifyEmail(r.Context(), body.Email, body.Codigo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, emailVerified, auth.VerifyEmailResponse{
			UserID: user.ID,
			Name:   user.DisplayName,
			Email:  user.Email,
		})
	}
}
