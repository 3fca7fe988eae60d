package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/nomedigasn781-code/proyec/api/responses"
	"github.com/nomedigasn781-code/proyec/pkg/auth/session"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
)

const (
	tokenParam   = "token"
	missingToken = "Token de sesión requerido"
	invalidToken = "Sesión inválida o expirada"
)

// RequireSession resolves the session token carried by the request and
// stores the owning user in the context. Reads pass the token as a query
// parameter; writes carry it in the JSON body, which is restored for the
// downstream handler.
func RequireSession(validator session.Validator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := extractToken(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Datos inválidos"))
				return
			}
			if token == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, missingToken))
				return
			}

			userID, err := validator.Validate(ctx, token)
			if err != nil {
				if errors.Is(err, session.ErrInvalidSession) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidToken))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate session"))
				return
			}

			ctx = WithUserID(ctx, userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) (string, error) {
	if token := strings.TrimSpace(r.URL.Query().Get(tokenParam)); token != "" {
		return token, nil
	}
	if r.Body == nil || r.Method == http.MethodGet {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBufferedBody))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}

	var payload struct {
		Token json.RawMessage `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		// Malformed bodies are reported by the handler's own decoder.
		return "", nil
	}
	var token string
	if err := json.Unmarshal(payload.Token, &token); err != nil {
		return "", nil
	}
	return strings.TrimSpace(token), nil
}
