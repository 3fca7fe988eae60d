package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
	"github.com/nomedigasn781-code/proyec/pkg/types"
)

type exposeKey struct{}

// WithExposedErrors marks the request so internal error text is echoed to the client.
func WithExposedErrors(ctx context.Context) context.Context {
	return context.WithValue(ctx, exposeKey{}, true)
}

func exposed(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(exposeKey{}).(bool)
	return v
}

func WriteSuccess(w http.ResponseWriter, message string, data any) {
	WriteSuccessStatus(w, http.StatusOK, message, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, types.Envelope{Success: true, Message: message, Data: data})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if public := typed.PublicMessage(); public != "" {
		msg = public
	}
	if meta.MessageAllowed && typed.Message() != "" {
		msg = typed.Message()
	}
	if !meta.MessageAllowed && exposed(ctx) {
		detail := err
		if cause := typed.Unwrap(); cause != nil {
			detail = cause
		}
		msg = msg + ": " + detail.Error()
	}

	payload := types.Envelope{Success: false, Message: msg}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Data = details
		}
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(logCtx, "request.error", err)
		} else {
			logg.Warn(logCtx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
