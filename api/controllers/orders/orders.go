package orders

import (
	"net/http"

	"github.com/nomedigasn781-code/proyec/api/middleware"
	"github.com/nomedigasn781-code/proyec/api/responses"
	"github.com/nomedigasn781-code/proyec/api/validators"
	internalorders "github.com/nomedigasn781-code/proyec/internal/orders"
	pkgerrors "github.com/nomedigasn781-code/proyec/pkg/errors"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
)

const orderSaved = "Pedido guardado exitosamente"

// Submit persists an order for the session's user. Must run behind
// middleware.RequireSession.
func Submit(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Token de sesión requerido"))
			return
		}

		var body internalorders.SubmitOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), internalorders.SubmitOrderInput{
			UserID: userID,
			Total:  body.Total,
			Items:  body.Productos,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, orderSaved, result)
	}
}

// History lists the session user's orders, newest first.
func History(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Token de sesión requerido"))
			return
		}

		history, err := svc.History(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "", history)
	}
}
