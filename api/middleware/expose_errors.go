package middleware

import (
	"net/http"

	"github.com/nomedigasn781-code/proyec/api/responses"
)

// ExposeErrors makes internal error causes visible in 500 responses. It is a
// no-op unless enabled.
func ExposeErrors(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(responses.WithExposedErrors(r.Context())))
		})
	}
}
