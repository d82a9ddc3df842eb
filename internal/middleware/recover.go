package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
)

// Recover turns a handler panic into a 500 instead of dropping the connection.
func Recover(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
					httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
