package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware turns a handler panic into a logged 500. The response
// body stays generic; the stack goes to the log only.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					io.WriteString(w, `{"error":"Internal server error"}`)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
