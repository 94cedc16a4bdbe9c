package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/payment-portal/internal"
)

// RequireStaff permits the handler only when the request carries a live
// staff session.
func RequireStaff(next http.Handler) http.Handler {
	return requireKind(internal.PrincipalStaff, internal.ErrStaffRequired, next)
}

// RequireUser permits the handler only when the request carries a live user
// session.
func RequireUser(next http.Handler) http.Handler {
	return requireKind(internal.PrincipalUser, internal.ErrUserRequired, next)
}

// RequireSession permits any authenticated principal.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := internal.PrincipalFromContext(r.Context()); !ok {
			writeAppError(w, internal.ErrSessionMissing)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireKind(kind internal.PrincipalKind, denial *internal.AppError, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := internal.PrincipalFromContext(r.Context())
		if !ok || p.Kind != kind {
			writeAppError(w, denial)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
