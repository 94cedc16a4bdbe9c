package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/internal/session"
	"github.com/frahmantamala/payment-portal/internal/transport"
	"github.com/frahmantamala/payment-portal/pkg/logger"
)

// CookieConfig describes the session cookie. MaxAge is a transport-level
// bound only; the real session lifetime is the inactivity window enforced
// server-side.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions *session.Manager
	Cookie   CookieConfig
}

func NewHandler(svc ServiceAPI, sessions *session.Manager, cookie CookieConfig) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Sessions:    sessions,
		Cookie:      cookie,
	}
}

// Register handles POST /register. The staff guard runs before this.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RegisterUser(r.Context(), dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful"})
}

// RegisterStaff handles POST /register-staff.
func (h *Handler) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var dto RegisterStaffDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RegisterStaff(r.Context(), dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful"})
}

// Login handles POST /login for users.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.Service.LoginUser(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, sess.ID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

// StaffLogin handles POST /staff-login.
func (h *Handler) StaffLogin(w http.ResponseWriter, r *http.Request) {
	var dto StaffLoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.Service.LoginStaff(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, sess.ID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

// Logout handles POST /logout for either principal kind.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionMissing)
		return
	}

	if err := h.Service.Logout(r.Context(), p.SessionID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// SessionMiddleware loads, refreshes or expires the session named by the
// cookie. Requests without a cookie, or with a cookie for a destroyed
// session, continue anonymously; the route guards decide whether that is
// acceptable. An elapsed inactivity window is terminal for the session and
// surfaces as its own condition, distinct from authorization denial.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.Cookie.Name)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := h.Sessions.Touch(r.Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrNotFound):
				h.clearSessionCookie(w)
				next.ServeHTTP(w, r)
			case errors.Is(err, session.ErrExpired):
				h.clearSessionCookie(w)
				h.HandleServiceError(w, internal.NewSessionExpiredError())
			default:
				h.Logger.Error("session refresh failed", "error", err)
				h.WriteError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		principal := &internal.Principal{
			ID:        sess.PrincipalID,
			Kind:      internal.PrincipalKind(sess.PrincipalKind),
			SessionID: sess.ID,
		}
		next.ServeHTTP(w, r.WithContext(internal.ContextWithPrincipal(r.Context(), principal)))
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.Cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
