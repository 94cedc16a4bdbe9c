package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/payment-portal/internal/auth"
	"github.com/frahmantamala/payment-portal/internal/payment"
	"github.com/frahmantamala/payment-portal/internal/transport/middleware"
	"github.com/frahmantamala/payment-portal/internal/transport/swagger"
	"github.com/frahmantamala/payment-portal/internal/user"
)

// RouterOptions carries the transport-level knobs the route pipeline needs.
type RouterOptions struct {
	AllowedOrigins string
	RequestTimeout time.Duration
	RateLimiter    *middleware.RateLimiter
}

// RegisterAllRoutes wires the full pipeline: recovery → request id → CORS →
// security headers → logging → sanitizer → rate limiter → session, then the
// route table with its kind guards.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, paymentHandler *payment.Handler, opts RouterOptions, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.LoggingMiddleware(logger))
	if opts.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}
	router.Use(middleware.Sanitize(logger))
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware)
	}
	router.Use(authHandler.SessionMiddleware)

	// Health and API docs
	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Open routes. /register-staff, /users and POST /payments carry no
	// session requirement: that matches the portal's long-standing surface.
	router.Post("/register-staff", authHandler.RegisterStaff)
	router.Post("/login", authHandler.Login)
	router.Post("/staff-login", authHandler.StaffLogin)
	router.Get("/users", userHandler.ListUsers)
	router.Post("/payments", paymentHandler.CreatePayment)

	// Staff-gated routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireStaff)
		r.Post("/register", authHandler.Register)
		r.Get("/staffpayments", paymentHandler.GetAllPayments)
		r.Patch("/payments/{id}", paymentHandler.UpdateStatus)
	})

	// User-gated routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/payments", paymentHandler.GetUserPayments)
	})

	// Any live session may log itself out
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Post("/logout", authHandler.Logout)
	})
}
