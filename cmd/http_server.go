package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/internal/auth"
	authpostgres "github.com/frahmantamala/payment-portal/internal/auth/postgres"
	"github.com/frahmantamala/payment-portal/internal/core/events"
	"github.com/frahmantamala/payment-portal/internal/payment"
	paymentpostgres "github.com/frahmantamala/payment-portal/internal/payment/postgres"
	"github.com/frahmantamala/payment-portal/internal/session"
	"github.com/frahmantamala/payment-portal/internal/transport/middleware"
	"github.com/frahmantamala/payment-portal/internal/transport/rest"
	"github.com/frahmantamala/payment-portal/internal/user"
	userpostgres "github.com/frahmantamala/payment-portal/internal/user/postgres"
	"github.com/frahmantamala/payment-portal/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTPS server",
	Long:  `Start the HTTPS gateway plus the plaintext redirect listener.`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	cfg := deps.Config.Server

	httpsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPSPort),
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	redirectServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.RedirectPort),
		Handler:      redirectHandler(cfg.TrustedHost, cfg.HTTPSPort),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 2)
	go func() {
		deps.Logger.Info("starting HTTPS server", "address", httpsServer.Addr)
		serverErrChan <- httpsServer.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	}()
	go func() {
		deps.Logger.Info("starting redirect server", "address", redirectServer.Addr)
		serverErrChan <- redirectServer.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpsServer.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := redirectServer.Shutdown(ctx); err != nil {
			deps.Logger.Error("redirect server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

// redirectHandler upgrades plaintext requests to the secure endpoint. It
// carries no business logic at all.
func redirectHandler(trustedHost string, httpsPort int) http.Handler {
	target := fmt.Sprintf("https://%s", trustedHost)
	if httpsPort != 443 {
		target = fmt.Sprintf("https://%s:%d", trustedHost, httpsPort)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target+r.URL.RequestURI(), http.StatusMovedPermanently)
	})
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config

	bus := events.NewEventBus(deps.Logger)
	registerAuditSubscribers(bus, deps.Logger)

	sessionStore := session.NewGormStore(deps.Gorm)
	sessionManager := session.NewManager(sessionStore, cfg.Security.InactivityWindow, deps.Logger)

	authService := auth.NewService(
		authpostgres.NewUserRepository(deps.Gorm),
		authpostgres.NewStaffRepository(deps.Gorm),
		sessionManager,
		cfg.Security.BCryptCost,
		deps.Logger,
	)
	authHandler := auth.NewHandler(authService, sessionManager, auth.CookieConfig{
		Name:   cfg.Security.SessionCookieName,
		MaxAge: cfg.Security.SessionCookieAge,
	})

	userService := user.NewService(userpostgres.NewUserRepository(deps.Gorm), deps.Logger)
	userHandler := user.NewHandler(userService)

	paymentService := payment.NewService(
		paymentpostgres.NewPaymentRepository(deps.Gorm),
		bus,
		cfg.Payment.AllowReopen,
		deps.Logger,
	)
	paymentHandler := payment.NewHandler(paymentService)

	rateLimiter := middleware.NewRateLimiter(
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitMax,
		cfg.Server.TrustProxy,
		deps.Logger,
	)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, authHandler, userHandler, paymentHandler, rest.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimiter:    rateLimiter,
	}, deps.Logger)
}

func registerAuditSubscribers(bus *events.EventBus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypePaymentCreated, func(ctx context.Context, e events.Event) error {
		lg.Info("audit: payment created", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypePaymentStatusChanged, func(ctx context.Context, e events.Event) error {
		lg.Info("audit: payment status changed", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
