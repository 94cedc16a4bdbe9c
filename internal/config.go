package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Payment       PaymentConfig       `mapstructure:"payment"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	HTTPSPort         int           `mapstructure:"https_port"`
	RedirectPort      int           `mapstructure:"redirect_port"`
	TrustedHost       string        `mapstructure:"trusted_host"`
	TLSCertFile       string        `mapstructure:"tls_cert_file"`
	TLSKeyFile        string        `mapstructure:"tls_key_file"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	TrustProxy        bool          `mapstructure:"trust_proxy"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type SecurityConfig struct {
	BCryptCost        int           `mapstructure:"bcrypt_cost"`
	SessionCookieName string        `mapstructure:"session_cookie_name"`
	SessionCookieAge  time.Duration `mapstructure:"session_cookie_age"`
	InactivityWindow  time.Duration `mapstructure:"inactivity_window"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	RateLimitMax      int           `mapstructure:"rate_limit_max"`
}

type PaymentConfig struct {
	// AllowReopen permits staff to move a Completed or Failed payment back
	// to any other status. The portal has historically allowed this.
	AllowReopen bool `mapstructure:"allow_reopen"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- DEFAULTS -----------------

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPSPort:         3443,
			RedirectPort:      3000,
			TrustedHost:       "localhost",
			AllowedOrigins:    "https://localhost:3001",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			RequestTimeout:    5 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Security: SecurityConfig{
			BCryptCost:        10,
			SessionCookieName: "sid",
			SessionCookieAge:  time.Hour,
			InactivityWindow:  10 * time.Minute,
			RateLimitWindow:   15 * time.Minute,
			RateLimitMax:      200,
		},
		Payment: PaymentConfig{
			AllowReopen: true,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	// The gateway never serves plaintext business traffic. Refuse to start
	// without usable transport security material.
	if c.TLSCertFile == "" || c.TLSKeyFile == "" {
		return errors.New("tls_cert_file and tls_key_file are required")
	}
	if _, err := os.Stat(c.TLSCertFile); err != nil {
		return fmt.Errorf("tls cert %s: %w", c.TLSCertFile, err)
	}
	if _, err := os.Stat(c.TLSKeyFile); err != nil {
		return fmt.Errorf("tls key %s: %w", c.TLSKeyFile, err)
	}

	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	if c.InactivityWindow <= 0 {
		return errors.New("inactivity_window must be positive")
	}
	if c.RateLimitWindow <= 0 || c.RateLimitMax <= 0 {
		return errors.New("rate limit window and max must be positive")
	}
	if c.SessionCookieName == "" {
		return errors.New("session_cookie_name is required")
	}
	return nil
}
