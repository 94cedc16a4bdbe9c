// Package session implements the server-side session lifecycle: issue on
// login, refresh on activity, destroy on logout or once the inactivity
// window elapses. All mutation funnels through the Manager so the store is
// the single writer.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/session"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Store persists sessions keyed by opaque id. Refresh must be atomic per
// key: the expiry check and the last-activity bump happen as one operation
// so two concurrent requests can never both resurrect an elapsed session.
type Store interface {
	Create(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id string) (*session.Session, error)
	// Refresh sets last_activity to now iff the stored value is at or after
	// cutoff. It reports whether the row was updated.
	Refresh(ctx context.Context, id string, cutoff, now time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

type Manager struct {
	store  Store
	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(store Store, window time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// NewToken returns a 256-bit hex-encoded session identifier from the
// system CSPRNG.
func NewToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Issue creates a fresh Active session for the given principal.
func (m *Manager) Issue(ctx context.Context, principalID string, kind internal.PrincipalKind) (*session.Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := m.now()
	s := &session.Session{
		ID:            token,
		PrincipalID:   principalID,
		PrincipalKind: string(kind),
		LastActivity:  now,
		CreatedAt:     now,
	}

	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	m.logger.Info("session issued", "principal_kind", kind)
	return s, nil
}

// Touch drives the per-request state transition. An Active session inside
// the inactivity window is refreshed and returned; an elapsed one is
// destroyed and reported as ErrExpired; an unknown id is ErrNotFound.
// A destroyed session behaves as absent on the next request, never Active.
func (m *Manager) Touch(ctx context.Context, id string) (*session.Session, error) {
	now := m.now()
	cutoff := now.Add(-m.window)

	refreshed, err := m.store.Refresh(ctx, id, cutoff, now)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	if refreshed {
		s, err := m.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load session after refresh: %w", err)
		}
		return s, nil
	}

	// Refresh declined: either the id is unknown or the window elapsed.
	if _, err := m.store.Get(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if err := m.store.Delete(ctx, id); err != nil {
		m.logger.Error("failed to destroy expired session", "error", err)
	}
	m.logger.Info("session expired", "idle_window", m.window)
	return nil, ErrExpired
}

// Destroy removes a session unconditionally (logout).
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// Window exposes the configured inactivity window.
func (m *Manager) Window() time.Duration {
	return m.window
}
