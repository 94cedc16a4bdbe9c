package internal

import (
	"context"
	"time"
)

// PrincipalKind classifies the owner of a session. Anonymous requests carry
// no principal at all.
type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalStaff PrincipalKind = "staff"
)

// Principal is the identity a validated session resolves to. For users the ID
// is the 13-digit identity number, for staff the email address.
type Principal struct {
	ID        string
	Kind      PrincipalKind
	SessionID string
}

type ctxKey string

const contextPrincipalKey ctxKey = "principal"

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(contextPrincipalKey).(*Principal)
	return p, ok && p != nil
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, p)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
