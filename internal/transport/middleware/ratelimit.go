package middleware

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter bounds request volume per client IP inside a rolling window.
// Increment-and-check happens under the mutex so concurrent requests from
// one client cannot slip past the threshold together.
type RateLimiter struct {
	mu         sync.Mutex
	window     time.Duration
	max        int
	trustProxy bool
	clients    map[string]*clientWindow
	logger     *slog.Logger
	now        func() time.Time
}

type clientWindow struct {
	count       int
	windowStart time.Time
}

func NewRateLimiter(window time.Duration, max int, trustProxy bool, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		window:     window,
		max:        max,
		trustProxy: trustProxy,
		clients:    make(map[string]*clientWindow),
		logger:     logger,
		now:        time.Now,
	}
}

// Allow records one request for the client and reports whether it is still
// inside the budget.
func (l *RateLimiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	cw, ok := l.clients[clientIP]
	if !ok || now.Sub(cw.windowStart) >= l.window {
		cw = &clientWindow{windowStart: now}
		l.clients[clientIP] = cw
	}

	cw.count++

	if len(l.clients) > 10000 {
		l.prune(now)
	}

	return cw.count <= l.max
}

// prune drops windows that have already rolled over. Caller holds the lock.
func (l *RateLimiter) prune(now time.Time) {
	for ip, cw := range l.clients {
		if now.Sub(cw.windowStart) >= l.window {
			delete(l.clients, ip)
		}
	}
}

// Middleware rejects over-budget clients with 429. Authenticated and
// anonymous traffic share one budget.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)

		if !l.Allow(ip) {
			l.logger.Warn("rate limit exceeded", "client_ip", ip, "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"error":"Too many requests, please try again later"}`)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP honours X-Forwarded-For only when the deployment says a trusted
// proxy sits in front; otherwise the socket address wins.
func (l *RateLimiter) clientIP(r *http.Request) string {
	if l.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			parts := strings.Split(fwd, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
