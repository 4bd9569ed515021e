// Package ratelimit throttles client requests with a token bucket per
// client IP, backstopped by an optional Redis-backed counter as the
// authoritative limiter across multiple server instances.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Result is the outcome of a single Allow check, carrying enough to
// populate X-RateLimit-* and Retry-After response headers.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	RetryIn   time.Duration
}

// Limiter is a per-IP token bucket, the in-memory limiter used when no
// shared counter service is configured.
type Limiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	cleanup  time.Duration
	stop     chan struct{}
}

// NewLimiter builds a Limiter allowing rps requests per second per IP,
// with burst capacity burst.
func NewLimiter(rps float64, burst int) *Limiter {
	l := &Limiter{
		visitors: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		cleanup:  5 * time.Minute,
		stop:     make(chan struct{}),
	}
	go l.cleanupVisitors()
	return l
}

// Allow reports whether the client identified by key may proceed.
func (l *Limiter) Allow(key string) Result {
	limiter := l.visitor(key)
	if limiter.Allow() {
		return Result{Allowed: true, Limit: l.burst, Remaining: int(limiter.Tokens())}
	}
	return Result{Allowed: false, Limit: l.burst, Remaining: 0, RetryIn: time.Second}
}

func (l *Limiter) visitor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.visitors[key]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.visitors[key] = limiter
	}
	return limiter
}

func (l *Limiter) cleanupVisitors() {
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			for key, limiter := range l.visitors {
				if limiter.TokensAt(time.Now()) == float64(l.burst) {
					delete(l.visitors, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// Close stops the cleanup goroutine.
func (l *Limiter) Close() {
	close(l.stop)
}

// ClientKey extracts the client's identifying key from a request:
// X-Forwarded-For, then X-Real-IP, then RemoteAddr with the port
// stripped.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
