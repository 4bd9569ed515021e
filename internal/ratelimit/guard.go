package ratelimit

import "context"

// Guard is whichever limiter backs a deployment: a shared
// CounterLimiter when Redis is configured, or the in-memory Limiter
// otherwise. The shared counter is authoritative when available; the
// in-memory bucket is the single-instance fallback.
type Guard struct {
	shared *CounterLimiter
	local  *Limiter
}

// NewGuard builds a Guard. shared may be nil to run purely on local.
func NewGuard(shared *CounterLimiter, local *Limiter) *Guard {
	return &Guard{shared: shared, local: local}
}

// Allow checks key against the shared counter first, falling back to
// the local bucket on a Redis error or when no shared counter is
// configured.
func (g *Guard) Allow(ctx context.Context, key string) Result {
	if g.shared != nil {
		if res, err := g.shared.Allow(ctx, key); err == nil {
			return res
		}
	}
	return g.local.Allow(key)
}
