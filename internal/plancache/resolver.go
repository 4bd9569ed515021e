package plancache

import (
	"context"

	"github.com/tabiplan/backend/internal/models"
)

// Resolver memoizes plan generation behind fingerprints, serializing
// concurrent requests for the same fingerprint so only one of them
// actually generates.
type Resolver struct {
	cache *Cache
	locks *keyedMutex
}

// NewResolver builds a Resolver over cache.
func NewResolver(cache *Cache) *Resolver {
	return &Resolver{cache: cache, locks: newKeyedMutex()}
}

// HealthCheck verifies the backing cache's Redis tier is reachable.
func (r *Resolver) HealthCheck(ctx context.Context) error {
	return r.cache.HealthCheck(ctx)
}

// Generator produces a fresh Entry for a request that either bypassed
// the cache or missed it.
type Generator func(ctx context.Context, req models.TripRequest) (*Entry, error)

// Resolve returns a cached entry when one exists for req's
// fingerprint, otherwise calls generate exactly once per fingerprint
// among concurrent callers and caches the result. Requests that
// bypass the cache (saved ids or a content context) always call
// generate directly and are never stored. The bool result reports
// whether the entry came from the cache.
func (r *Resolver) Resolve(ctx context.Context, req models.TripRequest, generate Generator) (*Entry, bool, error) {
	if Bypasses(req) {
		entry, err := generate(ctx, req)
		return entry, false, err
	}

	fingerprint := Fingerprint(req)

	if entry, ok := r.cache.Get(ctx, fingerprint); ok {
		return entry, true, nil
	}

	unlock := r.locks.Lock(fingerprint)
	defer unlock()

	if entry, ok := r.cache.Get(ctx, fingerprint); ok {
		return entry, true, nil
	}

	entry, err := generate(ctx, req)
	if err != nil {
		return nil, false, err
	}

	r.cache.Set(ctx, fingerprint, *entry)
	return entry, false, nil
}
