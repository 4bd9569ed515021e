package oracle

import (
	"sync"
	"time"
)

// CircuitState is the state of a Breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// Breaker is a simple failure-counting circuit breaker guarding an
// oracle client. It trips open after maxFailures consecutive failures
// and probes again after resetTime, same shape as the HTTP-layer
// circuit breaker this is adapted from, but usable around any call.
type Breaker struct {
	mu          sync.Mutex
	maxFailures int
	resetTime   time.Duration
	failures    int
	lastFailure time.Time
	state       CircuitState
}

// NewBreaker creates a Breaker that opens after maxFailures
// consecutive failures and allows a half-open probe after resetTime.
func NewBreaker(maxFailures int, resetTime time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		resetTime:   resetTime,
		state:       CircuitClosed,
	}
}

// Allow reports whether a call should proceed. It transitions an open
// breaker to half-open once resetTime has elapsed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitOpen {
		if time.Since(b.lastFailure) > b.resetTime {
			b.state = CircuitHalfOpen
			return true
		}
		return false
	}
	return true
}

// RecordFailure registers a failed call.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = time.Now()
	if b.failures >= b.maxFailures {
		b.state = CircuitOpen
	}
}

// RecordSuccess registers a successful call, closing the breaker.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.state = CircuitClosed
}

// State returns the current circuit state, mostly for tests and
// metrics.
func (b *Breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
