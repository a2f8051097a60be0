package llm

import (
	"sync"
	"time"
)

// CircuitState is the health of one backend
type CircuitState string

// Circuit states
const (
	CircuitHealthy  CircuitState = "healthy"
	CircuitDegraded CircuitState = "degraded"
	CircuitOpen     CircuitState = "unavailable"
)

// Breaker defaults
const (
	DefaultFailureThreshold = 3
	DefaultCooldown         = 300 * time.Second
)

// CircuitBreaker tracks consecutive failures of a backend. It opens after
// threshold failures; once cooldown has passed since the last failure it
// half-opens as degraded with threshold-1 failures, so one more failure
// reopens it. Each success forgives one failure.
type CircuitBreaker struct {
	mu          sync.Mutex
	threshold   int
	cooldown    time.Duration
	failures    int
	lastFailure time.Time
	state       CircuitState
	now         func() time.Time
}

// NewCircuitBreaker creates a breaker. Non-positive arguments take the defaults.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		state:     CircuitHealthy,
		now:       time.Now,
	}
}

// RecordFailure counts a failed call
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = b.now()
	if b.failures >= b.threshold {
		b.state = CircuitOpen
	}
}

// RecordSuccess forgives one failure and closes the circuit at zero
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = max(0, b.failures-1)
	if b.failures == 0 {
		b.state = CircuitHealthy
		b.lastFailure = time.Time{}
	}
}

// Allow reports whether calls may be sent
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != CircuitOpen {
		return true
	}
	if b.now().Sub(b.lastFailure) > b.cooldown {
		b.state = CircuitDegraded
		b.failures = b.threshold - 1
		return true
	}
	return false
}

// State returns the current state and failure count
func (b *CircuitBreaker) State() (CircuitState, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.failures
}
