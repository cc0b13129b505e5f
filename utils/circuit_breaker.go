package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned when the breaker short-circuits a call.
var ErrBreakerOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// CircuitBreaker guards calls to a flaky external collaborator. It
// trips open after a run of consecutive failures, short-circuits while
// open, and lets a single probe through after the cooldown.
type CircuitBreaker struct {
	name         string
	maxFailures  uint32
	cooldown     time.Duration
	now          func() time.Time

	mutex    sync.Mutex
	state    State
	failures uint32
	openedAt time.Time
	probing  bool
}

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:        name,
		maxFailures: 5,
		cooldown:    30 * time.Second,
		now:         time.Now,
		state:       StateClosed,
	}
}

// WithThreshold overrides the consecutive-failure count that trips the
// breaker.
func (cb *CircuitBreaker) WithThreshold(n uint32) *CircuitBreaker {
	if n > 0 {
		cb.maxFailures = n
	}
	return cb
}

// WithCooldown overrides how long the breaker stays open before
// allowing a probe.
func (cb *CircuitBreaker) WithCooldown(d time.Duration) *CircuitBreaker {
	if d > 0 {
		cb.cooldown = d
	}
	return cb
}

// Execute runs req unless the breaker is open. A context error counts
// against the caller, not the breaker.
func (cb *CircuitBreaker) Execute(ctx context.Context, req func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !cb.allow() {
		return ErrBreakerOpen
	}

	err := req()
	cb.record(err == nil)
	return err
}

// State reports the breaker's current state, accounting for cooldown
// expiry.
func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.currentState()
}

func (cb *CircuitBreaker) allow() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.currentState() {
	case StateOpen:
		return false
	case StateHalfOpen:
		// A single probe decides the breaker's fate; everything else
		// waits for its verdict.
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return true
	}
}

func (cb *CircuitBreaker) record(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.probing = false

	if success {
		cb.failures = 0
		cb.state = StateClosed
		return
	}

	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = StateOpen
		cb.openedAt = cb.now()
	}
}

func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.cooldown {
		cb.state = StateHalfOpen
	}
	return cb.state
}
