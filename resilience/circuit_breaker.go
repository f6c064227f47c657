// Package resilience provides the fault-tolerance primitives guarding the
// external analysis services: a circuit breaker and an exponential-backoff
// retry policy with retryability classification.
package resilience

import (
	"sync"
	"time"

	"github.com/evolvedtroglodyte/TheraBridge-sub011/errors"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed allows requests to pass through.
	StateClosed State = iota
	// StateOpen blocks all requests.
	StateOpen
	// StateHalfOpen allows limited probe requests to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a circuit breaker.
type CircuitBreakerConfig struct {
	// Service identifies the guarded service for errors/metrics/logging.
	Service string
	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold int
	// OpenTimeout is how long to wait before transitioning from open to half-open.
	OpenTimeout time.Duration
	// HalfOpenSuccesses is the number of consecutive half-open successes
	// required to close the circuit again.
	HalfOpenSuccesses int
	// OnStateChange is called when state changes.
	OnStateChange func(service string, from, to State)
}

// DefaultCircuitBreakerConfig returns sensible defaults.
func DefaultCircuitBreakerConfig(service string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Service:           service,
		FailureThreshold:  5,
		OpenTimeout:       60 * time.Second,
		HalfOpenSuccesses: 2,
	}
}

// CircuitBreaker implements the circuit breaker pattern.
// It prevents cascading failures by rejecting calls while a service is
// unhealthy. One breaker exists per guarded service for the lifetime of the
// process; counters tolerate interleaved updates from concurrent sessions.
//
// States:
//   - Closed: normal operation, calls pass through
//   - Open: service is unhealthy, calls are rejected immediately
//   - Half-Open: testing recovery, limited probe calls allowed
//
// The breaker only gates admission of new calls; it never interrupts a
// call that has already been admitted.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu             sync.Mutex
	state          State
	failures       int
	successes      int
	halfOpenCalls  int
	lastTransition time.Time
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = 60 * time.Second
	}
	if config.HalfOpenSuccesses <= 0 {
		config.HalfOpenSuccesses = 2
	}

	return &CircuitBreaker{
		config:         config,
		state:          StateClosed,
		lastTransition: time.Now(),
	}
}

// Allow reports whether a new call may proceed. It returns a
// *errors.CircuitOpenError when the circuit is open and the cool-down has
// not yet elapsed. Callers that are admitted must report the final result
// via RecordSuccess or RecordFailure.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		return nil
	case StateHalfOpen:
		if cb.halfOpenCalls < cb.config.HalfOpenSuccesses {
			cb.halfOpenCalls++
			return nil
		}
		return &errors.CircuitOpenError{Service: cb.config.Service, Failures: cb.failures}
	default:
		return &errors.CircuitOpenError{Service: cb.config.Service, Failures: cb.failures}
	}
}

// RecordSuccess records the final success of an admitted call.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.HalfOpenSuccesses {
			cb.toState(StateClosed)
		}
	}
}

// RecordFailure records the final failure of an admitted call.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++

	switch cb.currentState() {
	case StateClosed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.toState(StateOpen)
		}
	case StateHalfOpen:
		cb.toState(StateOpen)
	}
}

// Execute runs fn through the breaker, recording its result.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.Allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil {
		cb.RecordFailure()
	} else {
		cb.RecordSuccess()
	}
	return err
}

// State returns the current circuit breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// Failures returns the current consecutive-failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Service returns the name of the guarded service.
func (cb *CircuitBreaker) Service() string {
	return cb.config.Service
}

// Reset returns the circuit breaker to the closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.toState(StateClosed)
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenCalls = 0
}

// currentState returns the current state, applying the open-timeout
// transition. Callers must hold cb.mu.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen {
		if time.Since(cb.lastTransition) >= cb.config.OpenTimeout {
			cb.toState(StateHalfOpen)
		}
	}
	return cb.state
}

// toState transitions to a new state. Callers must hold cb.mu.
func (cb *CircuitBreaker) toState(to State) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to
	cb.lastTransition = time.Now()

	switch to {
	case StateClosed:
		cb.failures = 0
		cb.successes = 0
		cb.halfOpenCalls = 0
	case StateHalfOpen, StateOpen:
		cb.successes = 0
		cb.halfOpenCalls = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Service, from, to)
	}
}
