// Package resilience provides a circuit breaker for the backing stores, so a
// dead Redis fails requests fast instead of stacking up dial timeouts.
package resilience

import (
	"fmt"
	"sync"
	"time"
)

// State of a breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config tunes when a breaker trips and recovers.
type Config struct {
	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold int
	// RecoveryTimeout is how long an open breaker rejects before probing.
	RecoveryTimeout time.Duration
	// SuccessThreshold consecutive probe successes close it again.
	SuccessThreshold int
}

// DefaultConfig trips after five straight failures and probes every ten
// seconds.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		RecoveryTimeout:  10 * time.Second,
		SuccessThreshold: 2,
	}
}

// ErrOpen is returned while the breaker rejects calls.
type ErrOpen struct {
	Name string
}

func (e *ErrOpen) Error() string {
	return fmt.Sprintf("%s circuit breaker is open", e.Name)
}

// Breaker is a consecutive-failure circuit breaker.
type Breaker struct {
	name string
	cfg  Config

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	nextAttempt time.Time
}

// NewBreaker builds a breaker, filling zero config fields with defaults.
func NewBreaker(name string, cfg Config) *Breaker {
	def := DefaultConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = def.RecoveryTimeout
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	return &Breaker{name: name, cfg: cfg}
}

// Call runs fn unless the breaker is open. fn's error both trips the breaker
// and is returned unchanged.
func (b *Breaker) Call(fn func() error) error {
	if !b.allow() {
		return &ErrOpen{Name: b.name}
	}
	err := fn()
	b.record(err == nil)
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen {
		if time.Now().Before(b.nextAttempt) {
			return false
		}
		b.state = StateHalfOpen
		b.successes = 0
	}
	return true
}

func (b *Breaker) record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !ok {
		b.failures++
		b.successes = 0
		if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
			b.state = StateOpen
			b.nextAttempt = time.Now().Add(b.cfg.RecoveryTimeout)
		}
		return
	}

	b.failures = 0
	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.state = StateClosed
		}
	case StateOpen:
		// A success can only come from a probe, which allow() moved to
		// half-open; nothing to do here.
	}
}

// State reports the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
