package github

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when upstream calls are suspended after repeated failures
var ErrCircuitOpen = errors.New("github upstream suspended after repeated failures")

// circuitState represents the state of the upstream circuit breaker
type circuitState int

const (
	stateClosed   circuitState = iota // Normal operation
	stateOpen                         // Upstream failing, calls suspended
	stateHalfOpen                     // One trial call allowed
)

func (s circuitState) String() string {
	switch s {
	case stateOpen:
		return "OPEN (failing)"
	case stateHalfOpen:
		return "HALF-OPEN (testing)"
	default:
		return "CLOSED (recovered)"
	}
}

// circuitBreaker stops calling GitHub after consecutive failures.
// A rate-limited failure opens it immediately until the quota resets.
type circuitBreaker struct {
	now              func() time.Time
	openUntil        time.Time
	lastRateLimitErr error
	failures         int
	failureThreshold int
	cooldown         time.Duration
	state            circuitState
	mu               sync.Mutex
}

func newCircuitBreaker(threshold int, cooldown time.Duration, now func() time.Time) *circuitBreaker {
	return &circuitBreaker{
		failureThreshold: threshold,
		cooldown:         cooldown,
		now:              now,
	}
}

// canAttempt returns nil when a call may go out. While open it returns the
// stored rate-limit error, or ErrCircuitOpen for ordinary failures.
func (cb *circuitBreaker) canAttempt() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case stateOpen:
		if !cb.now().Before(cb.openUntil) {
			cb.state = stateHalfOpen
			log.Printf("[GITHUB-CIRCUIT] Circuit is now %s", cb.state)
			return nil
		}
		if cb.lastRateLimitErr != nil {
			return cb.lastRateLimitErr
		}
		return fmt.Errorf("%w (failures: %d, next retry: %s)",
			ErrCircuitOpen, cb.failures, cb.openUntil.UTC().Format("15:04:05"))
	default:
		return nil
	}
}

func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != stateClosed {
		log.Printf("[GITHUB-CIRCUIT] Circuit is now %s", stateClosed)
	}
	cb.state = stateClosed
	cb.failures = 0
	cb.lastRateLimitErr = nil
	cb.openUntil = time.Time{}
}

func (cb *circuitBreaker) recordFailure(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	now := cb.now()

	if reset, ok := RateLimitReset(err); ok && reset.After(now) {
		cb.open(reset, err)
		return
	}
	if IsRateLimited(err) {
		cb.open(now.Add(cb.cooldown), err)
		return
	}

	// a failed trial call reopens straight away
	if cb.state == stateHalfOpen || cb.failures >= cb.failureThreshold {
		cb.open(now.Add(cb.cooldown), nil)
		return
	}

	log.Printf("[GITHUB-CIRCUIT] Failure %d/%d: %v", cb.failures, cb.failureThreshold, err)
}

// open must be called with the lock held
func (cb *circuitBreaker) open(until time.Time, rateLimitErr error) {
	wasOpen := cb.state == stateOpen
	cb.state = stateOpen
	cb.openUntil = until
	cb.lastRateLimitErr = rateLimitErr
	if !wasOpen {
		log.Printf("[GITHUB-CIRCUIT] Opening circuit after %d consecutive failures until %s",
			cb.failures, until.UTC().Format(time.RFC3339))
	}
}
