// Package resilience guards provider HTTP calls with a circuit breaker and
// bounded retries, and reports each provider's outcomes to a shared Registry.
package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// StateChangeFunc observes a breaker moving between states.
type StateChangeFunc func(name string, from, to gobreaker.State)

// CircuitBreakerConfig configures the breaker in front of one provider.
type CircuitBreakerConfig struct {
	Name string

	// MaxRequests is the number of trial requests let through while half-open.
	MaxRequests uint32

	// Interval resets the closed-state counts periodically. Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// ReadyToTrip decides when a closed breaker opens. Nil means DefaultReadyToTrip.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// OnStateChange runs after the client has logged and recorded a transition.
	OnStateChange StateChangeFunc
}

// DefaultCircuitBreakerConfig allows one trial request after a minute open.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: DefaultReadyToTrip,
	}
}

// DefaultReadyToTrip opens the breaker once at least five calls were made and
// half or more of them failed.
func DefaultReadyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < 5 {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
}

// Transition is one recorded breaker state change.
type Transition struct {
	From gobreaker.State
	To   gobreaker.State
	At   time.Time
}

// chainStateChange calls each non-nil hook in order.
func chainStateChange(hooks ...StateChangeFunc) StateChangeFunc {
	return func(name string, from, to gobreaker.State) {
		for _, h := range hooks {
			if h != nil {
				h(name, from, to)
			}
		}
	}
}

// NewCircuitBreaker builds a breaker from cfg.
func NewCircuitBreaker[T any](cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[T] {
	readyToTrip := cfg.ReadyToTrip
	if readyToTrip == nil {
		readyToTrip = DefaultReadyToTrip
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: readyToTrip,
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}
