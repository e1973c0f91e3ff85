package briefing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/route"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
)

// DefaultGenerationTimeout bounds one shared generation.
const DefaultGenerationTimeout = 30 * time.Second

// GenerateFunc produces a result for a route and its observations.
type GenerateFunc[T any] func(ctx context.Context, obs weather.Observations, rt *route.Route) (T, error)

// Coalescer keeps a single in-flight slot. A call whose key equals the
// pending key waits on that generation instead of starting another.
//
// The slot is not a cache: it is cleared as soon as the generation settles,
// and a call with a different key replaces it without cancelling the earlier
// generation.
type Coalescer[T any] struct {
	timeout time.Duration
	logger  zerolog.Logger

	mu      sync.Mutex
	pending *pendingCall[T]

	started   atomic.Int64
	coalesced atomic.Int64
}

type pendingCall[T any] struct {
	key  Key
	done chan struct{}
	val  T
	err  error
}

// NewCoalescer creates a coalescer. A non-positive timeout uses
// DefaultGenerationTimeout.
func NewCoalescer[T any](timeout time.Duration, logger zerolog.Logger) *Coalescer[T] {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &Coalescer[T]{timeout: timeout, logger: logger}
}

// Do returns the result of gen for key, sharing an in-flight generation with
// any concurrent call for the same key.
//
// The generation runs on a context detached from ctx and bounded by the
// coalescer timeout, so a caller that gives up does not cancel it for the
// others. Such a caller gets ctx.Err().
func (c *Coalescer[T]) Do(ctx context.Context, key Key, obs weather.Observations, rt *route.Route, gen GenerateFunc[T]) (T, error) {
	c.mu.Lock()
	call := c.pending
	if call != nil && call.key == key {
		c.mu.Unlock()
		c.coalesced.Add(1)
		c.logger.Debug().Str("key", key.String()).Msg("joining in-flight summary request")
		return wait(ctx, call)
	}

	call = &pendingCall[T]{key: key, done: make(chan struct{})}
	c.pending = call
	c.mu.Unlock()
	c.started.Add(1)

	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	go func() {
		defer cancel()
		defer c.settle(call)
		defer func() {
			if r := recover(); r != nil {
				call.err = fmt.Errorf("summary generation panicked: %v", r)
			}
		}()

		call.val, call.err = gen(genCtx, obs, rt)
	}()

	return wait(ctx, call)
}

// settle publishes the result and clears the slot if it still holds call.
func (c *Coalescer[T]) settle(call *pendingCall[T]) {
	c.mu.Lock()
	if c.pending == call {
		c.pending = nil
	}
	c.mu.Unlock()
	close(call.done)
}

func wait[T any](ctx context.Context, call *pendingCall[T]) (T, error) {
	select {
	case <-call.done:
		return call.val, call.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Pending reports whether a generation is in flight.
func (c *Coalescer[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// CoalescerStats counts generations started and calls that joined one.
type CoalescerStats struct {
	Started   int64 `json:"started"`
	Coalesced int64 `json:"coalesced"`
	InFlight  bool  `json:"inFlight"`
}

// Stats returns lifetime counters and whether a generation is pending.
func (c *Coalescer[T]) Stats() CoalescerStats {
	return CoalescerStats{
		Started:   c.started.Load(),
		Coalesced: c.coalesced.Load(),
		InFlight:  c.Pending(),
	}
}
