// Package async runs fire-and-forget work outside the request lifecycle.
package async

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/observability"
)

// ErrDispatcherClosed is returned by Go once Drain has started.
var ErrDispatcherClosed = errors.New("dispatcher is draining")

// Dispatcher runs detached tasks. Each task gets its own timeout derived from
// context.Background, so a cancelled request never cancels work it dispatched.
type Dispatcher struct {
	timeout time.Duration
	metrics *observability.Metrics

	mu       sync.Mutex
	closed   bool
	inFlight int
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher whose tasks are bounded by timeout.
func NewDispatcher(timeout time.Duration, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{timeout: timeout, metrics: metrics}
}

// Go starts fn in the background and returns immediately.
// Errors and panics from fn are logged, never returned.
// Returns ErrDispatcherClosed if the dispatcher is draining; the task is dropped.
func (d *Dispatcher) Go(taskName string, fn func(ctx context.Context) error) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.metrics.TaskDropped()
		log.Warn().Str("task", taskName).Msg("dispatcher draining, task dropped")
		return ErrDispatcherClosed
	}
	d.inFlight++
	d.wg.Add(1)
	d.mu.Unlock()

	d.metrics.TaskStarted()
	go d.run(taskName, fn)
	return nil
}

func (d *Dispatcher) run(taskName string, fn func(ctx context.Context) error) {
	var err error

	defer func() {
		d.mu.Lock()
		d.inFlight--
		d.mu.Unlock()
		d.metrics.TaskFinished(err == nil)
		d.wg.Done()
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			log.Error().
				Str("task", taskName).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("background task panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err = fn(ctx); err != nil {
		log.Error().Err(err).Str("task", taskName).Msg("background task failed")
	}
}

// InFlight returns the number of tasks currently running.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight
}

// Drain stops accepting new tasks and waits for running ones to finish.
// Returns ctx.Err() if ctx expires first; those tasks keep running until
// their own timeout but are no longer awaited.
func (d *Dispatcher) Drain(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		log.Warn().Int("in_flight", d.InFlight()).Msg("drain deadline reached with tasks still running")
		return ctx.Err()
	}
}
