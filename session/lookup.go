/*
lookup.go - Existing-period lookup coordinator

PURPOSE:
  Resolves "does a saved attendance month already exist for this selection?"
  against a Finder that may be a local store or a remote API. The lookup is
  the one asynchronous concern in the attendance workflow, and it carries an
  ordering guarantee: if the selection changes while a lookup is in flight,
  the stale result must never be applied.

ORDERING:
  Every Lookup bumps a sequence number and cancels the previous in-flight
  context. A completion whose sequence no longer matches the current one is
  delivered as ErrStaleLookup and its payload discarded. Last selection wins;
  out-of-order network responses cannot overwrite a newer period's data.

FAILURE:
  A failed lookup degrades to "not found" (fresh defaults). The form is never
  left indeterminate, and no retry is attempted here.

SEE ALSO:
  - session.go: Applies lookup results to the dialog state machine
*/
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/helioworks/payroll-engine/attendance"
)

// Finder answers existing-period lookups. Implemented by attendance.MonthStore
// and by the remote client. Absence is signaled with ErrPeriodNotFound, not a
// nil-nil return.
type Finder interface {
	Find(ctx context.Context, key attendance.PeriodKey) (*attendance.Month, error)
}

// Result is the outcome of one lookup.
//
// Month is nil when no saved record covers the selection, including the
// lookup-failure fallback. Err carries ErrStaleLookup for superseded lookups
// (discard everything) or the underlying failure when the not-found fallback
// was applied (informational; Month is already nil).
type Result struct {
	Key   attendance.PeriodKey
	Month *attendance.Month
	Err   error
}

// Stale reports whether this result was superseded and must be ignored.
func (r Result) Stale() bool {
	return errors.Is(r.Err, attendance.ErrStaleLookup)
}

// Coordinator serializes lookups so only the latest selection's result is
// ever applied.
type Coordinator struct {
	finder Finder

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewCoordinator(finder Finder) *Coordinator {
	return &Coordinator{finder: finder}
}

// Lookup starts an asynchronous existing-period check and delivers exactly
// one Result. Starting a new lookup cancels the previous in-flight one;
// superseded completions are delivered with ErrStaleLookup so callers (and
// tests) can observe the discard.
func (c *Coordinator) Lookup(ctx context.Context, key attendance.PeriodKey, deliver func(Result)) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		defer cancel()

		month, err := c.finder.Find(ctx, key)

		c.mu.Lock()
		stale := seq != c.seq
		c.mu.Unlock()

		if stale {
			deliver(Result{Key: key, Err: attendance.ErrStaleLookup})
			return
		}

		switch {
		case err == nil:
			deliver(Result{Key: key, Month: month})
		case errors.Is(err, attendance.ErrPeriodNotFound):
			deliver(Result{Key: key})
		default:
			// Safe fallback: treat the period as not found rather than
			// leaving the form indeterminate.
			log.Warn().Err(err).
				Str("employee_id", key.EmployeeID).
				Int("year", key.Year).
				Int("month", key.Month).
				Str("period_type", string(key.PeriodType)).
				Msg("attendance lookup failed, falling back to fresh defaults")
			deliver(Result{Key: key, Err: err})
		}
	}()
}

// Invalidate cancels any in-flight lookup without starting a new one. Used
// when the dialog closes.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
