/*
watcher.go - Missing-attendance period watcher

PURPOSE:
  Background ticker that, after a billing period closes, flags employees who
  have no saved attendance record for it. Payroll cannot run for an employee
  whose month was never entered; this surfaces the gap in the logs instead of
  at pay day.

DESIGN:
  - Runs a goroutine with a configurable check interval
  - Checks the most recently closed regular period for every active employee
  - Read-only: the watcher never creates or modifies attendance records

SEE ALSO:
  - attendance/period.go: Period resolution
  - cmd/server/main.go: Start/Stop wiring
*/
package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/helioworks/payroll-engine/attendance"
)

// PeriodWatcher flags closed periods with no attendance record.
type PeriodWatcher struct {
	Store         attendance.Store
	CheckInterval time.Duration

	today func() attendance.Date

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPeriodWatcher creates a watcher with the default hourly interval.
func NewPeriodWatcher(store attendance.Store) *PeriodWatcher {
	return &PeriodWatcher{
		Store:         store,
		CheckInterval: time.Hour,
		today:         attendance.Today,
		stop:          make(chan struct{}),
	}
}

// Start begins the background checks.
func (pw *PeriodWatcher) Start() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.ticker = time.NewTicker(pw.CheckInterval)
	pw.wg.Add(1)
	go pw.run()

	log.Info().Dur("interval", pw.CheckInterval).Msg("period watcher started")
}

// Stop halts the watcher and waits for the current check to finish.
func (pw *PeriodWatcher) Stop() {
	pw.mu.Lock()
	if pw.ticker != nil {
		pw.ticker.Stop()
	}
	pw.mu.Unlock()

	close(pw.stop)
	pw.wg.Wait()
	log.Info().Msg("period watcher stopped")
}

func (pw *PeriodWatcher) run() {
	defer pw.wg.Done()

	// First check shortly after startup, then on the ticker.
	pw.CheckMissing(context.Background())

	for {
		select {
		case <-pw.stop:
			return
		case <-pw.ticker.C:
			pw.CheckMissing(context.Background())
		}
	}
}

// CheckMissing logs every active employee with no saved record for the most
// recently closed regular period. Exported so an admin endpoint or test can
// trigger a check directly.
func (pw *PeriodWatcher) CheckMissing(ctx context.Context) (missing int) {
	today := pw.today()

	// The most recently closed regular period is last calendar month.
	prev := attendance.NewDate(today.Year(), today.Month(), 1).AddDays(-1)
	year := prev.Year()
	month := int(prev.Month()) - 1 // zero-based

	employees, err := pw.Store.ListEmployees(ctx)
	if err != nil {
		log.Error().Err(err).Msg("period watcher: failed to list employees")
		return 0
	}

	for _, emp := range employees {
		key := attendance.PeriodKey{
			EmployeeID: emp.ID,
			Year:       year,
			Month:      month,
			PeriodType: attendance.PeriodRegular,
		}
		_, err := pw.Store.Find(ctx, key)
		switch {
		case err == nil:
			continue
		case errors.Is(err, attendance.ErrPeriodNotFound):
			missing++
			log.Warn().
				Str("employee_id", emp.ID).
				Str("employee", emp.Name).
				Int("year", year).
				Int("month", month).
				Msg("no attendance recorded for closed period")
		default:
			log.Error().Err(err).Str("employee_id", emp.ID).Msg("period watcher: lookup failed")
		}
	}
	return missing
}
