/*
Package session implements the add-attendance dialog workflow as an explicit
state machine.

PURPOSE:
  The workflow that was scattered across independent UI flags is one finite
  state machine here:

    Idle -> Checking -> {Found, NotFound} -> Editing -> Saved | Cancelled

  Checking is re-entered from any editable phase only by changing the period
  selection, which discards in-progress edits for the previous selection.
  Impossible flag combinations (e.g. "found" and "not found" at once) cannot
  be represented.

EVENTS:
  Select        new (year, month, periodType) selection; starts a lookup
  resolve       lookup completion (internal; stale results are dropped)
  EditEntry     mark one day; recomputes the live summary
  SetOverride   toggle/adjust the flat override; recomputes the summary
  Save          snapshot totals and persist (create-or-update by key)
  Cancel        abandon the dialog

SEEDING:
  A found record seeds the editable entries VERBATIM (plus its override
  fields); previously recorded attendance is never silently regenerated.
  A missing record seeds freshly generated defaults.

SEE ALSO:
  - lookup.go: The ordering-safe lookup coordinator
  - attendance/salary.go: The summary calculation
*/
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/helioworks/payroll-engine/attendance"
)

// =============================================================================
// PHASES AND EVENTS
// =============================================================================

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseChecking  Phase = "checking"
	PhaseFound     Phase = "found"
	PhaseNotFound  Phase = "not_found"
	PhaseEditing   Phase = "editing"
	PhaseSaved     Phase = "saved"
	PhaseCancelled Phase = "cancelled"
)

// editable reports whether entry/override edits are legal in this phase.
func (p Phase) editable() bool {
	return p == PhaseFound || p == PhaseNotFound || p == PhaseEditing
}

// Selection is the period selector state of the dialog: zero-based month,
// like the API contract.
type Selection struct {
	Year       int
	Month      int
	PeriodType attendance.PeriodType
}

// Repository is the persistence port for saving and deleting months.
// attendance.MonthStore satisfies it, as does the remote client.
type Repository interface {
	Finder
	Save(ctx context.Context, m attendance.Month) (*attendance.Month, error)
	Delete(ctx context.Context, key attendance.PeriodKey) error
}

// =============================================================================
// SESSION
// =============================================================================

// Session is one admin's add-attendance dialog for one employee.
type Session struct {
	employeeID string
	dailyRate  decimal.Decimal
	repo       Repository
	coord      *Coordinator
	today      func() attendance.Date

	mu       sync.Mutex
	phase    Phase
	sel      Selection
	period   attendance.Period
	entries  []attendance.Entry
	override attendance.Override
	summary  attendance.Summary

	// Set when seeded from a saved record; Save reuses its ID so updates
	// overwrite instead of duplicating.
	existingID string

	// Fires after each lookup result is applied (or discarded). Tests and
	// UIs subscribe; nil is fine.
	OnResolved func(Result)
}

// Config carries Session dependencies.
type Config struct {
	EmployeeID string
	DailyRate  decimal.Decimal
	Repository Repository

	// Today overrides the clock; defaults to attendance.Today.
	Today func() attendance.Date
}

func New(cfg Config) *Session {
	today := cfg.Today
	if today == nil {
		today = attendance.Today
	}
	return &Session{
		employeeID: cfg.EmployeeID,
		dailyRate:  cfg.DailyRate,
		repo:       cfg.Repository,
		coord:      NewCoordinator(cfg.Repository),
		today:      today,
		phase:      PhaseIdle,
	}
}

// =============================================================================
// EVENT: SELECTION CHANGED
// =============================================================================

// Select moves the dialog to Checking for the given selection and starts the
// existing-period lookup. Any edits made for the previous selection are
// discarded; there is no merge of abandoned edits. The in-flight lookup for
// the previous selection, if any, is superseded.
func (s *Session) Select(ctx context.Context, sel Selection) {
	s.mu.Lock()
	s.sel = sel
	s.phase = PhaseChecking
	s.period = attendance.ResolvePeriod(sel.Year, sel.Month, sel.PeriodType)
	s.entries = nil
	s.override = attendance.Override{}
	s.summary = attendance.Summary{}
	s.existingID = ""
	key := s.key()
	s.mu.Unlock()

	s.coord.Lookup(ctx, key, s.resolve)
}

func (s *Session) key() attendance.PeriodKey {
	return attendance.PeriodKey{
		EmployeeID: s.employeeID,
		Year:       s.sel.Year,
		Month:      s.sel.Month,
		PeriodType: s.sel.PeriodType,
	}
}

// resolve applies a lookup result. Stale results and results for a selection
// other than the current one are dropped outright.
func (s *Session) resolve(res Result) {
	s.mu.Lock()
	apply := !res.Stale() && s.phase == PhaseChecking && res.Key == s.key()
	if apply {
		if res.Month != nil {
			// Seed verbatim from the saved record.
			s.phase = PhaseFound
			s.entries = append([]attendance.Entry(nil), res.Month.Entries...)
			s.override = attendance.Override{
				Amount:  res.Month.OverrideSalary,
				Enabled: res.Month.UseOverrideSalary,
			}
			s.existingID = res.Month.ID
		} else {
			s.phase = PhaseNotFound
			s.entries = attendance.GenerateEntries(s.period, s.today())
			s.override = attendance.Override{}
			s.existingID = ""
		}
		s.summary = attendance.CalculateSalary(s.entries, s.dailyRate, s.override)
	}
	cb := s.OnResolved
	s.mu.Unlock()

	if cb != nil {
		cb(res)
	}
}

// =============================================================================
// EVENTS: EDITS
// =============================================================================

// EditEntry marks the entry for a date. Moving an entry away from the custom
// type resets its amount; the live summary is recomputed immediately.
func (s *Session) EditEntry(date attendance.Date, dayType attendance.DayType, customSalary decimal.Decimal, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.phase.editable() {
		return fmt.Errorf("cannot edit entries in phase %q", s.phase)
	}

	for i := range s.entries {
		if s.entries[i].Date.Equal(date) {
			s.entries[i] = attendance.Entry{
				Date:         date,
				Type:         dayType,
				CustomSalary: customSalary,
				Notes:        notes,
			}.Normalize()
			s.phase = PhaseEditing
			s.summary = attendance.CalculateSalary(s.entries, s.dailyRate, s.override)
			return nil
		}
	}
	return fmt.Errorf("no entry for %s in period %s", date, s.period)
}

// SetOverride adjusts the flat override and recomputes the summary.
func (s *Session) SetOverride(amount decimal.Decimal, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.phase.editable() {
		return fmt.Errorf("cannot set override in phase %q", s.phase)
	}
	s.override = attendance.Override{Amount: amount, Enabled: enabled}
	s.phase = PhaseEditing
	s.summary = attendance.CalculateSalary(s.entries, s.dailyRate, s.override)
	return nil
}

// =============================================================================
// EVENT: SAVE
// =============================================================================

// Save snapshots the totals and persists the month, creating or overwriting
// the record for the current key. Entries outside the resolved period are
// clipped before the snapshot. On failure the in-memory state is untouched
// and the dialog stays editable.
func (s *Session) Save(ctx context.Context) (*attendance.Month, error) {
	s.mu.Lock()
	if !s.phase.editable() {
		phase := s.phase
		s.mu.Unlock()
		return nil, fmt.Errorf("cannot save in phase %q", phase)
	}

	entries := attendance.NormalizeEntries(s.period.Clip(s.entries))
	summary := attendance.CalculateSalary(entries, s.dailyRate, s.override)

	id := s.existingID
	if id == "" {
		id = uuid.NewString()
	}
	today := s.today()

	month := attendance.Month{
		ID:                id,
		Key:               s.key(),
		StartDate:         s.period.Start,
		EndDate:           s.period.End,
		Entries:           entries,
		OverrideSalary:    s.override.Amount,
		UseOverrideSalary: s.override.Enabled,
		TotalWorkingDays:  summary.WorkingDays,
		TotalSalary:       summary.TotalSalary,
		UpdatedAt:         today,
	}
	s.mu.Unlock()

	saved, err := s.repo.Save(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to save attendance period: %w", err)
	}

	s.mu.Lock()
	s.phase = PhaseSaved
	s.existingID = saved.ID
	s.mu.Unlock()
	return saved, nil
}

// Cancel abandons the dialog and discards any in-flight lookup.
func (s *Session) Cancel() {
	s.coord.Invalidate()
	s.mu.Lock()
	s.phase = PhaseCancelled
	s.mu.Unlock()
}

// =============================================================================
// READ SIDE
// =============================================================================

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Period() attendance.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// Entries returns a copy of the editable entries.
func (s *Session) Entries() []attendance.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]attendance.Entry(nil), s.entries...)
}

func (s *Session) Override() attendance.Override {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.override
}

// Summary returns the live {totalSalary, workingDays} panel values, kept
// current on every edit.
func (s *Session) Summary() attendance.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}
