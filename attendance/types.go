/*
Package attendance implements the payroll attendance engine.

PURPOSE:
  This package contains the core domain for per-day attendance tracking and
  salary computation: billing periods (calendar-month or 25th-to-25th),
  per-day entries, and the fold that turns entries plus a daily rate into a
  payable total and a working-day count.

KEY CONCEPTS IN THIS FILE (types.go):
  - DayType: Closed set of attendance marks (fullday, halfday, custom, absent)
  - Entry: One day's attendance record inside a period
  - Month: A saved billing period for one employee (entries + snapshot totals)
  - PeriodKey: The identifying triple-plus-employee for a Month
  - Employee: The rate-bearing entity attendance is recorded against

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for money and day counts (half days are exact)
  2. Closed variants: an Entry's mark is one of four known types; a custom
     amount is meaningful only on a custom-marked entry
  3. Snapshots: a Month stores its totals at save time and never recomputes
     them on read

SEE ALSO:
  - period.go: Period resolution from (year, month, periodType)
  - entry.go: Default entry generation for a period
  - salary.go: The salary fold and override handling
  - store.go: Persistence interfaces
*/
package attendance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DAY TYPE - Closed set of attendance marks
// =============================================================================

type DayType string

const (
	DayFull   DayType = "fullday"
	DayHalf   DayType = "halfday"
	DayCustom DayType = "custom"
	DayAbsent DayType = "absent"
)

// Known reports whether t is one of the four recognized marks. Unknown marks
// are tolerated everywhere and contribute nothing to salary.
func (t DayType) Known() bool {
	switch t {
	case DayFull, DayHalf, DayCustom, DayAbsent:
		return true
	}
	return false
}

// =============================================================================
// ENTRY - One day's attendance inside a period
// =============================================================================

type Entry struct {
	Date Date
	Type DayType

	// CustomSalary is the per-day amount for custom-marked entries.
	// It is zero for every other type; Normalize enforces this.
	CustomSalary decimal.Decimal

	Notes string
}

// Normalize clears CustomSalary on entries that are not custom-marked.
// Called at decode and save boundaries so an amount cannot survive a
// transition away from the custom type.
func (e Entry) Normalize() Entry {
	if e.Type != DayCustom {
		e.CustomSalary = decimal.Zero
	}
	return e
}

// =============================================================================
// PERIOD KEY - Identity of a saved attendance month
// =============================================================================

// PeriodKey identifies a Month: one employee, one (year, month, periodType)
// triple. Month is ZERO-BASED (0 = January), matching the API contract.
// Saves for the same key overwrite; there is exactly one Month per key.
type PeriodKey struct {
	EmployeeID string
	Year       int
	Month      int
	PeriodType PeriodType
}

// =============================================================================
// MONTH - A saved billing period
// =============================================================================

// Month is one employee's attendance for one billing period.
//
// TotalSalary and TotalWorkingDays are snapshot outputs of CalculateSalary
// taken at save time. They are stored, not derived on read: editing history
// stays stable even if calculation rules change later.
type Month struct {
	ID  string
	Key PeriodKey

	// Inclusive bounds, derived by ResolvePeriod from the key. Never set
	// independently by a caller.
	StartDate Date
	EndDate   Date

	// Ordered by date, one per calendar day covered at save time.
	Entries []Entry

	OverrideSalary    decimal.Decimal
	UseOverrideSalary bool

	TotalWorkingDays decimal.Decimal
	TotalSalary      decimal.Decimal

	CreatedAt Date
	UpdatedAt Date
}

// =============================================================================
// EMPLOYEE - Rate-bearing entity
// =============================================================================

// Employee is referenced, not owned, by the attendance engine. DailyRate is
// the amount paid per full working day and is treated as an immutable input
// per calculation.
type Employee struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      string
	DailyRate decimal.Decimal
	HireDate  Date

	// Soft delete: employees are recoverable, attendance months are not.
	Deleted bool
}
