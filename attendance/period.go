package attendance

import "time"

// =============================================================================
// PERIOD - Inclusive billing interval for attendance
// =============================================================================

// Period is the inclusive date range of one billing interval.
// Attendance is always recorded against a period, never a bare month number.
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether d is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every calendar day in the period, ascending.
func (p Period) Days() []Date {
	var days []Date
	for cur := p.Start; cur.BeforeOrEqual(p.End); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

// Clip drops entries whose date falls outside the period. The resolver is the
// single source of truth for bounds; entries smuggled in from a different
// period must not reach the salary fold or the store.
func (p Period) Clip(entries []Entry) []Entry {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if p.Contains(e.Date) {
			kept = append(kept, e)
		}
	}
	return kept
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// PeriodType selects how a (year, month) pair maps to a date range.
type PeriodType string

const (
	// PeriodRegular is the calendar month: 1st through last day.
	PeriodRegular PeriodType = "regular"

	// PeriodCustom is the pay-cycle window: 25th of the month through the
	// 25th of the following month.
	PeriodCustom PeriodType = "custom"
)

// Known reports whether pt is a recognized period type.
func (pt PeriodType) Known() bool {
	return pt == PeriodRegular || pt == PeriodCustom
}

// =============================================================================
// PERIOD RESOLVER
// =============================================================================

// ResolvePeriod derives the inclusive date range for a billing period.
//
// month is ZERO-BASED (0 = January), matching the API contract. Any integer
// year and month are accepted: out-of-range months normalize through date
// arithmetic rather than bounds checks, so month 12 behaves as January of
// year+1 and month 11 rolls the custom end into the next year.
func ResolvePeriod(year, month int, pt PeriodType) Period {
	m := time.Month(month + 1)

	if pt == PeriodCustom {
		return Period{
			Start: NewDate(year, m, 25),
			End:   NewDate(year, m+1, 25),
		}
	}

	// Regular: day 0 of the following month is the last day of this one.
	return Period{
		Start: NewDate(year, m, 1),
		End:   NewDate(year, m+1, 0),
	}
}
