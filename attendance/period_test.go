/*
period_test.go - Specification tests for period resolution

PURPOSE:
  Executable specification of the billing-period model. Each test states a
  behavior of ResolvePeriod and validates the implementation against it,
  including the month-overflow normalization and year rollovers.
*/
package attendance_test

import (
	"testing"
	"time"

	"github.com/helioworks/payroll-engine/attendance"
)

func date(year int, month time.Month, day int) attendance.Date {
	return attendance.NewDate(year, month, day)
}

// =============================================================================
// REGULAR PERIODS - Calendar month
// =============================================================================

func TestResolvePeriod_Regular_CalendarMonthBounds(t *testing.T) {
	// GIVEN: April 2024 (zero-based month 3)
	// THEN: 1st through 30th
	p := attendance.ResolvePeriod(2024, 3, attendance.PeriodRegular)

	if !p.Start.Equal(date(2024, time.April, 1)) {
		t.Errorf("start = %s, want 2024-04-01", p.Start)
	}
	if !p.End.Equal(date(2024, time.April, 30)) {
		t.Errorf("end = %s, want 2024-04-30", p.End)
	}
}

func TestResolvePeriod_Regular_FebruaryLeapYear(t *testing.T) {
	p := attendance.ResolvePeriod(2024, 1, attendance.PeriodRegular)
	if !p.End.Equal(date(2024, time.February, 29)) {
		t.Errorf("leap February end = %s, want 2024-02-29", p.End)
	}

	p = attendance.ResolvePeriod(2025, 1, attendance.PeriodRegular)
	if !p.End.Equal(date(2025, time.February, 28)) {
		t.Errorf("non-leap February end = %s, want 2025-02-28", p.End)
	}
}

func TestResolvePeriod_Regular_AdjacentMonthsAreContiguous(t *testing.T) {
	// INVARIANT: for all (year, month), the regular period's end is exactly
	// one day before the next month's start. Includes year rollover at month
	// 11 and out-of-range months on both sides.
	for month := -14; month <= 26; month++ {
		cur := attendance.ResolvePeriod(2024, month, attendance.PeriodRegular)
		next := attendance.ResolvePeriod(2024, month+1, attendance.PeriodRegular)

		if !cur.End.AddDays(1).Equal(next.Start) {
			t.Errorf("month %d: end %s is not adjacent to next start %s",
				month, cur.End, next.Start)
		}
	}
}

func TestResolvePeriod_Regular_DecemberRollsIntoNextYear(t *testing.T) {
	p := attendance.ResolvePeriod(2024, 11, attendance.PeriodRegular)
	if !p.Start.Equal(date(2024, time.December, 1)) || !p.End.Equal(date(2024, time.December, 31)) {
		t.Errorf("December = %s, want [2024-12-01, 2024-12-31]", p)
	}
}

func TestResolvePeriod_MonthOverflowNormalizes(t *testing.T) {
	// Month 12 behaves as month 0 of year+1; no bounds checking anywhere.
	overflowed := attendance.ResolvePeriod(2024, 12, attendance.PeriodRegular)
	january := attendance.ResolvePeriod(2025, 0, attendance.PeriodRegular)

	if !overflowed.Start.Equal(january.Start) || !overflowed.End.Equal(january.End) {
		t.Errorf("month 12 of 2024 = %s, want %s", overflowed, january)
	}

	// Negative months roll backward.
	negative := attendance.ResolvePeriod(2024, -1, attendance.PeriodRegular)
	december := attendance.ResolvePeriod(2023, 11, attendance.PeriodRegular)
	if !negative.Start.Equal(december.Start) || !negative.End.Equal(december.End) {
		t.Errorf("month -1 of 2024 = %s, want %s", negative, december)
	}
}

// =============================================================================
// CUSTOM PERIODS - 25th to 25th
// =============================================================================

func TestResolvePeriod_Custom_25thTo25th(t *testing.T) {
	p := attendance.ResolvePeriod(2024, 3, attendance.PeriodCustom)

	if !p.Start.Equal(date(2024, time.April, 25)) {
		t.Errorf("start = %s, want 2024-04-25", p.Start)
	}
	if !p.End.Equal(date(2024, time.May, 25)) {
		t.Errorf("end = %s, want 2024-05-25", p.End)
	}
}

func TestResolvePeriod_Custom_DecemberRollsIntoNextYear(t *testing.T) {
	// GIVEN: month 11 (December)
	// THEN: the end lands on January 25 of year+1
	p := attendance.ResolvePeriod(2024, 11, attendance.PeriodCustom)

	if !p.Start.Equal(date(2024, time.December, 25)) {
		t.Errorf("start = %s, want 2024-12-25", p.Start)
	}
	if !p.End.Equal(date(2025, time.January, 25)) {
		t.Errorf("end = %s, want 2025-01-25", p.End)
	}
}

// =============================================================================
// PERIOD HELPERS
// =============================================================================

func TestPeriod_Contains_InclusiveBounds(t *testing.T) {
	p := attendance.ResolvePeriod(2024, 3, attendance.PeriodRegular)

	cases := []struct {
		d    attendance.Date
		want bool
	}{
		{date(2024, time.March, 31), false},
		{date(2024, time.April, 1), true},
		{date(2024, time.April, 30), true},
		{date(2024, time.May, 1), false},
	}
	for _, c := range cases {
		if got := p.Contains(c.d); got != c.want {
			t.Errorf("Contains(%s) = %v, want %v", c.d, got, c.want)
		}
	}
}

func TestPeriod_Clip_DropsOutOfRangeEntries(t *testing.T) {
	p := attendance.ResolvePeriod(2024, 3, attendance.PeriodRegular)
	entries := []attendance.Entry{
		{Date: date(2024, time.March, 31), Type: attendance.DayFull},
		{Date: date(2024, time.April, 10), Type: attendance.DayFull},
		{Date: date(2024, time.May, 2), Type: attendance.DayFull},
	}

	kept := p.Clip(entries)
	if len(kept) != 1 {
		t.Fatalf("kept %d entries, want 1", len(kept))
	}
	if !kept[0].Date.Equal(date(2024, time.April, 10)) {
		t.Errorf("kept entry date = %s, want 2024-04-10", kept[0].Date)
	}
}

func TestPeriod_Days_CoversFullRange(t *testing.T) {
	p := attendance.ResolvePeriod(2024, 1, attendance.PeriodRegular)
	days := p.Days()
	if len(days) != 29 {
		t.Fatalf("February 2024 has %d days, want 29", len(days))
	}
	for i := 1; i < len(days); i++ {
		if !days[i-1].AddDays(1).Equal(days[i]) {
			t.Errorf("days not consecutive at index %d: %s -> %s", i, days[i-1], days[i])
		}
	}
}
