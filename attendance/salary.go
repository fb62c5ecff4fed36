/*
salary.go - The salary fold

PURPOSE:
  Turns a list of attendance entries plus a per-day rate into the payable
  total and the working-day count. This is the one calculation the rest of
  the system exists to feed.

ACCUMULATION RULES:
  fullday  -> +dailyRate         +1   working day
  halfday  -> +dailyRate/2       +0.5 working day
  custom   -> +entry amount      +1   working day
  absent   -> nothing
  unknown  -> nothing (malformed entries degrade, they never fail)

OVERRIDE MODE:
  An enabled override with a non-zero amount replaces the fold entirely:
  the total IS the override amount and the day count is reported as zero
  (override mode does not track days). An enabled override with a ZERO
  amount falls through to normal accumulation; see DESIGN.md for why this
  truthiness gate is kept.

NUMERICS:
  decimal.Decimal throughout. Half days are the only fractional source and
  stay exact; nothing rounds or truncates day counts.

SEE ALSO:
  - entry.go: Where default entries come from
  - period.go: Period.Clip, the range guard in front of this fold
*/
package attendance

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// Override is an admin-supplied flat amount replacing the computed total
// for a period.
type Override struct {
	Amount  decimal.Decimal
	Enabled bool
}

// Applies reports whether the override replaces the fold. The amount must be
// non-zero: an enabled zero override means "not overriding".
func (o Override) Applies() bool {
	return o.Enabled && !o.Amount.IsZero()
}

// Summary is the output of the salary fold.
type Summary struct {
	TotalSalary decimal.Decimal
	WorkingDays decimal.Decimal
}

// CalculateSalary folds entries into a payable total and working-day count.
//
// The fold is commutative over addition: entry order never affects the
// result, and no entry is counted twice. When the override applies, entries
// are not visited at all and the per-entry breakdown is discarded.
func CalculateSalary(entries []Entry, dailyRate decimal.Decimal, override Override) Summary {
	if override.Applies() {
		return Summary{TotalSalary: override.Amount, WorkingDays: decimal.Zero}
	}

	total := decimal.Zero
	days := decimal.Zero

	for _, e := range entries {
		switch e.Type {
		case DayFull:
			total = total.Add(dailyRate)
			days = days.Add(decimal.NewFromInt(1))
		case DayHalf:
			total = total.Add(dailyRate.Div(two))
			days = days.Add(decimal.NewFromFloat(0.5))
		case DayCustom:
			total = total.Add(e.CustomSalary)
			days = days.Add(decimal.NewFromInt(1))
		default:
			// absent, or anything unrecognized: no contribution
		}
	}

	return Summary{TotalSalary: total, WorkingDays: days}
}

// CalculateSalaryInPeriod clips entries to the period before folding, so a
// buggy caller cannot inflate a total with out-of-range dates.
func CalculateSalaryInPeriod(p Period, entries []Entry, dailyRate decimal.Decimal, override Override) Summary {
	return CalculateSalary(p.Clip(entries), dailyRate, override)
}
