package attendance

import "github.com/shopspring/decimal"

// =============================================================================
// ENTRY GENERATOR - Default placeholders for a period
// =============================================================================

// GenerateEntries produces one default entry per calendar day from p.Start
// through min(p.End, today), ascending. Days strictly in the future are
// omitted entirely, not emitted as placeholders:
//
//   - period entirely in the future  -> nil
//   - period entirely in the past    -> one entry per day of the full range
//   - period straddling today        -> entries from Start through today
//
// Every entry defaults to absent with no custom amount. The caller merges
// user edits or previously saved entries afterward; generation itself is
// side-effect free.
func GenerateEntries(p Period, today Date) []Entry {
	end := p.End
	if today.Before(end) {
		end = today
	}

	var entries []Entry
	for cur := p.Start; cur.BeforeOrEqual(end); cur = cur.AddDays(1) {
		entries = append(entries, Entry{
			Date:         cur,
			Type:         DayAbsent,
			CustomSalary: decimal.Zero,
		})
	}
	return entries
}

// NormalizeEntries applies Entry.Normalize across a slice, in place order.
func NormalizeEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Normalize()
	}
	return out
}
