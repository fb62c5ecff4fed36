package attendance

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist
	// (or has been soft-deleted).
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrPeriodNotFound is returned when no attendance month exists for a
	// period key. Callers usually fall back to freshly generated entries.
	ErrPeriodNotFound = errors.New("attendance period not found")

	// ErrStaleLookup is returned when a lookup completes after its selection
	// has been superseded. The result must be discarded, never applied.
	ErrStaleLookup = errors.New("lookup superseded by a newer selection")
)
