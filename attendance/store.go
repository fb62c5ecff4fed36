/*
store.go - Persistence interfaces for employees and attendance months

PURPOSE:
  Defines the boundary between the domain and the database. Attendance
  months are keyed by (employee, year, month, periodType); there is at most
  one record per key and saves overwrite ("last write wins"). Deleting a
  month removes it entirely. Employees soft-delete with restore.

IMPLEMENTATIONS:
  - store/sqlite: production store
  - store/memory: in-memory store for tests

SEE ALSO:
  - types.go: Month, PeriodKey, Employee
*/
package attendance

import "context"

// MonthStore persists attendance months.
type MonthStore interface {
	// Find returns the month for the key, or ErrPeriodNotFound.
	Find(ctx context.Context, key PeriodKey) (*Month, error)

	// Save creates or overwrites the month for m.Key and returns the stored
	// record. Concurrent saves to the same key are not merged; the last
	// write wins.
	Save(ctx context.Context, m Month) (*Month, error)

	// Delete removes the month for the key. Deleting a missing key returns
	// ErrPeriodNotFound. There is no soft delete for attendance.
	Delete(ctx context.Context, key PeriodKey) error

	// ListByEmployee returns all saved months for an employee, newest period
	// first.
	ListByEmployee(ctx context.Context, employeeID string) ([]Month, error)
}

// EmployeeStore persists employees.
type EmployeeStore interface {
	// GetEmployee returns the employee, or ErrEmployeeNotFound. Soft-deleted
	// employees are returned only when includeDeleted is true.
	GetEmployee(ctx context.Context, id string, includeDeleted bool) (*Employee, error)

	// ListEmployees returns all non-deleted employees.
	ListEmployees(ctx context.Context) ([]Employee, error)

	// SaveEmployee creates or updates an employee.
	SaveEmployee(ctx context.Context, e Employee) error

	// DeleteEmployee soft-deletes; RestoreEmployee undoes it.
	DeleteEmployee(ctx context.Context, id string) error
	RestoreEmployee(ctx context.Context, id string) error
}

// Store is the full persistence surface the API needs.
type Store interface {
	MonthStore
	EmployeeStore
}
