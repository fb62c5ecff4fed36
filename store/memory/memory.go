// Package memory provides an in-memory attendance.Store for tests and dev.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/helioworks/payroll-engine/attendance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	months    map[attendance.PeriodKey]attendance.Month
	employees map[string]attendance.Employee
}

func New() *Store {
	return &Store{
		months:    make(map[attendance.PeriodKey]attendance.Month),
		employees: make(map[string]attendance.Employee),
	}
}

var _ attendance.Store = (*Store)(nil)

// =============================================================================
// MONTH STORE
// =============================================================================

func (s *Store) Find(_ context.Context, key attendance.PeriodKey) (*attendance.Month, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.months[key]
	if !ok {
		return nil, attendance.ErrPeriodNotFound
	}
	out := cloneMonth(m)
	return &out, nil
}

// Save overwrites any previous record for the same key. Last write wins and,
// like the SQLite store, the record id stays stable across overwrites.
func (s *Store) Save(_ context.Context, m attendance.Month) (*attendance.Month, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneMonth(m)
	if prev, ok := s.months[m.Key]; ok {
		stored.ID = prev.ID
	} else if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	s.months[m.Key] = stored
	out := cloneMonth(stored)
	return &out, nil
}

func (s *Store) Delete(_ context.Context, key attendance.PeriodKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.months[key]; !ok {
		return attendance.ErrPeriodNotFound
	}
	delete(s.months, key)
	return nil
}

func (s *Store) ListByEmployee(_ context.Context, employeeID string) ([]attendance.Month, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []attendance.Month
	for _, m := range s.months {
		if m.Key.EmployeeID == employeeID {
			result = append(result, cloneMonth(m))
		}
	}
	// Newest period first.
	sort.Slice(result, func(i, j int) bool {
		return result[j].StartDate.Before(result[i].StartDate)
	})
	return result, nil
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (s *Store) GetEmployee(_ context.Context, id string, includeDeleted bool) (*attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok || (e.Deleted && !includeDeleted) {
		return nil, attendance.ErrEmployeeNotFound
	}
	out := e
	return &out, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]attendance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []attendance.Employee
	for _, e := range s.employees {
		if !e.Deleted {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) SaveEmployee(_ context.Context, e attendance.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
	return nil
}

func (s *Store) DeleteEmployee(_ context.Context, id string) error {
	return s.setDeleted(id, true)
}

func (s *Store) RestoreEmployee(_ context.Context, id string) error {
	return s.setDeleted(id, false)
}

func (s *Store) setDeleted(id string, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok {
		return attendance.ErrEmployeeNotFound
	}
	e.Deleted = deleted
	s.employees[id] = e
	return nil
}

func cloneMonth(m attendance.Month) attendance.Month {
	m.Entries = append([]attendance.Entry(nil), m.Entries...)
	return m
}
