/*
Package sqlite provides the SQLite-backed implementation of attendance.Store.

PURPOSE:
  Persists employees and attendance months. The same patterns apply to
  PostgreSQL; only minor SQL dialect differences.

KEY TABLES:
  employees:          Rate-bearing entities, soft-deleted via deleted_at
  attendance_months:  One row per (employee, year, month, period_type);
                      entries are stored as a JSON document, totals as the
                      snapshot taken at save time

UPSERT CONTRACT:
  attendance_months carries a UNIQUE index on the identifying quadruple.
  Save resolves the existing row id (if any) and upserts, so the last write
  for a key wins and record ids stay stable across updates. Delete removes
  the row entirely; attendance has no soft delete.

AMOUNTS:
  Money and day counts are stored as decimal strings, never floats.

WAL MODE:
  Opened with WAL so readers don't block during saves.

SEE ALSO:
  - attendance/store.go: Interface definitions
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/helioworks/payroll-engine/attendance"
)

// Store implements attendance.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ attendance.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		role TEXT,
		daily_rate TEXT NOT NULL DEFAULT '0',
		hire_date TEXT,
		deleted_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_deleted
		ON employees(deleted_at);

	CREATE TABLE IF NOT EXISTS attendance_months (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		period_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		entries_json TEXT NOT NULL,
		override_salary TEXT NOT NULL DEFAULT '0',
		use_override_salary BOOLEAN NOT NULL DEFAULT FALSE,
		total_working_days TEXT NOT NULL DEFAULT '0',
		total_salary TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- One record per identifying quadruple; saves overwrite.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_months_key
		ON attendance_months(employee_id, year, month, period_type);

	CREATE INDEX IF NOT EXISTS idx_attendance_months_employee
		ON attendance_months(employee_id, start_date DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRY DOCUMENT - JSON shape of the entries column
// =============================================================================

type entryRecord struct {
	Date         string `json:"date"`
	Type         string `json:"type"`
	CustomSalary string `json:"custom_salary"`
	Notes        string `json:"notes,omitempty"`
}

func encodeEntries(entries []attendance.Entry) (string, error) {
	records := make([]entryRecord, len(entries))
	for i, e := range entries {
		records[i] = entryRecord{
			Date:         e.Date.String(),
			Type:         string(e.Type),
			CustomSalary: e.CustomSalary.String(),
			Notes:        e.Notes,
		}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode entries: %w", err)
	}
	return string(b), nil
}

func decodeEntries(doc string) ([]attendance.Entry, error) {
	var records []entryRecord
	if err := json.Unmarshal([]byte(doc), &records); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}

	entries := make([]attendance.Entry, len(records))
	for i, r := range records {
		date, err := attendance.ParseDate(r.Date)
		if err != nil {
			return nil, err
		}
		entries[i] = attendance.Entry{
			Date:         date,
			Type:         attendance.DayType(r.Type),
			CustomSalary: parseDecimal(r.CustomSalary),
			Notes:        r.Notes,
		}.Normalize()
	}
	return entries, nil
}

// parseDecimal tolerates malformed stored amounts: they degrade to zero
// rather than failing a read.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// MONTH STORE
// =============================================================================

const monthColumns = `id, employee_id, year, month, period_type, start_date, end_date,
	entries_json, override_salary, use_override_salary, total_working_days, total_salary,
	created_at, updated_at`

func (s *Store) Find(ctx context.Context, key attendance.PeriodKey) (*attendance.Month, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+monthColumns+`
		FROM attendance_months
		WHERE employee_id = ? AND year = ? AND month = ? AND period_type = ?`,
		key.EmployeeID, key.Year, key.Month, string(key.PeriodType),
	)
	return scanMonth(row)
}

func (s *Store) Save(ctx context.Context, m attendance.Month) (*attendance.Month, error) {
	entriesJSON, err := encodeEntries(m.Entries)
	if err != nil {
		return nil, err
	}

	// Keep the row id stable across overwrites of the same key.
	id := m.ID
	var existingID string
	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM attendance_months
		WHERE employee_id = ? AND year = ? AND month = ? AND period_type = ?`,
		m.Key.EmployeeID, m.Key.Year, m.Key.Month, string(m.Key.PeriodType),
	).Scan(&existingID)
	switch {
	case err == nil:
		id = existingID
	case err == sql.ErrNoRows:
		if id == "" {
			id = uuid.NewString()
		}
	default:
		return nil, fmt.Errorf("failed to resolve attendance id: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attendance_months
		(id, employee_id, year, month, period_type, start_date, end_date,
		 entries_json, override_salary, use_override_salary,
		 total_working_days, total_salary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year, month, period_type) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			entries_json = excluded.entries_json,
			override_salary = excluded.override_salary,
			use_override_salary = excluded.use_override_salary,
			total_working_days = excluded.total_working_days,
			total_salary = excluded.total_salary,
			updated_at = excluded.updated_at`,
		id,
		m.Key.EmployeeID,
		m.Key.Year,
		m.Key.Month,
		string(m.Key.PeriodType),
		m.StartDate.String(),
		m.EndDate.String(),
		entriesJSON,
		m.OverrideSalary.String(),
		m.UseOverrideSalary,
		m.TotalWorkingDays.String(),
		m.TotalSalary.String(),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save attendance month: %w", err)
	}

	return s.Find(ctx, m.Key)
}

func (s *Store) Delete(ctx context.Context, key attendance.PeriodKey) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM attendance_months
		WHERE employee_id = ? AND year = ? AND month = ? AND period_type = ?`,
		key.EmployeeID, key.Year, key.Month, string(key.PeriodType),
	)
	if err != nil {
		return fmt.Errorf("failed to delete attendance month: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return attendance.ErrPeriodNotFound
	}
	return nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.Month, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+monthColumns+`
		FROM attendance_months
		WHERE employee_id = ?
		ORDER BY start_date DESC`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance months: %w", err)
	}
	defer rows.Close()

	var months []attendance.Month
	for rows.Next() {
		m, err := scanMonth(rows)
		if err != nil {
			return nil, err
		}
		months = append(months, *m)
	}
	return months, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMonth(row rowScanner) (*attendance.Month, error) {
	var (
		m                            attendance.Month
		periodType                   string
		startDate, endDate           string
		entriesJSON                  string
		overrideSalary, days, salary string
		createdAt, updatedAt         string
	)

	err := row.Scan(
		&m.ID, &m.Key.EmployeeID, &m.Key.Year, &m.Key.Month, &periodType,
		&startDate, &endDate, &entriesJSON, &overrideSalary,
		&m.UseOverrideSalary, &days, &salary, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, attendance.ErrPeriodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance month: %w", err)
	}

	m.Key.PeriodType = attendance.PeriodType(periodType)
	if m.StartDate, err = attendance.ParseDate(startDate); err != nil {
		return nil, err
	}
	if m.EndDate, err = attendance.ParseDate(endDate); err != nil {
		return nil, err
	}
	if m.Entries, err = decodeEntries(entriesJSON); err != nil {
		return nil, err
	}
	m.OverrideSalary = parseDecimal(overrideSalary)
	m.TotalWorkingDays = parseDecimal(days)
	m.TotalSalary = parseDecimal(salary)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		m.CreatedAt = attendance.FromTime(t)
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		m.UpdatedAt = attendance.FromTime(t)
	}
	return &m, nil
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (s *Store) GetEmployee(ctx context.Context, id string, includeDeleted bool) (*attendance.Employee, error) {
	query := `
		SELECT id, name, email, phone, role, daily_rate, hire_date, deleted_at
		FROM employees WHERE id = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	var (
		e         attendance.Employee
		rate      string
		hireDate  sql.NullString
		deletedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.Email, &e.Phone, &e.Role, &rate, &hireDate, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, attendance.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	e.DailyRate = parseDecimal(rate)
	if hireDate.Valid && hireDate.String != "" {
		if d, err := attendance.ParseDate(hireDate.String); err == nil {
			e.HireDate = d
		}
	}
	e.Deleted = deletedAt.Valid
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]attendance.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, role, daily_rate, hire_date
		FROM employees
		WHERE deleted_at IS NULL
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []attendance.Employee
	for rows.Next() {
		var (
			e        attendance.Employee
			rate     string
			hireDate sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Role, &rate, &hireDate); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.DailyRate = parseDecimal(rate)
		if hireDate.Valid && hireDate.String != "" {
			if d, err := attendance.ParseDate(hireDate.String); err == nil {
				e.HireDate = d
			}
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) SaveEmployee(ctx context.Context, e attendance.Employee) error {
	hireDate := ""
	if !e.HireDate.IsZero() {
		hireDate = e.HireDate.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, phone, role, daily_rate, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			role = excluded.role,
			daily_rate = excluded.daily_rate,
			hire_date = excluded.hire_date`,
		e.ID, e.Name, e.Email, e.Phone, e.Role,
		e.DailyRate.String(), hireDate,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	return s.markDeleted(ctx, id, time.Now().UTC().Format(time.RFC3339))
}

func (s *Store) RestoreEmployee(ctx context.Context, id string) error {
	return s.markDeleted(ctx, id, "")
}

func (s *Store) markDeleted(ctx context.Context, id, deletedAt string) error {
	var value any
	if deletedAt != "" {
		value = deletedAt
	}
	res, err := s.db.ExecContext(ctx, `UPDATE employees SET deleted_at = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return attendance.ErrEmployeeNotFound
	}
	return nil
}
