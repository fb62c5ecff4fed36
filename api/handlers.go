/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the attendance/payroll engine via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                      List employees
    POST   /api/employees                      Create/update employee
    GET    /api/employees/{id}                 Employee with attendance history
    DELETE /api/employees/{id}                 Soft delete
    POST   /api/employees/{id}/restore         Undo soft delete

  Attendance:
    GET    /api/employees/{id}/attendance                 List saved periods
    GET    /api/employees/{id}/attendance/check           Existing-period lookup
    GET    /api/employees/{id}/attendance/preview         Resolved range + defaults
    POST   /api/employees/{id}/attendance                 Create-or-update by triple
    DELETE /api/employees/{id}/attendance                 Delete by triple

SAVE SEMANTICS:
  The server is the authority on period bounds and totals. On save it
  re-derives [startDate, endDate] from (year, month, periodType), clips
  entries to that range, recomputes {totalSalary, totalWorkingDays} and
  stores them as the snapshot. Stored totals are never recomputed on read.

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 404: Unknown employee or attendance period
  - 500: Internal errors
  JSON body {error, details} throughout.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/helioworks/payroll-engine/attendance"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store attendance.Store

	validate *validator.Validate

	// today is swappable for tests; defaults to attendance.Today.
	today func() attendance.Date
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store attendance.Store) *Handler {
	return &Handler{
		Store:    store,
		validate: validator.New(),
		today:    attendance.Today,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all non-deleted employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e, nil)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns one employee including dailyRate and saved attendance.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(ctx, id, false)
	if err != nil {
		if errors.Is(err, attendance.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}

	months, err := h.Store.ListByEmployee(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attendance", err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp, months))
}

// SaveEmployee creates or updates an employee.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	emp := attendance.Employee{
		ID:        req.ID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		DailyRate: decimal.NewFromFloat(req.DailyRate),
	}
	if emp.ID == "" {
		emp.ID = newEmployeeID()
	}
	if req.HireDate != "" {
		d, err := attendance.ParseDate(req.HireDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hireDate (use YYYY-MM-DD)", err)
			return
		}
		emp.HireDate = d
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp, nil))
}

// DeleteEmployee soft-deletes an employee; attendance history is kept.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, attendance.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

// RestoreEmployee undoes a soft delete.
func (h *Handler) RestoreEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.RestoreEmployee(r.Context(), id); err != nil {
		if errors.Is(err, attendance.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to restore employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restored": true, "id": id})
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ListAttendance returns all saved periods for an employee, newest first.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	months, err := h.Store.ListByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attendance", err)
		return
	}

	dtos := make([]AttendanceMonthDTO, len(months))
	for i, m := range months {
		dtos[i] = toMonthDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CheckAttendance answers the existing-period lookup:
// GET /api/employees/{id}/attendance/check?year&month&periodType
func (h *Handler) CheckAttendance(w http.ResponseWriter, r *http.Request) {
	key, ok := h.periodKeyFromQuery(w, r)
	if !ok {
		return
	}

	month, err := h.Store.Find(r.Context(), key)
	if err != nil {
		if errors.Is(err, attendance.ErrPeriodNotFound) {
			writeJSON(w, http.StatusOK, CheckAttendanceResponse{Exists: false})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to check attendance", err)
		return
	}

	dto := toMonthDTO(*month)
	writeJSON(w, http.StatusOK, CheckAttendanceResponse{Exists: true, Attendance: &dto})
}

// PreviewAttendance returns the resolved period bounds and fresh default
// entries (one absent placeholder per day up to today) without persisting
// anything.
func (h *Handler) PreviewAttendance(w http.ResponseWriter, r *http.Request) {
	key, ok := h.periodKeyFromQuery(w, r)
	if !ok {
		return
	}

	period := attendance.ResolvePeriod(key.Year, key.Month, key.PeriodType)
	entries := attendance.GenerateEntries(period, h.today())

	writeJSON(w, http.StatusOK, PreviewResponse{
		StartDate: period.Start,
		EndDate:   period.End,
		Entries:   toEntryDTOs(entries),
	})
}

// SaveAttendance creates or updates the record for the triple.
func (h *Handler) SaveAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := chi.URLParam(r, "id")

	var req SaveAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	emp, err := h.Store.GetEmployee(ctx, employeeID, false)
	if err != nil {
		if errors.Is(err, attendance.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}

	key := attendance.PeriodKey{
		EmployeeID: employeeID,
		Year:       req.Year,
		Month:      req.Month,
		PeriodType: attendance.PeriodType(req.PeriodType),
	}

	// The resolver owns the bounds; client-sent startDate/endDate are ignored.
	period := attendance.ResolvePeriod(key.Year, key.Month, key.PeriodType)
	entries := attendance.NormalizeEntries(period.Clip(fromEntryDTOs(req.Entries)))

	override := attendance.Override{
		Amount:  decimal.NewFromFloat(req.OverrideSalary),
		Enabled: req.UseOverrideSalary,
	}
	summary := attendance.CalculateSalary(entries, emp.DailyRate, override)

	saved, err := h.Store.Save(ctx, attendance.Month{
		Key:               key,
		StartDate:         period.Start,
		EndDate:           period.End,
		Entries:           entries,
		OverrideSalary:    override.Amount,
		UseOverrideSalary: override.Enabled,
		TotalWorkingDays:  summary.WorkingDays,
		TotalSalary:       summary.TotalSalary,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save attendance", err)
		return
	}

	writeJSON(w, http.StatusOK, toMonthDTO(*saved))
}

// DeleteAttendance removes the record for the triple entirely.
func (h *Handler) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req DeleteAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	key := attendance.PeriodKey{
		EmployeeID: employeeID,
		Year:       req.Year,
		Month:      req.Month,
		PeriodType: attendance.PeriodType(req.PeriodType),
	}
	if err := h.Store.Delete(r.Context(), key); err != nil {
		if errors.Is(err, attendance.ErrPeriodNotFound) {
			writeError(w, http.StatusNotFound, "Attendance period not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// =============================================================================
// HELPERS
// =============================================================================

// periodKeyFromQuery parses ?year&month&periodType. Month is zero-based and,
// like the resolver, unbounded; periodType must be a known value.
func (h *Handler) periodKeyFromQuery(w http.ResponseWriter, r *http.Request) (attendance.PeriodKey, bool) {
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing year", err)
		return attendance.PeriodKey{}, false
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing month", err)
		return attendance.PeriodKey{}, false
	}
	periodType := attendance.PeriodType(q.Get("periodType"))
	if !periodType.Known() {
		writeError(w, http.StatusBadRequest, "Invalid periodType (use regular or custom)", nil)
		return attendance.PeriodKey{}, false
	}

	return attendance.PeriodKey{
		EmployeeID: chi.URLParam(r, "id"),
		Year:       year,
		Month:      month,
		PeriodType: periodType,
	}, true
}

func newEmployeeID() string {
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
