/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures of the attendance API. These types decouple the
  domain model from the wire contract: amounts travel as JSON numbers, dates
  as ISO strings, months as zero-based indexes (0 = January), matching the
  front-end's Date semantics.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run them
  through Handler.validate before touching the domain.

SEE ALSO:
  - handlers.go: Uses these types
  - attendance/types.go: The domain model behind them
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/helioworks/payroll-engine/attendance"
)

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

type EmployeeDTO struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Email      string               `json:"email,omitempty"`
	Phone      string               `json:"phone,omitempty"`
	Role       string               `json:"role,omitempty"`
	DailyRate  float64              `json:"dailyRate"`
	HireDate   string               `json:"hireDate,omitempty"`
	Attendance []AttendanceMonthDTO `json:"attendance,omitempty"`
}

type SaveEmployeeRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone"`
	Role      string  `json:"role"`
	DailyRate float64 `json:"dailyRate" validate:"gte=0"`
	HireDate  string  `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
}

// =============================================================================
// ATTENDANCE TYPES
// =============================================================================

type EntryDTO struct {
	Date         attendance.Date `json:"date"`
	Type         string          `json:"type"`
	CustomSalary float64         `json:"customSalary"`
	Notes        string          `json:"notes,omitempty"`
}

type AttendanceMonthDTO struct {
	ID                string          `json:"id"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	PeriodType        string          `json:"periodType"`
	StartDate         attendance.Date `json:"startDate"`
	EndDate           attendance.Date `json:"endDate"`
	Entries           []EntryDTO      `json:"entries"`
	OverrideSalary    float64         `json:"overrideSalary"`
	UseOverrideSalary bool            `json:"useOverrideSalary"`
	TotalWorkingDays  float64         `json:"totalWorkingDays"`
	TotalSalary       float64         `json:"totalSalary"`
}

// SaveAttendanceRequest creates or updates the record for the triple.
// StartDate/EndDate are accepted for contract compatibility but the server
// re-derives the bounds from (year, month, periodType); clients never own
// period bounds.
type SaveAttendanceRequest struct {
	Year              int        `json:"year"`
	Month             int        `json:"month"`
	PeriodType        string     `json:"periodType" validate:"required,oneof=regular custom"`
	Entries           []EntryDTO `json:"entries" validate:"dive"`
	OverrideSalary    float64    `json:"overrideSalary" validate:"gte=0"`
	UseOverrideSalary bool       `json:"useOverrideSalary"`
	StartDate         string     `json:"startDate,omitempty"`
	EndDate           string     `json:"endDate,omitempty"`
}

type DeleteAttendanceRequest struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	PeriodType string `json:"periodType" validate:"required,oneof=regular custom"`
}

// CheckAttendanceResponse answers the existing-period lookup.
type CheckAttendanceResponse struct {
	Exists     bool                `json:"exists"`
	Attendance *AttendanceMonthDTO `json:"attendance,omitempty"`
}

// PreviewResponse exposes the resolved period and fresh default entries for
// the add-attendance dialog.
type PreviewResponse struct {
	StartDate attendance.Date `json:"startDate"`
	EndDate   attendance.Date `json:"endDate"`
	Entries   []EntryDTO      `json:"entries"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEntryDTO(e attendance.Entry) EntryDTO {
	custom, _ := e.CustomSalary.Float64()
	return EntryDTO{
		Date:         e.Date,
		Type:         string(e.Type),
		CustomSalary: custom,
		Notes:        e.Notes,
	}
}

func toEntryDTOs(entries []attendance.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	return dtos
}

func fromEntryDTO(dto EntryDTO) attendance.Entry {
	return attendance.Entry{
		Date:         dto.Date,
		Type:         attendance.DayType(dto.Type),
		CustomSalary: decimal.NewFromFloat(dto.CustomSalary),
		Notes:        dto.Notes,
	}.Normalize()
}

func fromEntryDTOs(dtos []EntryDTO) []attendance.Entry {
	entries := make([]attendance.Entry, len(dtos))
	for i, dto := range dtos {
		entries[i] = fromEntryDTO(dto)
	}
	return entries
}

func toMonthDTO(m attendance.Month) AttendanceMonthDTO {
	override, _ := m.OverrideSalary.Float64()
	days, _ := m.TotalWorkingDays.Float64()
	salary, _ := m.TotalSalary.Float64()
	return AttendanceMonthDTO{
		ID:                m.ID,
		Year:              m.Key.Year,
		Month:             m.Key.Month,
		PeriodType:        string(m.Key.PeriodType),
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Entries:           toEntryDTOs(m.Entries),
		OverrideSalary:    override,
		UseOverrideSalary: m.UseOverrideSalary,
		TotalWorkingDays:  days,
		TotalSalary:       salary,
	}
}

func toEmployeeDTO(e attendance.Employee, months []attendance.Month) EmployeeDTO {
	rate, _ := e.DailyRate.Float64()
	dto := EmployeeDTO{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Role:      e.Role,
		DailyRate: rate,
	}
	if !e.HireDate.IsZero() {
		dto.HireDate = e.HireDate.String()
	}
	for _, m := range months {
		dto.Attendance = append(dto.Attendance, toMonthDTO(m))
	}
	return dto
}
