/*
Package client is the consumer side of the attendance API contract.

PURPOSE:
  Typed HTTP client for embedding the add-attendance workflow in other tools
  (back-office scripts, the marketing site's admin panel). It implements
  session.Repository, so a session.Session can run against a remote engine
  exactly as it runs against a local store.

RESILIENCE:
  Calls go through a sony/gobreaker circuit breaker with a 10s request
  timeout. A tripped breaker surfaces as an ordinary error; for lookups the
  session's coordinator already degrades that to "not found".
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/helioworks/payroll-engine/attendance"
	"github.com/helioworks/payroll-engine/session"
)

// Client talks to a remote attendance engine.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
}

var _ session.Repository = (*Client)(nil)

// New creates a client for the engine at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "attendance-api",
			Timeout: 30 * time.Second,
		}),
	}
}

// =============================================================================
// WIRE TYPES - Mirror of the API contract
// =============================================================================

type entryPayload struct {
	Date         attendance.Date `json:"date"`
	Type         string          `json:"type"`
	CustomSalary float64         `json:"customSalary"`
	Notes        string          `json:"notes,omitempty"`
}

type monthPayload struct {
	ID                string          `json:"id"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	PeriodType        string          `json:"periodType"`
	StartDate         attendance.Date `json:"startDate"`
	EndDate           attendance.Date `json:"endDate"`
	Entries           []entryPayload  `json:"entries"`
	OverrideSalary    float64         `json:"overrideSalary"`
	UseOverrideSalary bool            `json:"useOverrideSalary"`
	TotalWorkingDays  float64         `json:"totalWorkingDays"`
	TotalSalary       float64         `json:"totalSalary"`
}

type checkPayload struct {
	Exists     bool          `json:"exists"`
	Attendance *monthPayload `json:"attendance"`
}

func (p monthPayload) toMonth(employeeID string) attendance.Month {
	entries := make([]attendance.Entry, len(p.Entries))
	for i, e := range p.Entries {
		entries[i] = attendance.Entry{
			Date:         e.Date,
			Type:         attendance.DayType(e.Type),
			CustomSalary: decimal.NewFromFloat(e.CustomSalary),
			Notes:        e.Notes,
		}.Normalize()
	}
	return attendance.Month{
		ID: p.ID,
		Key: attendance.PeriodKey{
			EmployeeID: employeeID,
			Year:       p.Year,
			Month:      p.Month,
			PeriodType: attendance.PeriodType(p.PeriodType),
		},
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		Entries:           entries,
		OverrideSalary:    decimal.NewFromFloat(p.OverrideSalary),
		UseOverrideSalary: p.UseOverrideSalary,
		TotalWorkingDays:  decimal.NewFromFloat(p.TotalWorkingDays),
		TotalSalary:       decimal.NewFromFloat(p.TotalSalary),
	}
}

// =============================================================================
// SESSION REPOSITORY IMPLEMENTATION
// =============================================================================

// Find runs the existing-period lookup. Returns ErrPeriodNotFound when the
// server reports no record.
func (c *Client) Find(ctx context.Context, key attendance.PeriodKey) (*attendance.Month, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(key.Year))
	q.Set("month", strconv.Itoa(key.Month))
	q.Set("periodType", string(key.PeriodType))

	endpoint := fmt.Sprintf("%s/api/employees/%s/attendance/check?%s",
		c.baseURL, url.PathEscape(key.EmployeeID), q.Encode())

	var check checkPayload
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &check); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, attendance.ErrPeriodNotFound
		}
		return nil, err
	}
	if !check.Exists || check.Attendance == nil {
		return nil, attendance.ErrPeriodNotFound
	}

	month := check.Attendance.toMonth(key.EmployeeID)
	return &month, nil
}

// Save creates or updates the month for its key and returns the stored
// record (with the server-side totals snapshot).
func (c *Client) Save(ctx context.Context, m attendance.Month) (*attendance.Month, error) {
	entries := make([]entryPayload, len(m.Entries))
	for i, e := range m.Entries {
		custom, _ := e.CustomSalary.Float64()
		entries[i] = entryPayload{
			Date:         e.Date,
			Type:         string(e.Type),
			CustomSalary: custom,
			Notes:        e.Notes,
		}
	}
	override, _ := m.OverrideSalary.Float64()

	body := map[string]any{
		"year":              m.Key.Year,
		"month":             m.Key.Month,
		"periodType":        string(m.Key.PeriodType),
		"entries":           entries,
		"overrideSalary":    override,
		"useOverrideSalary": m.UseOverrideSalary,
		"startDate":         m.StartDate.String(),
		"endDate":           m.EndDate.String(),
	}

	endpoint := fmt.Sprintf("%s/api/employees/%s/attendance",
		c.baseURL, url.PathEscape(m.Key.EmployeeID))

	var saved monthPayload
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &saved); err != nil {
		return nil, err
	}
	month := saved.toMonth(m.Key.EmployeeID)
	return &month, nil
}

// Delete removes the month for the key.
func (c *Client) Delete(ctx context.Context, key attendance.PeriodKey) error {
	body := map[string]any{
		"year":       key.Year,
		"month":      key.Month,
		"periodType": string(key.PeriodType),
	}
	endpoint := fmt.Sprintf("%s/api/employees/%s/attendance",
		c.baseURL, url.PathEscape(key.EmployeeID))

	err := c.doJSON(ctx, http.MethodDelete, endpoint, body, nil)
	if errors.Is(err, errNotFound) {
		return attendance.ErrPeriodNotFound
	}
	return err
}

// =============================================================================
// EMPLOYEE READS
// =============================================================================

type employeePayload struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	DailyRate  float64        `json:"dailyRate"`
	Attendance []monthPayload `json:"attendance"`
}

// GetEmployee fetches an employee including dailyRate and saved attendance.
func (c *Client) GetEmployee(ctx context.Context, id string) (*attendance.Employee, []attendance.Month, error) {
	endpoint := fmt.Sprintf("%s/api/employees/%s", c.baseURL, url.PathEscape(id))

	var payload employeePayload
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil, attendance.ErrEmployeeNotFound
		}
		return nil, nil, err
	}

	emp := attendance.Employee{
		ID:        payload.ID,
		Name:      payload.Name,
		Email:     payload.Email,
		DailyRate: decimal.NewFromFloat(payload.DailyRate),
	}
	months := make([]attendance.Month, len(payload.Attendance))
	for i, m := range payload.Attendance {
		months[i] = m.toMonth(id)
	}
	return &emp, months, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

var errNotFound = errors.New("not found")

// doJSON performs one request through the breaker, encoding body (if any)
// and decoding the response into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		var reader *bytes.Buffer
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request: %w", err)
			}
			reader = bytes.NewBuffer(payload)
		} else {
			reader = &bytes.Buffer{}
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("attendance api call failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, errNotFound
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("attendance api returned status %d", resp.StatusCode)
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil, nil
	})
	return err
}
