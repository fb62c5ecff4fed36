/*
handlers_test.go - HTTP contract tests

PURPOSE:
  Exercises the REST surface end to end against the in-memory store: employee
  lifecycle, the existing-period check, save semantics (server-derived bounds,
  clipping, snapshot totals, upsert identity), preview, and deletion.
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helioworks/payroll-engine/attendance"
	"github.com/helioworks/payroll-engine/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	h := NewHandler(memory.New())
	h.today = func() attendance.Date { return attendance.NewDate(2024, time.April, 10) }

	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends a request with an optional JSON body, decodes the response
// into out (if non-nil), and returns the status code.
func doJSON(t *testing.T, method, url string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createEmployee(t *testing.T, srv *httptest.Server, name string, rate float64) string {
	t.Helper()

	var created EmployeeDTO
	status := doJSON(t, http.MethodPost, srv.URL+"/api/employees", SaveEmployeeRequest{
		Name:      name,
		DailyRate: rate,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.ID)
	return created.ID
}

// =============================================================================
// HEALTH AND EMPLOYEES
// =============================================================================

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	status := doJSON(t, http.MethodGet, srv.URL+"/api/health", nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestEmployeeLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := createEmployee(t, srv, "Ravi Kumar", 1500)

	// Read back, daily rate intact.
	var emp EmployeeDTO
	status := doJSON(t, http.MethodGet, srv.URL+"/api/employees/"+id, nil, &emp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ravi Kumar", emp.Name)
	assert.Equal(t, 1500.0, emp.DailyRate)

	// Soft delete hides the employee.
	status = doJSON(t, http.MethodDelete, srv.URL+"/api/employees/"+id, nil, nil)
	require.Equal(t, http.StatusOK, status)
	status = doJSON(t, http.MethodGet, srv.URL+"/api/employees/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Restore brings them back.
	status = doJSON(t, http.MethodPost, srv.URL+"/api/employees/"+id+"/restore", nil, nil)
	require.Equal(t, http.StatusOK, status)
	status = doJSON(t, http.MethodGet, srv.URL+"/api/employees/"+id, nil, &emp)
	assert.Equal(t, http.StatusOK, status)
}

func TestSaveEmployee_ValidationFails(t *testing.T) {
	srv := newTestServer(t)

	// Name is required.
	status := doJSON(t, http.MethodPost, srv.URL+"/api/employees",
		SaveEmployeeRequest{DailyRate: 1000}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Email, when present, must be valid.
	status = doJSON(t, http.MethodPost, srv.URL+"/api/employees",
		SaveEmployeeRequest{Name: "X", Email: "not-an-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

// =============================================================================
// EXISTING-PERIOD CHECK
// =============================================================================

func checkURL(srv *httptest.Server, employeeID string, year, month int, periodType string) string {
	return fmt.Sprintf("%s/api/employees/%s/attendance/check?year=%d&month=%d&periodType=%s",
		srv.URL, employeeID, year, month, periodType)
}

func TestCheckAttendance_NoRecord(t *testing.T) {
	srv := newTestServer(t)
	id := createEmployee(t, srv, "Ravi Kumar", 1000)

	var check CheckAttendanceResponse
	status := doJSON(t, http.MethodGet, checkURL(srv, id, 2024, 3, "regular"), nil, &check)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, check.Exists)
	assert.Nil(t, check.Attendance)
}

func TestCheckAttendance_InvalidPeriodType(t *testing.T) {
	srv := newTestServer(t)
	id := createEmployee(t, srv, "Ravi Kumar", 1000)

	status := doJSON(t, http.MethodGet, checkURL(srv, id, 2024, 3, "weekly"), nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

// =============================================================================
// SAVE SEMANTICS
// =============================================================================

func aprilEntries() []EntryDTO {
	return []EntryDTO{
		{Date: attendance.NewDate(2024, time.April, 1), Type: "fullday"},
		{Date: attendance.NewDate(2024, time.April, 2), Type: "halfday"},
		{Date: attendance.NewDate(2024, time.April, 3), Type: "custom", CustomSalary: 200},
		{Date: attendance.NewDate(2024, time.April, 4), Type: "absent"},
	}
}

func TestSaveAttendance_ComputesSnapshotTotals(t *testing.T) {
	srv := newTestServer(t)
	id := createEmployee(t, srv, "Ravi Kumar", 1000)

	var saved AttendanceMonthDTO
	status := doJSON(t, http.MethodPost, srv.URL+"/api/employees/"+id+"/attendance",
		SaveAttendanceRequest{Year: 2024, Month: 3, PeriodType: "regular", Entries: aprilEntries()},
		&saved)
	require.Equal(t, http.StatusOK, status)

	// Server-derived bounds and computed totals: 1000 + 500 + 200 over 2.5 days.
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "2024-04-01", saved.StartDate.String())
	assert.Equal(t, "2024-04-30", saved.EndDate.String())
	assert.Equal(t, 1700.0, saved.TotalSalary)
	assert.Equal(t, 2.5, saved.TotalWorkingDays)
	assert.Len(t, saved.Entries, 4)

	// The check now reports the record.
	var check CheckAttendanceResponse
	status = doJSON(t, http.MethodGet, checkURL(srv, id, 2024, 3, "regular"), nil, &check)
	require.Equal(t, http.StatusOK, status)
	require.True(t, check.Exists)
	assert.Equal(t, saved.ID, check.Attendance.ID)
	assert.Equal(t, 1700.0, check.Attendance.TotalSalary)
}

func TestSaveAttendance_UpsertKeepsOneRecordPerTriple(t *testing.T) {
	srv := newTestServer(t)
	id := createEmployee(t, srv, "Ravi Kumar", 1000)
	url := srv.URL + "/api/employees/" + id + "/attendance"

	var first AttendanceMonthDTO
	doJSON(t, http.MethodPost, url,
		SaveAttendanceRequest{Year: 2024, Month: 3, PeriodType: "regular", Entries: aprilEntries()},
		&first)

	var second AttendanceMonthDTO
	doJSON(t, http.MethodPost, url,
		SaveAttendanceRequest{Year: 2024, Month: 3, PeriodType: "regular", Entries: []EntryDTO{
			{Date: attendance.NewDate(2024, time.April, 1), Type: "fullday"},
		}},
		&second)

	assert.Equal(t, 1000.0, second.TotalSalary)

	var list []AttendanceMonthDTO
	status := doJSON(t, http.MethodGet, url, nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list, 1)

	// Regular and custom periods for the same month are distinct records.
	doJSON(t, http.MethodPost, url,
		SaveAttendanceRequest{Year: 2024, Month: 3, PeriodType: "custom", Entries: nil}, nil)
	doJSON(t, http.MethodGet, url, nil, &list)
	assert.Len(t, list, 2)
}

func TestSaveAttendance_ClipsOutOfRangeEntries(t *testing.T) {
	srv := newTestServer(t)
	id := createEmployee(t, srv, "Ravi Kumar", 1000)

	entries := []EntryDTO{
		{Date: attendance.NewDate(2024, time.April, 10), Type: "fullday"},
		{Date: attendance.NewDate(2024, time.May, 2), Type: "fullday"},
	}

	var saved AttendanceMonthDTO
	status := doJSON(t, http.MethodPost, srv.URL+"/api/employees/"+id+"/attendance",
		SaveAttendanceRequest{Year: 2024, Month: 3, PeriodType: "regular", Entries: entries},
		&saved)
	require.Equal(t, http.StatusOK, status)

	// The May entry is dropped, not stored and not counted.
	require.Len(t, saved.Entries, 1)
	assert.Equal(t, 1000.0, saved.TotalSalary)
	assert.Equal(t, 1.0, saved.TotalWorkingDays)
}

func TestSaveAttendance_OverrideReplacesTotals(t *testing.T) {
	srv := newTestServer(t)
	id := createEmployee(t, srv, "Ravi Kumar", 1000)

	var saved AttendanceMonthDTO
	status := doJSON(t, http.MethodPost, srv.URL+"/api/employees/"+id+"/attendance",
		SaveAttendanceRequest{
			Year: 2024, Month: 3, PeriodType: "regular",
			Entries:           aprilEntries(),
			OverrideSalary:    50000,
			UseOverrideSalary: true,
		},
		&saved)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, 50000.0, saved.TotalSalary)
	assert.Equal(t, 0.0, saved.TotalWorkingDays)
	assert.True(t, saved.UseOverrideSalary)
}

func TestSaveAttendance_NormalizesCustomAmounts(t *testing.T) {
	srv := newTestServer(t)
	id := createEmployee(t, srv, "Ravi Kumar", 1000)

	// A non-custom entry carrying an amount: the amount must not be stored
	// and must not affect the total.
	entries := []EntryDTO{
		{Date: attendance.NewDate(2024, time.April, 1), Type: "fullday", CustomSalary: 500},
	}

	var saved AttendanceMonthDTO
	doJSON(t, http.MethodPost, srv.URL+"/api/employees/"+id+"/attendance",
		SaveAttendanceRequest{Year: 2024, Month: 3, PeriodType: "regular", Entries: entries},
		&saved)

	require.Len(t, saved.Entries, 1)
	assert.Equal(t, 0.0, saved.Entries[0].CustomSalary)
	assert.Equal(t, 1000.0, saved.TotalSalary)
}

func TestSaveAttendance_UnknownEmployee(t *testing.T) {
	srv := newTestServer(t)

	status := doJSON(t, http.MethodPost, srv.URL+"/api/employees/nobody/attendance",
		SaveAttendanceRequest{Year: 2024, Month: 3, PeriodType: "regular"}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// =============================================================================
// PREVIEW AND DELETE
// =============================================================================

func TestPreviewAttendance_CapsAtToday(t *testing.T) {
	srv := newTestServer(t) // today is fixed at 2024-04-10

	id := createEmployee(t, srv, "Ravi Kumar", 1000)
	base := srv.URL + "/api/employees/" + id + "/attendance/preview"

	var preview PreviewResponse
	status := doJSON(t, http.MethodGet, base+"?year=2024&month=3&periodType=regular", nil, &preview)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "2024-04-01", preview.StartDate.String())
	assert.Equal(t, "2024-04-30", preview.EndDate.String())
	require.Len(t, preview.Entries, 10)
	for _, e := range preview.Entries {
		assert.Equal(t, "absent", e.Type)
	}

	// A wholly future month previews its bounds but no entries.
	status = doJSON(t, http.MethodGet, base+"?year=2024&month=4&periodType=regular", nil, &preview)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2024-05-01", preview.StartDate.String())
	assert.Empty(t, preview.Entries)
}

func TestDeleteAttendance(t *testing.T) {
	srv := newTestServer(t)
	id := createEmployee(t, srv, "Ravi Kumar", 1000)
	url := srv.URL + "/api/employees/" + id + "/attendance"

	doJSON(t, http.MethodPost, url,
		SaveAttendanceRequest{Year: 2024, Month: 3, PeriodType: "regular", Entries: aprilEntries()}, nil)

	req := DeleteAttendanceRequest{Year: 2024, Month: 3, PeriodType: "regular"}
	status := doJSON(t, http.MethodDelete, url, req, nil)
	require.Equal(t, http.StatusOK, status)

	// Gone for good: the check misses and a second delete is a 404.
	var check CheckAttendanceResponse
	doJSON(t, http.MethodGet, checkURL(srv, id, 2024, 3, "regular"), nil, &check)
	assert.False(t, check.Exists)

	status = doJSON(t, http.MethodDelete, url, req, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
