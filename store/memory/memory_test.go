package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helioworks/payroll-engine/attendance"
)

func TestMemory_SaveAssignsAndPreservesID(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := attendance.PeriodKey{EmployeeID: "emp-1", Year: 2024, Month: 3, PeriodType: attendance.PeriodRegular}

	first, err := s.Save(ctx, attendance.Month{Key: key})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	// Overwrites keep the original id, regardless of what the caller sends.
	second, err := s.Save(ctx, attendance.Month{ID: "other", Key: key})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	months, err := s.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, months, 1)
}

func TestMemory_FindReturnsACopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := attendance.PeriodKey{EmployeeID: "emp-1", Year: 2024, Month: 3, PeriodType: attendance.PeriodRegular}

	_, err := s.Save(ctx, attendance.Month{Key: key, Entries: []attendance.Entry{
		{Date: attendance.NewDate(2024, time.April, 1), Type: attendance.DayFull},
	}})
	require.NoError(t, err)

	got, err := s.Find(ctx, key)
	require.NoError(t, err)
	got.Entries[0].Type = attendance.DayAbsent

	// Mutating the returned slice must not corrupt the stored record.
	again, err := s.Find(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, attendance.DayFull, again.Entries[0].Type)
}

func TestMemory_DeleteMissing(t *testing.T) {
	s := New()
	key := attendance.PeriodKey{EmployeeID: "emp-1", Year: 2024, Month: 3, PeriodType: attendance.PeriodRegular}
	assert.True(t, errors.Is(s.Delete(context.Background(), key), attendance.ErrPeriodNotFound))
}
