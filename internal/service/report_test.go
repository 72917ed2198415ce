package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/service"
)

func hours(v float64) *float64 { return &v }

func sampleEntries() []domain.TimeEntry {
	return []domain.TimeEntry{
		{EmployeeID: 2, Date: "2024-01-16", CheckIn: "09:00"},
		{EmployeeID: 1, Date: "2024-01-16", CheckIn: "08:00", CheckOut: "17:00", TotalHours: hours(9)},
		{EmployeeID: 2, Date: "2024-01-15", CheckIn: "09:15", CheckOut: "17:45", TotalHours: hours(8.5)},
		{EmployeeID: 1, Date: "2024-01-15", CheckIn: "08:00", CheckOut: "16:00", TotalHours: hours(8)},
		{EmployeeID: 1, Date: "2023-12-29", CheckIn: "08:00", CheckOut: "12:00", TotalHours: hours(4)},
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := service.Summarize(nil, service.Filter{})

	assert.Zero(t, sum.TotalHours)
	assert.Zero(t, sum.WorkingDays)
	assert.Zero(t, sum.Employees)
	assert.Zero(t, sum.AverageHours)
	assert.Empty(t, sum.ByEmployee)
}

func TestSummarize_All(t *testing.T) {
	sum := service.Summarize(sampleEntries(), service.Filter{})

	assert.InDelta(t, 29.5, sum.TotalHours, 1e-9)
	assert.Equal(t, 3, sum.WorkingDays)
	assert.Equal(t, 2, sum.Employees)
	assert.InDelta(t, 9.83, sum.AverageHours, 1e-9)
	assert.Equal(t, 4, sum.CompletedEntries)
	assert.Equal(t, 1, sum.PartialEntries)

	require.Len(t, sum.ByEmployee, 2)
	assert.Equal(t, service.EmployeeHours{EmployeeID: 1, TotalHours: 21, WorkingDays: 3}, sum.ByEmployee[0])
	assert.Equal(t, service.EmployeeHours{EmployeeID: 2, TotalHours: 8.5, WorkingDays: 2}, sum.ByEmployee[1])
}

func TestSummarize_TotalEqualsSumOfEntries(t *testing.T) {
	entries := sampleEntries()
	var want float64
	for _, e := range entries {
		want += e.Hours()
	}

	sum := service.Summarize(entries, service.Filter{})
	assert.InDelta(t, want, sum.TotalHours, 1e-9)
}

func TestSummarize_Filters(t *testing.T) {
	tests := []struct {
		name      string
		filter    service.Filter
		total     float64
		days      int
		employees int
	}{
		{"from", service.Filter{From: "2024-01-01"}, 25.5, 2, 2},
		{"to is exclusive", service.Filter{To: "2024-01-16"}, 20.5, 2, 2},
		{"range", service.Filter{From: "2024-01-15", To: "2024-01-16"}, 16.5, 1, 2},
		{"employee", service.Filter{EmployeeID: 2}, 8.5, 2, 1},
		{"employee and range", service.Filter{EmployeeID: 1, From: "2024-01-16"}, 9, 1, 1},
		{"nothing matches", service.Filter{From: "2025-01-01"}, 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sum := service.Summarize(sampleEntries(), tc.filter)
			assert.InDelta(t, tc.total, sum.TotalHours, 1e-9)
			assert.Equal(t, tc.days, sum.WorkingDays)
			assert.Equal(t, tc.employees, sum.Employees)
		})
	}
}

func TestPeriodRange(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, 3, 13, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		period   string
		from, to string
	}{
		{"today", "2024-03-13", "2024-03-14"},
		{"this-week", "2024-03-10", "2024-03-17"},
		{"this-month", "2024-03-01", "2024-04-01"},
		{"last-month", "2024-02-01", "2024-03-01"},
		{"all", "", ""},
		{"", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.period, func(t *testing.T) {
			from, to, err := service.PeriodRange(tc.period, now)
			require.NoError(t, err)
			assert.Equal(t, tc.from, from)
			assert.Equal(t, tc.to, to)
		})
	}

	_, _, err := service.PeriodRange("fortnight", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPeriodRange_YearBoundaries(t *testing.T) {
	jan := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	from, to, err := service.PeriodRange("last-month", jan)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-01", from)
	assert.Equal(t, "2024-01-01", to)

	from, to, err = service.PeriodRange("this-week", jan)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", from)
	assert.Equal(t, "2024-01-07", to)
}

func TestMonthRange(t *testing.T) {
	from, to, err := service.MonthRange("2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", from)
	assert.Equal(t, "2024-03-01", to)

	from, to, err = service.MonthRange("2024-12")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-01", from)
	assert.Equal(t, "2025-01-01", to)

	_, _, err = service.MonthRange("02/2024")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReportService_Summary(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	boss := register(t, f.auth, "Maria Souza", "maria@empresa.com", domain.UserTypeEmployer)
	joao, err := f.auth.AddEmployee(ctx, boss, "João Silva", "joao@empresa.com", "secret123")
	require.NoError(t, err)
	ana, err := f.auth.AddEmployee(ctx, boss, "Ana Costa", "ana@empresa.com", "secret123")
	require.NoError(t, err)

	work := func(id int64, in, out string) {
		f.clock.Set(in)
		_, err := f.attendance.CheckIn(ctx, id, nil)
		require.NoError(t, err)
		if out != "" {
			f.clock.Set(out)
			_, err = f.attendance.CheckOut(ctx, id, nil)
			require.NoError(t, err)
		}
	}

	f.clock.SetDate("2024-01-15")
	work(joao.ID, "08:00", "17:00")
	work(ana.ID, "09:15", "17:45")
	f.clock.SetDate("2024-01-16")
	work(joao.ID, "08:00", "")

	sum, err := f.reports.Summary(ctx, boss, service.ReportQuery{Period: service.PeriodThisMonth})
	require.NoError(t, err)
	assert.InDelta(t, 17.5, sum.TotalHours, 1e-9)
	assert.Equal(t, 2, sum.WorkingDays)
	assert.Equal(t, 2, sum.Employees)
	assert.InDelta(t, 8.75, sum.AverageHours, 1e-9)
	assert.Equal(t, 1, sum.PartialEntries)
	require.Len(t, sum.ByEmployee, 2)
	assert.Equal(t, "João Silva", sum.ByEmployee[0].Name)
	assert.Equal(t, "Ana Costa", sum.ByEmployee[1].Name)

	today, err := f.reports.Summary(ctx, boss, service.ReportQuery{Period: service.PeriodToday})
	require.NoError(t, err)
	assert.Equal(t, 1, today.WorkingDays)
	assert.Zero(t, today.TotalHours)

	mine, err := f.reports.Summary(ctx, ana, service.ReportQuery{From: "2024-01-01", To: "2024-02-01"})
	require.NoError(t, err)
	assert.InDelta(t, 8.5, mine.TotalHours, 1e-9)
	assert.Equal(t, 1, mine.Employees)

	_, err = f.reports.Summary(ctx, ana, service.ReportQuery{EmployeeID: joao.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReportService_Timesheet(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	boss := register(t, f.auth, "Maria Souza", "maria@empresa.com", domain.UserTypeEmployer)
	joao, err := f.auth.AddEmployee(ctx, boss, "João Silva", "joao@empresa.com", "secret123")
	require.NoError(t, err)

	f.clock.Set("08:00")
	_, err = f.attendance.CheckIn(ctx, joao.ID, nil)
	require.NoError(t, err)
	f.clock.Set("12:30")
	_, err = f.attendance.CheckOut(ctx, joao.ID, nil)
	require.NoError(t, err)

	ts, err := f.reports.Timesheet(ctx, joao, 0, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", ts.Month)
	assert.Equal(t, joao.ID, ts.Employee.ID)
	require.Len(t, ts.Entries, 1)
	assert.InDelta(t, 4.5, ts.Summary.TotalHours, 1e-9)

	byBoss, err := f.reports.Timesheet(ctx, boss, joao.ID, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, "João Silva", byBoss.Employee.Name)

	empty, err := f.reports.Timesheet(ctx, boss, joao.ID, "2023-12")
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)

	_, err = f.reports.Timesheet(ctx, boss, 0, "2024-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
