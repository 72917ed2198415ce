package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/msomdec/timeclock/internal/domain"
)

// Period presets understood by PeriodRange.
const (
	PeriodToday     = "today"
	PeriodThisWeek  = "this-week"
	PeriodThisMonth = "this-month"
	PeriodLastMonth = "last-month"
	PeriodAll       = "all"
)

const monthLayout = "2006-01"

// Filter restricts Summarize to a half-open date range [From, To) and
// optionally one employee. Empty bounds and a zero EmployeeID are unconstrained.
type Filter struct {
	From       string
	To         string
	EmployeeID int64
}

func (f Filter) match(e *domain.TimeEntry) bool {
	if f.From != "" && e.Date < f.From {
		return false
	}
	if f.To != "" && e.Date >= f.To {
		return false
	}
	return f.EmployeeID == 0 || e.EmployeeID == f.EmployeeID
}

// EmployeeHours is one employee's share of a Summary.
type EmployeeHours struct {
	EmployeeID  int64
	Name        string
	TotalHours  float64
	WorkingDays int
}

// Summary aggregates a set of time entries over [From, To).
type Summary struct {
	From             string
	To               string
	TotalHours       float64
	WorkingDays      int // distinct dates
	Employees        int // distinct employees
	AverageHours     float64
	CompletedEntries int
	PartialEntries   int
	ByEmployee       []EmployeeHours // ordered by EmployeeID
}

// Summarize reduces the entries matching f. Entries without total hours
// count as zero. AverageHours is TotalHours per working day, or 0.
func Summarize(entries []domain.TimeEntry, f Filter) Summary {
	var (
		sum   = Summary{From: f.From, To: f.To}
		days  = make(map[string]struct{})
		per   = make(map[int64]*EmployeeHours)
		pdays = make(map[int64]map[string]struct{})
	)

	for i := range entries {
		e := &entries[i]
		if !f.match(e) {
			continue
		}

		sum.TotalHours += e.Hours()
		days[e.Date] = struct{}{}
		switch {
		case e.Complete():
			sum.CompletedEntries++
		case e.CheckIn != "":
			sum.PartialEntries++
		}

		eh, ok := per[e.EmployeeID]
		if !ok {
			eh = &EmployeeHours{EmployeeID: e.EmployeeID}
			per[e.EmployeeID] = eh
			pdays[e.EmployeeID] = make(map[string]struct{})
		}
		eh.TotalHours += e.Hours()
		pdays[e.EmployeeID][e.Date] = struct{}{}
	}

	sum.TotalHours = roundHours(sum.TotalHours)
	sum.WorkingDays = len(days)
	sum.Employees = len(per)
	if sum.WorkingDays > 0 {
		sum.AverageHours = roundHours(sum.TotalHours / float64(sum.WorkingDays))
	}

	sum.ByEmployee = make([]EmployeeHours, 0, len(per))
	for id, eh := range per {
		eh.TotalHours = roundHours(eh.TotalHours)
		eh.WorkingDays = len(pdays[id])
		sum.ByEmployee = append(sum.ByEmployee, *eh)
	}
	slices.SortFunc(sum.ByEmployee, func(a, b EmployeeHours) int {
		return cmp.Compare(a.EmployeeID, b.EmployeeID)
	})

	return sum
}

// PeriodRange maps a period preset to a half-open [from, to) date range
// relative to now. Weeks start on Sunday. PeriodAll and the empty string
// return an unbounded range.
func PeriodRange(period string, now time.Time) (from, to string, err error) {
	y, m, d := now.Date()
	loc := now.Location()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	month := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	switch period {
	case "", PeriodAll:
		return "", "", nil
	case PeriodToday:
		return dateOf(day), dateOf(day.AddDate(0, 0, 1)), nil
	case PeriodThisWeek:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return dateOf(start), dateOf(start.AddDate(0, 0, 7)), nil
	case PeriodThisMonth:
		return dateOf(month), dateOf(month.AddDate(0, 1, 0)), nil
	case PeriodLastMonth:
		return dateOf(month.AddDate(0, -1, 0)), dateOf(month), nil
	default:
		return "", "", fmt.Errorf("%w: unknown period %q", domain.ErrInvalidInput, period)
	}
}

// MonthRange maps a YYYY-MM month to its [first day, first day of next month) range.
func MonthRange(month string) (from, to string, err error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", "", fmt.Errorf("%w: month %q must be YYYY-MM", domain.ErrInvalidInput, month)
	}
	return dateOf(t), dateOf(t.AddDate(0, 1, 0)), nil
}

// ReportQuery selects the entries a report covers. A non-empty Period
// takes precedence over From/To.
type ReportQuery struct {
	Period     string
	From       string
	To         string
	EmployeeID int64
}

// Timesheet is one employee's month of entries with its summary.
type Timesheet struct {
	Employee *domain.User
	Month    string
	Entries  []domain.TimeEntry
	Summary  Summary
}

// ReportService builds summaries and timesheets on top of the attendance
// queries, honouring the viewer's visibility.
type ReportService struct {
	attendance *AttendanceService
	users      domain.UserRepository
}

// NewReportService creates a new ReportService.
func NewReportService(attendance *AttendanceService, users domain.UserRepository) *ReportService {
	return &ReportService{attendance: attendance, users: users}
}

// Summary aggregates the entries selected by q that viewer may see.
func (s *ReportService) Summary(ctx context.Context, viewer *domain.User, q ReportQuery) (Summary, error) {
	from, to := q.From, q.To
	if q.Period != "" {
		var err error
		from, to, err = PeriodRange(q.Period, s.attendance.Now())
		if err != nil {
			return Summary{}, err
		}
	}

	filter := domain.TimeEntryFilter{From: from, To: to}
	if q.EmployeeID != 0 {
		filter.EmployeeIDs = []int64{q.EmployeeID}
	}

	entries, err := s.attendance.ListEntries(ctx, viewer, filter)
	if err != nil {
		return Summary{}, err
	}

	sum := Summarize(entries, Filter{From: from, To: to, EmployeeID: q.EmployeeID})
	if err := s.fillNames(ctx, viewer, sum.ByEmployee); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// Timesheet returns one employee's entries for month (YYYY-MM, default the
// current month). Employees always get their own timesheet; employers must
// name an employee of their company.
func (s *ReportService) Timesheet(ctx context.Context, viewer *domain.User, employeeID int64, month string) (*Timesheet, error) {
	if viewer == nil {
		return nil, domain.ErrUnauthorized
	}
	if month == "" {
		month = s.attendance.Now().Format(monthLayout)
	}
	from, to, err := MonthRange(month)
	if err != nil {
		return nil, err
	}

	if employeeID == 0 {
		if viewer.IsEmployer() {
			return nil, fmt.Errorf("%w: employeeId is required", domain.ErrInvalidInput)
		}
		employeeID = viewer.ID
	}

	entries, err := s.attendance.ListEntries(ctx, viewer, domain.TimeEntryFilter{
		EmployeeIDs: []int64{employeeID},
		From:        from,
		To:          to,
	})
	if err != nil {
		return nil, err
	}

	employee := viewer
	if employeeID != viewer.ID {
		employee, err = s.users.GetByID(ctx, employeeID)
		if err != nil {
			return nil, fmt.Errorf("get employee: %w", err)
		}
	}

	sum := Summarize(entries, Filter{From: from, To: to})
	for i := range sum.ByEmployee {
		sum.ByEmployee[i].Name = employee.Name
	}

	return &Timesheet{Employee: employee, Month: month, Entries: entries, Summary: sum}, nil
}

func (s *ReportService) fillNames(ctx context.Context, viewer *domain.User, rows []EmployeeHours) error {
	if len(rows) == 0 {
		return nil
	}
	if !viewer.IsEmployer() {
		for i := range rows {
			rows[i].Name = viewer.Name
		}
		return nil
	}

	employees, err := s.users.ListEmployees(ctx, viewer.CompanyID)
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}
	names := make(map[int64]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	for i := range rows {
		rows[i].Name = names[rows[i].EmployeeID]
	}
	return nil
}
