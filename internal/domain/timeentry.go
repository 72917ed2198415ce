package domain

import (
	"context"
	"time"
)

// Date and clock layouts used for TimeEntry.Date, CheckIn and CheckOut.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Location is where an attendance action was performed.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

// TimeEntry is one employee's attendance record for one calendar date.
// (EmployeeID, Date) is unique across the store.
type TimeEntry struct {
	ID         int64
	EmployeeID int64
	Date       string // YYYY-MM-DD
	CheckIn    string // HH:MM, empty until checked in
	CheckOut   string // HH:MM, empty until checked out
	Location   Location
	TotalHours *float64 // nil until check-out
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Complete reports whether both clock events are recorded.
func (e *TimeEntry) Complete() bool {
	return e.CheckIn != "" && e.CheckOut != ""
}

// Hours returns TotalHours, treating a missing value as zero.
func (e *TimeEntry) Hours() float64 {
	if e.TotalHours == nil {
		return 0
	}
	return *e.TotalHours
}

// TimeEntryFilter selects entries for listing. Zero values mean "no
// constraint". The date range is half-open: From <= Date < To.
type TimeEntryFilter struct {
	EmployeeIDs []int64
	From        string
	To          string
	Limit       int
}

// TimeEntryRepository handles attendance persistence.
type TimeEntryRepository interface {
	// GetByEmployeeAndDate returns ErrNotFound when no entry exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date string) (*TimeEntry, error)
	// Create returns ErrConflict when an entry for (EmployeeID, Date) already exists.
	Create(ctx context.Context, entry *TimeEntry) error
	Update(ctx context.Context, entry *TimeEntry) error
	// List returns matching entries, newest date first.
	List(ctx context.Context, filter TimeEntryFilter) ([]TimeEntry, error)
}
