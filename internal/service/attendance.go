package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/msomdec/timeclock/internal/domain"
)

const maxAddressLen = 255

// AttendanceService records check-ins and check-outs and answers
// attendance queries.
type AttendanceService struct {
	entries  domain.TimeEntryRepository
	users    domain.UserRepository
	clock    Clock
	fallback domain.Location
	locks    keyedMutex
}

// NewAttendanceService creates a new AttendanceService. fallback is used
// whenever a caller has no coordinates to offer.
func NewAttendanceService(entries domain.TimeEntryRepository, users domain.UserRepository, clock Clock, fallback domain.Location) *AttendanceService {
	return &AttendanceService{
		entries:  entries,
		users:    users,
		clock:    clock,
		fallback: fallback,
	}
}

// Now returns the service clock's current time.
func (s *AttendanceService) Now() time.Time {
	return s.clock.Now()
}

// CheckIn records the current time as today's check-in. A repeated check-in
// on the same day replaces the earlier one and clears any check-out.
// A nil loc records the fallback location.
func (s *AttendanceService) CheckIn(ctx context.Context, employeeID int64, loc *domain.Location) (*domain.TimeEntry, error) {
	where, err := s.resolveLocation(loc)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	date := dateOf(now)

	unlock := s.locks.Lock(entryKey(employeeID, date))
	defer unlock()

	apply := func(e *domain.TimeEntry) {
		e.CheckIn = clockOf(now)
		e.CheckOut = ""
		e.TotalHours = nil
		e.Location = where
	}

	entry, err := s.entries.GetByEmployeeAndDate(ctx, employeeID, date)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		entry = &domain.TimeEntry{EmployeeID: employeeID, Date: date}
		apply(entry)
		err = s.entries.Create(ctx, entry)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("create entry: %w", err)
		}
		// Another writer created the row first.
		entry, err = s.entries.GetByEmployeeAndDate(ctx, employeeID, date)
		if err != nil {
			return nil, fmt.Errorf("reload entry: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("get entry: %w", err)
	}

	apply(entry)
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

// CheckOut records the current time as today's check-out and computes the
// worked hours. It fails with ErrNoCheckIn when there is nothing to close.
func (s *AttendanceService) CheckOut(ctx context.Context, employeeID int64, loc *domain.Location) (*domain.TimeEntry, error) {
	where, err := s.resolveLocation(loc)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	date := dateOf(now)

	unlock := s.locks.Lock(entryKey(employeeID, date))
	defer unlock()

	entry, err := s.entries.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoCheckIn
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry.CheckIn == "" {
		return nil, domain.ErrNoCheckIn
	}

	out := clockOf(now)
	hours, err := Hours(entry.CheckIn, out)
	if err != nil {
		return nil, err
	}

	entry.CheckOut = out
	entry.TotalHours = &hours
	entry.Location = where
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

// Today returns the employee's entry for the current date, or ErrNotFound.
func (s *AttendanceService) Today(ctx context.Context, employeeID int64) (*domain.TimeEntry, error) {
	return s.entries.GetByEmployeeAndDate(ctx, employeeID, dateOf(s.clock.Now()))
}

// ListEntries returns entries visible to viewer, newest first. Employees see
// their own entries; employers see the employees of their company.
func (s *AttendanceService) ListEntries(ctx context.Context, viewer *domain.User, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error) {
	if err := validateDateRange(filter.From, filter.To); err != nil {
		return nil, err
	}

	ids, err := s.visibleEmployees(ctx, viewer, filter.EmployeeIDs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	filter.EmployeeIDs = ids

	entries, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// visibleEmployees narrows requested to the employee ids viewer may read.
// An empty request means every visible employee.
func (s *AttendanceService) visibleEmployees(ctx context.Context, viewer *domain.User, requested []int64) ([]int64, error) {
	if viewer == nil {
		return nil, domain.ErrUnauthorized
	}

	if !viewer.IsEmployer() {
		for _, id := range requested {
			if id != viewer.ID {
				return nil, fmt.Errorf("%w: employees can only view their own entries", domain.ErrForbidden)
			}
		}
		return []int64{viewer.ID}, nil
	}

	employees, err := s.users.ListEmployees(ctx, viewer.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	allowed := make([]int64, 0, len(employees))
	for _, e := range employees {
		allowed = append(allowed, e.ID)
	}

	if len(requested) == 0 {
		return allowed, nil
	}
	for _, id := range requested {
		if !slices.Contains(allowed, id) {
			return nil, fmt.Errorf("%w: employee %d is not in your company", domain.ErrForbidden, id)
		}
	}
	return requested, nil
}

func (s *AttendanceService) resolveLocation(loc *domain.Location) (domain.Location, error) {
	if loc == nil {
		return s.fallback, nil
	}
	if math.IsNaN(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
		return domain.Location{}, fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrInvalidInput)
	}
	if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
		return domain.Location{}, fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(loc.Address) > maxAddressLen {
		return domain.Location{}, fmt.Errorf("%w: address must be at most %d characters", domain.ErrInvalidInput, maxAddressLen)
	}
	return *loc, nil
}

func entryKey(employeeID int64, date string) string {
	return strconv.FormatInt(employeeID, 10) + "/" + date
}

// validateDateRange checks optional YYYY-MM-DD bounds of a half-open range.
func validateDateRange(from, to string) error {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(domain.DateLayout, d); err != nil {
			return fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidInput, d)
		}
	}
	if from != "" && to != "" && to < from {
		return fmt.Errorf("%w: range end %s is before start %s", domain.ErrInvalidInput, to, from)
	}
	return nil
}
