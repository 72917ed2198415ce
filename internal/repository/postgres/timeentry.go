package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/msomdec/timeclock/internal/domain"
)

// TimeEntryRepository implements domain.TimeEntryRepository over Postgres.
type TimeEntryRepository struct {
	db *sql.DB
}

func NewTimeEntryRepository(db *sql.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

const entryColumns = `id, employee_id, to_char(entry_date, 'YYYY-MM-DD'), check_in, check_out,
	latitude, longitude, address, total_hours, created_at, updated_at`

func (r *TimeEntryRepository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date string) (*domain.TimeEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE employee_id = $1 AND entry_date = $2::date`, employeeID, date)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get time entry: %w", err)
	}
	return e, nil
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO time_entries (employee_id, entry_date, check_in, check_out,
		 latitude, longitude, address, total_hours)
		 VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		entry.EmployeeID, entry.Date, entry.CheckIn, entry.CheckOut,
		entry.Location.Latitude, entry.Location.Longitude, entry.Location.Address,
		nullFloat(entry.TotalHours),
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry for employee %d on %s exists", domain.ErrConflict, entry.EmployeeID, entry.Date)
		}
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, entry *domain.TimeEntry) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE time_entries SET
		 check_in = $1, check_out = $2, latitude = $3, longitude = $4, address = $5,
		 total_hours = $6, updated_at = now()
		 WHERE id = $7
		 RETURNING updated_at`,
		entry.CheckIn, entry.CheckOut,
		entry.Location.Latitude, entry.Location.Longitude, entry.Location.Address,
		nullFloat(entry.TotalHours), entry.ID,
	).Scan(&entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update time entry: %w", err)
	}
	return nil
}

func (r *TimeEntryRepository) List(ctx context.Context, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error) {
	var (
		where []string
		args  []any
	)
	param := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if len(filter.EmployeeIDs) > 0 {
		ph := make([]string, len(filter.EmployeeIDs))
		for i, id := range filter.EmployeeIDs {
			ph[i] = param(id)
		}
		where = append(where, "employee_id IN ("+strings.Join(ph, ", ")+")")
	}
	if filter.From != "" {
		where = append(where, "entry_date >= "+param(filter.From)+"::date")
	}
	if filter.To != "" {
		where = append(where, "entry_date < "+param(filter.To)+"::date")
	}

	query := `SELECT ` + entryColumns + ` FROM time_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY entry_date DESC, employee_id"
	if filter.Limit > 0 {
		query += " LIMIT " + param(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*domain.TimeEntry, error) {
	e := &domain.TimeEntry{}
	var total sql.NullFloat64
	if err := s.Scan(&e.ID, &e.EmployeeID, &e.Date, &e.CheckIn, &e.CheckOut,
		&e.Location.Latitude, &e.Location.Longitude, &e.Location.Address,
		&total, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if total.Valid {
		v := total.Float64
		e.TotalHours = &v
	}
	return e, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
