package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/timeclock/internal/domain"
)

// TimeEntryRepository implements domain.TimeEntryRepository using SQLite.
type TimeEntryRepository struct {
	db *sql.DB
}

// NewTimeEntryRepository creates a new SQLite-backed TimeEntryRepository.
func NewTimeEntryRepository(db *DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db.SqlDB}
}

const entryColumns = `id, employee_id, entry_date, check_in, check_out,
	latitude, longitude, address, total_hours, created_at, updated_at`

func (r *TimeEntryRepository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date string) (*domain.TimeEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE employee_id = ? AND entry_date = ?`, employeeID, date)
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
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO time_entries (employee_id, entry_date, check_in, check_out,
		 latitude, longitude, address, total_hours, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.EmployeeID, entry.Date, entry.CheckIn, entry.CheckOut,
		entry.Location.Latitude, entry.Location.Longitude, entry.Location.Address,
		nullFloat(entry.TotalHours), now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: entry for employee %d on %s exists", domain.ErrConflict, entry.EmployeeID, entry.Date)
		}
		return fmt.Errorf("insert time entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get time entry id: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, entry *domain.TimeEntry) error {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE time_entries SET
		 check_in = ?, check_out = ?, latitude = ?, longitude = ?, address = ?,
		 total_hours = ?, updated_at = ?
		 WHERE id = ?`,
		entry.CheckIn, entry.CheckOut,
		entry.Location.Latitude, entry.Location.Longitude, entry.Location.Address,
		nullFloat(entry.TotalHours), now, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update time entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	entry.UpdatedAt = now
	return nil
}

func (r *TimeEntryRepository) List(ctx context.Context, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error) {
	var (
		where []string
		args  []any
	)
	if len(filter.EmployeeIDs) > 0 {
		where = append(where, "employee_id IN (?"+strings.Repeat(", ?", len(filter.EmployeeIDs)-1)+")")
		for _, id := range filter.EmployeeIDs {
			args = append(args, id)
		}
	}
	if filter.From != "" {
		where = append(where, "entry_date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where = append(where, "entry_date < ?")
		args = append(args, filter.To)
	}

	query := `SELECT ` + entryColumns + ` FROM time_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY entry_date DESC, employee_id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
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
