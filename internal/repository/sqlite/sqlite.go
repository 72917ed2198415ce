package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection and exposes the repositories built on it.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// A single connection serializes writers, so read-then-write sequences
	// inside a transaction cannot interleave.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies the embedded SQLite migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Ping verifies the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.SqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Users returns the SQLite-backed user repository.
func (d *DB) Users() domain.UserRepository {
	return NewUserRepository(d)
}

// Entries returns the SQLite-backed time entry repository.
func (d *DB) Entries() domain.TimeEntryRepository {
	return NewTimeEntryRepository(d)
}
