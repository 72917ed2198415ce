// Package postgres provides PostgreSQL-backed repositories, selected when a
// DATABASE_URL is configured. Schema changes are managed by goose.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/repository/postgres/migrations"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// DB wraps a Postgres connection pool opened through the pgx stdlib driver.
type DB struct {
	SqlDB *sql.DB
}

// New opens and pings a Postgres database.
func New(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// NewFromDB wraps an already opened *sql.DB.
func NewFromDB(db *sql.DB) *DB {
	return &DB{SqlDB: db}
}

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate runs the embedded goose migrations.
func (d *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUp(ctx, d.SqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.SqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.SqlDB.Close()
}

func (d *DB) Users() domain.UserRepository {
	return NewUserRepository(d.SqlDB)
}

func (d *DB) Entries() domain.TimeEntryRepository {
	return NewTimeEntryRepository(d.SqlDB)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
