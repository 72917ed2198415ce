package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own migration files
// and strategy, so the backend stays swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Store is a migrated database exposing the repositories the services need.
type Store interface {
	Database
	Users() UserRepository
	Entries() TimeEntryRepository
}
