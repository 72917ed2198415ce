package domain

import (
	"context"
	"time"
)

// UserType distinguishes workers from the managers who review them.
type UserType string

const (
	UserTypeEmployee UserType = "employee"
	UserTypeEmployer UserType = "employer"
)

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	return t == UserTypeEmployee || t == UserTypeEmployer
}

// User represents a registered account.
type User struct {
	ID           int64
	Name         string
	Email        string
	Type         UserType
	CompanyID    string // Empty when the user belongs to no company
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsEmployer reports whether the user manages a company.
func (u *User) IsEmployer() bool {
	return u.Type == UserTypeEmployer
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListEmployees returns the employees of a company ordered by name.
	ListEmployees(ctx context.Context, companyID string) ([]User, error)
}
