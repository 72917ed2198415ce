package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/timeclock/internal/domain"
)

// UserRepository implements domain.UserRepository over Postgres.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, user_type, company_id, password_hash, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, user_type, company_id, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		user.Name, user.Email, string(user.Type), user.CompanyID, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	var userType string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &userType, &u.CompanyID, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.Type = domain.UserType(userType)
	return u, nil
}

func (r *UserRepository) ListEmployees(ctx context.Context, companyID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE user_type = $1 AND company_id = $2
		 ORDER BY name, id`, string(domain.UserTypeEmployee), companyID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var (
			u        domain.User
			userType string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &userType, &u.CompanyID, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		u.Type = domain.UserType(userType)
		users = append(users, u)
	}
	return users, rows.Err()
}
