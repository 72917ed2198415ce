package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/timeclock/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	minNameLen     = 3
	minPasswordLen = 6
	tokenTTL       = 24 * time.Hour
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Type     domain.UserType
}

// TokenClaims are the identity facts carried by a session token.
type TokenClaims struct {
	UserID int64
	Role   domain.UserType
}

// AuthService handles registration, login, employee management and JWT
// token operations.
type AuthService struct {
	users      domain.UserRepository
	jwtSecret  []byte
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, jwtSecret string, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
	}
}

// Register creates a new account. Employers are given a fresh company id.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be employee or employer", domain.ErrInvalidInput)
	}

	var companyID string
	if in.Type == domain.UserTypeEmployer {
		companyID = uuid.NewString()
	}
	return s.createUser(ctx, in, companyID)
}

// Login verifies credentials and returns a signed JWT token string together
// with the user. Unknown emails and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate jwt: %w", err)
	}

	return token, user, nil
}

// AddEmployee creates an employee account in employer's company.
func (s *AuthService) AddEmployee(ctx context.Context, employer *domain.User, name, email, password string) (*domain.User, error) {
	if employer == nil || !employer.IsEmployer() {
		return nil, fmt.Errorf("%w: only employers can add employees", domain.ErrForbidden)
	}
	return s.createUser(ctx, RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Type:     domain.UserTypeEmployee,
	}, employer.CompanyID)
}

// ListEmployees returns the employees of employer's company ordered by name.
func (s *AuthService) ListEmployees(ctx context.Context, employer *domain.User) ([]domain.User, error) {
	if employer == nil || !employer.IsEmployer() {
		return nil, fmt.Errorf("%w: only employers can list employees", domain.ErrForbidden)
	}
	users, err := s.users.ListEmployees(ctx, employer.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return users, nil
}

// ValidateToken parses and validates a JWT token string.
func (s *AuthService) ValidateToken(tokenString string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return TokenClaims{}, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return TokenClaims{}, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return TokenClaims{}, domain.ErrUnauthorized
	}

	role, _ := claims["role"].(string)
	return TokenClaims{UserID: userID, Role: domain.UserType(role)}, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, companyID string) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < minNameLen {
		return nil, fmt.Errorf("%w: name must be at least %d characters", domain.ErrInvalidInput, minNameLen)
	}

	email := normalizeEmail(in.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}

	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Type:         in.Type,
		CompanyID:    companyID,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"role":  string(user.Type),
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
