package users

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"api_reports/internal/database"
)

// Role of a user account.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleEmployee Role = "EMPLOYEE"
	RoleAdmin    Role = "ADMIN"
)

var ErrEmptyEmail = errors.New("user email is required")

// User is an account row.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"is_active"`
}

// SQLStorage reads and writes users.
type SQLStorage struct {
	db     *database.DB
	logger *zap.Logger
}

func NewSQLStorage(db *database.DB, logger *zap.Logger) *SQLStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLStorage{db: db, logger: logger}
}

// Create inserts u and sets its ID.
func (s *SQLStorage) Create(ctx context.Context, u *User) error {
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}

	id, err := s.db.Insert(ctx,
		"INSERT INTO users (first_name, last_name, email, role, is_active) VALUES (?, ?, ?, ?, ?)",
		u.FirstName, u.LastName, u.Email, string(u.Role), u.IsActive)
	if err != nil {
		return fmt.Errorf("could not create user: %w", err)
	}
	u.ID = id
	return nil
}

// ActiveStaffEmails returns the emails of active employees, the recipients
// of stock alerts.
func (s *SQLStorage) ActiveStaffEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		s.db.Rebind("SELECT email FROM users WHERE role = ? AND is_active = ? ORDER BY id"),
		string(RoleEmployee), true)
	if err != nil {
		return nil, fmt.Errorf("could not list staff emails: %w", err)
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("could not scan staff email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff emails: %w", err)
	}

	s.logger.Debug("staff emails loaded", zap.Int("count", len(emails)))
	return emails, nil
}
