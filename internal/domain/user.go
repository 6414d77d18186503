package domain

import (
	"context"
	"net/mail"
	"strings"
	"time"
)

// User represents a registered learner
type User struct {
	ID           string // ULID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User instance
func NewUser(name, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeEmail lowercases and trims an address so uniqueness is case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates the user
func (u *User) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, NewMissingFieldError("name"))
	}
	if u.Email == "" {
		errs = append(errs, NewMissingFieldError("email"))
	} else if _, err := mail.ParseAddress(u.Email); err != nil {
		errs = append(errs, NewInvalidFormatError("email", u.Email))
	}
	if u.PasswordHash == "" {
		errs = append(errs, NewMissingFieldError("password"))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
}
