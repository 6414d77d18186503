package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"madrasa/internal/domain"
	"madrasa/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

// CreateUser inserts a new user. A duplicate email yields a CONFLICT error.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.NewInvalidInputError("cannot create nil user")
	}
	exec := GetExecutor(ctx, r.db)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m := fromDomainUser(user)

	query := exec.Rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := exec.ExecContext(ctx, query, m.ID, m.Name, m.Email, m.PasswordHash, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("email is already registered").WithContext("email", user.Email)
		}
		return domain.NewStorageError("failed to create user", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by normalized email. Returns nil, nil when absent.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)

	var m models.User
	query := exec.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	if err := exec.GetContext(ctx, &m, query, domain.NormalizeEmail(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStorageError("failed to get user by email", err)
	}
	return toDomainUser(&m), nil
}

// GetUserByID retrieves a user by ID. Returns nil, nil when absent.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)

	var m models.User
	query := exec.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := exec.GetContext(ctx, &m, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStorageError("failed to get user by id", err)
	}
	return toDomainUser(&m), nil
}

// isUniqueViolation recognises duplicate-key errors from the three supported drivers:
// sqlite3 "UNIQUE constraint failed", postgres SQLSTATE 23505 and Oracle ORA-00001.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "ORA-00001")
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
