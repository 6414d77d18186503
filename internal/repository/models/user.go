package models

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID           string    `db:"id"` // ULID
	Name         string    `db:"name"`
	Email        string    `db:"email"` // stored normalized (lower case)
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
