package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// User is a stored account. The password hash never leaves this package
// in serialized form.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PasswordSet  bool      `json:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUser inserts a new user and returns its ID
func (db *DB) CreateUser(ctx context.Context, name, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`,
		name, email,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil without error when no
// user exists.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return db.scanUser(ctx,
		`SELECT id, name, email, password_hash, password_set, created_at, updated_at
		 FROM users WHERE id = $1`, id)
}

// GetUserByEmail retrieves a user by email. Returns nil without error
// when no user exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return db.scanUser(ctx,
		`SELECT id, name, email, password_hash, password_set, created_at, updated_at
		 FROM users WHERE email = $1`, email)
}

func (db *DB) scanUser(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PasswordSet, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// CheckEmailExists reports whether an account already uses the email
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdatePassword stores a new password hash and marks the password set
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, password_set = TRUE, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// DeleteUser removes a user and, through the foreign key, their resumes
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
