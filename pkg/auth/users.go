package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for unknown users and wrong
	// passwords alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken is returned when the requested username exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
)

// UserStore manages user accounts
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new user store
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser registers a new account with a bcrypt-hashed password
func (s *UserStore) CreateUser(ctx context.Context, username, email, password string) (*User, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, email,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{Username: username, Email: email, IsActive: true}
	now := time.Now()
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING id`,
		username, email, string(hash), true, now,
	).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords return the same error.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user := &User{}
	var email sql.NullString
	var passwordHash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_active, created_at, updated_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &email, &passwordHash, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if email.Valid {
		user.Email = email.String
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	_, _ = s.db.ExecContext(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, now, user.ID)
	user.LastLoginAt = &now

	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserStore) GetUser(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, is_active, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &email, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if email.Valid {
		user.Email = email.String
	}
	return user, nil
}
