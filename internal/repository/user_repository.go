package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dasschool/das-verify/internal/model"
)

// ErrUserNotFound is returned when a username does not exist.
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles API login account data access.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	var role string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, full_name, role, password_hash, created_at
		FROM users
		WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.FullName, &role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.Role = model.Role(role)
	return &u, nil
}

// Create inserts a new user and returns its id.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, full_name, role, password_hash)
		VALUES (?, ?, ?, ?)`,
		user.Username, user.FullName, string(user.Role), user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	user.ID = int(id)
	return nil
}
