package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/pewma/pkg/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Emails are stored lowercased.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)

	query := `
		INSERT INTO users (id, email, username, bio, created_at)
		VALUES (:id, :email, :username, :bio, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail returns a user by email, ignoring case
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = ?", strings.ToLower(email))
}

// EmailTaken reports whether an account already uses email
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", strings.ToLower(email))
}

// UsernameTaken reports whether another account than exceptID uses username, ignoring case
func (r *UserRepository) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	return r.exists(ctx, "LOWER(username) = ? AND id <> ?", strings.ToLower(username), exceptID)
}

// Update stores the username and bio of a user
func (r *UserRepository) Update(ctx context.Context, user models.User) error {
	query := r.db.Rebind("UPDATE users SET username = ?, bio = ? WHERE id = ?")

	result, err := r.db.ExecContext(ctx, query, user.Username, user.Bio, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword stores the password hash of a user, replacing any previous one
func (r *UserRepository) SetPassword(ctx context.Context, userID, hash string) error {
	query := r.db.Rebind(`
		INSERT INTO user_passwords (user_id, password_hash) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET password_hash = excluded.password_hash
	`)
	if _, err := r.db.ExecContext(ctx, query, userID, hash); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

// GetPasswordHash returns the stored password hash of a user
func (r *UserRepository) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	err := r.db.GetContext(ctx, &hash, r.db.Rebind("SELECT password_hash FROM user_passwords WHERE user_id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

func (r *UserRepository) getOne(ctx context.Context, condition string, args ...interface{}) (*models.User, error) {
	query := r.db.Rebind("SELECT id, email, username, bio, created_at FROM users WHERE " + condition)

	var user models.User
	err := r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) exists(ctx context.Context, condition string, args ...interface{}) (bool, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM users WHERE " + condition)
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return count > 0, nil
}
