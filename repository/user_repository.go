package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"optinet-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, role, reset_token, reset_token_expires, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.ResetToken,
		&user.ResetTokenExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Create creates a new user. Emails are case-folded before storage.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.Name,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// GetByEmail retrieves a user by case-folded email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// SetResetToken stores a password reset token with its expiry on the user
// identified by email. Returns ErrNotFound when no such account exists.
func (r *UserRepository) SetResetToken(ctx context.Context, email, token string, expires time.Time) error {
	query := `
		UPDATE users SET
			reset_token = $2,
			reset_token_expires = $3,
			updated_at = NOW()
		WHERE lower(email) = lower($1)`

	tag, err := r.db.Exec(ctx, query, email, token, expires)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPasswordByToken replaces the password hash and clears the reset
// fields in a single conditional update. The token must match a stored,
// non-expired value; otherwise ErrNotFound is returned and nothing changes.
func (r *UserRepository) ResetPasswordByToken(ctx context.Context, token, passwordHash string) (*models.User, error) {
	query := `
		UPDATE users SET
			password_hash = $2,
			reset_token = NULL,
			reset_token_expires = NULL,
			updated_at = NOW()
		WHERE reset_token = $1 AND reset_token_expires > NOW()
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, token, passwordHash))
}
