package repository

import (
	"context"
	"fmt"

	"github.com/UlisseMini/communitybot/database"
	"github.com/UlisseMini/communitybot/models"
	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// Upsert ensures a user row exists, refreshing the cached username when a
// non-empty one is supplied. Safe to call on every touch point.
func (r *UserRepository) Upsert(ctx context.Context, userID int64, username string) error {
	query := `
		INSERT INTO users (user_id, username)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (user_id) DO UPDATE
		SET username = COALESCE(EXCLUDED.username, users.username)
	`

	if _, err := r.q.Exec(ctx, query, userID, username); err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", userID, err)
	}

	return nil
}

// GetByID retrieves a user by their Discord ID, or nil if unknown
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `
		SELECT user_id, username, created_at
		FROM users
		WHERE user_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Username,
		&user.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return &user, nil
}
