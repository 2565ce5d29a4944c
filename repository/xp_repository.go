package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UlisseMini/communitybot/database"
)

// XPRepository implements the service.XPRepository interface over the
// append-only xp_ledger table and its derived xp_snapshots cache.
type XPRepository struct {
	q queryable
}

// NewXPRepository creates a new XP repository
func NewXPRepository(db *database.DB) *XPRepository {
	return &XPRepository{q: db.Pool}
}

// HasEntrySince reports whether any ledger entry exists for (guild, user)
// with a timestamp at or after since. Used for the per-user cooldown.
func (r *XPRepository) HasEntrySince(ctx context.Context, guildID, userID int64, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM xp_ledger
			WHERE guild_id = $1 AND user_id = $2 AND awarded_at >= $3
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, guildID, userID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recent ledger entries for user %d: %w", userID, err)
	}

	return exists, nil
}

// AppendEntry appends one immutable ledger entry
func (r *XPRepository) AppendEntry(ctx context.Context, guildID, userID int64, amount float64, awardedAt time.Time) error {
	query := `
		INSERT INTO xp_ledger (guild_id, user_id, awarded_at, amount)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.q.Exec(ctx, query, guildID, userID, awardedAt, amount); err != nil {
		return fmt.Errorf("failed to append ledger entry for user %d: %w", userID, err)
	}

	return nil
}

// SumEntriesSince sums ledger amounts for (guild, user) with timestamps at
// or after since. Always computed from raw ledger rows, never the snapshot.
func (r *XPRepository) SumEntriesSince(ctx context.Context, guildID, userID int64, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::float8
		FROM xp_ledger
		WHERE guild_id = $1 AND user_id = $2 AND awarded_at >= $3
	`

	var total float64
	if err := r.q.QueryRow(ctx, query, guildID, userID, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries for user %d: %w", userID, err)
	}

	return total, nil
}

// UpsertSnapshot writes the cached rolling total for (guild, user)
func (r *XPRepository) UpsertSnapshot(ctx context.Context, guildID, userID int64, total float64, updatedAt time.Time) error {
	query := `
		INSERT INTO xp_snapshots (guild_id, user_id, total, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET total = EXCLUDED.total, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.q.Exec(ctx, query, guildID, userID, total, updatedAt); err != nil {
		return fmt.Errorf("failed to upsert snapshot for user %d: %w", userID, err)
	}

	return nil
}
