package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UlisseMini/communitybot/database"
	"github.com/UlisseMini/communitybot/models"
	"github.com/jackc/pgx/v5"
)

// PersonalChannelRepository implements the service.PersonalChannelRepository interface
type PersonalChannelRepository struct {
	q queryable
}

// NewPersonalChannelRepository creates a new personal channel repository
func NewPersonalChannelRepository(db *database.DB) *PersonalChannelRepository {
	return &PersonalChannelRepository{q: db.Pool}
}

// Get retrieves the channel record for (guild, user), or nil if none exists
func (r *PersonalChannelRepository) Get(ctx context.Context, guildID, userID int64) (*models.PersonalChannel, error) {
	query := `
		SELECT guild_id, user_id, channel_id, created_at, last_activity_at
		FROM personal_channels
		WHERE guild_id = $1 AND user_id = $2
	`

	var pc models.PersonalChannel
	err := r.q.QueryRow(ctx, query, guildID, userID).Scan(
		&pc.GuildID,
		&pc.UserID,
		&pc.ChannelID,
		&pc.CreatedAt,
		&pc.LastActivityAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personal channel for user %d in guild %d: %w", userID, guildID, err)
	}

	return &pc, nil
}

// GetByChannelID retrieves the record that maps a channel to its owner,
// or nil if the channel is not assigned to anyone.
func (r *PersonalChannelRepository) GetByChannelID(ctx context.Context, guildID, channelID int64) (*models.PersonalChannel, error) {
	query := `
		SELECT guild_id, user_id, channel_id, created_at, last_activity_at
		FROM personal_channels
		WHERE guild_id = $1 AND channel_id = $2
	`

	var pc models.PersonalChannel
	err := r.q.QueryRow(ctx, query, guildID, channelID).Scan(
		&pc.GuildID,
		&pc.UserID,
		&pc.ChannelID,
		&pc.CreatedAt,
		&pc.LastActivityAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personal channel %d in guild %d: %w", channelID, guildID, err)
	}

	return &pc, nil
}

// Upsert creates or replaces the channel assignment for (guild, user)
func (r *PersonalChannelRepository) Upsert(ctx context.Context, guildID, userID, channelID int64) error {
	query := `
		INSERT INTO personal_channels (guild_id, user_id, channel_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET channel_id = EXCLUDED.channel_id
	`

	if _, err := r.q.Exec(ctx, query, guildID, userID, channelID); err != nil {
		return fmt.Errorf("failed to upsert personal channel for user %d in guild %d: %w", userID, guildID, err)
	}

	return nil
}

// Delete removes the channel record for (guild, user). Deleting a missing
// record is not an error; self-heal paths call this without checking first.
func (r *PersonalChannelRepository) Delete(ctx context.Context, guildID, userID int64) error {
	query := `
		DELETE FROM personal_channels
		WHERE guild_id = $1 AND user_id = $2
	`

	if _, err := r.q.Exec(ctx, query, guildID, userID); err != nil {
		return fmt.Errorf("failed to delete personal channel for user %d in guild %d: %w", userID, guildID, err)
	}

	return nil
}

// TouchLastActivity updates the last-activity timestamp for (guild, user)
func (r *PersonalChannelRepository) TouchLastActivity(ctx context.Context, guildID, userID int64, at time.Time) error {
	query := `
		UPDATE personal_channels
		SET last_activity_at = $3
		WHERE guild_id = $1 AND user_id = $2
	`

	if _, err := r.q.Exec(ctx, query, guildID, userID, at); err != nil {
		return fmt.Errorf("failed to touch personal channel activity for user %d in guild %d: %w", userID, guildID, err)
	}

	return nil
}

// GetActiveUserIDs returns the set of users in a guild whose personal
// channel saw activity at or after since. Users with no recorded activity
// are excluded.
func (r *PersonalChannelRepository) GetActiveUserIDs(ctx context.Context, guildID int64, since time.Time) (map[int64]struct{}, error) {
	query := `
		SELECT user_id
		FROM personal_channels
		WHERE guild_id = $1 AND last_activity_at >= $2
	`

	rows, err := r.q.Query(ctx, query, guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get active users for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	active := make(map[int64]struct{})
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan active user: %w", err)
		}
		active[userID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active users: %w", err)
	}

	return active, nil
}
