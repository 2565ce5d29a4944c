package repository

import (
	"context"
	"fmt"

	"github.com/UlisseMini/communitybot/database"
)

// GuildRepository implements the service.GuildRepository interface
type GuildRepository struct {
	q queryable
}

// NewGuildRepository creates a new guild repository
func NewGuildRepository(db *database.DB) *GuildRepository {
	return &GuildRepository{q: db.Pool}
}

// Upsert ensures a guild row exists, refreshing the cached name when a
// non-empty one is supplied.
func (r *GuildRepository) Upsert(ctx context.Context, guildID int64, name string) error {
	query := `
		INSERT INTO guilds (guild_id, name)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (guild_id) DO UPDATE
		SET name = COALESCE(EXCLUDED.name, guilds.name)
	`

	if _, err := r.q.Exec(ctx, query, guildID, name); err != nil {
		return fmt.Errorf("failed to upsert guild %d: %w", guildID, err)
	}

	return nil
}
