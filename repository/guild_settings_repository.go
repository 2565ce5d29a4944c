package repository

import (
	"context"
	"fmt"

	"github.com/UlisseMini/communitybot/database"
	"github.com/UlisseMini/communitybot/models"
)

// GuildSettingsRepository implements the service.GuildSettingsRepository interface
type GuildSettingsRepository struct {
	q queryable
}

// NewGuildSettingsRepository creates a new guild settings repository
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

// GetOrCreate retrieves guild settings, lazily creating an empty row on
// first access. Implemented as a single idempotent upsert so concurrent
// callers cannot race the existence check.
func (r *GuildSettingsRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	query := `
		INSERT INTO guild_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, welcome_message, active_role_id
	`

	var settings models.GuildSettings
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&settings.GuildID,
		&settings.WelcomeMessage,
		&settings.ActiveRoleID,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get or create settings for guild %d: %w", guildID, err)
	}

	return &settings, nil
}

// Update writes guild settings
func (r *GuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET welcome_message = $2,
		    active_role_id = $3
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		settings.GuildID,
		settings.WelcomeMessage,
		settings.ActiveRoleID,
	)

	if err != nil {
		return fmt.Errorf("failed to update settings for guild %d: %w", settings.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("settings for guild %d not found", settings.GuildID)
	}

	return nil
}
