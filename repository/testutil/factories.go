package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UlisseMini/communitybot/database"
)

// SeedUserAndGuild inserts the user and guild rows the foreign keys on
// personal_channels, xp_ledger and reminders require.
func SeedUserAndGuild(t *testing.T, db *database.DB, userID, guildID int64) {
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO users (user_id, username) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, "test_user")
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		`INSERT INTO guilds (guild_id, name) VALUES ($1, $2) ON CONFLICT (guild_id) DO NOTHING`,
		guildID, "test_guild")
	require.NoError(t, err)
}
