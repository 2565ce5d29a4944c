package models

// GuildSettings holds per-guild configuration, created lazily on first use.
type GuildSettings struct {
	GuildID        int64   `db:"guild_id"`
	WelcomeMessage *string `db:"welcome_message"`
	ActiveRoleID   *int64  `db:"active_role_id"`
}
