package models

import (
	"time"
)

// PersonalChannel records the dedicated channel assigned to a user in a
// guild. At most one exists per (guild, user). The channel ID may point at
// a Discord channel that no longer exists; callers treat that as absence
// and delete the record.
type PersonalChannel struct {
	GuildID        int64      `db:"guild_id"`
	UserID         int64      `db:"user_id"`
	ChannelID      int64      `db:"channel_id"`
	CreatedAt      time.Time  `db:"created_at"`
	LastActivityAt *time.Time `db:"last_activity_at"`
}
