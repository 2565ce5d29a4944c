package models

import (
	"time"
)

// User represents a Discord user known to the bot. The username is a cache
// of the last name we saw; the Discord ID is the only authoritative identity.
type User struct {
	UserID    int64     `db:"user_id"`
	Username  *string   `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

// Guild represents a Discord server the bot operates in.
type Guild struct {
	GuildID int64   `db:"guild_id"`
	Name    *string `db:"name"`
}
