package models

import (
	"time"
)

// Reminder is a one-shot delayed message delivery. It transitions
// Pending -> Completed exactly once and is never deleted.
type Reminder struct {
	ID             int64     `db:"id"`
	GuildID        int64     `db:"guild_id"`
	UserID         int64     `db:"user_id"`
	ChannelID      int64     `db:"channel_id"`
	MessageLink    string    `db:"message_link"`
	MessagePreview *string   `db:"message_preview"`
	RemindAt       time.Time `db:"remind_at"`
	Completed      bool      `db:"completed"`
	CreatedAt      time.Time `db:"created_at"`
}
