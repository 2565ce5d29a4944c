package models

import (
	"time"
)

// XPLedgerEntry is one immutable XP award tied to a single message.
// Amounts carry three decimal places and are never negative.
type XPLedgerEntry struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	UserID    int64     `db:"user_id"`
	AwardedAt time.Time `db:"awarded_at"`
	Amount    float64   `db:"amount"`
}

// XPSnapshot is the cached rolling total for a (guild, user) pair,
// recomputed from the ledger on every award. The ledger is the source of
// truth; the snapshot is derived.
type XPSnapshot struct {
	GuildID   int64     `db:"guild_id"`
	UserID    int64     `db:"user_id"`
	Total     float64   `db:"total"`
	UpdatedAt time.Time `db:"updated_at"`
}
