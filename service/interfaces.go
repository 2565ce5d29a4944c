package service

import (
	"context"
	"time"

	"github.com/UlisseMini/communitybot/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Upsert ensures a user row exists, refreshing the cached username
	Upsert(ctx context.Context, userID int64, username string) error

	// GetByID retrieves a user by Discord ID, or nil if unknown
	GetByID(ctx context.Context, userID int64) (*models.User, error)
}

// GuildRepository defines the interface for guild data access
type GuildRepository interface {
	// Upsert ensures a guild row exists, refreshing the cached name
	Upsert(ctx context.Context, guildID int64, name string) error
}

// XPRepository defines the interface for XP ledger and snapshot data access
type XPRepository interface {
	// HasEntrySince reports whether a ledger entry exists at or after since
	HasEntrySince(ctx context.Context, guildID, userID int64, since time.Time) (bool, error)

	// AppendEntry appends one immutable ledger entry
	AppendEntry(ctx context.Context, guildID, userID int64, amount float64, awardedAt time.Time) error

	// SumEntriesSince sums ledger amounts at or after since
	SumEntriesSince(ctx context.Context, guildID, userID int64, since time.Time) (float64, error)

	// UpsertSnapshot writes the cached rolling total
	UpsertSnapshot(ctx context.Context, guildID, userID int64, total float64, updatedAt time.Time) error
}

// PersonalChannelRepository defines the interface for personal channel data access
type PersonalChannelRepository interface {
	// Get retrieves the record for (guild, user), or nil
	Get(ctx context.Context, guildID, userID int64) (*models.PersonalChannel, error)

	// GetByChannelID retrieves the record owning a channel, or nil
	GetByChannelID(ctx context.Context, guildID, channelID int64) (*models.PersonalChannel, error)

	// Upsert creates or replaces the assignment for (guild, user)
	Upsert(ctx context.Context, guildID, userID, channelID int64) error

	// Delete removes the record for (guild, user)
	Delete(ctx context.Context, guildID, userID int64) error

	// TouchLastActivity updates the last-activity timestamp
	TouchLastActivity(ctx context.Context, guildID, userID int64, at time.Time) error

	// GetActiveUserIDs returns users with activity at or after since
	GetActiveUserIDs(ctx context.Context, guildID int64, since time.Time) (map[int64]struct{}, error)
}

// ReminderRepository defines the interface for reminder data access
type ReminderRepository interface {
	// Create persists a pending reminder
	Create(ctx context.Context, reminder *models.Reminder) error

	// GetDue returns pending reminders with remind_at <= now
	GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error)

	// MarkCompleted transitions a reminder to completed
	MarkCompleted(ctx context.Context, id int64) error
}

// GuildSettingsRepository defines the interface for guild settings data access
type GuildSettingsRepository interface {
	// GetOrCreate retrieves settings, lazily creating an empty row
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// Update writes settings
	Update(ctx context.Context, settings *models.GuildSettings) error
}

// XPService defines the interface for the XP engine
type XPService interface {
	// AwardForMessage computes and records the XP award for one qualifying
	// message, returning the amount written to the ledger.
	AwardForMessage(ctx context.Context, guildID, userID int64, username, guildName, content string) (float64, error)

	// GetUserXP sums ledger entries over the trailing window of whole days
	GetUserXP(ctx context.Context, guildID, userID int64, days int) (float64, error)
}

// ActivityService classifies recently active users from channel activity
type ActivityService interface {
	// GetActiveUsers returns the set of users whose personal channel saw
	// activity within the trailing window of whole days.
	GetActiveUsers(ctx context.Context, guildID int64, days int) (map[int64]struct{}, error)
}

// ChannelService manages personal channel assignments
type ChannelService interface {
	// GetChannel returns the user's channel record, or nil
	GetChannel(ctx context.Context, guildID, userID int64) (*models.PersonalChannel, error)

	// GetChannelOwner returns the record owning a channel, or nil
	GetChannelOwner(ctx context.Context, guildID, channelID int64) (*models.PersonalChannel, error)

	// AssignChannel records a channel as the user's personal channel
	AssignChannel(ctx context.Context, guildID, userID, channelID int64, username, guildName string) error

	// ReleaseChannel drops a stale or torn-down assignment
	ReleaseChannel(ctx context.Context, guildID, userID int64) error

	// RecordActivity bumps last activity if the message hit the author's
	// personal channel. Returns whether it did.
	RecordActivity(ctx context.Context, guildID, userID, channelID int64, at time.Time) (bool, error)
}

// ReminderService owns reminder creation and the delivery cycle
type ReminderService interface {
	// CreateReminder persists a pending reminder
	CreateReminder(ctx context.Context, guildID, userID, channelID int64, messageLink string, preview *string, remindAt time.Time) (*models.Reminder, error)

	// DeliverDue attempts delivery of every due pending reminder
	DeliverDue(ctx context.Context, now time.Time)
}

// ReminderSender delivers one reminder to its target channel. Implemented
// by the Discord layer; the service only classifies the returned error.
type ReminderSender interface {
	SendReminder(ctx context.Context, reminder *models.Reminder) error
}

// SettingsService manages per-guild settings
type SettingsService interface {
	// GetSettings retrieves settings, creating them lazily
	GetSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// SetWelcomeMessage stores the welcome template for a guild
	SetWelcomeMessage(ctx context.Context, guildID int64, guildName, message string) error

	// SetActiveRole stores the activity role id for a guild
	SetActiveRole(ctx context.Context, guildID int64, guildName string, roleID int64) error
}
