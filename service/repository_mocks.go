package service

import (
	"context"
	"time"

	"github.com/UlisseMini/communitybot/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, userID int64, username string) error {
	args := m.Called(ctx, userID, username)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockGuildRepository is a mock implementation of GuildRepository
type MockGuildRepository struct {
	mock.Mock
}

func (m *MockGuildRepository) Upsert(ctx context.Context, guildID int64, name string) error {
	args := m.Called(ctx, guildID, name)
	return args.Error(0)
}

// MockXPRepository is a mock implementation of XPRepository
type MockXPRepository struct {
	mock.Mock
}

func (m *MockXPRepository) HasEntrySince(ctx context.Context, guildID, userID int64, since time.Time) (bool, error) {
	args := m.Called(ctx, guildID, userID, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockXPRepository) AppendEntry(ctx context.Context, guildID, userID int64, amount float64, awardedAt time.Time) error {
	args := m.Called(ctx, guildID, userID, amount, awardedAt)
	return args.Error(0)
}

func (m *MockXPRepository) SumEntriesSince(ctx context.Context, guildID, userID int64, since time.Time) (float64, error) {
	args := m.Called(ctx, guildID, userID, since)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockXPRepository) UpsertSnapshot(ctx context.Context, guildID, userID int64, total float64, updatedAt time.Time) error {
	args := m.Called(ctx, guildID, userID, total, updatedAt)
	return args.Error(0)
}

// MockPersonalChannelRepository is a mock implementation of PersonalChannelRepository
type MockPersonalChannelRepository struct {
	mock.Mock
}

func (m *MockPersonalChannelRepository) Get(ctx context.Context, guildID, userID int64) (*models.PersonalChannel, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PersonalChannel), args.Error(1)
}

func (m *MockPersonalChannelRepository) GetByChannelID(ctx context.Context, guildID, channelID int64) (*models.PersonalChannel, error) {
	args := m.Called(ctx, guildID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PersonalChannel), args.Error(1)
}

func (m *MockPersonalChannelRepository) Upsert(ctx context.Context, guildID, userID, channelID int64) error {
	args := m.Called(ctx, guildID, userID, channelID)
	return args.Error(0)
}

func (m *MockPersonalChannelRepository) Delete(ctx context.Context, guildID, userID int64) error {
	args := m.Called(ctx, guildID, userID)
	return args.Error(0)
}

func (m *MockPersonalChannelRepository) TouchLastActivity(ctx context.Context, guildID, userID int64, at time.Time) error {
	args := m.Called(ctx, guildID, userID, at)
	return args.Error(0)
}

func (m *MockPersonalChannelRepository) GetActiveUserIDs(ctx context.Context, guildID int64, since time.Time) (map[int64]struct{}, error) {
	args := m.Called(ctx, guildID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]struct{}), args.Error(1)
}

// MockReminderRepository is a mock implementation of ReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reminder), args.Error(1)
}

func (m *MockReminderRepository) MarkCompleted(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReminderSender is a mock implementation of ReminderSender
type MockReminderSender struct {
	mock.Mock
}

func (m *MockReminderSender) SendReminder(ctx context.Context, reminder *models.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
