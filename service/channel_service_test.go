package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UlisseMini/communitybot/models"
)

func newChannelServiceWithMocks() (ChannelService, *MockUserRepository, *MockGuildRepository, *MockPersonalChannelRepository) {
	userRepo := new(MockUserRepository)
	guildRepo := new(MockGuildRepository)
	channelRepo := new(MockPersonalChannelRepository)
	return NewChannelService(userRepo, guildRepo, channelRepo), userRepo, guildRepo, channelRepo
}

func TestChannelService_AssignChannel(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, guildRepo, channelRepo := newChannelServiceWithMocks()

	userRepo.On("Upsert", ctx, int64(42), "tester").Return(nil)
	guildRepo.On("Upsert", ctx, int64(7), "testguild").Return(nil)
	channelRepo.On("Upsert", ctx, int64(7), int64(42), int64(99)).Return(nil)

	err := svc.AssignChannel(ctx, 7, 42, 99, "tester", "testguild")

	require.NoError(t, err)
	channelRepo.AssertExpectations(t)
}

func TestChannelService_AssignChannel_Reassign(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, guildRepo, channelRepo := newChannelServiceWithMocks()

	userRepo.On("Upsert", ctx, int64(42), "tester").Return(nil)
	guildRepo.On("Upsert", ctx, int64(7), "testguild").Return(nil)
	// Reassignment goes through the same upsert; the repository replaces the
	// stored channel ID rather than erroring on the existing record.
	channelRepo.On("Upsert", ctx, int64(7), int64(42), int64(100)).Return(nil)

	err := svc.AssignChannel(ctx, 7, 42, 100, "tester", "testguild")

	require.NoError(t, err)
	channelRepo.AssertExpectations(t)
}

func TestChannelService_AssignChannel_UserUpsertError(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, channelRepo := newChannelServiceWithMocks()

	userRepo.On("Upsert", ctx, int64(42), "tester").Return(errors.New("connection refused"))

	err := svc.AssignChannel(ctx, 7, 42, 99, "tester", "testguild")

	assert.Error(t, err)
	channelRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChannelService_ReleaseChannel(t *testing.T) {
	ctx := context.Background()
	svc, _, _, channelRepo := newChannelServiceWithMocks()

	channelRepo.On("Delete", ctx, int64(7), int64(42)).Return(nil)

	err := svc.ReleaseChannel(ctx, 7, 42)

	require.NoError(t, err)
	channelRepo.AssertExpectations(t)
}

func TestChannelService_RecordActivity_OwnChannel(t *testing.T) {
	ctx := context.Background()
	svc, _, _, channelRepo := newChannelServiceWithMocks()

	at := time.Now().UTC()
	channelRepo.On("Get", ctx, int64(7), int64(42)).Return(&models.PersonalChannel{
		GuildID:   7,
		UserID:    42,
		ChannelID: 99,
	}, nil)
	channelRepo.On("TouchLastActivity", ctx, int64(7), int64(42), at).Return(nil)

	touched, err := svc.RecordActivity(ctx, 7, 42, 99, at)

	require.NoError(t, err)
	assert.True(t, touched)
	channelRepo.AssertExpectations(t)
}

func TestChannelService_RecordActivity_OtherChannel(t *testing.T) {
	ctx := context.Background()
	svc, _, _, channelRepo := newChannelServiceWithMocks()

	channelRepo.On("Get", ctx, int64(7), int64(42)).Return(&models.PersonalChannel{
		GuildID:   7,
		UserID:    42,
		ChannelID: 99,
	}, nil)

	touched, err := svc.RecordActivity(ctx, 7, 42, 123, time.Now().UTC())

	require.NoError(t, err)
	assert.False(t, touched)
	channelRepo.AssertNotCalled(t, "TouchLastActivity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChannelService_RecordActivity_NoChannel(t *testing.T) {
	ctx := context.Background()
	svc, _, _, channelRepo := newChannelServiceWithMocks()

	channelRepo.On("Get", ctx, int64(7), int64(42)).Return(nil, nil)

	touched, err := svc.RecordActivity(ctx, 7, 42, 99, time.Now().UTC())

	require.NoError(t, err)
	assert.False(t, touched)
}

func TestChannelService_GetChannelOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, _, channelRepo := newChannelServiceWithMocks()

	want := &models.PersonalChannel{GuildID: 7, UserID: 42, ChannelID: 99}
	channelRepo.On("GetByChannelID", ctx, int64(7), int64(99)).Return(want, nil)

	got, err := svc.GetChannelOwner(ctx, 7, 99)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
