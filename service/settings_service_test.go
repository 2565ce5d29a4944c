package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UlisseMini/communitybot/models"
)

func TestSettingsService_SetWelcomeMessage(t *testing.T) {
	ctx := context.Background()
	guildRepo := new(MockGuildRepository)
	settingsRepo := new(MockGuildSettingsRepository)
	svc := NewSettingsService(guildRepo, settingsRepo)

	guildRepo.On("Upsert", ctx, int64(7), "testguild").Return(nil)
	settingsRepo.On("GetOrCreate", ctx, int64(7)).Return(&models.GuildSettings{GuildID: 7}, nil)
	settingsRepo.On("Update", ctx, mock.MatchedBy(func(s *models.GuildSettings) bool {
		return s.GuildID == 7 && s.WelcomeMessage != nil && *s.WelcomeMessage == "Welcome {user}!"
	})).Return(nil)

	err := svc.SetWelcomeMessage(ctx, 7, "testguild", "Welcome {user}!")

	require.NoError(t, err)
	settingsRepo.AssertExpectations(t)
}

func TestSettingsService_SetActiveRole_PreservesOtherFields(t *testing.T) {
	ctx := context.Background()
	guildRepo := new(MockGuildRepository)
	settingsRepo := new(MockGuildSettingsRepository)
	svc := NewSettingsService(guildRepo, settingsRepo)

	welcome := "hello"
	guildRepo.On("Upsert", ctx, int64(7), "testguild").Return(nil)
	settingsRepo.On("GetOrCreate", ctx, int64(7)).Return(&models.GuildSettings{
		GuildID:        7,
		WelcomeMessage: &welcome,
	}, nil)
	settingsRepo.On("Update", ctx, mock.MatchedBy(func(s *models.GuildSettings) bool {
		return s.ActiveRoleID != nil && *s.ActiveRoleID == 555 &&
			s.WelcomeMessage != nil && *s.WelcomeMessage == "hello"
	})).Return(nil)

	err := svc.SetActiveRole(ctx, 7, "testguild", 555)

	require.NoError(t, err)
	settingsRepo.AssertExpectations(t)
}

func TestSettingsService_GetSettings_Error(t *testing.T) {
	ctx := context.Background()
	settingsRepo := new(MockGuildSettingsRepository)
	svc := NewSettingsService(new(MockGuildRepository), settingsRepo)

	settingsRepo.On("GetOrCreate", ctx, int64(7)).Return(nil, errors.New("connection refused"))

	settings, err := svc.GetSettings(ctx, 7)

	assert.Error(t, err)
	assert.Nil(t, settings)
}
