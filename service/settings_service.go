package service

import (
	"context"
	"fmt"

	"github.com/UlisseMini/communitybot/models"
)

// settingsService implements the SettingsService interface
type settingsService struct {
	guildRepo    GuildRepository
	settingsRepo GuildSettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(guildRepo GuildRepository, settingsRepo GuildSettingsRepository) SettingsService {
	return &settingsService{
		guildRepo:    guildRepo,
		settingsRepo: settingsRepo,
	}
}

// GetSettings retrieves guild settings, creating them lazily
func (s *settingsService) GetSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	return settings, nil
}

// SetWelcomeMessage stores the welcome template for a guild
func (s *settingsService) SetWelcomeMessage(ctx context.Context, guildID int64, guildName, message string) error {
	settings, err := s.ensure(ctx, guildID, guildName)
	if err != nil {
		return err
	}

	settings.WelcomeMessage = &message
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update welcome message: %w", err)
	}

	return nil
}

// SetActiveRole stores the activity role id for a guild
func (s *settingsService) SetActiveRole(ctx context.Context, guildID int64, guildName string, roleID int64) error {
	settings, err := s.ensure(ctx, guildID, guildName)
	if err != nil {
		return err
	}

	settings.ActiveRoleID = &roleID
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update active role: %w", err)
	}

	return nil
}

func (s *settingsService) ensure(ctx context.Context, guildID int64, guildName string) (*models.GuildSettings, error) {
	if err := s.guildRepo.Upsert(ctx, guildID, guildName); err != nil {
		return nil, fmt.Errorf("failed to ensure guild: %w", err)
	}

	settings, err := s.settingsRepo.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	return settings, nil
}
