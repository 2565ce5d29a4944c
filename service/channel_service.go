package service

import (
	"context"
	"fmt"
	"time"

	"github.com/UlisseMini/communitybot/models"
)

// channelService implements the ChannelService interface
type channelService struct {
	userRepo    UserRepository
	guildRepo   GuildRepository
	channelRepo PersonalChannelRepository
}

// NewChannelService creates a new channel service
func NewChannelService(userRepo UserRepository, guildRepo GuildRepository, channelRepo PersonalChannelRepository) ChannelService {
	return &channelService{
		userRepo:    userRepo,
		guildRepo:   guildRepo,
		channelRepo: channelRepo,
	}
}

// GetChannel returns the user's personal channel record, or nil
func (s *channelService) GetChannel(ctx context.Context, guildID, userID int64) (*models.PersonalChannel, error) {
	return s.channelRepo.Get(ctx, guildID, userID)
}

// GetChannelOwner returns the record owning a channel, or nil
func (s *channelService) GetChannelOwner(ctx context.Context, guildID, channelID int64) (*models.PersonalChannel, error) {
	return s.channelRepo.GetByChannelID(ctx, guildID, channelID)
}

// AssignChannel records a channel as the user's personal channel, ensuring
// the user and guild rows exist first.
func (s *channelService) AssignChannel(ctx context.Context, guildID, userID, channelID int64, username, guildName string) error {
	if err := s.userRepo.Upsert(ctx, userID, username); err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	if err := s.guildRepo.Upsert(ctx, guildID, guildName); err != nil {
		return fmt.Errorf("failed to ensure guild: %w", err)
	}

	if err := s.channelRepo.Upsert(ctx, guildID, userID, channelID); err != nil {
		return fmt.Errorf("failed to assign channel: %w", err)
	}

	return nil
}

// ReleaseChannel drops the user's channel record. Used both for admin
// teardown and for self-healing records that point at deleted channels.
func (s *channelService) ReleaseChannel(ctx context.Context, guildID, userID int64) error {
	return s.channelRepo.Delete(ctx, guildID, userID)
}

// RecordActivity bumps the channel's last-activity timestamp when the
// message landed in the author's own personal channel.
func (s *channelService) RecordActivity(ctx context.Context, guildID, userID, channelID int64, at time.Time) (bool, error) {
	pc, err := s.channelRepo.Get(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to look up personal channel: %w", err)
	}
	if pc == nil || pc.ChannelID != channelID {
		return false, nil
	}

	if err := s.channelRepo.TouchLastActivity(ctx, guildID, userID, at); err != nil {
		return false, fmt.Errorf("failed to record activity: %w", err)
	}

	return true, nil
}
