package service

import (
	"context"
	"fmt"
	"time"
)

// activityService implements the ActivityService interface
type activityService struct {
	channelRepo PersonalChannelRepository
}

// NewActivityService creates a new activity service
func NewActivityService(channelRepo PersonalChannelRepository) ActivityService {
	return &activityService{channelRepo: channelRepo}
}

// GetActiveUsers returns the set of users whose personal channel saw
// activity within the trailing window. Pure read; users who never posted
// in their channel are excluded.
func (s *activityService) GetActiveUsers(ctx context.Context, guildID int64, days int) (map[int64]struct{}, error) {
	since := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	active, err := s.channelRepo.GetActiveUserIDs(ctx, guildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to classify active users for guild %d: %w", guildID, err)
	}

	return active, nil
}
