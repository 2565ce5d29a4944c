package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/UlisseMini/communitybot/models"
)

// Delivery outcomes a ReminderSender reports. Anything not wrapping one of
// these is treated as transient and retried on the next poll cycle.
var (
	// ErrTargetGone means the guild or channel no longer resolves.
	ErrTargetGone = errors.New("reminder target no longer exists")

	// ErrForbidden means the platform denied permission to deliver.
	ErrForbidden = errors.New("missing permission to deliver reminder")
)

// reminderService implements the ReminderService interface
type reminderService struct {
	reminderRepo ReminderRepository
	sender       ReminderSender
}

// NewReminderService creates a new reminder service
func NewReminderService(reminderRepo ReminderRepository, sender ReminderSender) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		sender:       sender,
	}
}

// CreateReminder persists a pending reminder
func (s *reminderService) CreateReminder(ctx context.Context, guildID, userID, channelID int64, messageLink string, preview *string, remindAt time.Time) (*models.Reminder, error) {
	reminder := &models.Reminder{
		GuildID:        guildID,
		UserID:         userID,
		ChannelID:      channelID,
		MessageLink:    messageLink,
		MessagePreview: preview,
		RemindAt:       remindAt,
	}

	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to store reminder: %w", err)
	}

	return reminder, nil
}

// DeliverDue attempts delivery of every due pending reminder. Each reminder
// is handled independently; one failure never aborts the rest of the cycle.
// Terminal outcomes (target gone, permission denied) mark the reminder
// completed; transient failures leave it pending for the next cycle, with
// no backoff and no retry cap.
func (s *reminderService) DeliverDue(ctx context.Context, now time.Time) {
	due, err := s.reminderRepo.GetDue(ctx, now)
	if err != nil {
		log.Errorf("Error fetching due reminders: %v", err)
		return
	}

	for _, reminder := range due {
		s.deliver(ctx, reminder)
	}
}

func (s *reminderService) deliver(ctx context.Context, reminder *models.Reminder) {
	err := s.sender.SendReminder(ctx, reminder)

	switch {
	case err == nil:
		// Delivered; completing is what prevents redelivery.

	case errors.Is(err, ErrTargetGone):
		log.WithFields(log.Fields{
			"reminderID": reminder.ID,
			"guildID":    reminder.GuildID,
			"channelID":  reminder.ChannelID,
		}).Warn("Reminder target gone, giving up")

	case errors.Is(err, ErrForbidden):
		log.WithFields(log.Fields{
			"reminderID": reminder.ID,
			"channelID":  reminder.ChannelID,
		}).Error("Missing permissions to deliver reminder, giving up")

	default:
		// Transient failure: stay pending, retry next cycle.
		log.WithFields(log.Fields{
			"reminderID": reminder.ID,
		}).Errorf("Failed to deliver reminder, will retry: %v", err)
		return
	}

	if err := s.reminderRepo.MarkCompleted(ctx, reminder.ID); err != nil {
		log.Errorf("Failed to mark reminder %d completed: %v", reminder.ID, err)
	}
}
