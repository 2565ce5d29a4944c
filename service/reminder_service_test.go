package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UlisseMini/communitybot/models"
)

func dueReminder(id int64) *models.Reminder {
	return &models.Reminder{
		ID:          id,
		GuildID:     7,
		UserID:      42,
		ChannelID:   99,
		MessageLink: "https://discord.com/channels/7/99/1234",
		RemindAt:    time.Now().UTC().Add(-time.Minute),
	}
}

func TestReminderService_CreateReminder(t *testing.T) {
	ctx := context.Background()
	reminderRepo := new(MockReminderRepository)
	svc := NewReminderService(reminderRepo, new(MockReminderSender))

	remindAt := time.Now().UTC().Add(2 * time.Hour)
	preview := "don't forget"
	reminderRepo.On("Create", ctx, mock.MatchedBy(func(r *models.Reminder) bool {
		return r.GuildID == 7 && r.UserID == 42 && r.ChannelID == 99 &&
			r.MessageLink == "https://discord.com/channels/7/99/1234" &&
			r.MessagePreview != nil && *r.MessagePreview == preview &&
			r.RemindAt.Equal(remindAt)
	})).Return(nil)

	reminder, err := svc.CreateReminder(ctx, 7, 42, 99, "https://discord.com/channels/7/99/1234", &preview, remindAt)

	require.NoError(t, err)
	assert.NotNil(t, reminder)
	reminderRepo.AssertExpectations(t)
}

func TestReminderService_CreateReminder_RepositoryError(t *testing.T) {
	ctx := context.Background()
	reminderRepo := new(MockReminderRepository)
	svc := NewReminderService(reminderRepo, new(MockReminderSender))

	reminderRepo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	reminder, err := svc.CreateReminder(ctx, 7, 42, 99, "link", nil, time.Now())

	assert.Error(t, err)
	assert.Nil(t, reminder)
}

func TestReminderService_DeliverDue_SuccessCompletes(t *testing.T) {
	ctx := context.Background()
	reminderRepo := new(MockReminderRepository)
	sender := new(MockReminderSender)
	svc := NewReminderService(reminderRepo, sender)

	now := time.Now().UTC()
	reminder := dueReminder(1)
	reminderRepo.On("GetDue", ctx, now).Return([]*models.Reminder{reminder}, nil)
	sender.On("SendReminder", ctx, reminder).Return(nil)
	reminderRepo.On("MarkCompleted", ctx, int64(1)).Return(nil)

	svc.DeliverDue(ctx, now)

	reminderRepo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestReminderService_DeliverDue_TerminalFailuresComplete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		sendErr error
	}{
		{name: "target gone", sendErr: fmt.Errorf("channel 99: %w", ErrTargetGone)},
		{name: "forbidden", sendErr: fmt.Errorf("channel 99: %w", ErrForbidden)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reminderRepo := new(MockReminderRepository)
			sender := new(MockReminderSender)
			svc := NewReminderService(reminderRepo, sender)

			now := time.Now().UTC()
			reminder := dueReminder(2)
			reminderRepo.On("GetDue", ctx, now).Return([]*models.Reminder{reminder}, nil)
			sender.On("SendReminder", ctx, reminder).Return(tt.sendErr)
			// Undeliverable forever, so it is retired rather than retried.
			reminderRepo.On("MarkCompleted", ctx, int64(2)).Return(nil)

			svc.DeliverDue(ctx, now)

			reminderRepo.AssertExpectations(t)
		})
	}
}

func TestReminderService_DeliverDue_TransientFailureStaysPending(t *testing.T) {
	ctx := context.Background()
	reminderRepo := new(MockReminderRepository)
	sender := new(MockReminderSender)
	svc := NewReminderService(reminderRepo, sender)

	now := time.Now().UTC()
	reminder := dueReminder(3)
	reminderRepo.On("GetDue", ctx, now).Return([]*models.Reminder{reminder}, nil)
	sender.On("SendReminder", ctx, reminder).Return(errors.New("rate limited"))

	svc.DeliverDue(ctx, now)

	reminderRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything)
}

func TestReminderService_DeliverDue_TransientThenRetried(t *testing.T) {
	ctx := context.Background()
	reminderRepo := new(MockReminderRepository)
	sender := new(MockReminderSender)
	svc := NewReminderService(reminderRepo, sender)

	reminder := dueReminder(4)

	firstPoll := time.Now().UTC()
	reminderRepo.On("GetDue", ctx, firstPoll).Return([]*models.Reminder{reminder}, nil).Once()
	sender.On("SendReminder", ctx, reminder).Return(errors.New("timeout")).Once()

	svc.DeliverDue(ctx, firstPoll)

	secondPoll := firstPoll.Add(time.Minute)
	reminderRepo.On("GetDue", ctx, secondPoll).Return([]*models.Reminder{reminder}, nil).Once()
	sender.On("SendReminder", ctx, reminder).Return(nil).Once()
	reminderRepo.On("MarkCompleted", ctx, int64(4)).Return(nil).Once()

	svc.DeliverDue(ctx, secondPoll)

	reminderRepo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestReminderService_DeliverDue_FailureDoesNotAbortCycle(t *testing.T) {
	ctx := context.Background()
	reminderRepo := new(MockReminderRepository)
	sender := new(MockReminderSender)
	svc := NewReminderService(reminderRepo, sender)

	now := time.Now().UTC()
	first := dueReminder(5)
	second := dueReminder(6)
	reminderRepo.On("GetDue", ctx, now).Return([]*models.Reminder{first, second}, nil)
	sender.On("SendReminder", ctx, first).Return(errors.New("timeout"))
	sender.On("SendReminder", ctx, second).Return(nil)
	reminderRepo.On("MarkCompleted", ctx, int64(6)).Return(nil)

	svc.DeliverDue(ctx, now)

	reminderRepo.AssertNotCalled(t, "MarkCompleted", ctx, int64(5))
	reminderRepo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestReminderService_DeliverDue_FetchErrorIsQuiet(t *testing.T) {
	ctx := context.Background()
	reminderRepo := new(MockReminderRepository)
	sender := new(MockReminderSender)
	svc := NewReminderService(reminderRepo, sender)

	now := time.Now().UTC()
	reminderRepo.On("GetDue", ctx, now).Return(nil, errors.New("connection refused"))

	svc.DeliverDue(ctx, now)

	sender.AssertNotCalled(t, "SendReminder", mock.Anything, mock.Anything)
}
