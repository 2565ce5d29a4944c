package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/UlisseMini/communitybot/bot/common"
	"github.com/UlisseMini/communitybot/models"
	"github.com/UlisseMini/communitybot/service"
)

const (
	reminderPollPeriod = time.Minute
	previewMaxLen      = 200
)

// StartReminderWorker starts the polling loop that delivers due reminders.
// Returns a cleanup function to stop the worker gracefully.
func (b *Bot) StartReminderWorker(ctx context.Context) func() {
	ticker := time.NewTicker(reminderPollPeriod)
	stopChan := make(chan struct{})

	go func() {
		// Delivery needs a live session; polling before Ready would only
		// burn transient failures.
		select {
		case <-ctx.Done():
			return
		case <-stopChan:
			return
		case <-b.ready:
		}

		log.Info("Reminder worker started")
		b.reminderService.DeliverDue(ctx, time.Now().UTC())

		for {
			select {
			case <-ctx.Done():
				log.Info("Reminder worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Reminder worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				b.reminderService.DeliverDue(ctx, time.Now().UTC())
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// discordReminderSender delivers reminders over the Discord API and maps
// platform failures onto the delivery outcomes the service layer
// classifies.
type discordReminderSender struct {
	session *discordgo.Session
}

func (d *discordReminderSender) SendReminder(ctx context.Context, reminder *models.Reminder) error {
	guildIDStr := common.FormatID(reminder.GuildID)
	if _, err := d.session.State.Guild(guildIDStr); err != nil {
		return fmt.Errorf("guild %d: %w", reminder.GuildID, service.ErrTargetGone)
	}

	channelIDStr := common.FormatID(reminder.ChannelID)
	channel, err := d.session.State.Channel(channelIDStr)
	if err != nil || channel == nil {
		channel, err = d.session.Channel(channelIDStr)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("channel %d: %w", reminder.ChannelID, service.ErrTargetGone)
			}
			if isForbidden(err) {
				return fmt.Errorf("channel %d: %w", reminder.ChannelID, service.ErrForbidden)
			}
			return fmt.Errorf("failed to resolve channel %d: %w", reminder.ChannelID, err)
		}
	}

	if _, err := d.session.ChannelMessageSend(channel.ID, formatReminderContent(reminder)); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("channel %d: %w", reminder.ChannelID, service.ErrTargetGone)
		}
		if isForbidden(err) {
			return fmt.Errorf("channel %d: %w", reminder.ChannelID, service.ErrForbidden)
		}
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	return nil
}

// formatReminderContent renders the reminder message, quoting the stored
// preview truncated to previewMaxLen runes.
func formatReminderContent(reminder *models.Reminder) string {
	content := fmt.Sprintf("🔔 **Reminder** %s\n\n", common.UserMention(reminder.UserID))
	if reminder.MessagePreview != nil && *reminder.MessagePreview != "" {
		preview := *reminder.MessagePreview
		if utf8.RuneCountInString(preview) > previewMaxLen {
			preview = common.TruncateRunes(preview, previewMaxLen) + "..."
		}
		content += fmt.Sprintf("> %s\n\n", preview)
	}
	content += fmt.Sprintf("[Original message](%s)", reminder.MessageLink)
	return content
}

// isNotFound reports whether a platform error means the target is gone
func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

// handleRemindMe handles /remindme
func (b *Bot) handleRemindMe(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.GuildID == "" || i.Member == nil {
		common.RespondEphemeral(s, i, "This command can only be used in a server.")
		return
	}

	opts := commandOptions(i.ApplicationCommandData())
	messageLink := opts["message_link"].StringValue()
	timeStr := opts["time"].StringValue()

	interval, err := service.ParseInterval(timeStr)
	if err != nil {
		common.RespondEphemeral(s, i,
			"Invalid time format. Use combinations like: `30s`, `5m`, `2h`, `1d`, `1w`, `1h30m`")
		return
	}

	linkGuildID, linkChannelID, messageID, err := service.ParseMessageLink(messageLink)
	if err != nil {
		common.RespondEphemeral(s, i,
			"Invalid message link. Right-click a message and select 'Copy Message Link'.")
		return
	}

	guildID, userID, err := parseGuildAndUser(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if linkGuildID != guildID {
		common.RespondEphemeral(s, i, "That message is from a different server.")
		return
	}

	channelID, err := common.ParseID(i.ChannelID)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Preview is best effort; a deleted or unreadable source message just
	// means the reminder carries no quote.
	var preview *string
	source, err := s.ChannelMessage(common.FormatID(linkChannelID), common.FormatID(messageID))
	if err == nil && source != nil && source.Content != "" {
		preview = &source.Content
	}

	remindAt := time.Now().UTC().Add(interval)
	_, err = b.reminderService.CreateReminder(ctx, guildID, userID, channelID, messageLink, preview, remindAt)
	if err != nil {
		log.Errorf("Failed to store reminder: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondEphemeral(s, i, fmt.Sprintf(
		"Got it! I'll remind you about that message %s.", common.FormatDiscordTimestamp(remindAt, "R")))
}
