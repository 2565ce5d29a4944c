package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/UlisseMini/communitybot/bot/common"
	"github.com/UlisseMini/communitybot/events"
)

const personalChannelsCategory = "Personal Channels"

var channelNameRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

// normalizeChannelName applies Discord's own normalization: lowercase,
// spaces replaced with hyphens.
func normalizeChannelName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// validateChannelName checks a requested name against Discord's channel
// name rules. Returns an empty string when the name is acceptable.
func validateChannelName(name string) string {
	if len(name) < 1 {
		return "Channel name cannot be empty."
	}
	if len(name) > 100 {
		return "Channel name must be 100 characters or less."
	}

	normalized := normalizeChannelName(name)
	if !channelNameRe.MatchString(normalized) {
		return "Channel name can only contain letters, numbers, hyphens, and underscores."
	}
	if strings.HasPrefix(normalized, "-") || strings.HasPrefix(normalized, "_") ||
		strings.HasSuffix(normalized, "-") || strings.HasSuffix(normalized, "_") {
		return "Channel name cannot start or end with a hyphen or underscore."
	}

	return ""
}

// resolveChannel re-checks that a stored channel id still exists on the
// platform. Returns nil when it no longer resolves.
func (b *Bot) resolveChannel(channelID int64) *discordgo.Channel {
	id := common.FormatID(channelID)
	if ch, err := b.session.State.Channel(id); err == nil && ch != nil {
		return ch
	}
	ch, err := b.session.Channel(id)
	if err != nil {
		return nil
	}
	return ch
}

// findOrCreateCategory returns the personal channels category, creating it
// on first use.
func (b *Bot) findOrCreateCategory(guildID string) (*discordgo.Channel, error) {
	channels, err := b.session.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && ch.Name == personalChannelsCategory {
			return ch, nil
		}
	}

	category, err := b.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: personalChannelsCategory,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// isForbidden reports whether a platform error was a permission denial
func isForbidden(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}

// handleChannelAdd handles /channel add
func (b *Bot) handleChannelAdd(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.GuildID == "" || i.Member == nil {
		common.RespondEphemeral(s, i, "This command can only be used in a server.")
		return
	}

	name := subcommandOptions(i.ApplicationCommandData())["name"].StringValue()
	if msg := validateChannelName(name); msg != "" {
		common.RespondEphemeral(s, i, "Invalid channel name: "+msg)
		return
	}

	guildID, userID, err := parseGuildAndUser(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	existing, err := b.channelService.GetChannel(ctx, guildID, userID)
	if err != nil {
		log.Errorf("Error looking up personal channel: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if existing != nil {
		if ch := b.resolveChannel(existing.ChannelID); ch != nil {
			common.RespondEphemeral(s, i,
				fmt.Sprintf("You already have a personal channel in this server: %s", ch.Mention()))
			return
		}
		// The channel was deleted out from under the record; drop it and
		// proceed with a fresh one.
		if err := b.channelService.ReleaseChannel(ctx, guildID, userID); err != nil {
			log.Errorf("Error releasing stale channel record: %v", err)
		}
	}

	category, err := b.findOrCreateCategory(i.GuildID)
	if err != nil {
		if isForbidden(err) {
			common.RespondEphemeral(s, i, "I don't have permission to create channels. Please check my permissions.")
			return
		}
		log.Errorf("Failed to prepare category in guild %s: %v", i.GuildID, err)
		common.RespondEphemeral(s, i, "Failed to create channel. Please try again later.")
		return
	}

	normalized := normalizeChannelName(name)
	guildChannels, err := s.GuildChannels(i.GuildID)
	if err == nil {
		for _, ch := range guildChannels {
			if ch.ParentID == category.ID && ch.Name == normalized {
				common.RespondEphemeral(s, i,
					fmt.Sprintf("Channel `%s` already exists in the %s category.", name, personalChannelsCategory))
				return
			}
		}
	}

	channel, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: category.ID,
	})
	if err != nil {
		if isForbidden(err) {
			common.RespondEphemeral(s, i, "I don't have permission to create channels. Please check my permissions.")
			return
		}
		log.Errorf("Failed to create channel '%s' in guild %s: %v", name, i.GuildID, err)
		common.RespondEphemeral(s, i, "Failed to create channel. Please try again later.")
		return
	}

	channelID, err := common.ParseID(channel.ID)
	if err != nil {
		log.Errorf("Failed to parse created channel ID %s: %v", channel.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	err = b.channelService.AssignChannel(ctx, guildID, userID, channelID, i.Member.User.Username, b.guildName(i.GuildID))
	if err != nil {
		log.Errorf("Failed to store channel assignment: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondEphemeral(s, i, fmt.Sprintf("Your personal channel is available at %s", channel.Mention()))
}

// handleChannelRename handles /channel rename
func (b *Bot) handleChannelRename(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.GuildID == "" || i.Member == nil {
		common.RespondEphemeral(s, i, "This command can only be used in a server.")
		return
	}

	name := subcommandOptions(i.ApplicationCommandData())["name"].StringValue()
	if msg := validateChannelName(name); msg != "" {
		common.RespondEphemeral(s, i, "Invalid channel name: "+msg)
		return
	}

	guildID, userID, err := parseGuildAndUser(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	existing, err := b.channelService.GetChannel(ctx, guildID, userID)
	if err != nil {
		log.Errorf("Error looking up personal channel: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if existing == nil {
		common.RespondEphemeral(s, i, "You don't have a personal channel in this server.")
		return
	}

	channel := b.resolveChannel(existing.ChannelID)
	if channel == nil {
		if err := b.channelService.ReleaseChannel(ctx, guildID, userID); err != nil {
			log.Errorf("Error releasing stale channel record: %v", err)
		}
		common.RespondEphemeral(s, i, "Your personal channel was deleted. Please create a new one.")
		return
	}

	if _, err := s.ChannelEdit(channel.ID, &discordgo.ChannelEdit{Name: name}); err != nil {
		if isForbidden(err) {
			common.RespondEphemeral(s, i, "I don't have permission to edit channels. Please check my permissions.")
			return
		}
		log.Errorf("Failed to rename channel in guild %s: %v", i.GuildID, err)
		common.RespondEphemeral(s, i, "Failed to rename channel. Please try again later.")
		return
	}

	common.RespondEphemeral(s, i, fmt.Sprintf("Your personal channel has been renamed to %s", channel.Mention()))
}

// handleChannelSet handles /channel set (admin only)
func (b *Bot) handleChannelSet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.GuildID == "" || i.Member == nil {
		common.RespondEphemeral(s, i, "This command can only be used in a server.")
		return
	}
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondEphemeral(s, i, "You need administrator permissions to use this command.")
		return
	}

	opts := subcommandOptions(i.ApplicationCommandData())
	targetUser := opts["user"].UserValue(s)
	targetChannel := opts["channel"].ChannelValue(s)
	if targetUser == nil || targetChannel == nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	userID, err := common.ParseID(targetUser.ID)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	channelID, err := common.ParseID(targetChannel.ID)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", targetChannel.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	existing, err := b.channelService.GetChannel(ctx, guildID, userID)
	if err != nil {
		log.Errorf("Error looking up personal channel: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if existing != nil {
		if ch := b.resolveChannel(existing.ChannelID); ch != nil {
			common.RespondEphemeral(s, i, fmt.Sprintf(
				"%s already has a personal channel: %s\nPlease delete their existing channel first before assigning a new one.",
				targetUser.Mention(), ch.Mention()))
			return
		}
		if err := b.channelService.ReleaseChannel(ctx, guildID, userID); err != nil {
			log.Errorf("Error releasing stale channel record: %v", err)
		}
	}

	owner, err := b.channelService.GetChannelOwner(ctx, guildID, channelID)
	if err != nil {
		log.Errorf("Error looking up channel owner: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if owner != nil {
		common.RespondEphemeral(s, i, fmt.Sprintf(
			"%s is already assigned to %s\nPlease unassign it first or choose a different channel.",
			targetChannel.Mention(), common.UserMention(owner.UserID)))
		return
	}

	err = b.channelService.AssignChannel(ctx, guildID, userID, channelID, targetUser.Username, b.guildName(i.GuildID))
	if err != nil {
		log.Errorf("Failed to store channel assignment: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondEphemeral(s, i, fmt.Sprintf(
		"Successfully assigned %s as %s's personal channel.", targetChannel.Mention(), targetUser.Mention()))
}

// handleMemberJoinEvent auto-provisions a personal channel for a new
// member and posts the guild's welcome message there when one is set.
func (b *Bot) handleMemberJoinEvent(ctx context.Context, event events.Event) {
	join, ok := event.(events.MemberJoinedEvent)
	if !ok {
		return
	}

	existing, err := b.channelService.GetChannel(ctx, join.GuildID, join.UserID)
	if err != nil {
		log.Errorf("Error looking up personal channel for new member %d: %v", join.UserID, err)
		return
	}
	if existing != nil && b.resolveChannel(existing.ChannelID) != nil {
		return
	}

	guildIDStr := common.FormatID(join.GuildID)
	category, err := b.findOrCreateCategory(guildIDStr)
	if err != nil {
		log.Errorf("Failed to prepare category for new member in guild %d: %v", join.GuildID, err)
		return
	}

	channel, err := b.session.GuildChannelCreateComplex(guildIDStr, discordgo.GuildChannelCreateData{
		Name:     normalizeChannelName(join.Username),
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: category.ID,
	})
	if err != nil {
		log.Errorf("Failed to create channel for new member %d in guild %d: %v", join.UserID, join.GuildID, err)
		return
	}

	channelID, err := common.ParseID(channel.ID)
	if err != nil {
		log.Errorf("Failed to parse created channel ID %s: %v", channel.ID, err)
		return
	}

	err = b.channelService.AssignChannel(ctx, join.GuildID, join.UserID, channelID, join.Username, b.guildName(guildIDStr))
	if err != nil {
		log.Errorf("Failed to store channel assignment for new member %d: %v", join.UserID, err)
		return
	}

	settings, err := b.settingsService.GetSettings(ctx, join.GuildID)
	if err != nil {
		log.Errorf("Failed to load settings for guild %d: %v", join.GuildID, err)
		return
	}
	if settings.WelcomeMessage == nil || *settings.WelcomeMessage == "" {
		return
	}

	welcome := strings.ReplaceAll(*settings.WelcomeMessage, "{user}", common.UserMention(join.UserID))
	if _, err := b.session.ChannelMessageSend(channel.ID, welcome); err != nil {
		log.Errorf("Failed to post welcome message in channel %s: %v", channel.ID, err)
	}
}

// parseGuildAndUser extracts the numeric guild and invoking user ids
func parseGuildAndUser(i *discordgo.InteractionCreate) (int64, int64, error) {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return 0, 0, fmt.Errorf("bad guild ID %q: %w", i.GuildID, err)
	}
	userID, err := common.ParseID(i.Member.User.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("bad user ID %q: %w", i.Member.User.ID, err)
	}
	return guildID, userID, nil
}
