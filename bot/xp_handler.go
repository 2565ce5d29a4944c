package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/UlisseMini/communitybot/bot/common"
	"github.com/UlisseMini/communitybot/events"
)

// handleMessageEvent awards XP for a guild message and records personal
// channel activity when the message landed in the author's own channel.
func (b *Bot) handleMessageEvent(ctx context.Context, event events.Event) {
	msg, ok := event.(events.MessageCreatedEvent)
	if !ok {
		return
	}

	_, err := b.xpService.AwardForMessage(ctx, msg.GuildID, msg.UserID, msg.Username, msg.GuildName, msg.Content)
	if err != nil {
		log.WithFields(log.Fields{
			"guildID": msg.GuildID,
			"userID":  msg.UserID,
		}).Errorf("Failed to award XP: %v", err)
		return
	}

	_, err = b.channelService.RecordActivity(ctx, msg.GuildID, msg.UserID, msg.ChannelID, time.Now().UTC())
	if err != nil {
		log.WithFields(log.Fields{
			"guildID":   msg.GuildID,
			"channelID": msg.ChannelID,
		}).Errorf("Failed to record channel activity: %v", err)
	}
}

// handleXPStats handles /xp stats
func (b *Bot) handleXPStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.GuildID == "" || i.Member == nil {
		common.RespondEphemeral(s, i, "This command can only be used in a server.")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	userID, err := common.ParseID(i.Member.User.ID)
	if err != nil {
		log.Errorf("Error parsing user ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	xp24h, err := b.xpService.GetUserXP(ctx, guildID, userID, 1)
	if err != nil {
		log.Errorf("Error getting 24h XP for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve XP. Please try again.")
		return
	}
	xp3d, err := b.xpService.GetUserXP(ctx, guildID, userID, 3)
	if err != nil {
		log.Errorf("Error getting 3d XP for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve XP. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	embed := &discordgo.MessageEmbed{
		Title: "xp statistics for " + displayName,
		Color: 0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Last 24 hours", Value: common.FormatXP(xp24h), Inline: true},
			{Name: "Last 3 days", Value: common.FormatXP(xp3d), Inline: true},
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to xp stats command: %v", err)
	}
}
