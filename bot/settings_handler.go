package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/UlisseMini/communitybot/bot/common"
)

// handleSettingsWelcome handles /settings welcome
func (b *Bot) handleSettingsWelcome(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.GuildID == "" || i.Member == nil {
		common.RespondEphemeral(s, i, "This command can only be used in a server.")
		return
	}

	message := subcommandOptions(i.ApplicationCommandData())["message"].StringValue()

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := b.settingsService.SetWelcomeMessage(ctx, guildID, b.guildName(i.GuildID), message); err != nil {
		log.Errorf("Error setting welcome message for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to save the welcome message. Please try again.")
		return
	}

	common.RespondEphemeral(s, i, "Welcome message updated. New personal channels will receive it with `{user}` replaced by a mention.")
}
