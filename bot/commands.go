package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/UlisseMini/communitybot/bot/common"
)

var adminOnly = int64(discordgo.PermissionAdministrator)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check bot latency and response times",
		},
		{
			Name:        "xp",
			Description: "XP (experience points) management",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "View your XP statistics",
				},
			},
		},
		{
			Name:        "channel",
			Description: "Personal channel management",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Give yourself a personal channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Name of the channel",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "rename",
					Description: "Rename your personal channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "New name for the channel",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "[Admin] Set an existing channel as a user's personal channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "The user to assign the channel to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "The channel to assign",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:                     "roles",
			Description:              "Role management",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "check-active",
					Description: "Manually trigger active role check",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set-active-role",
					Description: "Set which role to use for active journaling",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The role to assign to active journalers",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "remindme",
			Description: "Set a reminder for a message",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_link",
					Description: "Link to the message (right-click -> Copy Message Link)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "time",
					Description: "When to remind you (e.g., 1h, 30m, 2d, 1w, 1h30m)",
					Required:    true,
				},
			},
		},
		{
			Name:        "ask",
			Description: "Ask the AI assistant a question with context from recent messages",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "Your question or prompt",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "context_messages",
					Description: "Number of past messages to include for context (default: 20)",
					Required:    false,
					MinValue:    &contextMessagesMin,
					MaxValue:    contextMessagesMax,
				},
			},
		},
		{
			Name:                     "settings",
			Description:              "Configure guild settings (admin only)",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "welcome",
					Description: "Set the welcome message posted in new personal channels",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "Welcome message template; {user} becomes a mention",
							Required:    true,
						},
					},
				},
			},
		},
	}

	// Guild-scoped registration syncs instantly, global takes up to an hour.
	guildID := ""
	if b.config.MainGuildID != 0 {
		guildID = common.FormatID(b.config.MainGuildID)
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, guildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

var (
	contextMessagesMin = 1.0
	contextMessagesMax = 100.0
)

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case "ping":
		b.handlePing(s, i)
	case "xp":
		b.handleXPStats(s, i)
	case "channel":
		if len(data.Options) == 0 {
			return
		}
		switch data.Options[0].Name {
		case "add":
			b.handleChannelAdd(s, i)
		case "rename":
			b.handleChannelRename(s, i)
		case "set":
			b.handleChannelSet(s, i)
		}
	case "roles":
		if len(data.Options) == 0 {
			return
		}
		switch data.Options[0].Name {
		case "check-active":
			b.handleRolesCheckActive(s, i)
		case "set-active-role":
			b.handleRolesSetActiveRole(s, i)
		}
	case "remindme":
		b.handleRemindMe(s, i)
	case "ask":
		b.handleAsk(s, i)
	case "settings":
		b.handleSettingsWelcome(s, i)
	}
}

// subcommandOptions extracts the options of the first subcommand as a map
func subcommandOptions(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	if len(data.Options) == 0 {
		return opts
	}
	for _, opt := range data.Options[0].Options {
		opts[opt.Name] = opt
	}
	return opts
}

// commandOptions extracts top-level command options as a map
func commandOptions(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	for _, opt := range data.Options {
		opts[opt.Name] = opt
	}
	return opts
}
