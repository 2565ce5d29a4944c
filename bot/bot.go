package bot

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/UlisseMini/communitybot/ai"
	"github.com/UlisseMini/communitybot/bot/common"
	"github.com/UlisseMini/communitybot/events"
	"github.com/UlisseMini/communitybot/service"
)

// Config holds bot configuration
type Config struct {
	Token string

	// MainGuildID scopes slash command registration to one guild for
	// instant sync. 0 registers commands globally.
	MainGuildID int64
}

// Services bundles the domain services the bot drives
type Services struct {
	XP        service.XPService
	Activity  service.ActivityService
	Channels  service.ChannelService
	Settings  service.SettingsService
	Generator ai.Generator

	// NewReminderService needs the sender the bot provides, so the bot
	// constructs the reminder service itself from this factory.
	Reminders func(sender service.ReminderSender) service.ReminderService
}

// Bot manages the Discord session, command dispatch and background workers
type Bot struct {
	config  Config
	session *discordgo.Session
	bus     *events.Bus

	xpService       service.XPService
	activityService service.ActivityService
	channelService  service.ChannelService
	reminderService service.ReminderService
	settingsService service.SettingsService
	generator       ai.Generator

	ready     chan struct{}
	readyOnce sync.Once

	stopReminderWorker func()
	stopRoleWorker     func()
}

// New creates the bot, opens the gateway connection, registers slash
// commands and starts the background workers.
func New(config Config, bus *events.Bus, svcs Services) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	bot := &Bot{
		config:          config,
		session:         dg,
		bus:             bus,
		xpService:       svcs.XP,
		activityService: svcs.Activity,
		channelService:  svcs.Channels,
		settingsService: svcs.Settings,
		generator:       svcs.Generator,
		ready:           make(chan struct{}),
	}
	bot.reminderService = svcs.Reminders(&discordReminderSender{session: dg})

	bot.bus.Subscribe(events.EventTypeMessageCreated, bot.handleMessageEvent)
	bot.bus.Subscribe(events.EventTypeMemberJoined, bot.handleMemberJoinEvent)

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleGuildMemberAdd)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	ctx := context.Background()
	bot.stopReminderWorker = bot.StartReminderWorker(ctx)
	bot.stopRoleWorker = bot.StartActiveRoleWorker(ctx)
	log.Info("Background workers started")

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopReminderWorker != nil {
		b.stopReminderWorker()
	}
	if b.stopRoleWorker != nil {
		b.stopRoleWorker()
	}
	log.Info("Background workers stopped")

	return b.session.Close()
}

// handleReady marks the gateway session usable. Workers block on this so
// timer-driven sends never race the initial connection.
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	b.readyOnce.Do(func() {
		close(b.ready)
	})
	log.Infof("Bot is online as %s#%s", r.User.Username, r.User.Discriminator)
}

// handleMessageCreate converts gateway messages into bus events. Bot
// authors and DMs are filtered here, before anything downstream runs.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}
	channelID, err := common.ParseID(m.ChannelID)
	if err != nil {
		log.Errorf("Failed to parse channel ID %s: %v", m.ChannelID, err)
		return
	}
	userID, err := common.ParseID(m.Author.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", m.Author.ID, err)
		return
	}

	b.bus.Emit(context.Background(), events.MessageCreatedEvent{
		GuildID:   guildID,
		ChannelID: channelID,
		UserID:    userID,
		Username:  m.Author.Username,
		GuildName: b.guildName(m.GuildID),
		Content:   m.Content,
	})
}

// handleGuildMemberAdd converts member joins into bus events
func (b *Bot) handleGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}

	guildID, err := common.ParseID(m.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", m.GuildID, err)
		return
	}
	userID, err := common.ParseID(m.User.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", m.User.ID, err)
		return
	}

	b.bus.Emit(context.Background(), events.MemberJoinedEvent{
		GuildID:  guildID,
		UserID:   userID,
		Username: m.User.Username,
	})
}

func (b *Bot) guildName(guildID string) string {
	guild, err := b.session.State.Guild(guildID)
	if err != nil || guild == nil {
		return ""
	}
	return guild.Name
}
