package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/UlisseMini/communitybot/ai"
	"github.com/UlisseMini/communitybot/bot"
	"github.com/UlisseMini/communitybot/config"
	"github.com/UlisseMini/communitybot/database"
	"github.com/UlisseMini/communitybot/events"
	"github.com/UlisseMini/communitybot/repository"
	"github.com/UlisseMini/communitybot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting community bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Apply pending migrations on startup
	if err := database.MigrateUp(); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	guildRepo := repository.NewGuildRepository(db)
	xpRepo := repository.NewXPRepository(db)
	channelRepo := repository.NewPersonalChannelRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	settingsRepo := repository.NewGuildSettingsRepository(db)

	// Initialize services
	log.Println("Initializing services...")
	xpService := service.NewXPService(userRepo, guildRepo, xpRepo)
	activityService := service.NewActivityService(channelRepo)
	channelService := service.NewChannelService(userRepo, guildRepo, channelRepo)
	settingsService := service.NewSettingsService(guildRepo, settingsRepo)
	log.Println("Services initialized successfully")

	// The AI assistant is optional; without a key every /ask reports the
	// feature as disabled instead of failing.
	var generator ai.Generator = ai.Disabled{}
	if cfg.AIEnabled() {
		generator = ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)
		log.Println("AI assistant enabled")
	} else {
		log.Println("AI assistant disabled (no AI_API_KEY set)")
	}

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(
		bot.Config{
			Token:       cfg.DiscordToken,
			MainGuildID: cfg.MainGuildID,
		},
		eventBus,
		bot.Services{
			XP:        xpService,
			Activity:  activityService,
			Channels:  channelService,
			Settings:  settingsService,
			Generator: generator,
			Reminders: func(sender service.ReminderSender) service.ReminderService {
				return service.NewReminderService(reminderRepo, sender)
			},
		},
	)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
