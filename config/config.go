package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	MainGuildID  int64 // optional; 0 means register commands globally

	// Database configuration
	DatabaseURL string

	// AI assistant configuration. The feature is disabled when AIAPIKey is
	// empty.
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// AIEnabled reports whether the AI assistant is configured.
func (c *Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

// load loads configuration from a .env file (if present) and environment
// variables.
func load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{
		DiscordToken: os.Getenv("DISCORD_BOT_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIBaseURL: os.Getenv("AI_BASE_URL"),
		AIModel:   os.Getenv("AI_MODEL"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if guildID := os.Getenv("MAIN_GUILD_ID"); guildID != "" {
		parsed, err := strconv.ParseInt(guildID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("MAIN_GUILD_ID must be a numeric Discord ID: %w", err)
		}
		config.MainGuildID = parsed
	}

	if config.AIBaseURL == "" {
		config.AIBaseURL = "https://api.openai.com/v1"
	}
	if config.AIModel == "" {
		config.AIModel = "gpt-4o-mini"
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
