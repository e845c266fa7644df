package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Bot        BotConfig
	Database   DatabaseConfig
	Validation ValidationConfig
	Jobs       JobsConfig
}

// BotConfig holds Discord gateway settings
type BotConfig struct {
	Token    string
	Env      string
	GuildIDs []string // guilds to register commands in; empty registers globally
}

// DatabaseConfig holds MongoDB connection settings
type DatabaseConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// ValidationConfig bounds the validation cache and pending-bypass store
type ValidationConfig struct {
	CacheTTL          time.Duration
	CacheMaxEntries   int
	BypassTTL         time.Duration
	BypassMaxPerGuild int
}

// JobsConfig holds background processor intervals
type JobsConfig struct {
	JobCleanupInterval time.Duration
	JobMaxOpenAge      time.Duration
	ReminderInterval   time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Bot: BotConfig{
			Token:    getEnv("DISCORD_TOKEN", ""),
			Env:      getEnv("BOT_ENV", "development"),
			GuildIDs: getSliceEnv("DISCORD_GUILD_IDS", nil),
		},
		Database: DatabaseConfig{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "anarchy_associates"),
			ConnectTimeout: getDurationEnv("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
			MaxPoolSize:    uint64(getIntEnv("MONGODB_MAX_POOL_SIZE", 50)),
		},
		Validation: ValidationConfig{
			CacheTTL:          getDurationEnv("VALIDATION_CACHE_TTL", 5*time.Minute),
			CacheMaxEntries:   getIntEnv("VALIDATION_CACHE_MAX_ENTRIES", 1000),
			BypassTTL:         getDurationEnv("VALIDATION_BYPASS_TTL", 10*time.Minute),
			BypassMaxPerGuild: getIntEnv("VALIDATION_BYPASS_MAX_PER_GUILD", 25),
		},
		Jobs: JobsConfig{
			JobCleanupInterval: getDurationEnv("JOB_CLEANUP_INTERVAL", 1*time.Hour),
			JobMaxOpenAge:      getDurationEnv("JOB_MAX_OPEN_AGE", 30*24*time.Hour),
			ReminderInterval:   getDurationEnv("REMINDER_INTERVAL", 30*time.Second),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Bot.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Bot.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Bot.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if c.Bot.Env != "development" && c.Bot.Env != "production" && c.Bot.Env != "test" {
		errs = append(errs, fmt.Errorf("BOT_ENV must be 'development', 'production', or 'test', got '%s'", c.Bot.Env))
	}

	if c.Database.URI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("MONGODB_DATABASE is required"))
	}
	if c.Database.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("MONGODB_CONNECT_TIMEOUT must be positive"))
	}

	if c.Validation.CacheTTL <= 0 {
		errs = append(errs, errors.New("VALIDATION_CACHE_TTL must be positive"))
	}
	if c.Validation.CacheMaxEntries <= 0 {
		errs = append(errs, errors.New("VALIDATION_CACHE_MAX_ENTRIES must be positive"))
	}
	if c.Validation.BypassTTL <= 0 {
		errs = append(errs, errors.New("VALIDATION_BYPASS_TTL must be positive"))
	}

	if c.Jobs.JobCleanupInterval <= 0 {
		errs = append(errs, errors.New("JOB_CLEANUP_INTERVAL must be positive"))
	}
	if c.Jobs.ReminderInterval <= 0 {
		errs = append(errs, errors.New("REMINDER_INTERVAL must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
