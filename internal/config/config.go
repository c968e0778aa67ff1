// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default values for optional settings.
const (
	DefaultPort       = 8080
	DefaultOutputDir  = "./documents"
	DefaultProfile    = "./profile.yaml"
	DefaultStagingTTL = time.Hour
)

// Config holds runtime configuration loaded from the environment.
// A .env file, if present, is loaded by the entrypoint before this runs.
type Config struct {
	// Server
	Port        int
	DatabaseURL string

	// External services
	GeminiAPIKey  string
	RedisAddr     string // empty means the in-memory staging store is used
	RedisPassword string
	RedisDB       int

	// Documents
	OutputDir   string
	ProfilePath string

	// Behavior
	StagingTTL time.Duration
	UseBrowser bool // headless-browser fallback for JS-rendered pages

	// Notifications (optional)
	TelegramToken  string
	TelegramChatID int64
}

// Load reads configuration from environment variables, applying defaults
// for everything optional. Required settings are checked by the Validate
// variants so commands that do not need them (e.g. profile check) can
// still load.
func Load() *Config {
	return &Config{
		Port:           getEnvInt("PORT", DefaultPort),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		OutputDir:      getEnvString("OUTPUT_DIR", DefaultOutputDir),
		ProfilePath:    getEnvString("PROFILE_PATH", DefaultProfile),
		StagingTTL:     getEnvDuration("STAGING_TTL", DefaultStagingTTL),
		UseBrowser:     getEnvBool("USE_BROWSER", true),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),
	}
}

// ValidateForServe checks the settings the HTTP server cannot run without.
func (c *Config) ValidateForServe() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return c.validateCommon()
}

// ValidateForPipeline checks the settings the CLI pipeline commands need.
func (c *Config) ValidateForPipeline() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	return c.validateCommon()
}

func (c *Config) validateCommon() error {
	if c.StagingTTL < time.Minute {
		return fmt.Errorf("STAGING_TTL must be at least 1m, got %s", c.StagingTTL)
	}
	if c.ProfilePath == "" {
		return fmt.Errorf("PROFILE_PATH cannot be empty")
	}
	return nil
}

// getEnvString returns the environment variable or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable parsed as int or a default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvInt64 returns the environment variable parsed as int64 or a default.
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvBool returns the environment variable parsed as bool or a default.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration returns the environment variable parsed as duration or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
