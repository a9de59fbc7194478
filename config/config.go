package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	SlackToken         string
	SlackSigningSecret string
	SlackChannelID     string
	NatsURL            string
	RedisAddr          string
	RedisPassword      string
	Port               string

	UserHandle        string
	UserName          string
	UserFollowers     int
	TickInterval      time.Duration
	NotificationLimit int
}

// LoadConfig loads configuration from environment variables
// It first tries to load from .env file, then falls back to system environment variables
func LoadConfig() *Config {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
	}

	return &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SlackToken:         getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		SlackChannelID:     getEnv("SLACK_CHANNEL_ID", ""),
		NatsURL:            getEnv("NATS_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		Port:               getEnv("PORT", "3000"),

		UserHandle:        getEnv("USER_HANDLE", "@creator"),
		UserName:          getEnv("USER_NAME", "New Creator"),
		UserFollowers:     getEnvInt("USER_FOLLOWERS", 1200),
		TickInterval:      getEnvDuration("TICK_INTERVAL", 4*time.Second),
		NotificationLimit: getEnvInt("NOTIFICATION_LIMIT", 200),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func (c *Config) Validate() error {
	if c.UserHandle == "" {
		return fmt.Errorf("USER_HANDLE is required")
	}
	if c.UserFollowers < 0 {
		return fmt.Errorf("USER_FOLLOWERS must not be negative")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive")
	}
	if c.NotificationLimit <= 0 {
		return fmt.Errorf("NOTIFICATION_LIMIT must be positive")
	}
	if c.SlackToken != "" && c.SlackSigningSecret == "" {
		return fmt.Errorf("SLACK_SIGNING_SECRET is required when SLACK_BOT_TOKEN is set")
	}
	return nil
}
