package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"USER_HANDLE", "USER_FOLLOWERS", "TICK_INTERVAL", "NOTIFICATION_LIMIT", "PORT", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "@creator", cfg.UserHandle)
	assert.Equal(t, 1200, cfg.UserFollowers)
	assert.Equal(t, 4*time.Second, cfg.TickInterval)
	assert.Equal(t, 200, cfg.NotificationLimit)
	assert.Equal(t, "3000", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("USER_HANDLE", "@maya")
	t.Setenv("USER_FOLLOWERS", "1000000")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("NOTIFICATION_LIMIT", "50")

	cfg := LoadConfig()

	assert.Equal(t, "@maya", cfg.UserHandle)
	assert.Equal(t, 1_000_000, cfg.UserFollowers)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 50, cfg.NotificationLimit)
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("USER_FOLLOWERS", "lots")
	t.Setenv("TICK_INTERVAL", "soon")

	cfg := LoadConfig()

	assert.Equal(t, 1200, cfg.UserFollowers)
	assert.Equal(t, 4*time.Second, cfg.TickInterval)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{UserHandle: "@creator", UserFollowers: 10, TickInterval: time.Second, NotificationLimit: 10}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing handle", func(c *Config) { c.UserHandle = "" }, "USER_HANDLE"},
		{"negative followers", func(c *Config) { c.UserFollowers = -1 }, "USER_FOLLOWERS"},
		{"zero interval", func(c *Config) { c.TickInterval = 0 }, "TICK_INTERVAL"},
		{"zero limit", func(c *Config) { c.NotificationLimit = 0 }, "NOTIFICATION_LIMIT"},
		{"slack without secret", func(c *Config) { c.SlackToken = "xoxb-1" }, "SLACK_SIGNING_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
