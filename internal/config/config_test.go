package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 256, cfg.MaxClients)
	assert.Equal(t, 20.0, cfg.MessageRateLimit)
	assert.Equal(t, 40, cfg.MessageRateBurst)
	assert.False(t, cfg.SeedSampleReviews)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_CLIENTS", "10")
	t.Setenv("SEED_SAMPLE_REVIEWS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 10, cfg.MaxClients)
	assert.True(t, cfg.SeedSampleReviews)
	assert.Equal(t, "0.0.0.0:9000", cfg.Address())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"negative max clients", "MAX_CLIENTS", "-1"},
		{"zero rate limit", "MESSAGE_RATE_LIMIT", "0"},
		{"zero rate burst", "MESSAGE_RATE_BURST", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestAddress(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "5001"}
	assert.Equal(t, "127.0.0.1:5001", cfg.Address())
}
