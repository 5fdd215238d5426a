package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8083", cfg.HTTP.Address())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "marketplace.events", cfg.AMQP.Exchange)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, int64(65536), cfg.Live.MaxMessageSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("DEBUG_ROUTES", "true")
	t.Setenv("WS_WRITE_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Address())
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 3*time.Second, cfg.Live.WriteTimeout)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}
