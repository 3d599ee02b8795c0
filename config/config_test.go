package config_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outpostmon/redisq/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"REDISQ_HOST", "REDISQ_PORT", "REDISQ_UNIX_PATH", "REDISQ_PASSWORD",
		"REDISQ_DB", "REDISQ_DIAL_TIMEOUT", "REDISQ_IO_TIMEOUT",
		"REDISQ_RECONNECT_PAUSE", "REDISQ_PING_INTERVAL",
	} {
		os.Unsetenv(key)
	}

	cfg, err := config.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 6379, cfg.Port)
	assert.Equal(t, 0, cfg.DB)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, time.Second, cfg.IOTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.ReconnectPause)
	assert.Equal(t, 30*time.Second, cfg.PingInterval)
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("REDISQ_HOST", "10.0.0.5")
	t.Setenv("REDISQ_PORT", "7000")
	t.Setenv("REDISQ_DB", "3")

	cfg, err := config.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", cfg.Host)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, 3, cfg.DB)
}
