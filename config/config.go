// Package config loads the connection configuration described in §6 of the
// spec (host, port, unix path, password, db index) plus the ambient timing
// knobs, following the env-var + dotenv pattern of luma-pharos's
// internal/env package.
package config

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is the five required fields from §6 plus the ambient timing knobs
// an operator tunes per-deployment.
type Config struct {
	Host string `env:"REDISQ_HOST, default=127.0.0.1"`
	Port int    `env:"REDISQ_PORT, default=6379"`
	// UnixPath selects Unix-domain transport when non-empty, per §4.2.
	UnixPath string `env:"REDISQ_UNIX_PATH"`
	Password string `env:"REDISQ_PASSWORD"`
	DB       int    `env:"REDISQ_DB, default=0"`

	DialTimeout    time.Duration `env:"REDISQ_DIAL_TIMEOUT, default=5s"`
	IOTimeout      time.Duration `env:"REDISQ_IO_TIMEOUT, default=1s"`
	ReconnectPause time.Duration `env:"REDISQ_RECONNECT_PAUSE, default=500ms"`
	// PingInterval drives the optional keepalive control loop; zero disables it.
	PingInterval time.Duration `env:"REDISQ_PING_INTERVAL, default=30s"`
}

// Load reads Config from the process environment, first applying any
// .env.local file found in the working directory (silently skipped if
// absent, matching luma-pharos's loader).
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
