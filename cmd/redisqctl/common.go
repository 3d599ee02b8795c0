package main

import (
	"context"
	"time"

	"github.com/outpostmon/redisq/config"
	"github.com/outpostmon/redisq/conn"
	"github.com/outpostmon/redisq/ioerr"
	"github.com/outpostmon/redisq/logging"
)

func buildConfig() config.Config {
	return config.Config{
		Host:           flagHost,
		Port:           flagPort,
		UnixPath:       flagUnixPath,
		Password:       flagPassword,
		DB:             flagDB,
		DialTimeout:    flagDialTimeout,
		IOTimeout:      flagIOTimeout,
		ReconnectPause: flagReconnectPause,
		PingInterval:   flagPingInterval,
	}
}

// startConnection builds a Connection from the persistent flags, starts it,
// and blocks until the first successful connect, until ctx is cancelled, or
// until dial timeout plus reconnect pause plus 5s have passed, whichever
// comes first.
func startConnection(ctx context.Context, log logging.Logger) (*conn.Connection, error) {
	connected := make(chan struct{}, 1)
	c := conn.New(conn.Options{
		Config: buildConfig(),
		Logger: log,
		OnConnected: func(*conn.Connection) {
			select {
			case connected <- struct{}{}:
			default:
			}
		},
	})
	c.Start(ctx)

	select {
	case <-connected:
		return c, nil
	case <-ctx.Done():
		return c, ctx.Err()
	case <-time.After(flagDialTimeout + flagReconnectPause + 5*time.Second):
		return c, ioerr.Dial.New("timed out waiting for first connect")
	}
}
