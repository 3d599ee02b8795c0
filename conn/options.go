package conn

import (
	"time"

	"github.com/outpostmon/redisq/config"
	"github.com/outpostmon/redisq/logging"
)

// Options configures a Connection. The network/handshake fields mirror
// config.Config (§6); Logger, Handle, and OnConnected are runtime hooks
// that have no environment-variable representation.
type Options struct {
	config.Config

	// Logger receives lifecycle events. Defaults to logging.Nop.
	Logger logging.Logger

	// Handle is an opaque value the owner can stash on the Connection and
	// retrieve later (e.g. a shard id or region tag), mirroring the
	// teacher's Opts.Handle.
	Handle interface{}

	// OnConnected, if set, is invoked inline on the serialization domain
	// immediately after each successful (re)connect, before any
	// user-queued item for that session is written.
	OnConnected func(*Connection)
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logging.Nop{}
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 5 * time.Second
	}
	if o.ReconnectPause <= 0 {
		o.ReconnectPause = 500 * time.Millisecond
	}
	return o
}
