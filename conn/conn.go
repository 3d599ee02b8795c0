// Package conn implements the connection actor: a single long-lived session
// that multiplexes many producers' writes onto one RESP-speaking socket,
// reads replies in order, and matches replies to waiting requestors under a
// priority discipline. See DESIGN.md's conn section for the full design.
package conn

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/outpostmon/redisq/internal/dispatch"
	"github.com/outpostmon/redisq/logging"
	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/transport"
	"github.com/outpostmon/redisq/wire"
)

// Connection is constructed inert (per §3's Lifecycle) and transitions to
// started once on Start, thereafter cycling connecting -> connected ->
// disconnected -> connecting for the life of the process.
type Connection struct {
	opts   Options
	dialer transport.Dialer
	queues *queue.Queues
	log    logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	state int32 // atomic state

	mu         sync.Mutex
	stream     *transport.Stream
	generation uint64
	// sessionDone is closed exactly once, by onSessionFailure or Close, when
	// the current generation's session ends. The Writer/Reader pair spawned
	// for that generation hold the channel from the moment they're started
	// and check it on every wait-loop iteration, so a task parked with no
	// work to do still notices its session died instead of re-parking on a
	// stream nobody will ever write to or read from again.
	sessionDone chan struct{}

	// bulkBuf accumulates replies for the bulk promise currently at the
	// front of the bulk-reply FIFO. The Reader appends to it and clears it
	// on delivery; a reset (onSessionFailure/Close) also clears it, since a
	// dropped socket can leave a partial accumulation that must not leak
	// into the next session's first bulk reply. Always touched under
	// queues.Mu, so it needs no separate lock.
	bulkBuf []wire.Reply

	connectorRunning atomic.Bool

	connectedMu sync.Mutex
	onConnected func(*Connection)

	startOnce sync.Once
	wg        sync.WaitGroup
}

// New builds an inert Connection from opts. Call Start to begin connecting.
func New(opts Options) *Connection {
	opts = opts.withDefaults()
	c := &Connection{
		opts:        opts,
		dialer:      transport.NewDialer(opts.Host, opts.Port, opts.UnixPath, opts.DialTimeout, opts.IOTimeout),
		queues:      queue.New(),
		log:         opts.Logger,
		onConnected: opts.OnConnected,
	}
	storeState(&c.state, stateDisconnected)
	return c
}

// Start begins the connection lifecycle: it spawns the Connector, which
// opens the socket and starts the Writer/Reader. Start is idempotent; only
// the first call has effect.
func (c *Connection) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		c.ctx, c.cancel = context.WithCancel(ctx)
		c.spawnConnector()
		if c.opts.PingInterval > 0 {
			go c.keepalive()
		}
	})
}

// Close tears the connection down forever: every outstanding promise fails
// with Disconnected, and no further reconnection is attempted.
func (c *Connection) Close() {
	storeState(&c.state, stateClosed)
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Lock()
	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
	if c.sessionDone != nil {
		close(c.sessionDone)
		c.sessionDone = nil
	}
	c.mu.Unlock()

	c.queues.Mu.Lock()
	c.queues.Reset(Disconnected())
	c.bulkBuf = nil
	c.queues.Mu.Unlock()
	c.queues.WritesPending.Broadcast()
	c.queues.ReadsPending.Broadcast()

	c.wg.Wait()

	c.log.Report(logging.ContextClosed, c.Addr())
}

// IsConnected reports whether the connection is certainly connected now.
// Lock-free, per §5.
func (c *Connection) IsConnected() bool {
	return loadState(&c.state) == stateConnected
}

// MayBeConnected reports whether the connection is either connected or
// actively connecting (useful for producers deciding whether to buffer
// locally rather than enqueue). Lock-free, per §5.
func (c *Connection) MayBeConnected() bool {
	s := loadState(&c.state)
	return s == stateConnected || s == stateConnecting
}

// Addr returns the configured target address, TCP host:port or the Unix
// socket path.
func (c *Connection) Addr() string {
	if c.opts.UnixPath != "" {
		return c.opts.UnixPath
	}
	return net.JoinHostPort(c.opts.Host, strconv.Itoa(c.opts.Port))
}

// RemoteAddr returns the remote socket address of the live connection, or
// "" if not currently connected.
func (c *Connection) RemoteAddr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return ""
	}
	return c.stream.Remote().String()
}

// LocalAddr returns the local (outgoing) socket address of the live
// connection, or "" if not currently connected.
func (c *Connection) LocalAddr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return ""
	}
	return c.stream.Local().String()
}

// Handle returns the opaque value supplied in Options.Handle.
func (c *Connection) Handle() interface{} {
	return c.opts.Handle
}

// SetConnectedCallback registers f to run inline on the serialization
// domain after each successful connect, replacing any previously set hook.
func (c *Connection) SetConnectedCallback(f func(*Connection)) {
	c.connectedMu.Lock()
	c.onConnected = f
	c.connectedMu.Unlock()
}

func (c *Connection) fireConnected() {
	c.connectedMu.Lock()
	f := c.onConnected
	c.connectedMu.Unlock()
	if f != nil {
		f(c)
	}
}

// spawnConnector starts a Connector goroutine unless one is already
// running, per §4.3's "if no concurrent Connector is active, spawn one".
func (c *Connection) spawnConnector() {
	if !c.connectorRunning.CompareAndSwap(false, true) {
		return
	}
	dispatch.Go(func() {
		defer c.connectorRunning.Store(false)
		c.runConnector()
	})
}
