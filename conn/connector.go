package conn

import (
	"math/rand"
	"time"

	"github.com/outpostmon/redisq/internal/dispatch"
	"github.com/outpostmon/redisq/ioerr"
	"github.com/outpostmon/redisq/logging"
	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/transport"
	"github.com/outpostmon/redisq/wire"
)

// runConnector implements §4.3's Connector: on Start, and on any mid-session
// failure, it marks disconnected, opens a fresh socket, runs the AUTH/SELECT
// handshake, marks connected, fires the on-connected hook, and starts
// Reader/Writer. It keeps retrying (with bounded jitter between attempts)
// until the context is cancelled.
func (c *Connection) runConnector() {
	for {
		if c.ctx.Err() != nil {
			return
		}

		storeState(&c.state, stateConnecting)
		c.log.Report(logging.Connecting, c.Addr())

		stream, err := c.dialer.Dial(c.ctx)
		if err == nil {
			err = c.handshake(stream)
		}
		if err != nil {
			storeState(&c.state, stateDisconnected)
			c.log.Report(logging.ConnectFailed, c.Addr(), "error", err)
			if stream != nil {
				stream.Close()
			}
			if !c.sleepBackoff() {
				return
			}
			continue
		}

		gen, done := c.adopt(stream)
		storeState(&c.state, stateConnected)
		c.log.Report(logging.Connected, c.Addr(), "remote", stream.Remote().String())

		c.fireConnected()

		c.wg.Add(2)
		go c.runWriter(stream, gen, done)
		go c.runReader(stream, gen, done)
		return
	}
}

// handshake runs the AUTH/SELECT sequence from §4.3 step 4-5 / §6. A
// non-+OK reply to either fails the connect attempt.
func (c *Connection) handshake(stream *transport.Stream) error {
	if c.opts.Password != "" {
		if err := c.handshakeCommand(stream, "AUTH", c.opts.Password); err != nil {
			return ioerr.Auth.Wrap(err, "AUTH failed")
		}
	}
	if c.opts.DB != 0 {
		if err := c.handshakeCommand(stream, "SELECT", c.opts.DB); err != nil {
			return ioerr.Setup.Wrap(err, "SELECT %d failed", c.opts.DB)
		}
	}
	return nil
}

func (c *Connection) handshakeCommand(stream *transport.Stream, cmd string, arg interface{}) error {
	q, err := wire.NewQuery(cmd, arg)
	if err != nil {
		return err
	}
	buf := wire.Encode(nil, q)
	if _, err := stream.W.Write(buf); err != nil {
		return err
	}
	if err := stream.W.Flush(); err != nil {
		return err
	}
	reply, err := wire.Decode(stream.R)
	if err != nil {
		return err
	}
	if reply.Kind == wire.RedisError {
		return ioerr.NewRedisReply(reply.ErrMsg)
	}
	if reply.Kind != wire.String || reply.Str != "OK" {
		return ioerr.Setup.New("unexpected handshake reply to %s", cmd)
	}
	return nil
}

// adopt installs stream as the connection's current stream, bumps the
// generation counter, and mints a fresh done channel for the Writer/Reader
// pair about to be spawned for it. By the time adopt runs, onSessionFailure
// has already closed the previous generation's done channel (the Connector
// only gets here after a prior session ended), so there is never a live
// channel to leak.
func (c *Connection) adopt(stream *transport.Stream) (uint64, <-chan struct{}) {
	c.mu.Lock()
	c.stream = stream
	c.generation++
	gen := c.generation
	done := make(chan struct{})
	c.sessionDone = done
	c.mu.Unlock()
	return gen, done
}

// sleepBackoff waits ReconnectPause plus bounded jitter, or returns false
// immediately if the context is cancelled first.
func (c *Connection) sleepBackoff() bool {
	pause := c.opts.ReconnectPause
	jitter := time.Duration(rand.Int63n(int64(pause)/2 + 1))
	t := time.NewTimer(pause + jitter)
	defer t.Stop()
	select {
	case <-c.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// onSessionFailure is invoked by the Writer or Reader when an I/O or
// protocol error is detected. Only the failure belonging to the still-live
// generation triggers a reset; a stale generation's error is a no-op since
// a newer session has already superseded it and already ran this path
// itself. Closing sessionDone here, before Reset's Broadcast, is what lets
// the *sibling* task - the one that wasn't the one to see the I/O error,
// and may currently be parked waiting for work - notice its session ended
// instead of re-parking on a dead stream once it wakes.
func (c *Connection) onSessionFailure(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
	if c.sessionDone != nil {
		close(c.sessionDone)
		c.sessionDone = nil
	}
	c.mu.Unlock()

	if loadState(&c.state) == stateClosed {
		return
	}
	storeState(&c.state, stateDisconnected)
	c.log.Report(logging.Disconnected, c.Addr(), "error", err)

	c.queues.Mu.Lock()
	c.queues.Reset(err)
	c.bulkBuf = nil
	c.queues.Mu.Unlock()
	c.queues.WritesPending.Broadcast()
	c.queues.ReadsPending.Broadcast()

	c.spawnConnector()
}

// keepalive periodically pings the connection on the dispatch pool so a
// slow or wedged server is detected even when no producer is actively
// sending. It mirrors the teacher's control() loop but reports rather than
// panics on a malformed reply, since that's not always a programming error
// once RedisReply values are in play.
func (c *Connection) keepalive() {
	t := time.NewTicker(c.opts.PingInterval)
	defer t.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-t.C:
		}
		if !c.IsConnected() {
			continue
		}
		dispatch.Go(func() {
			res := c.GetResult(mustQuery("PING"), queue.Heartbeat)
			if res.Err != nil {
				return
			}
			if res.Reply.Kind != wire.String || res.Reply.Str != "PONG" {
				c.log.Report(logging.ProtocolFailure, c.Addr(), "ping", res.Reply)
			}
		})
	}
}

func mustQuery(cmd string, args ...interface{}) wire.Query {
	q, err := wire.NewQuery(cmd, args...)
	if err != nil {
		panic(err)
	}
	return q
}
