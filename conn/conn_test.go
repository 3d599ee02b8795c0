package conn_test

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/outpostmon/redisq/config"
	"github.com/outpostmon/redisq/conn"
	"github.com/outpostmon/redisq/internal/fakeredis"
	"github.com/outpostmon/redisq/logging"
	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/wire"
)

type ConnSuite struct {
	suite.Suite
	srv *fakeredis.Server

	seenMu sync.Mutex
	seen   []string
}

func (s *ConnSuite) recordHandler(args []string) wire.Reply {
	s.seenMu.Lock()
	s.seen = append(s.seen, strings.Join(args, " "))
	s.seenMu.Unlock()
	switch args[0] {
	case "GET":
		return wire.StringReply("value:" + args[1])
	case "INCR":
		return wire.IntegerReply(1)
	default:
		return wire.StringReply("OK")
	}
}

func (s *ConnSuite) SetupTest() {
	srv, err := fakeredis.New(fakeredis.Default(s.recordHandler))
	s.Require().NoError(err)
	s.srv = srv
	s.seenMu.Lock()
	s.seen = nil
	s.seenMu.Unlock()
}

func (s *ConnSuite) TearDownTest() {
	s.srv.Close()
}

func (s *ConnSuite) newConn(ctx context.Context) *conn.Connection {
	addr := s.srv.Addr()
	idx := strings.LastIndex(addr, ":")
	host, portStr := addr[:idx], addr[idx+1:]
	port, err := strconv.Atoi(portStr)
	s.Require().NoError(err)

	connected := make(chan struct{}, 1)
	c := conn.New(conn.Options{
		Config: portConfig(host, port),
		Logger: logging.Nop{},
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
	case <-time.After(2 * time.Second):
		s.FailNow("connection never connected")
	}
	return c
}

func TestConn(t *testing.T) {
	suite.Run(t, new(ConnSuite))
}

func (s *ConnSuite) TestFireAndForget() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := s.newConn(ctx)
	defer c.Close()

	q, err := wire.NewQuery("SET", "a", "1")
	require.NoError(s.T(), err)
	c.FireAndForget(q, queue.State)

	require.NoError(s.T(), c.Sync())

	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	s.Contains(s.seen, "SET a 1")
}

func (s *ConnSuite) TestGetResult() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := s.newConn(ctx)
	defer c.Close()

	q, err := wire.NewQuery("GET", "a")
	require.NoError(s.T(), err)
	res := c.GetResult(q, queue.State)
	require.NoError(s.T(), res.Err)
	s.Equal("value:a", res.Reply.Str)
}

func (s *ConnSuite) TestGetResults() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := s.newConn(ctx)
	defer c.Close()

	qs := make([]wire.Query, 3)
	for i := range qs {
		q, err := wire.NewQuery("GET", strconv.Itoa(i))
		require.NoError(s.T(), err)
		qs[i] = q
	}
	res := c.GetResults(qs, queue.State)
	require.NoError(s.T(), res.Err)
	require.Len(s.T(), res.Replies, 3)
	s.Equal("value:0", res.Replies[0].Str)
	s.Equal("value:2", res.Replies[2].Str)
}

func (s *ConnSuite) TestPriorityOrdering() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := s.newConn(ctx)
	defer c.Close()

	// Suppress both classes first so the Writer can't drain either one
	// before both items are enqueued, which would make the arrival order
	// (rather than priority) decide what gets written first.
	c.Suppress(queue.CheckResult)
	c.Suppress(queue.Heartbeat)

	low, _ := wire.NewQuery("LOW")
	high, _ := wire.NewQuery("HIGH")
	c.FireAndForget(low, queue.CheckResult)
	c.FireAndForget(high, queue.Heartbeat)

	c.Unsuppress(queue.CheckResult)
	c.Unsuppress(queue.Heartbeat)

	require.NoError(s.T(), c.Sync())

	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	var order []string
	for _, v := range s.seen {
		if v == "LOW" || v == "HIGH" {
			order = append(order, v)
		}
	}
	require.Len(s.T(), order, 2)
	s.Equal("HIGH", order[0])
}

func (s *ConnSuite) TestSuppressionBlocksPriority() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := s.newConn(ctx)
	defer c.Close()

	c.Suppress(queue.History)
	q, _ := wire.NewQuery("SUPPRESSED")
	c.FireAndForget(q, queue.History)

	time.Sleep(100 * time.Millisecond)

	s.seenMu.Lock()
	seenSuppressed := false
	for _, v := range s.seen {
		if v == "SUPPRESSED" {
			seenSuppressed = true
		}
	}
	s.seenMu.Unlock()
	s.False(seenSuppressed)

	c.Unsuppress(queue.History)
	require.NoError(s.T(), c.Sync())

	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	seenSuppressed = false
	for _, v := range s.seen {
		if v == "SUPPRESSED" {
			seenSuppressed = true
		}
	}
	s.True(seenSuppressed)
}

func (s *ConnSuite) TestReconnectResetsOutstandingWork() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := s.newConn(ctx)
	defer c.Close()

	// Tear the server down entirely so the in-flight request's session
	// fails and has nowhere to successfully reconnect to, making the
	// promise-failure outcome deterministic rather than racing a retry.
	s.srv.Close()

	q, _ := wire.NewQuery("GET", "x")
	res := c.GetResult(q, queue.State)
	s.Error(res.Err)
}

func (s *ConnSuite) TestReconnectThenNewRequestSucceeds() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconnected := make(chan struct{}, 1)
	addr := s.srv.Addr()
	idx := strings.LastIndex(addr, ":")
	host, portStr := addr[:idx], addr[idx+1:]
	port, err := strconv.Atoi(portStr)
	s.Require().NoError(err)

	connected := make(chan struct{}, 1)
	c := conn.New(conn.Options{
		Config: portConfig(host, port),
		Logger: logging.Nop{},
		OnConnected: func(*conn.Connection) {
			select {
			case connected <- struct{}{}:
			default:
			}
			select {
			case reconnected <- struct{}{}:
			default:
			}
		},
	})
	c.Start(ctx)
	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		s.FailNow("connection never connected")
	}
	defer c.Close()

	// Drain the signal the initial connect also queued on reconnected, so
	// the wait below observes only the reconnect triggered by DropAll.
	select {
	case <-reconnected:
	default:
	}

	// Drop the live socket while the listener keeps accepting, so the
	// Connector redials the same server rather than failing outright. This
	// is the path that exercises the Writer/Reader pair spawned for the
	// dropped session noticing their session ended instead of one of them
	// surviving into the new session as a stale task. An idle Writer/Reader
	// never touches the socket, so a probe request is sent to make the
	// dropped session fail; its own result is not checked.
	s.srv.DropAll()
	probe, _ := wire.NewQuery("GET", "probe")
	c.GetResult(probe, queue.State)

	select {
	case <-reconnected:
	case <-time.After(2 * time.Second):
		s.FailNow("connection never reconnected")
	}

	q, _ := wire.NewQuery("GET", "x")
	res := c.GetResult(q, queue.State)
	require.NoError(s.T(), res.Err)
	s.Equal("value:x", res.Reply.Str)
}

func (s *ConnSuite) TestIsConnected() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := s.newConn(ctx)
	defer c.Close()

	s.True(c.IsConnected())
	c.Close()
	s.False(c.IsConnected())
}

func portConfig(host string, port int) config.Config {
	return config.Config{
		Host:           host,
		Port:           port,
		DialTimeout:    time.Second,
		IOTimeout:      time.Second,
		ReconnectPause: 20 * time.Millisecond,
	}
}
