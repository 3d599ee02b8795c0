package transport_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"

	"github.com/outpostmon/redisq/ioerr"
	"github.com/outpostmon/redisq/transport"
)

func TestDialTCPRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, 5)
		if _, err := c.Read(buf); err != nil {
			return
		}
		c.Write(buf)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	dialer := transport.NewDialer("127.0.0.1", addr.Port, "", time.Second, time.Second)

	stream, err := dialer.Dial(context.Background())
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.W.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, stream.Flush())

	buf := make([]byte, 5)
	_, err = stream.R.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))
}

func TestDialUnixPathSelectsUnixNetwork(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/redisq.sock"

	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		c.Close()
	}()

	dialer := transport.NewDialer("127.0.0.1", 0, path, time.Second, time.Second)
	stream, err := dialer.Dial(context.Background())
	require.NoError(t, err)
	stream.Close()
}

func TestDialFailureWrapsErr(t *testing.T) {
	dialer := transport.NewDialer("127.0.0.1", 1, "", 50*time.Millisecond, time.Second)
	_, err := dialer.Dial(context.Background())
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, ioerr.Dial))
}
