/*
Package redisq is an implicitly-pipelined Redis client for highly concurrent
Go services.

https://redis.io/topics/pipelining

A connection-per-request pool pays a round trip per caller. redisq instead
keeps one TCP (or Unix) connection per server and multiplexes every
concurrent caller's requests onto it: a writer goroutine drains a priority
queue and flushes to the socket, a reader goroutine decodes replies in
arrival order and wakes the caller that is waiting on each one. Callers pay
no extra latency for batching that isn't there, and throughput under
concurrent load comes from the kernel coalescing writes rather than from the
application explicitly batching anything.

Capabilities

- implicit pipelining: any number of concurrent callers share one connection
without explicit batching,

- priority queue: six priority bands let control-plane traffic (heartbeat
PINGs) cut ahead of bulk background writes without a second connection,

- automatic reconnect: a dropped connection is retried with the configured
pause, and all outstanding promises on that generation are failed so
callers never hang,

- pluggable logging hook for connection lifecycle events,

- three calling conventions: synchronous, context-aware synchronous, and
channel-based futures.

Structure

- wire: the RESP-2 codec, shared between request encoding and the reply
decoder,

- queue: the priority queue, the per-connection action/promise FIFOs, and
the OnePromise/BulkPromise result types,

- transport: TCP/Unix dialing with the read/write deadlines config.Config
describes,

- conn: the Connector/Writer/Reader actor trio that owns one connection's
lifecycle,

- sender: the Sync, SyncCtx, and ChanFutured convenience wrappers,

- ioerr: the errorx-based error taxonomy shared by every package,

- cmd/redisqctl: a small CLI for exercising a connection from a terminal.

Usage

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	c := conn.New(conn.Options{Config: *cfg, Logger: logging.Nop{}})
	c.Start(ctx)
	defer c.Close()

	sync := sender.Sync{C: c}
	res := sync.Do(queue.State, "SET", "key", "value")
	if res.Err != nil {
		log.Fatal(res.Err)
	}

Request arguments accept nil, []byte, string, any integer type, float32,
float64, and bool; all are converted to RESP bulk strings (bool as "0"/"1",
nil as the empty string). Replies are decoded into wire.Reply, which keeps
the RESP type tag alongside the decoded Go value rather than erasing it into
interface{}: Kind reports which of Str, Num, Items, or ErrMsg is populated
(or that the reply was RESP's null), and IsNil reports the null case directly.
*/
package redisq
