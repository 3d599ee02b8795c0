// Package sender wraps Connection's promise-returning API in the three
// calling conventions the teacher's redis/rediswrap packages offered on top
// of their own Sender interface: blocking Sync, context-aware SyncCtx, and
// channel/future based ChanFutured. All three are thin: Connection already does
// the queueing and promise bookkeeping, these just adapt the call shape.
package sender

import (
	"github.com/outpostmon/redisq/conn"
	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/wire"
)

// Sync issues one query at a time and blocks for its reply, the simplest
// calling convention for an occasional synchronous query (§6).
type Sync struct {
	C *conn.Connection
}

// Do builds a query from cmd/args and blocks for its reply at priority p.
func (s Sync) Do(p queue.Priority, cmd string, args ...interface{}) queue.Result {
	q, err := wire.NewQuery(cmd, args...)
	if err != nil {
		return queue.Result{Err: err}
	}
	return s.C.GetResult(q, p)
}

// Send blocks for q's reply at priority p.
func (s Sync) Send(q wire.Query, p queue.Priority) queue.Result {
	return s.C.GetResult(q, p)
}

// SendMany blocks for every reply of an atomic batch at priority p.
func (s Sync) SendMany(qs []wire.Query, p queue.Priority) queue.BulkResult {
	return s.C.GetResults(qs, p)
}
