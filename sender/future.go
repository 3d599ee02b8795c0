package sender

import (
	"github.com/outpostmon/redisq/conn"
	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/wire"
)

// Future is a thin renaming of *queue.OnePromise for callers that prefer
// the future/promise vocabulary of the teacher's ChanFuture, e.g. when
// fanning out several independent queries and collecting results later.
type Future struct {
	promise *queue.OnePromise
}

// Wait blocks for the result, identical to the underlying promise's Wait.
func (f Future) Wait() queue.Result { return f.promise.Wait() }

// Done exposes the result channel for use in a select statement.
func (f Future) Done() <-chan queue.Result { return f.promise.Done() }

// BulkFuture is Future's batch counterpart.
type BulkFuture struct {
	promise *queue.BulkPromise
}

func (f BulkFuture) Wait() queue.BulkResult     { return f.promise.Wait() }
func (f BulkFuture) Done() <-chan queue.BulkResult { return f.promise.Done() }

// ChanFutured issues queries without blocking, returning a Future the
// caller can collect later — useful for a monitoring loop that wants to
// fire off several independent checks and gather their results as they
// finish rather than one at a time.
type ChanFutured struct {
	C *conn.Connection
}

// Send enqueues q at priority p and returns immediately.
func (s ChanFutured) Send(q wire.Query, p queue.Priority) Future {
	return Future{promise: s.C.Async(q, p)}
}

// SendMany enqueues an atomic batch at priority p and returns immediately.
func (s ChanFutured) SendMany(qs []wire.Query, p queue.Priority) BulkFuture {
	return BulkFuture{promise: s.C.AsyncMany(qs, p)}
}
