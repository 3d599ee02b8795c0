package sender

import (
	"context"

	"github.com/outpostmon/redisq/conn"
	"github.com/outpostmon/redisq/ioerr"
	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/wire"
)

// SyncCtx is Sync with a context deadline spliced in: the query is still
// enqueued (so a slow connection doesn't leave an orphaned write mid-batch),
// but the caller stops waiting as soon as ctx is done, per the teacher's
// SyncCtx/active pattern.
type SyncCtx struct {
	C *conn.Connection
}

// Send enqueues q at priority p and returns as soon as either the reply
// arrives or ctx is done.
func (s SyncCtx) Send(ctx context.Context, q wire.Query, p queue.Priority) queue.Result {
	promise := s.C.Async(q, p)
	select {
	case <-ctx.Done():
		return queue.Result{Err: ioerr.Cancelled.Wrap(ctx.Err(), "request cancelled")}
	case res := <-promise.Done():
		return res
	}
}

// SendMany is Send's batch counterpart.
func (s SyncCtx) SendMany(ctx context.Context, qs []wire.Query, p queue.Priority) queue.BulkResult {
	promise := s.C.AsyncMany(qs, p)
	select {
	case <-ctx.Done():
		return queue.BulkResult{Err: ioerr.Cancelled.Wrap(ctx.Err(), "request cancelled")}
	case res := <-promise.Done():
		return res
	}
}
