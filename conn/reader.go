package conn

import (
	"github.com/outpostmon/redisq/ioerr"
	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/transport"
	"github.com/outpostmon/redisq/wire"
)

// runReader implements §4.3's Reader: await ReadsPending; while
// FutureResponseActions is non-empty, decode one reply off the socket and
// dispatch it per the front action's kind, decrementing Remaining and
// popping the action once it reaches zero. gen pins this goroutine to the
// session that spawned it. done is that session's sessionDone channel: see
// runWriter's doc comment for why waitForPendingActions checks it on every
// wait-loop iteration rather than relying solely on this task's own I/O
// errors.
func (c *Connection) runReader(stream *transport.Stream, gen uint64, done <-chan struct{}) {
	defer c.wg.Done()

	for {
		if !c.waitForPendingActions(done) {
			return
		}

		reply, err := wire.Decode(stream.R)
		if err != nil {
			c.onSessionFailure(gen, err)
			return
		}

		if err := c.dispatchReply(reply); err != nil {
			c.onSessionFailure(gen, err)
			return
		}
	}
}

// waitForPendingActions blocks on ReadsPending until FutureResponseActions
// is non-empty. Returns false once the actor is shutting down, or once done
// is closed - checked before every HasPendingActions call, under the same
// queues.Mu that onSessionFailure's Reset uses, so a session that ended
// while this task was idle is never missed and this task never dequeues an
// action that belongs to a session it no longer has a stream for.
func (c *Connection) waitForPendingActions(done <-chan struct{}) bool {
	c.queues.Mu.Lock()
	defer c.queues.Mu.Unlock()

	for {
		select {
		case <-done:
			return false
		default:
		}
		if c.ctx.Err() != nil {
			return false
		}
		if c.queues.HasPendingActions() {
			return true
		}
		c.queues.ReadsPending.Wait()
	}
}

// dispatchReply consults the front of FutureResponseActions and resolves
// reply per §4.3: discard it, hand it to the front single-reply promise, or
// accumulate it for the front bulk promise, completing that promise once
// its count is reached. A demand for delivery against an empty promise FIFO
// is a programming error and fails the session.
func (c *Connection) dispatchReply(reply wire.Reply) error {
	c.queues.Mu.Lock()
	defer c.queues.Mu.Unlock()

	action, ok := c.queues.FrontAction()
	if !ok {
		return ioerr.ProgrammingError.New("reply received with no pending action")
	}

	switch action.Kind {
	case queue.Ignore:
		// discard

	case queue.DeliverOne:
		p, ok := c.queues.PopOnePromise()
		if !ok {
			return ioerr.ProgrammingError.New("DeliverOne action with no waiting promise")
		}
		p.Fulfill(reply)

	case queue.DeliverBulk:
		acc := c.bulkAccumulate(reply, action.Remaining)
		if action.Remaining == 1 {
			p, ok := c.queues.PopBulkPromise()
			if !ok {
				return ioerr.ProgrammingError.New("DeliverBulk action with no waiting promise")
			}
			p.Fulfill(acc)
			c.bulkDone()
		}
	}

	action.Remaining--
	if action.Remaining <= 0 {
		c.queues.PopFrontAction()
	} else {
		c.queues.SetFrontAction(action)
	}
	return nil
}

// bulkAccumulate appends reply to the in-flight bulk buffer for the current
// front bulk promise, allocating it on the first reply of the batch
// (remaining == action.Remaining as originally pushed), and returns the
// slice accumulated so far; the caller delivers it once the batch is
// complete. Must be called with queues.Mu held.
func (c *Connection) bulkAccumulate(reply wire.Reply, remaining int) []wire.Reply {
	if c.bulkBuf == nil {
		c.bulkBuf = make([]wire.Reply, 0, remaining)
	}
	c.bulkBuf = append(c.bulkBuf, reply)
	return c.bulkBuf
}

// bulkDone clears the in-flight bulk accumulation buffer after delivery.
func (c *Connection) bulkDone() {
	c.bulkBuf = nil
}
