package conn

import (
	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/transport"
	"github.com/outpostmon/redisq/wire"
)

// runWriter implements §4.3's Writer: await WritesPending; while there is a
// non-suppressed, non-empty priority class, pop its front item, process it,
// and flush; when none remains, wait again. gen pins this goroutine to the
// session that spawned it, so a failure here never resets a session a newer
// Connector has already replaced. done is that session's sessionDone
// channel: popNextWritable checks it on every wait-loop iteration so that a
// sibling task's failure - not just this task's own - ends this goroutine
// too, rather than leaving it parked on a stream nobody will ever service
// again.
func (c *Connection) runWriter(stream *transport.Stream, gen uint64, done <-chan struct{}) {
	defer c.wg.Done()

	for {
		item, ok := c.popNextWritable(done)
		if !ok {
			return
		}

		if err := c.processWriteItem(stream, item); err != nil {
			c.onSessionFailure(gen, err)
			return
		}

		if err := stream.Flush(); err != nil {
			c.onSessionFailure(gen, err)
			return
		}
	}
}

// popNextWritable blocks on WritesPending until a non-suppressed priority
// class has work, per the selection rule in §4.3: iterate classes
// most-important to least, skip suppressed ones, take the first non-empty.
// ok is false once the actor is shutting down, or once done is closed -
// checked before every NextWritable call, under the same queues.Mu that
// onSessionFailure's Reset uses, so a session that ended while this task
// was idle is never missed.
func (c *Connection) popNextWritable(done <-chan struct{}) (queue.Item, bool) {
	c.queues.Mu.Lock()
	defer c.queues.Mu.Unlock()

	for {
		select {
		case <-done:
			return queue.Item{}, false
		default:
		}
		if c.ctx.Err() != nil {
			return queue.Item{}, false
		}
		if item, _, found := c.queues.NextWritable(); found {
			return item, true
		}
		c.queues.WritesPending.Wait()
	}
}

// processWriteItem dispatches by variant per §4.3. Queue-structure mutation
// (pushing response actions and promises) is done under queues.Mu, but the
// socket write itself and any Callback's Run happen outside the lock: the
// Writer is the sole writer to the stream so write-ordering is preserved by
// this being a single goroutine, and a Callback that turns around and
// enqueues new work must be able to acquire queues.Mu itself.
func (c *Connection) processWriteItem(stream *transport.Stream, item queue.Item) error {
	switch item.Kind {
	case queue.FireOne:
		if err := writeQuery(stream, item.Queries[0]); err != nil {
			return err
		}
		c.pushAction(queue.NewIgnore(1))

	case queue.FireMany:
		for _, q := range item.Queries {
			if err := writeQuery(stream, q); err != nil {
				return err
			}
		}
		c.pushAction(queue.NewIgnore(len(item.Queries)))

	case queue.AwaitOne:
		if err := writeQuery(stream, item.Queries[0]); err != nil {
			return err
		}
		c.queues.Mu.Lock()
		c.queues.PushOnePromise(item.One)
		c.queues.PushAction(queue.NewDeliverOne())
		c.queues.Mu.Unlock()
		c.queues.ReadsPending.Signal()

	case queue.AwaitMany:
		for _, q := range item.Queries {
			if err := writeQuery(stream, q); err != nil {
				return err
			}
		}
		c.queues.Mu.Lock()
		c.queues.PushBulkPromise(item.Bulk)
		c.queues.PushAction(queue.NewDeliverBulk(len(item.Queries)))
		c.queues.Mu.Unlock()
		c.queues.ReadsPending.Signal()

	case queue.Callback:
		item.Run()
	}
	return nil
}

func (c *Connection) pushAction(a queue.Action) {
	c.queues.Mu.Lock()
	c.queues.PushAction(a)
	c.queues.Mu.Unlock()
	c.queues.ReadsPending.Signal()
}

func writeQuery(stream *transport.Stream, q wire.Query) error {
	buf := wire.Encode(nil, q)
	_, err := stream.W.Write(buf)
	return err
}
