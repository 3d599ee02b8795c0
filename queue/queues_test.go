package queue_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outpostmon/redisq/queue"
	"github.com/outpostmon/redisq/wire"
)

func q(cmd string) wire.Query {
	query, err := wire.NewQuery(cmd)
	if err != nil {
		panic(err)
	}
	return query
}

func TestNextWritablePriorityOrder(t *testing.T) {
	qs := queue.New()
	qs.Push(queue.CheckResult, queue.FireOneItem(q("A")))
	qs.Push(queue.Heartbeat, queue.FireOneItem(q("B")))
	qs.Push(queue.State, queue.FireOneItem(q("C")))

	qs.Mu.Lock()
	defer qs.Mu.Unlock()

	item, p, ok := qs.NextWritable()
	require.True(t, ok)
	assert.Equal(t, queue.Heartbeat, p)
	assert.Equal(t, "B", string(item.Queries[0][0]))

	item, p, ok = qs.NextWritable()
	require.True(t, ok)
	assert.Equal(t, queue.State, p)
	assert.Equal(t, "C", string(item.Queries[0][0]))

	item, p, ok = qs.NextWritable()
	require.True(t, ok)
	assert.Equal(t, queue.CheckResult, p)
	assert.Equal(t, "A", string(item.Queries[0][0]))

	_, _, ok = qs.NextWritable()
	assert.False(t, ok)
}

func TestNextWritableSkipsSuppressed(t *testing.T) {
	qs := queue.New()
	qs.Push(queue.Heartbeat, queue.FireOneItem(q("ping")))
	qs.Push(queue.State, queue.FireOneItem(q("state")))
	qs.Suppress(queue.Heartbeat)

	qs.Mu.Lock()
	item, p, ok := qs.NextWritable()
	qs.Mu.Unlock()

	require.True(t, ok)
	assert.Equal(t, queue.State, p)
	assert.Equal(t, "state", string(item.Queries[0][0]))
}

func TestFIFOWithinPriority(t *testing.T) {
	qs := queue.New()
	qs.Push(queue.State, queue.FireOneItem(q("first")))
	qs.Push(queue.State, queue.FireOneItem(q("second")))

	qs.Mu.Lock()
	defer qs.Mu.Unlock()
	item, _, _ := qs.NextWritable()
	assert.Equal(t, "first", string(item.Queries[0][0]))
	item, _, _ = qs.NextWritable()
	assert.Equal(t, "second", string(item.Queries[0][0]))
}

func TestActionsDeliverOne(t *testing.T) {
	qs := queue.New()
	promise := queue.NewOnePromise()

	qs.Mu.Lock()
	qs.PushOnePromise(promise)
	qs.PushAction(queue.NewDeliverOne())
	action, ok := qs.FrontAction()
	qs.Mu.Unlock()

	require.True(t, ok)
	assert.Equal(t, queue.DeliverOne, action.Kind)

	qs.Mu.Lock()
	p, ok := qs.PopOnePromise()
	qs.PopFrontAction()
	qs.Mu.Unlock()

	require.True(t, ok)
	p.Fulfill(wire.StringReply("PONG"))
	res := promise.Wait()
	assert.Equal(t, "PONG", res.Reply.Str)
}

func TestResetFailsOutstandingWork(t *testing.T) {
	qs := queue.New()
	onePromise := queue.NewOnePromise()
	bulkPromise := queue.NewBulkPromise()

	qs.Push(queue.State, queue.AwaitOneItem(q("GET"), onePromise))
	qs.Push(queue.History, queue.AwaitManyItem([]wire.Query{q("A"), q("B")}, bulkPromise))

	qs.Mu.Lock()
	qs.PushOnePromise(queue.NewOnePromise())
	failErr := errors.New("reset")
	qs.Reset(failErr)
	qs.Mu.Unlock()

	oneRes := onePromise.Wait()
	assert.ErrorIs(t, oneRes.Err, failErr)

	bulkRes := bulkPromise.Wait()
	assert.ErrorIs(t, bulkRes.Err, failErr)

	qs.Mu.Lock()
	_, _, ok := qs.NextWritable()
	hasActions := qs.HasPendingActions()
	qs.Mu.Unlock()
	assert.False(t, ok)
	assert.False(t, hasActions)
}

func TestUnsuppressWakesWriter(t *testing.T) {
	qs := queue.New()
	qs.Suppress(queue.Heartbeat)
	qs.Push(queue.Heartbeat, queue.FireOneItem(q("ping")))

	woke := make(chan struct{})
	go func() {
		qs.Mu.Lock()
		for {
			if _, _, ok := qs.NextWritable(); ok {
				break
			}
			qs.WritesPending.Wait()
		}
		qs.Mu.Unlock()
		close(woke)
	}()

	// Unsuppress races the waiter's first Wait() call; retry the wakeup
	// signal until the waiter has actually observed it, rather than assume
	// a single Unsuppress lands after the waiter is parked.
	for {
		select {
		case <-woke:
			return
		case <-time.After(5 * time.Millisecond):
			qs.Unsuppress(queue.Heartbeat)
		}
	}
}

func TestPromiseTag(t *testing.T) {
	p := queue.NewOnePromise().WithTag(42)
	p.Fulfill(wire.StringReply("x"))
	res := p.Wait()
	assert.Equal(t, uint64(42), res.Tag)
}
