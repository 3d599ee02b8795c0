// Package queue holds the shared state a connection actor serializes all
// mutation of: the per-priority write queues, the suppression set, the
// FutureResponseActions FIFO, and the two promise FIFOs it dispatches into.
// Everything here is protected by a single mutex with two condition
// variables, per §4.3/§9: WritesPending (the Writer waits on it) and
// ReadsPending (the Reader waits on it).
package queue

import (
	"container/list"
	"sync"
)

// Queues is the actor's whole mutable pipeline state. Producers call Push
// from arbitrary goroutines; the connection actor's
// Writer/Reader/Connector tasks are the only readers of the internal
// queues, always under Mu.
type Queues struct {
	Mu sync.Mutex

	WritesPending *sync.Cond
	ReadsPending  *sync.Cond

	writeQ      [NumPriorities]list.List
	suppressed  [NumPriorities]bool

	actions      list.List // of Action
	onePromises  list.List // of *OnePromise
	bulkPromises list.List // of *BulkPromise
}

// New allocates an empty Queues ready for use.
func New() *Queues {
	q := &Queues{}
	q.WritesPending = sync.NewCond(&q.Mu)
	q.ReadsPending = sync.NewCond(&q.Mu)
	return q
}

// Push appends item to the write queue for priority p and wakes the Writer.
// Callers must not hold Mu.
func (q *Queues) Push(p Priority, item Item) {
	q.Mu.Lock()
	q.writeQ[p].PushBack(item)
	q.Mu.Unlock()
	q.WritesPending.Signal()
}

// NextWritable selects, per §4.3, the highest-priority non-suppressed class
// with a non-empty queue and pops its front item. Ok is false when no class
// has eligible work; the caller should then wait on WritesPending. Must be
// called with Mu held.
func (q *Queues) NextWritable() (Item, Priority, bool) {
	for p := Priority(0); int(p) < NumPriorities; p++ {
		if q.suppressed[p] {
			continue
		}
		if el := q.writeQ[p].Front(); el != nil {
			q.writeQ[p].Remove(el)
			return el.Value.(Item), p, true
		}
	}
	return Item{}, 0, false
}

// PushAction appends a response-action descriptor to FutureResponseActions.
// It does not wake the Reader: the caller signals ReadsPending after
// releasing Mu. Must be called with Mu held.
func (q *Queues) PushAction(a Action) {
	q.actions.PushBack(a)
}

// PushOnePromise appends p to the single-reply promise FIFO. Must be called
// with Mu held.
func (q *Queues) PushOnePromise(p *OnePromise) {
	q.onePromises.PushBack(p)
}

// PushBulkPromise appends p to the bulk-reply promise FIFO. Must be called
// with Mu held.
func (q *Queues) PushBulkPromise(p *BulkPromise) {
	q.bulkPromises.PushBack(p)
}

// FrontAction returns the action at the front of FutureResponseActions
// without removing it, and whether one exists. Must be called with Mu held.
func (q *Queues) FrontAction() (Action, bool) {
	el := q.actions.Front()
	if el == nil {
		return Action{}, false
	}
	return el.Value.(Action), true
}

// SetFrontAction replaces the value of the front action (used by the Reader
// to decrement Remaining in place). Must be called with Mu held.
func (q *Queues) SetFrontAction(a Action) {
	el := q.actions.Front()
	el.Value = a
}

// PopFrontAction removes the front action, e.g. once Remaining reaches
// zero. Must be called with Mu held.
func (q *Queues) PopFrontAction() {
	q.actions.Remove(q.actions.Front())
}

// PopOnePromise removes and returns the promise at the front of the
// single-reply FIFO, and whether one was there. Must be called with Mu
// held.
func (q *Queues) PopOnePromise() (*OnePromise, bool) {
	el := q.onePromises.Front()
	if el == nil {
		return nil, false
	}
	q.onePromises.Remove(el)
	return el.Value.(*OnePromise), true
}

// PopBulkPromise removes and returns the promise at the front of the
// bulk-reply FIFO, and whether one was there. Must be called with Mu held.
func (q *Queues) PopBulkPromise() (*BulkPromise, bool) {
	el := q.bulkPromises.Front()
	if el == nil {
		return nil, false
	}
	q.bulkPromises.Remove(el)
	return el.Value.(*BulkPromise), true
}

// HasPendingActions reports whether FutureResponseActions is non-empty.
// Must be called with Mu held.
func (q *Queues) HasPendingActions() bool {
	return q.actions.Len() > 0
}

// Suppress marks priority p as suppressed: the Writer will skip it on its
// next selection pass until Unsuppress is called. Idempotent.
func (q *Queues) Suppress(p Priority) {
	q.Mu.Lock()
	q.suppressed[p] = true
	q.Mu.Unlock()
}

// Unsuppress clears the suppression flag for p and wakes the Writer so it
// re-evaluates priority selection even if nothing new was enqueued (§9).
func (q *Queues) Unsuppress(p Priority) {
	q.Mu.Lock()
	q.suppressed[p] = false
	q.Mu.Unlock()
	q.WritesPending.Signal()
}

// IsSuppressed reports the current suppression state of p.
func (q *Queues) IsSuppressed(p Priority) bool {
	q.Mu.Lock()
	defer q.Mu.Unlock()
	return q.suppressed[p]
}

// Reset clears every queue and fails every outstanding promise with err, per
// the reconnect-reset invariant in §3. Must be called with Mu held (callers
// typically hold Mu already while transitioning connection state).
func (q *Queues) Reset(err error) {
	for p := 0; p < NumPriorities; p++ {
		el := q.writeQ[p].Front()
		for el != nil {
			next := el.Next()
			item := el.Value.(Item)
			failItem(item, err)
			el = next
		}
		q.writeQ[p].Init()
	}
	for el := q.onePromises.Front(); el != nil; el = el.Next() {
		el.Value.(*OnePromise).Fail(err)
	}
	q.onePromises.Init()
	for el := q.bulkPromises.Front(); el != nil; el = el.Next() {
		el.Value.(*BulkPromise).Fail(err)
	}
	q.bulkPromises.Init()
	q.actions.Init()
}

// failItem resolves a write-queue item's promise (if any) with err when the
// item never made it to the wire because the connection reset first.
func failItem(item Item, err error) {
	switch item.Kind {
	case AwaitOne:
		item.One.Fail(err)
	case AwaitMany:
		item.Bulk.Fail(err)
	}
}
