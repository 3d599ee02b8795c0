package queue

import "github.com/outpostmon/redisq/wire"

// Result is what a single-reply promise resolves to: either a decoded RESP
// reply (which may itself be a RedisError value, per §3) or a connection/
// protocol failure from ioerr. Tag echoes back whatever correlation id the
// caller attached via WithTag, 0 if none was set.
type Result struct {
	Reply wire.Reply
	Err   error
	Tag   uint64
}

// BulkResult is what a bulk-reply promise resolves to: the ordered vector of
// replies to a batch's queries, or a single failure covering the whole
// batch. Tag is BulkPromise's WithTag counterpart.
type BulkResult struct {
	Replies []wire.Reply
	Err     error
	Tag     uint64
}

// OnePromise is the one-shot future/promise pair backing AwaitOne. Exactly
// one of Fulfill/Fail is ever called by the actor.
type OnePromise struct {
	ch  chan Result
	tag uint64
}

// NewOnePromise allocates a promise with room for its single result so
// Fulfill never blocks the caller running on the serialization domain.
func NewOnePromise() *OnePromise {
	return &OnePromise{ch: make(chan Result, 1)}
}

// WithTag attaches a caller-chosen correlation id, echoed back in the
// eventual Result, matching the teacher's Callback(res, n uint64) shape.
// Returns the receiver for chaining at the call site.
func (p *OnePromise) WithTag(tag uint64) *OnePromise {
	p.tag = tag
	return p
}

func (p *OnePromise) Fulfill(reply wire.Reply) { p.ch <- Result{Reply: reply, Tag: p.tag} }
func (p *OnePromise) Fail(err error)           { p.ch <- Result{Err: err, Tag: p.tag} }

// Wait blocks the requesting goroutine until the promise is resolved.
func (p *OnePromise) Wait() Result { return <-p.ch }

// Done exposes the promise's channel for callers that want to select on it
// alongside a context deadline or another event, rather than block in Wait.
func (p *OnePromise) Done() <-chan Result { return p.ch }

// BulkPromise is the one-shot future/promise pair backing AwaitMany.
type BulkPromise struct {
	ch  chan BulkResult
	tag uint64
}

func NewBulkPromise() *BulkPromise {
	return &BulkPromise{ch: make(chan BulkResult, 1)}
}

// WithTag is OnePromise.WithTag's batch counterpart.
func (p *BulkPromise) WithTag(tag uint64) *BulkPromise {
	p.tag = tag
	return p
}

func (p *BulkPromise) Fulfill(replies []wire.Reply) { p.ch <- BulkResult{Replies: replies, Tag: p.tag} }
func (p *BulkPromise) Fail(err error)               { p.ch <- BulkResult{Err: err, Tag: p.tag} }

func (p *BulkPromise) Wait() BulkResult { return <-p.ch }

// Done exposes the promise's channel, mirroring OnePromise.Done.
func (p *BulkPromise) Done() <-chan BulkResult { return p.ch }
