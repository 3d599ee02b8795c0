package queue

import "github.com/outpostmon/redisq/wire"

// ItemKind tags the variant held by a WriteQueueItem, per §3.
type ItemKind int

const (
	FireOne ItemKind = iota
	FireMany
	AwaitOne
	AwaitMany
	Callback
)

// Item is the tagged record enqueued by a producer. Exactly one variant's
// fields are populated, matching its Kind.
type Item struct {
	Kind ItemKind

	// Queries holds one query for FireOne/AwaitOne, or the ordered batch for
	// FireMany/AwaitMany.
	Queries []wire.Query

	// One is populated for AwaitOne.
	One *OnePromise
	// Bulk is populated for AwaitMany.
	Bulk *BulkPromise

	// Run is populated for Callback: an action invoked inline on the
	// serialization domain, with no return value observed by the queue.
	Run func()
}

// FireOneItem builds a fire-and-forget single-query item.
func FireOneItem(q wire.Query) Item {
	return Item{Kind: FireOne, Queries: []wire.Query{q}}
}

// FireManyItem builds a fire-and-forget contiguous batch item.
func FireManyItem(qs []wire.Query) Item {
	return Item{Kind: FireMany, Queries: qs}
}

// AwaitOneItem builds a single-reply awaited item.
func AwaitOneItem(q wire.Query, p *OnePromise) Item {
	return Item{Kind: AwaitOne, Queries: []wire.Query{q}, One: p}
}

// AwaitManyItem builds a bulk-reply awaited batch item.
func AwaitManyItem(qs []wire.Query, p *BulkPromise) Item {
	return Item{Kind: AwaitMany, Queries: qs, Bulk: p}
}

// CallbackItem builds an item whose disposition is to run fn on the
// serialization domain. fn must not block on the Writer or Reader.
func CallbackItem(fn func()) Item {
	return Item{Kind: Callback, Run: fn}
}
