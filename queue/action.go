package queue

// ActionKind tags the disposition of one decoded reply, per §3/§4.3.
type ActionKind int

const (
	Ignore ActionKind = iota
	DeliverOne
	DeliverBulk
)

// Action is one entry of the FutureResponseActions FIFO: it links a wire
// reply (or a run of them) to its disposition. Remaining counts down as
// replies are consumed; the entry is popped from the front when it reaches
// zero.
type Action struct {
	Kind      ActionKind
	Remaining int
}

// NewIgnore builds an action discarding the next n replies (n >= 1).
func NewIgnore(n int) Action { return Action{Kind: Ignore, Remaining: n} }

// NewDeliverOne builds an action delivering the next reply to the promise
// at the front of the single-reply promise FIFO.
func NewDeliverOne() Action { return Action{Kind: DeliverOne, Remaining: 1} }

// NewDeliverBulk builds an action accumulating the next n replies for the
// bulk promise at the front of the bulk-reply promise FIFO.
func NewDeliverBulk(n int) Action { return Action{Kind: DeliverBulk, Remaining: n} }
