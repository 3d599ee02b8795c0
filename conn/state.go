package conn

import "sync/atomic"

// state is the explicit lifecycle enum recommended in §9's open question,
// replacing a double-compare-exchange dance with a single source of truth
// an external observer can read lock-free.
type state int32

const (
	stateDisconnected state = iota
	stateConnecting
	stateConnected
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateDisconnected:
		return "disconnected"
	case stateConnecting:
		return "connecting"
	case stateConnected:
		return "connected"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func loadState(s *int32) state     { return state(atomic.LoadInt32(s)) }
func storeState(s *int32, v state) { atomic.StoreInt32(s, int32(v)) }
