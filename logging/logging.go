// Package logging defines the event-kind Logger hook the connection actor
// reports lifecycle events through, following the shape of the teacher's
// redisconn.Logger, but backed by go.uber.org/zap by default instead of the
// standard library's log package.
package logging

import "go.uber.org/zap"

// Kind enumerates the lifecycle events a Connection reports.
type Kind int

const (
	Connecting Kind = iota
	Connected
	ConnectFailed
	Disconnected
	ContextClosed
	Suppressed
	Unsuppressed
	ProtocolFailure
)

// Logger is the pluggable reporting hook. addr identifies the connection
// (host:port or unix path) being reported on.
type Logger interface {
	Report(event Kind, addr string, v ...interface{})
}

// Zap wraps a *zap.Logger as a Logger, matching the structured-logging
// convention luma-pharos uses for its listener: Info for routine lifecycle
// events, Warn for reconnects, Error for protocol failures.
type Zap struct {
	L *zap.Logger
}

// NewZap builds a default production zap.Logger and wraps it.
func NewZap() (Zap, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return Zap{}, err
	}
	return Zap{L: l}, nil
}

func (z Zap) Report(event Kind, addr string, v ...interface{}) {
	fields := []zap.Field{zap.String("addr", addr)}
	for i := 0; i+1 < len(v); i += 2 {
		key, ok := v[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, v[i+1]))
	}

	switch event {
	case Connecting:
		z.L.Info("redisq: connecting", fields...)
	case Connected:
		z.L.Info("redisq: connected", fields...)
	case ConnectFailed:
		z.L.Warn("redisq: connect failed", fields...)
	case Disconnected:
		z.L.Warn("redisq: disconnected", fields...)
	case ContextClosed:
		z.L.Info("redisq: closed", fields...)
	case Suppressed:
		z.L.Info("redisq: priority suppressed", fields...)
	case Unsuppressed:
		z.L.Info("redisq: priority unsuppressed", fields...)
	case ProtocolFailure:
		z.L.Error("redisq: protocol failure", fields...)
	default:
		z.L.Warn("redisq: unknown event", append(fields, zap.Int("kind", int(event)))...)
	}
}

// Nop discards every event; useful in tests.
type Nop struct{}

func (Nop) Report(Kind, string, ...interface{}) {}
