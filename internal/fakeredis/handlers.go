package fakeredis

import "github.com/outpostmon/redisq/wire"

// Default answers the handshake commands a Connection may send (AUTH/SELECT)
// and PING (used by Sync and keepalive) with their expected replies and
// delegates everything
// else to next, so tests only need to special-case the commands they care
// about.
func Default(next Handler) Handler {
	return func(args []string) wire.Reply {
		if len(args) == 0 {
			return wire.ErrorReply("ERR empty request")
		}
		switch args[0] {
		case "PING":
			return wire.StringReply("PONG")
		case "AUTH", "SELECT":
			return wire.StringReply("OK")
		default:
			return next(args)
		}
	}
}

// Static builds a Handler returning a fixed reply for each command name
// present in table, and a nil (RESP null) reply for anything else.
func Static(table map[string]wire.Reply) Handler {
	return func(args []string) wire.Reply {
		if len(args) == 0 {
			return wire.ErrorReply("ERR empty request")
		}
		if reply, ok := table[args[0]]; ok {
			return reply
		}
		return wire.NullReply()
	}
}
