// Package ioerr defines the error taxonomy for the redisq connection actor:
// Disconnected, ProtocolError (with BadInteger/BadType/Truncated sub-types),
// and RedisReply, the value-not-fault wrapper for a RESP `-` response.
package ioerr

import "github.com/joomcode/errorx"

var Namespace = errorx.NewNamespace("redisq")

// Connectivity marks errors that mean "this request never got a reply and
// never will on this connection" - the caller may retry on a fresh one.
var Connectivity = errorx.RegisterTrait("connectivity")

// Connection-level failures: not usable, or never became usable.
var connection = Namespace.NewType("connection")

// Disconnected is returned to every promise outstanding at the moment the
// connection resets. A request submitted while disconnected is not failed:
// it stays queued until the next session writes it.
var Disconnected = connection.NewSubtype("disconnected", Connectivity)

// Dial covers failure to open the underlying socket.
var Dial = connection.NewSubtype("dial", Connectivity)

// Auth covers a non-OK reply to the AUTH handshake command.
var Auth = connection.NewSubtype("auth")

// Setup covers a non-OK reply to SELECT, or any other handshake step.
var Setup = connection.NewSubtype("setup")

// Protocol covers malformed reply framing. Always fatal to the session.
var Protocol = Namespace.NewType("protocol", Connectivity)

// BadInteger is raised when a `:` or length-prefix line does not parse as
// a signed integer.
var BadInteger = Protocol.NewSubtype("bad_integer")

// BadType is raised when a reply's leading byte is not one of
// + - : $ *.
var BadType = Protocol.NewSubtype("bad_type")

// Truncated is raised when the stream ends (or a timeout fires) mid-value.
var Truncated = Protocol.NewSubtype("truncated")

// ProgrammingError marks an internal invariant violation, e.g. a
// ResponseAction demanding delivery when no promise is waiting.
var ProgrammingError = Namespace.NewType("internal")

// Cancelled marks a request abandoned by its caller (a context deadline or
// explicit cancellation) rather than any fault of the connection itself.
var Cancelled = Namespace.NewType("cancelled")

// RedisReply wraps a RESP `-` response. It is deliberately NOT derived from
// connection or Protocol: it is a successful, ordinary value as far as the
// wire and the actor are concerned. Callers decide whether it's a failure.
var RedisReply = Namespace.NewType("redis_reply")

// PropertyKeyMessage carries the raw message text of a RESP `-` reply.
var PropertyKeyMessage = errorx.RegisterProperty("message")

// PropertyKeyBytes carries the offending raw bytes for protocol diagnostics.
var PropertyKeyBytes = errorx.RegisterProperty("bytes")

// NewRedisReply builds a RedisReply error carrying the server's message.
func NewRedisReply(msg string) *errorx.Error {
	return RedisReply.New(msg).WithProperty(PropertyKeyMessage, msg)
}

// IsRedisReply reports whether err is a server-side error reply rather than
// a connection/protocol fault.
func IsRedisReply(err error) bool {
	return errorx.IsOfType(err, RedisReply)
}
