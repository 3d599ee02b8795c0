package wire

// Kind tags the variant held by a Reply.
type Kind byte

const (
	Null Kind = iota
	String
	Integer
	Array
	RedisError
)

// Reply is a tagged value produced by decoding one RESP-2 response. Errors
// are ordinary values here (§3): whether an error-reply is a failure to the
// requestor is a policy decision the caller makes by checking
// Kind == RedisError.
type Reply struct {
	Kind  Kind
	Str   string
	Num   float64
	Items []Reply
	// ErrMsg carries the message text when Kind == RedisError.
	ErrMsg string
}

func NullReply() Reply { return Reply{Kind: Null} }
func StringReply(s string) Reply { return Reply{Kind: String, Str: s} }
func IntegerReply(n float64) Reply { return Reply{Kind: Integer, Num: n} }
func ArrayReply(items []Reply) Reply { return Reply{Kind: Array, Items: items} }
func ErrorReply(msg string) Reply { return Reply{Kind: RedisError, ErrMsg: msg} }

// IsNil reports whether this reply is RESP's null value ($-1). A *-1 array
// decodes to an empty Array, not to Null.
func (r Reply) IsNil() bool { return r.Kind == Null }
