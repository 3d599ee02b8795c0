package wire

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"github.com/outpostmon/redisq/ioerr"
)

// ErrArgumentType is returned by NewQuery when an argument's type has no
// RESP bulk-string encoding.
var ErrArgumentType = errors.New("redisq: argument type not supported")

// AppendCommand appends the RESP-2 encoding of cmd+args to buf and returns
// the extended buffer, as a convenience for callers that want the wire
// bytes directly without building a Query through NewQuery first.
func AppendCommand(buf []byte, cmd string, args []interface{}) ([]byte, error) {
	buf = appendHead(buf, '*', int64(len(args)+1))
	buf = appendBulk(buf, []byte(cmd))
	for _, a := range args {
		b, err := argToBytes(a)
		if err != nil {
			return nil, err
		}
		buf = appendBulk(buf, b)
	}
	return buf, nil
}

// Encode appends the RESP-2 request-array encoding of q to buf: `*N\r\n`
// followed by `$L\r\n<bytes>\r\n` per argument, bit-exact per §4.1/§6.
func Encode(buf []byte, q Query) []byte {
	buf = appendHead(buf, '*', int64(len(q)))
	for _, arg := range q {
		buf = appendBulk(buf, arg)
	}
	return buf
}

// EncodeReply appends the RESP-2 encoding of r to buf. It is the server-side
// counterpart to Encode, used by the in-process fake server tests run
// against rather than a real redis-server binary. String replies are always
// rendered as bulk strings ($len\r\n...), which Decode reads back
// identically to a simple string (+) reply, so round-tripping through
// Decode(EncodeReply(...)) is lossless for every Kind this module produces.
func EncodeReply(buf []byte, r Reply) []byte {
	switch r.Kind {
	case Null:
		return append(buf, '$', '-', '1', '\r', '\n')
	case String:
		return appendBulk(buf, []byte(r.Str))
	case Integer:
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(r.Num), 10)
		return append(buf, '\r', '\n')
	case RedisError:
		buf = append(buf, '-')
		buf = append(buf, r.ErrMsg...)
		return append(buf, '\r', '\n')
	case Array:
		buf = appendHead(buf, '*', int64(len(r.Items)))
		for _, item := range r.Items {
			buf = EncodeReply(buf, item)
		}
		return buf
	default:
		return append(buf, '$', '-', '1', '\r', '\n')
	}
}

func appendHead(b []byte, t byte, n int64) []byte {
	b = append(b, t)
	b = strconv.AppendInt(b, n, 10)
	return append(b, '\r', '\n')
}

func appendBulk(b []byte, v []byte) []byte {
	b = appendHead(b, '$', int64(len(v)))
	b = append(b, v...)
	return append(b, '\r', '\n')
}

// Decode reads exactly one RESP-2 value from r, per the byte-dispatch table
// in §4.1. CRLF termination is implicit in "read line": bytes up to \r,
// then the following \n is consumed.
func Decode(r *bufio.Reader) (Reply, error) {
	line, err := readLine(r)
	if err != nil {
		return Reply{}, err
	}
	if len(line) == 0 {
		return Reply{}, ioerr.Protocol.New("empty response line")
	}

	switch line[0] {
	case '+':
		return StringReply(string(line[1:])), nil
	case '-':
		return ErrorReply(string(line[1:])), nil
	case ':':
		n, err := parseInt(line[1:])
		if err != nil {
			return Reply{}, err
		}
		return IntegerReply(float64(n)), nil
	case '$':
		n, err := parseInt(line[1:])
		if err != nil {
			return Reply{}, err
		}
		if n < 0 {
			return NullReply(), nil
		}
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Reply{}, ioerr.Truncated.Wrap(err, "reading bulk string body")
		}
		if buf[n] != '\r' || buf[n+1] != '\n' {
			return Reply{}, ioerr.Protocol.New("bulk string missing trailing CRLF")
		}
		return StringReply(string(buf[:n])), nil
	case '*':
		n, err := parseInt(line[1:])
		if err != nil {
			return Reply{}, err
		}
		if n < 0 {
			n = 0
		}
		items := make([]Reply, n)
		for i := int64(0); i < n; i++ {
			item, err := Decode(r)
			if err != nil {
				return Reply{}, err
			}
			items[i] = item
		}
		return ArrayReply(items), nil
	default:
		return Reply{}, ioerr.BadType.New("unknown RESP type byte").
			WithProperty(ioerr.PropertyKeyBytes, line[:1])
	}
}

// readLine reads bytes up to '\r' then consumes the following '\n',
// returning the line with the CRLF stripped.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadSlice('\r')
	if err != nil {
		if err == bufio.ErrBufferFull {
			// The line spans more than the buffer; fall back to a growing
			// read so a long simple-string reply doesn't fail outright.
			full := append([]byte{}, line...)
			for err == bufio.ErrBufferFull {
				line, err = r.ReadSlice('\r')
				full = append(full, line...)
			}
			if err != nil {
				return nil, ioerr.Truncated.Wrap(err, "reading response line")
			}
			line = full
		} else {
			return nil, ioerr.Truncated.Wrap(err, "reading response line")
		}
	}
	nl, err := r.ReadByte()
	if err != nil {
		return nil, ioerr.Truncated.Wrap(err, "reading response line terminator")
	}
	if nl != '\n' {
		return nil, ioerr.Protocol.New("response line terminated by \\r without \\n")
	}
	return line[:len(line)-1], nil
}

func parseInt(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, ioerr.BadInteger.New("empty integer field").
			WithProperty(ioerr.PropertyKeyBytes, b)
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, ioerr.BadInteger.Wrap(err, "malformed integer").
			WithProperty(ioerr.PropertyKeyBytes, b)
	}
	return n, nil
}
