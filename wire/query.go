package wire

import "strconv"

// Query is an ordered sequence of byte strings: the command and its
// arguments. It is immutable once enqueued, matching §3 of the spec this
// module implements.
type Query [][]byte

// NewQuery builds a Query from a command name and its arguments. Arguments
// accept the same conversions the teacher's AppendRequest did: strings,
// byte slices, and the usual integer/float kinds, rendered in decimal.
func NewQuery(cmd string, args ...interface{}) (Query, error) {
	q := make(Query, 1, len(args)+1)
	q[0] = []byte(cmd)
	for _, a := range args {
		b, err := argToBytes(a)
		if err != nil {
			return nil, err
		}
		q = append(q, b)
	}
	return q, nil
}

func argToBytes(v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	case int:
		return strconv.AppendInt(nil, int64(t), 10), nil
	case int8:
		return strconv.AppendInt(nil, int64(t), 10), nil
	case int16:
		return strconv.AppendInt(nil, int64(t), 10), nil
	case int32:
		return strconv.AppendInt(nil, int64(t), 10), nil
	case int64:
		return strconv.AppendInt(nil, t, 10), nil
	case uint:
		return strconv.AppendUint(nil, uint64(t), 10), nil
	case uint8:
		return strconv.AppendUint(nil, uint64(t), 10), nil
	case uint16:
		return strconv.AppendUint(nil, uint64(t), 10), nil
	case uint32:
		return strconv.AppendUint(nil, uint64(t), 10), nil
	case uint64:
		return strconv.AppendUint(nil, t, 10), nil
	case float32:
		return strconv.AppendFloat(nil, float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.AppendFloat(nil, t, 'f', -1, 64), nil
	case bool:
		if t {
			return []byte{'1'}, nil
		}
		return []byte{'0'}, nil
	case nil:
		return []byte{}, nil
	default:
		return nil, ErrArgumentType
	}
}
