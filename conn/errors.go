package conn

import "github.com/outpostmon/redisq/ioerr"

// Disconnected builds the error every outstanding promise is failed with
// when the socket resets, per §7.
func Disconnected() error {
	return ioerr.Disconnected.New("connection reset")
}

// ErrClosed is returned (wrapped) to requests submitted after Close.
func ErrClosed() error {
	return ioerr.Disconnected.New("connection closed")
}
