package cec

import (
	"time"
)

// Pulse-Eight USB-CEC adapters talk 38400 8N1.
const DefaultBaud = 38400

// How long Uarter.Read may block before reporting 0 bytes.
const uartReadTimeout = 100 * time.Millisecond

type Uarter interface {
	Open(path string, baud int) error
	// Read returns 0,nil after uartReadTimeout without data so callers can check for stop.
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

type ErrTimeoutT string

func (e ErrTimeoutT) Error() string { return string(e) }
func (ErrTimeoutT) Timeout() bool   { return true }

type Timeouter interface {
	Timeout() bool
}

func IsTimeout(err error) bool {
	t, ok := err.(Timeouter)
	return ok && t.Timeout()
}
