package cec

// Public API to easy create adapter stubs to test your code.
import (
	"io"
	"sync"
	"time"
)

// MockUart is an in-memory serial line. Host side is the Uarter methods,
// device side is Inject (device -> host) and Sent (host -> device).
type MockUart struct {
	rx        chan []byte
	tx        chan []byte
	pending   []byte
	closed    chan struct{}
	closeOnce sync.Once
	timeout   time.Duration
}

var _ Uarter = new(MockUart)

func NewMockUart() *MockUart {
	return &MockUart{
		rx:      make(chan []byte, 256),
		tx:      make(chan []byte, 256),
		closed:  make(chan struct{}),
		timeout: 5 * time.Millisecond,
	}
}

func (self *MockUart) Open(path string, baud int) error { return nil }

func (self *MockUart) Read(p []byte) (int, error) {
	if len(self.pending) == 0 {
		select {
		case b := <-self.rx:
			self.pending = b
		case <-self.closed:
			return 0, io.EOF
		case <-time.After(self.timeout):
			return 0, nil
		}
	}
	n := copy(p, self.pending)
	self.pending = self.pending[n:]
	return n, nil
}

func (self *MockUart) Write(p []byte) (int, error) {
	b := append([]byte(nil), p...)
	select {
	case self.tx <- b:
		return len(p), nil
	case <-self.closed:
		return 0, io.ErrClosedPipe
	}
}

func (self *MockUart) Close() error {
	self.closeOnce.Do(func() { close(self.closed) })
	return nil
}

// Inject queues bytes for host Read.
func (self *MockUart) Inject(b []byte) {
	select {
	case self.rx <- append([]byte(nil), b...):
	case <-self.closed:
	}
}

// Sent delivers each host Write as one chunk.
func (self *MockUart) Sent() <-chan []byte { return self.tx }

func (self *MockUart) Closed() <-chan struct{} { return self.closed }
