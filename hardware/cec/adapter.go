package cec

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/darkwater/cecctl/helpers"
	"github.com/darkwater/cecctl/helpers/atomic_clock"
	"github.com/darkwater/cecctl/log2"
)

const (
	requestTimeout  = 1 * time.Second
	transmitTimeout = 2 * time.Second
	frameQueueLen   = 64
)

var (
	ErrNoAck  = errors.New("cec transmit not acknowledged")
	ErrClosed = errors.New("cec adapter closed")
)

// adapter speaks Pulse-Eight serial protocol: request/response with the
// adapter firmware and CEC frames in both directions.
type adapter struct {
	log   *log2.Log
	uart  Uarter
	alive *alive.Alive

	dec     msgDecoder
	partial []byte
	resp    chan message
	frames  chan Command

	txlk     sync.Mutex // one request or transmit in flight
	lastRecv atomic_clock.Clock
	dropped  uint64 // atomic
	readErr  error
	readMu   sync.Mutex
}

func newAdapter(log *log2.Log, uart Uarter, a *alive.Alive) *adapter {
	return &adapter{
		log:     log,
		uart:    uart,
		alive:   a,
		partial: make([]byte, 0, 2+MaxParameters),
		resp:    make(chan message, 16),
		frames:  make(chan Command, frameQueueLen),
	}
}

func (self *adapter) start() bool {
	if !self.alive.Add(1) {
		return false
	}
	go self.readLoop()
	return true
}

func (self *adapter) readLoop() {
	defer self.alive.Done()
	buf := make([]byte, 256)
	for self.alive.IsRunning() {
		n, err := self.uart.Read(buf)
		if err != nil {
			if !self.alive.IsRunning() {
				return
			}
			err = errors.Annotate(err, "cec adapter read")
			self.readMu.Lock()
			self.readErr = err
			self.readMu.Unlock()
			self.log.Error(errors.ErrorStack(err))
			self.alive.Stop()
			return
		}
		if n == 0 {
			continue
		}
		self.lastRecv.SetNow()
		self.log.Tracef("cec adapter read=%x", buf[:n])
		ms, dropped := self.dec.Feed(buf[:n])
		if dropped > 0 {
			atomic.AddUint64(&self.dropped, uint64(dropped))
			self.log.Debugf("cec adapter dropped %d garbage bytes", dropped)
		}
		for _, m := range ms {
			self.handle(m)
		}
	}
}

func (self *adapter) err() error {
	self.readMu.Lock()
	defer self.readMu.Unlock()
	return self.readErr
}

func (self *adapter) handle(m message) {
	self.log.Tracef("cec adapter recv %s", m.String())
	switch {
	case m.code == msgFrameStart:
		self.partial = append(self.partial[:0], m.params...)
		if m.eom {
			self.deliver(m.ack)
		}

	case m.code == msgFrameData:
		if len(self.partial) == 0 {
			self.log.Debugf("cec adapter frame data without start %s", m.String())
			return
		}
		self.partial = append(self.partial, m.params...)
		if m.eom {
			self.deliver(m.ack)
		}

	case m.code.isReceiveError():
		if len(self.partial) != 0 {
			self.log.Debugf("cec adapter receive error=%s partial=%x", m.code, self.partial)
		} else {
			self.log.Debugf("cec adapter receive error=%s", m.code)
		}
		self.partial = self.partial[:0]

	default:
		select {
		case self.resp <- m:
		default:
			self.log.Debugf("cec adapter response queue full, drop %s", m.String())
		}
	}
}

func (self *adapter) deliver(ack bool) {
	cmd, err := ParseFrame(self.partial)
	self.partial = self.partial[:0]
	if err != nil {
		self.log.Debugf("cec adapter %v", err)
		return
	}
	cmd.Ack = ack
	cmd.Eom = true
	select {
	case self.frames <- cmd:
	default:
		self.log.Errorf("cec frame queue full, drop %s", cmd.String())
	}
}

func (self *adapter) write(ms ...message) error {
	buf := make([]byte, 0, 8*len(ms))
	for _, m := range ms {
		self.log.Tracef("cec adapter send %s", m.String())
		buf = append(buf, m.Bytes()...)
	}
	return errors.Annotate(helpers.WriteAll(self.uart, buf), "cec adapter write")
}

// drop leftovers of previous timed out requests
func (self *adapter) drainResponses() {
	for {
		select {
		case m := <-self.resp:
			self.log.Debugf("cec adapter late response %s", m.String())
		default:
			return
		}
	}
}

// request sends one firmware command and waits for its answer: a message with
// the same code, or COMMAND_ACCEPTED/REJECTED naming the code.
func (self *adapter) request(code msgCode, params ...byte) (message, error) {
	self.txlk.Lock()
	defer self.txlk.Unlock()
	if !self.alive.IsRunning() {
		return message{}, ErrClosed
	}
	self.drainResponses()
	if err := self.write(newMessage(code, params...)); err != nil {
		return message{}, err
	}

	timer := time.NewTimer(requestTimeout)
	defer timer.Stop()
	for {
		select {
		case m := <-self.resp:
			switch {
			case m.code == code:
				return m, nil
			case m.code == msgCommandAccepted && len(m.params) > 0 && msgCode(m.params[0]) == code:
				return m, nil
			case m.code == msgCommandRejected && (len(m.params) == 0 || msgCode(m.params[0]) == code):
				return m, errors.Errorf("cec adapter rejected %s", code)
			default:
				self.log.Debugf("cec adapter ignore %s waiting for %s", m.String(), code)
			}
		case <-timer.C:
			return message{}, ErrTimeoutT("cec adapter timeout waiting for " + code.String())
		case <-self.alive.StopChan():
			return message{}, ErrClosed
		}
	}
}

// transmit puts one CEC frame on the bus and waits for the adapter's verdict.
func (self *adapter) transmit(cmd Command) error {
	frame := cmd.Frame()
	polarity := byte(0)
	if cmd.IsBroadcast() {
		polarity = 1
	}
	ms := make([]message, 0, 1+len(frame))
	ms = append(ms, newMessage(msgTransmitAckPolarity, polarity))
	for i, b := range frame {
		code := msgTransmit
		if i == len(frame)-1 {
			code = msgTransmitEOM
		}
		ms = append(ms, newMessage(code, b))
	}

	self.txlk.Lock()
	defer self.txlk.Unlock()
	if !self.alive.IsRunning() {
		return ErrClosed
	}
	self.drainResponses()
	self.log.Debugf("cec transmit %s", cmd.String())
	if err := self.write(ms...); err != nil {
		return err
	}

	timer := time.NewTimer(transmitTimeout)
	defer timer.Stop()
	for {
		select {
		case m := <-self.resp:
			switch {
			case m.code == msgTransmitSucceeded:
				return nil
			case m.code == msgTransmitFailedAck:
				return errors.Annotatef(ErrNoAck, "frame=%x", frame)
			case m.code.isTransmitResult():
				return errors.Errorf("cec transmit frame=%x failed: %s", frame, m.code)
			case m.code == msgCommandRejected:
				return errors.Errorf("cec adapter rejected transmit frame=%x: %s", frame, m.String())
			case m.code == msgCommandAccepted:
			default:
				self.log.Debugf("cec adapter ignore %s waiting for transmit result", m.String())
			}
		case <-timer.C:
			return ErrTimeoutT("cec adapter timeout waiting for transmit result")
		case <-self.alive.StopChan():
			return ErrClosed
		}
	}
}

func IsNoAck(err error) bool { return errors.Cause(err) == ErrNoAck }

func (self *adapter) droppedCount() uint64 { return atomic.LoadUint64(&self.dropped) }

func (self *adapter) sinceLastRecv() time.Duration { return atomic_clock.Since(&self.lastRecv) }
