package cec

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkwater/cecctl/log2"
)

// fakeFirmware answers host requests on the device side of MockUart the way
// Pulse-Eight firmware does and records every transmitted CEC frame.
type fakeFirmware struct {
	t       testing.TB
	uart    *MockUart
	mute    bool
	verdict func(frame []byte) msgCode
	frames  chan []byte

	mu      sync.Mutex
	ackMask uint16
}

func newFakeFirmware(t testing.TB) *fakeFirmware {
	return &fakeFirmware{
		t:      t,
		uart:   NewMockUart(),
		frames: make(chan []byte, 64),
		verdict: func(frame []byte) msgCode {
			return msgTransmitSucceeded
		},
	}
}

func (self *fakeFirmware) run() {
	var dec msgDecoder
	var frame []byte
	for {
		select {
		case b := <-self.uart.Sent():
			ms, _ := dec.Feed(b)
			for _, m := range ms {
				if self.mute {
					continue
				}
				switch m.code {
				case msgPing, msgSetControlled:
					self.reply(newMessage(msgCommandAccepted, byte(m.code)))
				case msgFirmwareVersion:
					self.reply(newMessage(msgFirmwareVersion, 0x00, 0x0c))
				case msgSetAckMask:
					self.mu.Lock()
					self.ackMask = uint16(m.params[0])<<8 | uint16(m.params[1])
					self.mu.Unlock()
					self.reply(newMessage(msgCommandAccepted, byte(m.code)))
				case msgTransmitAckPolarity:
					frame = frame[:0]
				case msgTransmit:
					frame = append(frame, m.params...)
				case msgTransmitEOM:
					frame = append(frame, m.params...)
					f := append([]byte(nil), frame...)
					frame = frame[:0]
					self.frames <- f
					self.reply(newMessage(self.verdict(f)))
				default:
					self.reply(newMessage(msgCommandRejected, byte(m.code)))
				}
			}
		case <-self.uart.Closed():
			return
		}
	}
}

func (self *fakeFirmware) reply(m message) { self.uart.Inject(m.Bytes()) }

// receive emulates a frame arriving from the bus.
func (self *fakeFirmware) receive(frame []byte) {
	for i, b := range frame {
		m := newMessage(msgFrameData, b)
		if i == 0 {
			m.code = msgFrameStart
		}
		m.eom = i == len(frame)-1
		m.ack = true
		self.reply(m)
	}
}

// expectFrame skips polls and returns next frame with opcode.
func (self *fakeFirmware) expectFrame() []byte {
	timeout := time.After(3 * time.Second)
	for {
		select {
		case f := <-self.frames:
			if len(f) > 1 {
				return f
			}
		case <-timeout:
			self.t.Fatal("timeout waiting for transmitted frame")
			return nil
		}
	}
}

func openTest(t *testing.T, fw *fakeFirmware, onCommand func(Command)) *Connection {
	go fw.run()
	conn, err := Open(log2.NewTest(t, log2.LDebug), Config{
		Port:            "/dev/mock",
		DeviceName:      "cecctl",
		DeviceType:      DevicePlayback,
		PhysicalAddress: 0x1000,
		OnCommand:       onCommand,
		Uarter:          fw.uart,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestOpen(t *testing.T) {
	t.Parallel()
	fw := newFakeFirmware(t)
	fw.verdict = func(frame []byte) msgCode {
		if len(frame) == 1 && frame[0] == 0x44 { // Playback1 is taken
			return msgTransmitSucceeded
		}
		if len(frame) == 1 {
			return msgTransmitFailedAck
		}
		return msgTransmitSucceeded
	}
	conn := openTest(t, fw, nil)

	assert.Equal(t, AddrPlayback2, conn.Address())
	fw.mu.Lock()
	assert.Equal(t, uint16(1)<<AddrPlayback2, fw.ackMask)
	fw.mu.Unlock()
	// ReportPhysicalAddress 1.0.0.0 playback device
	assert.Equal(t, []byte{0x8f, 0x84, 0x10, 0x00, 0x04}, fw.expectFrame())
	stats := conn.Stats()
	assert.Equal(t, uint16(12), stats.Firmware)
	assert.Equal(t, PhysicalAddress(0x1000), stats.PhysicalAddress)
}

func TestOpenAllTaken(t *testing.T) {
	t.Parallel()
	fw := newFakeFirmware(t)
	conn := openTest(t, fw, nil)
	assert.Equal(t, AddrUnregistered, conn.Address())
}

func TestOpenSilentAdapter(t *testing.T) {
	t.Parallel()
	fw := newFakeFirmware(t)
	fw.mute = true
	go fw.run()
	_, err := Open(log2.NewTest(t, log2.LDebug), Config{
		Port:            "/dev/mock",
		DeviceType:      DevicePlayback,
		PhysicalAddress: 0x1000,
		Uarter:          fw.uart,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not answer ping")
}

func TestOpenInvalid(t *testing.T) {
	t.Parallel()
	_, err := Open(log2.NewTest(t, log2.LDebug), Config{})
	assert.Error(t, err)
}

func TestReceive(t *testing.T) {
	t.Parallel()
	fw := newFakeFirmware(t)
	fw.verdict = func(frame []byte) msgCode {
		if len(frame) == 1 {
			return msgTransmitFailedAck
		}
		return msgTransmitSucceeded
	}
	cmds := make(chan Command, 8)
	conn := openTest(t, fw, func(cmd Command) { cmds <- cmd })
	require.Equal(t, AddrPlayback1, conn.Address())
	fw.expectFrame() // ReportPhysicalAddress

	fw.receive([]byte{0x04, 0x44, 0x01})
	select {
	case cmd := <-cmds:
		assert.Equal(t, OpUserControlPressed, cmd.Opcode)
		assert.Equal(t, AddrTV, cmd.Initiator)
		assert.Equal(t, []byte{0x01}, cmd.Parameters)
		assert.True(t, cmd.Ack)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for command")
	}

	// GiveOsdName is answered and still delivered
	fw.receive([]byte{0x04, 0x46})
	assert.Equal(t, append([]byte{0x40, 0x47}, "cecctl"...), fw.expectFrame())
	select {
	case cmd := <-cmds:
		assert.Equal(t, OpGiveOsdName, cmd.Opcode)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for command")
	}
	assert.True(t, conn.Stats().SinceLastRecv < time.Second)
}

func TestSetActiveSource(t *testing.T) {
	t.Parallel()
	fw := newFakeFirmware(t)
	fw.verdict = func(frame []byte) msgCode {
		if len(frame) == 1 {
			return msgTransmitFailedAck
		}
		return msgTransmitSucceeded
	}
	conn := openTest(t, fw, nil)
	fw.expectFrame() // ReportPhysicalAddress

	require.NoError(t, conn.SetActiveSource())
	assert.Equal(t, []byte{0x40, 0x04}, fw.expectFrame())
	assert.Equal(t, []byte{0x4f, 0x82, 0x10, 0x00}, fw.expectFrame())
}

func TestSetActiveSourceFail(t *testing.T) {
	t.Parallel()
	fw := newFakeFirmware(t)
	var mu sync.Mutex
	failing := false
	fw.verdict = func(frame []byte) msgCode {
		mu.Lock()
		defer mu.Unlock()
		if len(frame) == 1 {
			return msgTransmitFailedAck
		}
		if failing {
			return msgTransmitFailedLine
		}
		return msgTransmitSucceeded
	}
	conn := openTest(t, fw, nil)
	fw.expectFrame()
	mu.Lock()
	failing = true
	mu.Unlock()

	err := conn.SetActiveSource()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set active source")
}

func TestLinkLost(t *testing.T) {
	t.Parallel()
	fw := newFakeFirmware(t)
	fw.verdict = func(frame []byte) msgCode { return msgTransmitFailedAck }
	conn := openTest(t, fw, nil)
	_ = fw.uart.Close()
	select {
	case <-conn.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for connection stop")
	}
	assert.Error(t, conn.Err())
	assert.NoError(t, conn.Close())
}

func TestClose(t *testing.T) {
	t.Parallel()
	fw := newFakeFirmware(t)
	conn := openTest(t, fw, nil)
	require.NoError(t, conn.Close())
	assert.NoError(t, conn.Err())
	assert.Equal(t, ErrClosed, conn.Transmit(NewPoll(AddrPlayback1, AddrTV)))
}
