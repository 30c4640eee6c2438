package cec

import (
	"encoding/hex"
	"fmt"

	"github.com/juju/errors"
)

// CEC frames carry at most 14 data bytes after header and opcode.
const MaxParameters = 14

type Command struct {
	Initiator   LogicalAddress
	Destination LogicalAddress
	Opcode      Opcode
	// false for header-only frames (polls), Opcode is OpNone then
	OpcodeSet  bool
	Parameters []byte
	Ack        bool
	Eom        bool
}

func NewCommand(from, to LogicalAddress, op Opcode, params ...byte) Command {
	return Command{
		Initiator:   from,
		Destination: to,
		Opcode:      op,
		OpcodeSet:   true,
		Parameters:  params,
	}
}

// NewPoll builds a header-only frame, used for logical address allocation.
func NewPoll(from, to LogicalAddress) Command {
	return Command{Initiator: from, Destination: to, Opcode: OpNone}
}

func (c Command) Header() byte { return byte(c.Initiator&0xf)<<4 | byte(c.Destination&0xf) }

func (c Command) IsBroadcast() bool { return c.Destination == AddrBroadcast }

// Frame returns wire bytes: header, optional opcode, parameters.
func (c Command) Frame() []byte {
	b := make([]byte, 0, 2+len(c.Parameters))
	b = append(b, c.Header())
	if c.OpcodeSet {
		b = append(b, byte(c.Opcode))
		b = append(b, c.Parameters...)
	}
	return b
}

func ParseFrame(b []byte) (Command, error) {
	c := Command{Opcode: OpNone}
	if len(b) == 0 {
		return c, errors.NotValidf("cec frame empty")
	}
	if len(b) > 2+MaxParameters {
		return c, errors.NotValidf("cec frame=%x length=%d > max=%d", b, len(b), 2+MaxParameters)
	}
	c.Initiator = LogicalAddress(b[0] >> 4)
	c.Destination = LogicalAddress(b[0] & 0xf)
	if len(b) >= 2 {
		c.Opcode = Opcode(b[1])
		c.OpcodeSet = true
		if len(b) > 2 {
			c.Parameters = append([]byte(nil), b[2:]...)
		}
	}
	return c, nil
}

func (c Command) String() string {
	if !c.OpcodeSet {
		return fmt.Sprintf("%s -> %s: poll", c.Initiator, c.Destination)
	}
	if len(c.Parameters) == 0 {
		return fmt.Sprintf("%s -> %s: %s", c.Initiator, c.Destination, c.Opcode)
	}
	return fmt.Sprintf("%s -> %s: %s params=%s", c.Initiator, c.Destination, c.Opcode, hex.EncodeToString(c.Parameters))
}
