package cec

// Pulse-Eight USB-CEC adapter serial protocol.
// Message on wire: 0xff code params... 0xfe, body bytes >= 0xfd escaped as 0xfd, b-3.

import (
	"encoding/hex"
	"fmt"
)

const (
	msgStart  byte = 0xff
	msgEnd    byte = 0xfe
	msgEsc    byte = 0xfd
	escOffset byte = 3

	msgFlagEOM  byte = 0x80
	msgFlagACK  byte = 0x40
	msgCodeMask byte = 0x3f

	// longest sane message body, anything longer is line noise
	msgMaxBody = 64
)

type msgCode uint8

const (
	msgNothing msgCode = iota
	msgPing
	msgTimeoutError
	msgHighError
	msgLowError
	msgFrameStart
	msgFrameData
	msgReceiveFailed
	msgCommandAccepted
	msgCommandRejected
	msgSetAckMask
	msgTransmit
	msgTransmitEOM
	msgTransmitIdletime
	msgTransmitAckPolarity
	msgTransmitLineTimeout
	msgTransmitSucceeded
	msgTransmitFailedLine
	msgTransmitFailedAck
	msgTransmitFailedTimeoutData
	msgTransmitFailedTimeoutLine
	msgFirmwareVersion
	msgStartBootloader
	msgGetBuilddate
	msgSetControlled
	msgGetAutoEnabled
	msgSetAutoEnabled
	msgGetDefaultLogicalAddress
	msgSetDefaultLogicalAddress
	msgGetLogicalAddressMask
	msgSetLogicalAddressMask
	msgGetPhysicalAddress
	msgSetPhysicalAddress
	msgGetDeviceType
	msgSetDeviceType
	msgGetHdmiVersion
	msgSetHdmiVersion
	msgGetOsdName
	msgSetOsdName
	msgWriteEeprom
	msgGetAdapterType
	msgSetActiveSource
)

var msgCodeNames = map[msgCode]string{
	msgNothing:                   "NOTHING",
	msgPing:                      "PING",
	msgTimeoutError:              "TIMEOUT_ERROR",
	msgHighError:                 "HIGH_ERROR",
	msgLowError:                  "LOW_ERROR",
	msgFrameStart:                "FRAME_START",
	msgFrameData:                 "FRAME_DATA",
	msgReceiveFailed:             "RECEIVE_FAILED",
	msgCommandAccepted:           "COMMAND_ACCEPTED",
	msgCommandRejected:           "COMMAND_REJECTED",
	msgSetAckMask:                "SET_ACK_MASK",
	msgTransmit:                  "TRANSMIT",
	msgTransmitEOM:               "TRANSMIT_EOM",
	msgTransmitIdletime:          "TRANSMIT_IDLETIME",
	msgTransmitAckPolarity:       "TRANSMIT_ACK_POLARITY",
	msgTransmitLineTimeout:       "TRANSMIT_LINE_TIMEOUT",
	msgTransmitSucceeded:         "TRANSMIT_SUCCEEDED",
	msgTransmitFailedLine:        "TRANSMIT_FAILED_LINE",
	msgTransmitFailedAck:         "TRANSMIT_FAILED_ACK",
	msgTransmitFailedTimeoutData: "TRANSMIT_FAILED_TIMEOUT_DATA",
	msgTransmitFailedTimeoutLine: "TRANSMIT_FAILED_TIMEOUT_LINE",
	msgFirmwareVersion:           "FIRMWARE_VERSION",
	msgStartBootloader:           "START_BOOTLOADER",
	msgGetBuilddate:              "GET_BUILDDATE",
	msgSetControlled:             "SET_CONTROLLED",
	msgGetAutoEnabled:            "GET_AUTO_ENABLED",
	msgSetAutoEnabled:            "SET_AUTO_ENABLED",
	msgGetDefaultLogicalAddress:  "GET_DEFAULT_LOGICAL_ADDRESS",
	msgSetDefaultLogicalAddress:  "SET_DEFAULT_LOGICAL_ADDRESS",
	msgGetLogicalAddressMask:     "GET_LOGICAL_ADDRESS_MASK",
	msgSetLogicalAddressMask:     "SET_LOGICAL_ADDRESS_MASK",
	msgGetPhysicalAddress:        "GET_PHYSICAL_ADDRESS",
	msgSetPhysicalAddress:        "SET_PHYSICAL_ADDRESS",
	msgGetDeviceType:             "GET_DEVICE_TYPE",
	msgSetDeviceType:             "SET_DEVICE_TYPE",
	msgGetHdmiVersion:            "GET_HDMI_VERSION",
	msgSetHdmiVersion:            "SET_HDMI_VERSION",
	msgGetOsdName:                "GET_OSD_NAME",
	msgSetOsdName:                "SET_OSD_NAME",
	msgWriteEeprom:               "WRITE_EEPROM",
	msgGetAdapterType:            "GET_ADAPTER_TYPE",
	msgSetActiveSource:           "SET_ACTIVE_SOURCE",
}

func (c msgCode) String() string {
	if s, ok := msgCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("msgCode(%02x)", uint8(c))
}

func (c msgCode) isTransmitResult() bool {
	switch c {
	case msgTransmitSucceeded, msgTransmitFailedLine, msgTransmitFailedAck,
		msgTransmitFailedTimeoutData, msgTransmitFailedTimeoutLine:
		return true
	}
	return false
}

func (c msgCode) isReceiveError() bool {
	switch c {
	case msgTimeoutError, msgHighError, msgLowError, msgReceiveFailed:
		return true
	}
	return false
}

type message struct {
	code   msgCode
	eom    bool
	ack    bool
	params []byte
}

func newMessage(code msgCode, params ...byte) message {
	return message{code: code, params: params}
}

func (m message) codeByte() byte {
	b := byte(m.code) & msgCodeMask
	if m.eom {
		b |= msgFlagEOM
	}
	if m.ack {
		b |= msgFlagACK
	}
	return b
}

func (m message) Bytes() []byte {
	out := make([]byte, 0, 4+2*len(m.params))
	out = append(out, msgStart)
	out = appendEscaped(out, m.codeByte())
	for _, p := range m.params {
		out = appendEscaped(out, p)
	}
	return append(out, msgEnd)
}

func (m message) String() string {
	flags := ""
	if m.eom {
		flags += " eom"
	}
	if m.ack {
		flags += " ack"
	}
	if len(m.params) == 0 {
		return m.code.String() + flags
	}
	return fmt.Sprintf("%s%s params=%s", m.code, flags, hex.EncodeToString(m.params))
}

func appendEscaped(out []byte, b byte) []byte {
	if b >= msgEsc {
		return append(out, msgEsc, b-escOffset)
	}
	return append(out, b)
}

func parseMessage(body []byte) message {
	m := message{
		code: msgCode(body[0] & msgCodeMask),
		eom:  body[0]&msgFlagEOM != 0,
		ack:  body[0]&msgFlagACK != 0,
	}
	if len(body) > 1 {
		m.params = append([]byte(nil), body[1:]...)
	}
	return m
}

// Incremental, survives arbitrary split of input between Feed calls.
type msgDecoder struct {
	body   []byte
	inside bool
	esc    bool
}

// Feed returns complete messages found so far, and count of garbage bytes dropped.
func (d *msgDecoder) Feed(b []byte) (ms []message, dropped int) {
	for _, x := range b {
		switch {
		case x == msgStart:
			dropped += len(d.body)
			d.body = d.body[:0]
			d.inside = true
			d.esc = false
		case !d.inside:
			dropped++
		case x == msgEnd:
			if len(d.body) > 0 {
				ms = append(ms, parseMessage(d.body))
			}
			d.body = d.body[:0]
			d.inside = false
			d.esc = false
		case x == msgEsc:
			d.esc = true
		default:
			if d.esc {
				x += escOffset
				d.esc = false
			}
			if len(d.body) >= msgMaxBody {
				dropped += len(d.body) + 1
				d.body = d.body[:0]
				d.inside = false
				continue
			}
			d.body = append(d.body, x)
		}
	}
	return ms, dropped
}
