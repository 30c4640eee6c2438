package cec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkwater/cecctl/helpers"
)

func TestMessageBytes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		m      message
		expect string
	}{
		{"ping", newMessage(msgPing), "ff 01 fe"},
		{"ack-mask", newMessage(msgSetAckMask, 0x01, 0x00), "ff 0a 01 00 fe"},
		{"escape", newMessage(msgTransmitEOM, 0xfe), "ff 0c fd fb fe"},
		{"flags", message{code: msgFrameData, eom: true, ack: true, params: []byte{0x44}}, "ff c6 44 fe"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, helpers.MustHex(c.expect), c.m.Bytes())
		})
	}
}

func TestDecoder(t *testing.T) {
	t.Parallel()
	var d msgDecoder
	ms, dropped := d.Feed(helpers.MustHex("aa bb ff 85 4f"))
	assert.Len(t, ms, 0)
	assert.Equal(t, 2, dropped)
	ms, dropped = d.Feed(helpers.MustHex("fe ff 08 fd fb fe"))
	require.Len(t, ms, 2)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, msgFrameStart, ms[0].code)
	assert.True(t, ms[0].eom)
	assert.False(t, ms[0].ack)
	assert.Equal(t, []byte{0x4f}, ms[0].params)
	assert.Equal(t, msgCommandAccepted, ms[1].code)
	assert.Equal(t, []byte{0xfe}, ms[1].params)
}

func TestDecoderRestart(t *testing.T) {
	t.Parallel()
	var d msgDecoder
	// unterminated message is discarded when next start arrives
	ms, dropped := d.Feed(helpers.MustHex("ff 06 01 ff 01 fe"))
	require.Len(t, ms, 1)
	assert.Equal(t, msgPing, ms[0].code)
	assert.Equal(t, 2, dropped)
}

func TestDecoderRoundTrip(t *testing.T) {
	t.Parallel()
	m := message{code: msgFirmwareVersion, params: []byte{0x00, 0xfd, 0xff, 0x10}}
	var d msgDecoder
	var got []message
	for _, b := range m.Bytes() {
		ms, _ := d.Feed([]byte{b})
		got = append(got, ms...)
	}
	require.Len(t, got, 1)
	assert.Equal(t, m, got[0])
}

func TestMsgCodeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "TRANSMIT_FAILED_ACK", msgTransmitFailedAck.String())
	assert.Equal(t, "msgCode(3f)", msgCode(0x3f).String())
}
