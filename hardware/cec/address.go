package cec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// PhysicalAddress is the HDMI topology position a.b.c.d, one nibble each.
type PhysicalAddress uint16

// Unknown in CEC terms, hosts must not advertise it.
const PhysicalAddressInvalid PhysicalAddress = 0xffff

// PhysicalAddressFromPort is the address of a device plugged straight into TV input port.
func PhysicalAddressFromPort(port int) (PhysicalAddress, error) {
	if port < 1 || port > 15 {
		return PhysicalAddressInvalid, errors.NotValidf("hdmi port=%d (expected 1..15)", port)
	}
	return PhysicalAddress(port << 12), nil
}

func ParsePhysicalAddress(s string) (PhysicalAddress, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 4 {
		return PhysicalAddressInvalid, errors.NotValidf("physical address=%q (expected a.b.c.d)", s)
	}
	var pa uint16
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 16, 4)
		if err != nil {
			return PhysicalAddressInvalid, errors.NotValidf("physical address=%q part=%q", s, p)
		}
		pa = pa<<4 | uint16(n)
	}
	if PhysicalAddress(pa) == PhysicalAddressInvalid {
		return PhysicalAddressInvalid, errors.NotValidf("physical address=%q reserved", s)
	}
	return PhysicalAddress(pa), nil
}

func (pa PhysicalAddress) Bytes() []byte { return []byte{byte(pa >> 8), byte(pa)} }

func (pa PhysicalAddress) String() string {
	return fmt.Sprintf("%x.%x.%x.%x", uint16(pa)>>12, uint16(pa)>>8&0xf, uint16(pa)>>4&0xf, uint16(pa)&0xf)
}
