package cec

import (
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
)

// CEC caps SetOsdName payload at 14 bytes.
const MaxOSDName = 14

// EncodeOSDName transcodes name to printable US-ASCII and caps it at MaxOSDName.
// Control bytes and anything the translator leaves outside printable ASCII are dropped.
func EncodeOSDName(name string) (b []byte, truncated bool) {
	src := []byte(name)
	if tr, err := charset.TranslatorTo("us-ascii"); err == nil {
		if _, out, err := tr.Translate(src, true); err == nil {
			src = out
		}
	}
	b = make([]byte, 0, MaxOSDName)
	for _, c := range src {
		if c < 0x20 || c > 0x7e {
			continue
		}
		if len(b) == MaxOSDName {
			return b, true
		}
		b = append(b, c)
	}
	return b, false
}
