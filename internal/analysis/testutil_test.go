package analysis

import (
	"encoding/binary"

	"rommap/internal/romx"
)

var gbaWindow = romx.Window{Base: 0x08000000, Span: 0x02000000}

func putWord(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

func repeat(pattern []byte, n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, pattern...)
	}
	return out[:n]
}

// Byte patterns that fail every text strategy: no printable bytes, a UTF-16
// surrogate in the first code unit, and 0x80 is not valid Shift-JIS.
var (
	codePattern    = []byte{0x81, 0xDB, 0x80, 0x80}
	pointerPattern = []byte{0x81, 0xDB, 0x80, 0x08} // 0x0880DB81
	dataPattern    = []byte{0x80, 0x80, 0x10, 0xDB}
	noisePattern   = []byte{0x80, 0x80, 0x80, 0xDB}
)
