// Package disasm decodes short ARM-mode instruction previews for regions
// classified as code.
package disasm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/arch/arm/armasm"
)

// PreviewLen is the number of instructions shown for a code region.
const PreviewLen = 8

// Inst is a simplified decoded instruction.
type Inst struct {
	Addr uint32 `json:"addr"` // bus address of the instruction
	Raw  uint32 `json:"raw"`  // little-endian encoding
	Op   string `json:"op"`   // mnemonic in lowercase, ".word" when undecodable
	Text string `json:"text"` // formatted disassembly string
}

// Stream is a linear sequence of instructions.
type Stream []Inst

// DecodeARM decodes up to max 32-bit ARM instructions from b, which starts
// at bus address addr. Words that do not decode are emitted as .word
// directives so the stream never skips bytes. A trailing partial word is
// ignored.
func DecodeARM(b []byte, addr uint32, max int) Stream {
	n := len(b) / 4
	if max > 0 && n > max {
		n = max
	}
	out := make(Stream, 0, n)
	for i := 0; i < n; i++ {
		word := b[i*4 : i*4+4]
		raw := binary.LittleEndian.Uint32(word)
		in := Inst{Addr: addr + uint32(i*4), Raw: raw}

		dec, err := armasm.Decode(word, armasm.ModeARM)
		if err != nil {
			in.Op = ".word"
			in.Text = fmt.Sprintf(".word 0x%08x", raw)
		} else {
			in.Text = armasm.GNUSyntax(dec)
			in.Op, _, _ = strings.Cut(in.Text, " ")
		}
		out = append(out, in)
	}
	return out
}

// Format renders s one instruction per line as "addr  raw  text".
func (s Stream) Format() string {
	var b strings.Builder
	for _, in := range s {
		fmt.Fprintf(&b, "%08X  %08x  %s\n", in.Addr, in.Raw, in.Text)
	}
	return b.String()
}
