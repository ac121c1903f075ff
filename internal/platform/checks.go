package platform

import (
	"encoding/binary"
	"fmt"

	"rommap/internal/romx"
)

// Check is a per-format header rule. Failing a check is reported, never
// fatal.
type Check struct {
	Name string
	Run  func(im *romx.Image) CheckResult
}

// CheckResult is the outcome of one Check.
type CheckResult struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// Validate runs every header rule of the platform against im.
func (p *Platform) Validate(im *romx.Image) []CheckResult {
	out := make([]CheckResult, 0, len(p.checks))
	for _, c := range p.checks {
		res := c.Run(im)
		res.Name = c.Name
		out = append(out, res)
	}
	return out
}

var checks = map[string][]Check{
	"gba": {
		{Name: "Fixed value", Run: gbaFixedValue},
		{Name: "Complement check", Run: gbaComplement},
	},
	"snes-lorom": {
		{Name: "Checksum complement", Run: snesChecksum(0x7FC0)},
	},
	"snes-hirom": {
		{Name: "Checksum complement", Run: snesChecksum(0xFFC0)},
	},
	"genesis": {
		{Name: "Console name", Run: genesisConsoleName},
	},
}

func outOfRange(off int) CheckResult {
	return CheckResult{Detail: fmt.Sprintf("offset %04X beyond image end", off)}
}

func gbaFixedValue(im *romx.Image) CheckResult {
	b, ok := im.Slice(0xB2, 1)
	if !ok {
		return outOfRange(0xB2)
	}
	return CheckResult{OK: b[0] == 0x96, Detail: fmt.Sprintf("%02X (want 96)", b[0])}
}

// GBAComplement computes the header checksum over 0xA0..0xBC.
func GBAComplement(header []byte) byte {
	var chk byte
	for _, c := range header[0xA0:0xBD] {
		chk -= c
	}
	return chk - 0x19
}

func gbaComplement(im *romx.Image) CheckResult {
	h, ok := im.Slice(0, 0xBE)
	if !ok {
		return outOfRange(0xBD)
	}
	want := GBAComplement(h)
	return CheckResult{OK: h[0xBD] == want, Detail: fmt.Sprintf("%02X (computed %02X)", h[0xBD], want)}
}

func snesChecksum(base int) func(im *romx.Image) CheckResult {
	return func(im *romx.Image) CheckResult {
		b, ok := im.Slice(base+0x1C, 4)
		if !ok {
			return outOfRange(base + 0x1C)
		}
		complement := binary.LittleEndian.Uint16(b[0:2])
		sum := binary.LittleEndian.Uint16(b[2:4])
		return CheckResult{
			OK:     uint32(complement)+uint32(sum) == 0xFFFF,
			Detail: fmt.Sprintf("checksum %04X complement %04X", sum, complement),
		}
	}
}

func genesisConsoleName(im *romx.Image) CheckResult {
	b, ok := im.Slice(0x100, 4)
	if !ok {
		return outOfRange(0x100)
	}
	return CheckResult{OK: string(b) == "SEGA", Detail: fmt.Sprintf("%q", b)}
}
