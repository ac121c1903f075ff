package analysis

import (
	"encoding/binary"

	"rommap/internal/rom"
	"rommap/internal/romx"
	"rommap/internal/textdec"
)

// Rule is one classification heuristic. Rules are not mutually exclusive at
// the byte level, so their order is part of the result.
type Rule struct {
	Kind  rom.Kind
	Match func(b []byte) bool
}

// Classifier assigns a content category to a byte window by evaluating its
// rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds the standard rule chain for a cartridge window.
func NewClassifier(w romx.Window) *Classifier {
	return NewRuleChain(
		Rule{Kind: rom.KindText, Match: textdec.IsText},
		Rule{Kind: rom.KindPointerTable, Match: pointerTableRule(w)},
		Rule{Kind: rom.KindCode, Match: looksLikeCode},
		Rule{Kind: rom.KindData, Match: markerRule(DataMarkers)},
	)
}

// NewRuleChain creates a classifier from explicit rules.
func NewRuleChain(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the kind of the first rule matching b, or KindUnknown.
// Windows shorter than MinWindow are always unknown.
func (c *Classifier) Classify(b []byte) rom.Kind {
	if len(b) < MinWindow {
		return rom.KindUnknown
	}
	for _, r := range c.rules {
		if r.Match(b) {
			return r.Kind
		}
	}
	return rom.KindUnknown
}

func pointerTableRule(w romx.Window) func([]byte) bool {
	return func(b []byte) bool {
		hits := 0
		for i := 0; i < TableProbeWords && (i+1)*WordSize <= len(b); i++ {
			if w.Contains(binary.LittleEndian.Uint32(b[i*WordSize:])) {
				hits++
			}
		}
		return hits >= TableProbeHits
	}
}

// looksLikeCode is a coarse ARM/Thumb proxy: a set low bit in the first byte,
// or bits 1-3 all set in the second.
func looksLikeCode(b []byte) bool {
	return b[0]&0x01 != 0 || b[1]&0x0E == 0x0E
}

func markerRule(markers []byte) func([]byte) bool {
	var set [256]bool
	for _, m := range markers {
		set[m] = true
	}
	return func(b []byte) bool {
		for _, c := range b {
			if set[c] {
				return true
			}
		}
		return false
	}
}
