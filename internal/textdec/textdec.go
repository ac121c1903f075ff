// Package textdec recovers displayable strings from raw byte windows. It
// tries a fixed chain of strategies and returns the first one that succeeds;
// failing every strategy is a normal outcome, not an error.
package textdec

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// Strategy identifies which decoder produced a result.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyPrintable
	StrategyUTF16LE
	StrategyShiftJIS
	StrategyTable
)

func (s Strategy) String() string {
	switch s {
	case StrategyPrintable:
		return "ascii"
	case StrategyUTF16LE:
		return "utf-16le"
	case StrategyShiftJIS:
		return "shift-jis"
	case StrategyTable:
		return "table"
	}
	return "none"
}

// Result is a successful decode.
type Result struct {
	Text     string
	Strategy Strategy
}

// PrintableThreshold is the minimum share of text-like bytes, in percent,
// for a window to be read as UTF-8.
const PrintableThreshold = 70

type decodeFunc func(b []byte, tbl *Table) (string, bool)

// chain is evaluated in order; the first success wins.
var chain = []struct {
	strategy Strategy
	fn       decodeFunc
}{
	{StrategyPrintable, decodePrintable},
	{StrategyUTF16LE, decodeUTF16LE},
	{StrategyShiftJIS, decodeShiftJIS},
	{StrategyTable, decodeTable},
}

// Decode runs the strategy chain over b. tbl may be nil, in which case the
// substitution strategy is skipped.
func Decode(b []byte, tbl *Table) (Result, bool) {
	for _, c := range chain {
		if s, ok := c.fn(b, tbl); ok {
			return Result{Text: s, Strategy: c.strategy}, true
		}
	}
	return Result{}, false
}

// IsText reports whether any standard strategy (no substitution table)
// accepts b.
func IsText(b []byte) bool {
	_, ok := Decode(b, nil)
	return ok
}

func isTextByte(c byte) bool {
	switch {
	case c > 0x20 && c < 0x7F:
		return true
	case c == ' ', c == 0x00, c == 0xFF, c == '\n', c == '\r', c == '\t':
		return true
	}
	return false
}

// PrintableRatio returns the percentage of text-like bytes in b.
func PrintableRatio(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := 0
	for _, c := range b {
		if isTextByte(c) {
			n++
		}
	}
	return n * 100 / len(b)
}

func decodePrintable(b []byte, _ *Table) (string, bool) {
	if PrintableRatio(b) < PrintableThreshold {
		return "", false
	}
	s := strings.ToValidUTF8(string(b), string(utf8.RuneError))
	// NUL is padding in this encoding family, never display text.
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.TrimRight(s, string(utf8.RuneError))
	return s, s != ""
}

func decodeUTF16LE(b []byte, _ *Table) (string, bool) {
	if len(b) == 0 || len(b)%2 != 0 {
		return "", false
	}
	var sb strings.Builder
	for i := 0; i+1 < len(b); i += 2 {
		u := rune(b[i]) | rune(b[i+1])<<8
		if u == 0 {
			break
		}
		// Lone code units only: surrogates are never valid scalar values.
		if utf16.IsSurrogate(u) {
			return "", false
		}
		sb.WriteRune(u)
	}
	return sb.String(), sb.Len() > 0
}

func decodeShiftJIS(b []byte, _ *Table) (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	// The decoder substitutes U+FFFD for malformed input instead of failing.
	s := string(out)
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", false
	}
	s = strings.TrimRight(s, "\x00")
	return s, s != ""
}

func decodeTable(b []byte, tbl *Table) (string, bool) {
	if tbl == nil || tbl.Len() == 0 {
		return "", false
	}
	s := tbl.Decode(b)
	return s, s != ""
}
