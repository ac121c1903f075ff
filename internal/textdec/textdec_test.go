package textdec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePrintableStripsTrailingNUL(t *testing.T) {
	b := append([]byte("POKEMON FIRE"), 0, 0, 0, 0)

	res, ok := Decode(b, nil)
	require.True(t, ok)
	assert.Equal(t, "POKEMON FIRE", res.Text)
	assert.Equal(t, StrategyPrintable, res.Strategy)
}

func TestDecodeUTF16LEPattern(t *testing.T) {
	b := []byte{0x41, 0x00, 0x42, 0x00, 0x00, 0x00}

	res, ok := Decode(b, nil)
	require.True(t, ok)
	assert.Equal(t, "AB", res.Text)

	s, ok := decodeUTF16LE(b, nil)
	require.True(t, ok)
	assert.Equal(t, "AB", s)
}

func TestDecodeUTF16LENonASCII(t *testing.T) {
	// "ゼルダ" followed by a terminator and garbage that must be ignored.
	b := []byte{0xBC, 0x30, 0xEB, 0x30, 0xC0, 0x30, 0x00, 0x00, 0x00, 0xD8}

	res, ok := Decode(b, nil)
	require.True(t, ok)
	assert.Equal(t, StrategyUTF16LE, res.Strategy)
	assert.Equal(t, "ゼルダ", res.Text)
}

func TestDecodeUTF16LERejects(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
	}{
		{"odd length", []byte{0x41, 0x00, 0x42}},
		{"lone surrogate", []byte{0x41, 0x00, 0x00, 0xD8}},
		{"empty before terminator", []byte{0x00, 0x00, 0x41, 0x00}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := decodeUTF16LE(tt.b, nil)
			assert.False(t, ok)
		})
	}
}

func TestDecodeShiftJIS(t *testing.T) {
	// "ゼルダ" in Shift-JIS.
	b := []byte{0x83, 0x5B, 0x83, 0x8B, 0x83, 0x5F, 0x00, 0x00}

	s, ok := decodeShiftJIS(b, nil)
	require.True(t, ok)
	assert.Equal(t, "ゼルダ", s)

	// Even-length windows are claimed by the UTF-16 pass first.
	res, ok := Decode(b, nil)
	require.True(t, ok)
	assert.Equal(t, StrategyUTF16LE, res.Strategy)

	// Odd length skips UTF-16 and lands on Shift-JIS.
	res, ok = Decode(b[:7], nil)
	require.True(t, ok)
	assert.Equal(t, StrategyShiftJIS, res.Strategy)
	assert.Equal(t, "ゼルダ", res.Text)
}

func TestDecodeShiftJISRejectsMalformed(t *testing.T) {
	_, ok := decodeShiftJIS([]byte{0x81, 0xDB, 0x80, 0x80}, nil)
	assert.False(t, ok)

	_, ok = decodeShiftJIS([]byte{0x00, 0x00}, nil)
	assert.False(t, ok, "only NULs trims to empty")
}

func TestDecodeSubstitutionTable(t *testing.T) {
	tbl, err := NewTable(Entry{Key: []byte{0xFE}, Text: "<END>"})
	require.NoError(t, err)

	// 0x01 0xFE 0x02 fails every standard strategy: ratio 33%, odd length,
	// and 0xFE is not a valid Shift-JIS byte.
	res, ok := Decode([]byte{0x01, 0xFE, 0x02}, tbl)
	require.True(t, ok)
	assert.Equal(t, StrategyTable, res.Strategy)
	assert.Equal(t, "<END>", res.Text)

	_, ok = Decode([]byte{0x01, 0xFE, 0x02}, nil)
	assert.False(t, ok)
}

func TestDecodeNothingWorks(t *testing.T) {
	tbl, err := NewTable(Entry{Key: []byte{0x99}, Text: "x"})
	require.NoError(t, err)

	res, ok := Decode([]byte{0x01, 0xFE, 0x02}, tbl)
	assert.False(t, ok)
	assert.Equal(t, StrategyNone, res.Strategy)
	assert.Empty(t, res.Text)
}

func TestPrintableRatio(t *testing.T) {
	assert.Equal(t, 0, PrintableRatio(nil))
	assert.Equal(t, 100, PrintableRatio([]byte("abc\n\t\r \x00\xFF")))
	assert.Equal(t, 50, PrintableRatio([]byte{'a', 0x01}))
}

func TestIsText(t *testing.T) {
	assert.True(t, IsText([]byte("HELLO WORLD")))
	assert.False(t, IsText([]byte{0x81, 0xDB, 0x80, 0x80}))
}
