package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rommap/internal/rom"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(gbaWindow)

	tests := []struct {
		name string
		b    []byte
		want rom.Kind
	}{
		{"ascii text", []byte("THE LEGEND OF ZELDA\x00\x00\x00"), rom.KindText},
		{"pointer table", repeat(pointerPattern, 32), rom.KindPointerTable},
		{"code low bit", repeat(codePattern, 32), rom.KindCode},
		{"code second byte", repeat([]byte{0x80, 0xDE, 0x80, 0x80}, 32), rom.KindCode},
		{"data marker", repeat(dataPattern, 32), rom.KindData},
		{"unknown", repeat(noisePattern, 32), rom.KindUnknown},
		{"short window", []byte("AB"), rom.KindUnknown},
		{"empty window", nil, rom.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.b))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	c := NewClassifier(gbaWindow)

	// Pointers whose bytes are mostly text-like are text first.
	ptrText := repeat([]byte{0x40, 0x00, 0x00, 0x08}, 32)
	assert.Equal(t, rom.KindText, c.Classify(ptrText))

	// Three pointers out of eight words are not a table; the low bit of the
	// first byte makes it code.
	b := repeat(codePattern, 32)
	copy(b[0:], pointerPattern)
	copy(b[4:], pointerPattern)
	copy(b[8:], pointerPattern)
	assert.Equal(t, rom.KindCode, c.Classify(b))

	// Only the first eight words are probed.
	late := repeat(noisePattern, 64)
	for off := 32; off < 64; off += 4 {
		copy(late[off:], pointerPattern)
	}
	assert.Equal(t, rom.KindUnknown, c.Classify(late))
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(gbaWindow)
	windows := [][]byte{
		repeat(codePattern, 64),
		repeat(dataPattern, 12),
		[]byte("abcd"),
		repeat([]byte{0x13, 0x37}, 33),
	}
	for _, w := range windows {
		first := c.Classify(w)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, c.Classify(w))
		}
	}
}

func TestRuleChainOrder(t *testing.T) {
	always := func([]byte) bool { return true }
	c := NewRuleChain(
		Rule{Kind: rom.KindData, Match: always},
		Rule{Kind: rom.KindCode, Match: always},
	)
	assert.Equal(t, rom.KindData, c.Classify([]byte{0, 0, 0, 0}))
	assert.Equal(t, rom.KindUnknown, NewRuleChain().Classify([]byte{0, 0, 0, 0}))
}
