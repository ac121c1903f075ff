package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"rommap/internal/rom"
	"rommap/internal/romx"
)

const pangram = "The quick brown fox jumps over the lazy dog. "

func TestInferSizeStopsAtKindChange(t *testing.T) {
	buf := append(repeat([]byte(pangram), 64), repeat(noisePattern, 64)...)
	c := NewClassifier(gbaWindow)

	size, kind := c.InferSize(romx.FromBytes("t", buf), 0)
	assert.Equal(t, 64, size)
	assert.Equal(t, rom.KindText, kind)
}

func TestInferSizeCap(t *testing.T) {
	buf := repeat([]byte(pangram), 4096)
	c := NewClassifier(gbaWindow)

	size, kind := c.InferSize(romx.FromBytes("t", buf), 0)
	assert.Equal(t, InferCap, size)
	assert.Equal(t, rom.KindText, kind)
}

func TestInferSizeImageBoundary(t *testing.T) {
	c := NewClassifier(gbaWindow)
	im := romx.FromBytes("t", repeat([]byte(pangram), 100))

	size, _ := c.InferSize(im, 0x40)
	assert.Equal(t, 32, size)

	size, kind := c.InferSize(im, 80)
	assert.Equal(t, 0, size)
	assert.Equal(t, rom.KindUnknown, kind)

	size, _ = c.InferSize(im, 200)
	assert.Equal(t, 0, size)
}

func TestInferSizeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := NewClassifier(gbaWindow)

	for i := 0; i < 50; i++ {
		buf := make([]byte, 32+rng.Intn(3000))
		rng.Read(buf)
		im := romx.FromBytes("rand", buf)
		off := rng.Intn(len(buf))

		size, _ := c.InferSize(im, off)
		assert.Zero(t, size%InferStep)
		assert.LessOrEqual(t, size, InferCap)
		assert.LessOrEqual(t, size, len(buf)-off)
	}
}
