package romx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gba")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpen(t *testing.T) {
	data := make([]byte, 256)
	data[0xA0] = 'Z'
	path := writeTemp(t, data)

	im, err := Open(path, 192)
	require.NoError(t, err)
	defer im.Close()

	assert.Equal(t, 256, im.Len())
	assert.Equal(t, byte('Z'), im.All[0xA0])
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope.gba"), 0)
		assert.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Open(writeTemp(t, nil), 0)
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := Open(writeTemp(t, make([]byte, 100)), 192)
		assert.ErrorIs(t, err, ErrTooSmall)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Open(t.TempDir(), 0)
		assert.Error(t, err)
	})
}

func TestSliceBounds(t *testing.T) {
	im := FromBytes("mem", []byte{0, 1, 2, 3, 4, 5, 6, 7})

	tests := []struct {
		name string
		off  int
		size int
		want []byte
		ok   bool
	}{
		{"whole", 0, 8, []byte{0, 1, 2, 3, 4, 5, 6, 7}, true},
		{"middle", 2, 3, []byte{2, 3, 4}, true},
		{"empty at end", 8, 0, []byte{}, true},
		{"past end", 6, 4, nil, false},
		{"start past end", 9, 0, nil, false},
		{"negative offset", -1, 2, nil, false},
		{"negative size", 0, -1, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := im.Slice(tt.off, tt.size)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSliceIsCapped(t *testing.T) {
	im := FromBytes("mem", []byte{1, 2, 3, 4})
	b, ok := im.Slice(0, 2)
	require.True(t, ok)
	b = append(b, 0xEE)
	assert.Equal(t, byte(3), im.All[2], "append through a slice must not write into the image")
	assert.Len(t, b, 3)
}

func TestClamp(t *testing.T) {
	im := FromBytes("mem", []byte{1, 2, 3, 4})
	assert.Equal(t, []byte{3, 4}, im.Clamp(2, 100))
	assert.Nil(t, im.Clamp(4, 1))
	assert.Nil(t, im.Clamp(0, 0))
}

func TestWord32(t *testing.T) {
	im := FromBytes("mem", []byte{0x40, 0x00, 0x00, 0x08, 0xFF})
	v, ok := im.Word32(0)
	assert.True(t, ok)
	assert.Equal(t, uint32(0x08000040), v)

	_, ok = im.Word32(2)
	assert.False(t, ok)
}

func TestWindow(t *testing.T) {
	w := Window{Base: 0x08000000, Span: 0x02000000}

	assert.True(t, w.Contains(0x08000000))
	assert.True(t, w.Contains(0x09FFFFFF))
	assert.False(t, w.Contains(0x0A000000))
	assert.False(t, w.Contains(0x07FFFFFF))

	off, ok := w.Off(0x08000040)
	assert.True(t, ok)
	assert.Equal(t, 0x40, off)
	assert.Equal(t, uint32(0x08000040), w.Addr(0x40))

	assert.False(t, Window{}.Contains(0))
	assert.True(t, Window{}.IsZero())
}
