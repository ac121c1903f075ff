package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rommap/internal/rom"
	"rommap/internal/romx"
)

func TestEmbeddedLayoutsLoad(t *testing.T) {
	assert.Equal(t, []string{"gba", "genesis", "snes-hirom", "snes-lorom"}, IDs())

	for _, p := range All() {
		t.Run(p.ID, func(t *testing.T) {
			assert.NotEmpty(t, p.Name)
			assert.Positive(t, p.MinSize)
			require.NotEmpty(t, p.Regions)
			for _, r := range p.Regions {
				assert.Positive(t, r.Size, r.Name)
				assert.Equal(t, rom.OriginSpec, r.Origin, r.Name)
			}
		})
	}
}

func TestGBALayout(t *testing.T) {
	p, err := Lookup("GBA")
	require.NoError(t, err)

	assert.True(t, p.CanDiscover())
	assert.Equal(t, romx.Window{Base: 0x08000000, Span: 0x02000000}, p.Window)
	assert.Equal(t, 192, p.MinSize)

	byName := map[string]rom.Region{}
	for _, r := range p.Regions {
		if _, seen := byName[r.Name]; !seen {
			byName[r.Name] = r
		}
	}

	title := byName["Game Title"]
	assert.Equal(t, 0xA0, title.Offset)
	assert.Equal(t, 12, title.Size)
	assert.Equal(t, rom.KindText, title.Kind)

	lang := byName["Destination/Language (D)"]
	meaning, ok := lang.Interpret([]byte("E"))
	assert.True(t, ok)
	assert.Equal(t, "USA/English", meaning)

	boot := byName["Boot mode"]
	meaning, ok = boot.Interpret([]byte{0x03})
	assert.True(t, ok)
	assert.Equal(t, "Multiplay mode", meaning)

	assert.True(t, byName["Complement check"].Required)
	assert.Equal(t, rom.KindHeader, p.Regions[0].Kind)
}

func TestHeaderOnlyPlatforms(t *testing.T) {
	for _, id := range []string{"snes-lorom", "snes-hirom", "genesis"} {
		p, err := Lookup(id)
		require.NoError(t, err)
		assert.False(t, p.CanDiscover(), id)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("n64")
	assert.ErrorContains(t, err, "unknown platform")
	assert.ErrorContains(t, err, "gba")
}

func TestParseLayoutErrors(t *testing.T) {
	_, err := parseLayout([]byte("name: x\n"))
	assert.ErrorContains(t, err, "no id")

	_, err = parseLayout([]byte("id: x\nregions:\n  - {offset: 0, size: 0, name: bad, kind: Data}\n"))
	assert.ErrorContains(t, err, "size")

	_, err = parseLayout([]byte("id: x\nregions:\n  - {offset: 0, size: 1, name: bad, kind: Nope}\n"))
	assert.Error(t, err)

	_, err = parseLayout([]byte("id: x\nregions:\n  - {offset: 0, size: 1, name: b, kind: Data, values: [{hex: ZZ, meaning: m}]}\n"))
	assert.ErrorContains(t, err, "bad value")
}
