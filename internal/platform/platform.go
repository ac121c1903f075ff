// Package platform holds the static, per-console description of cartridge
// images: named header fields, the CPU window the cartridge is mapped at,
// and header validation rules. Layouts are embedded YAML parsed once.
package platform

import (
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"rommap/internal/rom"
	"rommap/internal/romx"
)

//go:embed layouts/*.yaml
var layoutFS embed.FS

// Default is the platform used when none is requested.
const Default = "gba"

// Platform describes one cartridge format.
type Platform struct {
	ID      string
	Name    string
	MinSize int
	// Window is zero for platforms whose pointers are not 32-bit
	// little-endian words; pointer discovery is unavailable there.
	Window  romx.Window
	Regions []rom.Region
	checks  []Check
}

// CanDiscover reports whether pointer-driven discovery applies.
func (p *Platform) CanDiscover() bool { return !p.Window.IsZero() }

type layoutFile struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	MinSize int    `yaml:"min_size"`
	Window  *struct {
		Base uint32 `yaml:"base"`
		Span uint32 `yaml:"span"`
	} `yaml:"window"`
	Regions []struct {
		Offset   int      `yaml:"offset"`
		Size     int      `yaml:"size"`
		Name     string   `yaml:"name"`
		Kind     rom.Kind `yaml:"kind"`
		Required bool     `yaml:"required"`
		Values   []struct {
			Text    *string `yaml:"text"`
			Hex     string  `yaml:"hex"`
			Meaning string  `yaml:"meaning"`
		} `yaml:"values"`
	} `yaml:"regions"`
}

var (
	loadOnce  sync.Once
	platforms map[string]*Platform
	loadErr   error
)

func load() {
	platforms = make(map[string]*Platform)
	loadErr = fs.WalkDir(layoutFS, "layouts", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".yaml" {
			return nil
		}
		data, err := layoutFS.ReadFile(p)
		if err != nil {
			return err
		}
		pl, err := parseLayout(data)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if _, dup := platforms[pl.ID]; dup {
			return fmt.Errorf("%s: duplicate platform id %q", p, pl.ID)
		}
		pl.checks = checks[pl.ID]
		platforms[pl.ID] = pl
		return nil
	})
}

func parseLayout(data []byte) (*Platform, error) {
	var lf layoutFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, err
	}
	if lf.ID == "" {
		return nil, fmt.Errorf("layout has no id")
	}

	p := &Platform{ID: lf.ID, Name: lf.Name, MinSize: lf.MinSize}
	if lf.Window != nil {
		p.Window = romx.Window{Base: lf.Window.Base, Span: lf.Window.Span}
	}
	for _, r := range lf.Regions {
		if r.Size <= 0 {
			return nil, fmt.Errorf("region %q: size must be positive", r.Name)
		}
		region := rom.Region{
			Offset:   r.Offset,
			Size:     r.Size,
			Name:     r.Name,
			Kind:     r.Kind,
			Required: r.Required,
			Origin:   rom.OriginSpec,
		}
		for _, v := range r.Values {
			var raw []byte
			switch {
			case v.Text != nil:
				raw = []byte(*v.Text)
			default:
				b, err := hex.DecodeString(strings.ReplaceAll(v.Hex, " ", ""))
				if err != nil {
					return nil, fmt.Errorf("region %q: bad value %q: %w", r.Name, v.Hex, err)
				}
				raw = b
			}
			region.Values = append(region.Values, rom.ValueMapping{Raw: raw, Meaning: v.Meaning})
		}
		p.Regions = append(p.Regions, region)
	}
	return p, nil
}

// Lookup returns the platform with the given id.
func Lookup(id string) (*Platform, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, fmt.Errorf("load platform layouts: %w", loadErr)
	}
	p, ok := platforms[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q (known: %s)", id, strings.Join(IDs(), ", "))
	}
	return p, nil
}

// All returns every platform sorted by id.
func All() []*Platform {
	loadOnce.Do(load)
	out := make([]*Platform, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns the known platform ids, sorted.
func IDs() []string {
	var ids []string
	for _, p := range All() {
		ids = append(ids, p.ID)
	}
	return ids
}
