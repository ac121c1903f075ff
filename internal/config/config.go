// Package config loads the optional YAML configuration file. Command-line
// flags override whatever it sets.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"rommap/internal/platform"
	"rommap/internal/report"
	"rommap/internal/rom"
)

// Config holds every tunable of an analysis run.
type Config struct {
	Platform     string   `yaml:"platform" json:"platform" jsonschema:"title=Platform,description=Cartridge layout id,default=gba,enum=gba,enum=snes-lorom,enum=snes-hirom,enum=genesis"`
	Workers      int      `yaml:"workers" json:"workers" jsonschema:"title=Workers,description=Goroutines used for scanning and inference (0 uses every CPU),minimum=0"`
	Format       string   `yaml:"format" json:"format" jsonschema:"title=Format,description=Output format,default=table,enum=table,enum=json,enum=markdown"`
	Table        string   `yaml:"table" json:"table,omitempty" jsonschema:"title=Substitution table,description=Path to a .tbl or YAML character table"`
	Discover     bool     `yaml:"discover" json:"discover" jsonschema:"title=Discover,description=Run pointer-driven region discovery,default=true"`
	TableRegions bool     `yaml:"table_regions" json:"table_regions" jsonschema:"title=Table regions,description=Record detected pointer tables as regions"`
	Kinds        []string `yaml:"kinds" json:"kinds,omitempty" jsonschema:"title=Kinds,description=Only report regions of these kinds"`
	Preview      int      `yaml:"preview" json:"preview" jsonschema:"title=Preview,description=Bytes shown for non-text regions,default=16,minimum=1"`
	Disasm       bool     `yaml:"disasm" json:"disasm" jsonschema:"title=Disassembly,description=Attach an ARM preview to code regions"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Platform: platform.Default,
		Workers:  runtime.NumCPU(),
		Format:   string(report.FormatTable),
		Discover: true,
		Preview:  report.DefaultPreview,
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if _, err := platform.Lookup(c.Platform); err != nil {
		return err
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := c.KindFilter(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Preview < 1 {
		return fmt.Errorf("preview must be at least 1, got %d", c.Preview)
	}
	return nil
}

// KindFilter parses Kinds.
func (c Config) KindFilter() ([]rom.Kind, error) {
	kinds := make([]rom.Kind, 0, len(c.Kinds))
	for _, s := range c.Kinds {
		k, err := rom.ParseKind(s)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Schema returns the JSON schema of Config.
func Schema() ([]byte, error) {
	reflector := new(jsonschema.Reflector)
	bts, err := json.MarshalIndent(reflector.Reflect(&Config{}), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return bts, nil
}
