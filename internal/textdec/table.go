package textdec

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry maps one raw byte sequence to display text.
type Entry struct {
	Key  []byte
	Text string
}

// Table is a substitution table for proprietary text encodings. Entries keep
// their declaration order and lookups take the first entry whose key is a
// prefix of the remaining input, so overlapping keys resolve the same way
// on every run.
type Table struct {
	entries []Entry
}

// NewTable builds a table from entries in order.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{}
	for _, e := range entries {
		if err := t.Add(e.Key, e.Text); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add appends a mapping. Empty keys are rejected.
func (t *Table) Add(key []byte, text string) error {
	if len(key) == 0 {
		return fmt.Errorf("substitution key for %q is empty", text)
	}
	t.entries = append(t.entries, Entry{Key: bytes.Clone(key), Text: text})
	return nil
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the entries in declaration order.
func (t *Table) Entries() []Entry { return t.entries }

// Decode scans b left to right, emitting the text of the first matching
// entry and skipping unmatched bytes one at a time.
func (t *Table) Decode(b []byte) string {
	var sb strings.Builder
	for i := 0; i < len(b); {
		e, ok := t.match(b[i:])
		if !ok {
			i++
			continue
		}
		sb.WriteString(e.Text)
		i += len(e.Key)
	}
	return sb.String()
}

func (t *Table) match(b []byte) (Entry, bool) {
	for _, e := range t.entries {
		if bytes.HasPrefix(b, e.Key) {
			return e, true
		}
	}
	return Entry{}, false
}

// Load reads a table file. Files ending in .yaml or .yml are parsed as YAML,
// everything else as a .tbl file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseTBL(f)
	}
}

// ParseTBL parses the line-oriented "HEX=text" format used by translation
// tools. Lines starting with '#' or ';' are comments. A leading '/' (end
// token) or '*' (line break token) before the hex key is accepted and dropped.
func ParseTBL(r io.Reader) (*Table, error) {
	t := &Table{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if c := strings.TrimSpace(raw)[0]; c == '#' || c == ';' {
			continue
		}

		k, v, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("table line %d: missing '='", line)
		}
		k = strings.TrimLeft(strings.TrimSpace(k), "/*")
		key, err := hex.DecodeString(k)
		if err != nil {
			return nil, fmt.Errorf("table line %d: bad key %q: %w", line, k, err)
		}
		if err := t.Add(key, v); err != nil {
			return nil, fmt.Errorf("table line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return t, nil
}

type yamlTable struct {
	Entries []struct {
		Hex  string `yaml:"hex"`
		Text string `yaml:"text"`
	} `yaml:"entries"`
}

// ParseYAML parses a table of the form:
//
//	entries:
//	  - {hex: "FE", text: "<END>"}
func ParseYAML(r io.Reader) (*Table, error) {
	var doc yamlTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml table: %w", err)
	}

	t := &Table{}
	for i, e := range doc.Entries {
		key, err := hex.DecodeString(strings.ReplaceAll(e.Hex, " ", ""))
		if err != nil {
			return nil, fmt.Errorf("table entry %d: bad key %q: %w", i, e.Hex, err)
		}
		if err := t.Add(key, e.Text); err != nil {
			return nil, fmt.Errorf("table entry %d: %w", i, err)
		}
	}
	return t, nil
}
