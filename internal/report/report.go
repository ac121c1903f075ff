// Package report turns a catalog into rows and renders them as a console
// table, JSON or markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"rommap/internal/analysis"
	"rommap/internal/disasm"
	"rommap/internal/platform"
	"rommap/internal/rom"
	"rommap/internal/romx"
	"rommap/internal/textdec"
)

// Placeholders used in the formatted and meaning columns.
const (
	Undecoded  = "<undecoded>"
	OutOfRange = "<out of range>"
	NoMeaning  = "-"
)

// DefaultPreview is the number of bytes shown for non-text regions.
const DefaultPreview = 16

// Options controls row construction.
type Options struct {
	Table   *textdec.Table // substitution table for Text regions, may be nil
	Preview int            // hex preview length in bytes; 0 = DefaultPreview
	Kinds   []rom.Kind     // keep only these kinds; empty keeps all
	Disasm  bool           // attach an ARM preview to Code regions
}

// Row is one region as presented to the user.
type Row struct {
	Offset    int           `json:"offset"`
	Size      int           `json:"size"`
	Name      string        `json:"name"`
	Kind      rom.Kind      `json:"kind"`
	Origin    rom.Origin    `json:"origin"`
	Required  bool          `json:"required"`
	Formatted string        `json:"formatted"`
	Encoding  string        `json:"encoding,omitempty"`
	Meaning   string        `json:"meaning"`
	Disasm    disasm.Stream `json:"disasm,omitempty"`
}

// Summary carries the discovery counters.
type Summary struct {
	Pointers int `json:"pointers"`
	Tables   int `json:"tables"`
	Regions  int `json:"discovered_regions"`
	Skipped  int `json:"skipped_targets"`
}

// Report is everything a renderer needs.
type Report struct {
	File     string                 `json:"file"`
	Size     int                    `json:"size"`
	Platform string                 `json:"platform"`
	Summary  Summary                `json:"summary"`
	Checks   []platform.CheckResult `json:"checks"`
	Rows     []Row                  `json:"regions"`

	platformName string
	window       romx.Window
}

// Build assembles a report. res may be nil when discovery did not run.
func Build(im *romx.Image, p *platform.Platform, cat *rom.Catalog, res *analysis.Result, opts Options) *Report {
	if opts.Preview <= 0 {
		opts.Preview = DefaultPreview
	}
	r := &Report{
		File:         im.Path,
		Size:         im.Len(),
		Platform:     p.ID,
		Checks:       p.Validate(im),
		platformName: p.Name,
		window:       p.Window,
	}
	if res != nil {
		r.Summary = Summary{
			Pointers: len(res.Pointers),
			Tables:   len(res.Tables),
			Regions:  len(res.Regions),
			Skipped:  res.Skipped,
		}
	}

	regions := cat.Regions(opts.Kinds...)
	sort.SliceStable(regions, func(i, j int) bool { return regions[i].Offset < regions[j].Offset })
	r.Rows = make([]Row, 0, len(regions))
	for _, reg := range regions {
		r.Rows = append(r.Rows, buildRow(im, reg, p.Window, opts))
	}
	return r
}

func buildRow(im *romx.Image, reg rom.Region, w romx.Window, opts Options) Row {
	row := Row{
		Offset:   reg.Offset,
		Size:     reg.Size,
		Name:     reg.Name,
		Kind:     reg.Kind,
		Origin:   reg.Origin,
		Required: reg.Required,
		Meaning:  NoMeaning,
	}

	b, ok := im.Slice(reg.Offset, reg.Size)
	if !ok {
		row.Formatted = OutOfRange
		return row
	}
	if m, ok := reg.Interpret(b); ok {
		row.Meaning = m
	}

	switch reg.Kind {
	case rom.KindText:
		if res, ok := textdec.Decode(b, opts.Table); ok {
			row.Formatted = sanitize(res.Text)
			row.Encoding = res.Strategy.String()
		} else {
			row.Formatted = Undecoded
		}
	case rom.KindCode:
		row.Formatted = hexPreview(b, opts.Preview)
		if opts.Disasm {
			row.Disasm = disasm.DecodeARM(b, w.Addr(reg.Offset), disasm.PreviewLen)
		}
	default:
		row.Formatted = hexPreview(b, opts.Preview)
	}
	return row
}

// hexPreview renders up to n bytes as spaced uppercase hex.
func hexPreview(b []byte, n int) string {
	var sb strings.Builder
	for i, c := range b {
		if i == n {
			sb.WriteString(" ...")
			break
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

// sanitize flattens line breaks so a decoded string fits one cell.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

// Span formats a region's extent as offset+size.
func (row Row) Span() string {
	return fmt.Sprintf("%06X+%02X", row.Offset, row.Size)
}
