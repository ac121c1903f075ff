package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format selects a renderer.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatTable, FormatJSON, FormatMarkdown}

// ParseFormat resolves a format name case-insensitively. "md" is accepted
// for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json or markdown)", s)
}

// RenderOptions controls terminal presentation.
type RenderOptions struct {
	Color bool // emit ANSI styling
	Width int  // word-wrap width for rendered markdown; 0 = 100
}

// Write renders r to w in format f.
func Write(w io.Writer, r *Report, f Format, ro RenderOptions) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown:
		md := Markdown(r)
		if !ro.Color {
			_, err := io.WriteString(w, md)
			return err
		}
		out, err := RenderMarkdown(md, ro.Width)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return WriteTable(w, r, ro.Color)
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
