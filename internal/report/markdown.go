package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders r as a markdown document.
func Markdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeCell(r.platformName))
	fmt.Fprintf(&b, "- **File:** `%s`\n", escapeBackticks(r.File))
	fmt.Fprintf(&b, "- **Platform:** `%s`\n", r.Platform)
	fmt.Fprintf(&b, "- **Size:** %d bytes\n\n", r.Size)

	if len(r.Checks) > 0 {
		b.WriteString("## Header checks\n\n")
		b.WriteString("| Check | Result | Detail |\n|---|---|---|\n")
		for _, c := range r.Checks {
			res := "ok"
			if !c.OK {
				res = "**FAIL**"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(c.Name), res, escapeCell(c.Detail))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Discovery\n\n")
	fmt.Fprintf(&b, "- Pointers: %d\n", r.Summary.Pointers)
	fmt.Fprintf(&b, "- Pointer tables: %d\n", r.Summary.Tables)
	fmt.Fprintf(&b, "- Discovered regions: %d\n", r.Summary.Regions)
	fmt.Fprintf(&b, "- Skipped targets: %d\n\n", r.Summary.Skipped)

	b.WriteString("## Regions\n\n")
	b.WriteString("| Offset+Size | Name | Kind | Origin | Required | Value | Meaning |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %t | %s | %s |\n",
			row.Span(),
			escapeCell(row.Name),
			row.Kind,
			row.Origin,
			row.Required,
			escapeCell(row.Formatted),
			escapeCell(row.Meaning))
	}

	for _, row := range r.Rows {
		if len(row.Disasm) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s (`%06X`)\n\n```armasm\n%s```\n", escapeCell(row.Name), row.Offset, row.Disasm.Format())
	}
	return b.String()
}

// RenderMarkdown renders md for the terminal.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(MarkdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "|", `\|`)
}

func escapeBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
