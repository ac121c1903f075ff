package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"

	"rommap/internal/disasm"
	"rommap/internal/ui/colorize"
)

// maxCell bounds the formatted column in the console table.
const maxCell = 48

var tableHeaders = []string{"OFFSET+SIZE", "NAME", "KIND", "ORIGIN", "REQ", "VALUE", "MEANING"}

// Cells returns the console table cells for row.
func (row Row) Cells() []string {
	req := ""
	if row.Required {
		req = "yes"
	}
	return []string{
		row.Span(),
		row.Name,
		row.Kind.String(),
		row.Origin.String(),
		req,
		truncate(row.Formatted, maxCell),
		row.Meaning,
	}
}

// WriteTable prints the summary, a region table and any code previews.
func WriteTable(w io.Writer, r *Report, color bool) error {
	var (
		headStyle = lipgloss.NewStyle()
		dimStyle  = lipgloss.NewStyle()
		okStyle   = lipgloss.NewStyle()
		badStyle  = lipgloss.NewStyle()
	)
	if color {
		headStyle = headStyle.Bold(true).Foreground(lipgloss.Color("252"))
		dimStyle = dimStyle.Foreground(lipgloss.Color("240"))
		okStyle = okStyle.Foreground(lipgloss.Color("42"))
		badStyle = badStyle.Foreground(lipgloss.Color("196"))
	}

	var b strings.Builder
	fmt.Fprintln(&b, headStyle.Render(fmt.Sprintf("%s (%s)", r.File, r.platformName)))
	fmt.Fprintln(&b, dimStyle.Render(fmt.Sprintf("%d bytes, %d pointers, %d tables, %d discovered regions, %d skipped targets",
		r.Size, r.Summary.Pointers, r.Summary.Tables, r.Summary.Regions, r.Summary.Skipped)))
	for _, c := range r.Checks {
		mark := okStyle.Render("ok")
		if !c.OK {
			mark = badStyle.Render("FAIL")
		}
		fmt.Fprintf(&b, "%-4s %s: %s\n", mark, c.Name, c.Detail)
	}
	b.WriteString("\n")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(tableHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Inherit(headStyle)
			}
			if col == 0 {
				return s.Inherit(dimStyle)
			}
			return s
		})
	for _, row := range r.Rows {
		t.Row(row.Cells()...)
	}
	b.WriteString(t.String())
	b.WriteString("\n")

	for _, row := range r.Rows {
		if len(row.Disasm) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", headStyle.Render(fmt.Sprintf("%s @ %06X", row.Name, row.Offset)))
		b.WriteString(listing(row.Disasm, color))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func listing(s disasm.Stream, color bool) string {
	text := s.Format()
	if color {
		return colorize.Listing(text)
	}
	return text
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
