package report

import (
	"fmt"
	"io"
	"strings"
)

// renderMarkdown writes a Markdown table with a summary table below it
func renderMarkdown(w io.Writer, t *Table) error {
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", t.Title))
	}

	if len(t.Columns) > 0 {
		names := make([]string, len(t.Columns))
		seps := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			names[i] = c.Name
			seps[i] = strings.Repeat("-", max(3, len(c.Name)))
		}
		sb.WriteString("| " + strings.Join(names, " | ") + " |\n")
		sb.WriteString("|" + strings.Join(seps, "|") + "|\n")

		for _, row := range t.Rows {
			cells := make([]string, len(t.Columns))
			for i, c := range t.Columns {
				var v any
				if i < len(row) {
					v = row[i]
				}
				cells[i] = escapeCell(FormatValue(v, c.Kind))
			}
			sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
		sb.WriteString("\n")
	}

	if len(t.Summary) > 0 {
		sb.WriteString("## Summary\n\n")
		sb.WriteString("| Parameter | Value |\n")
		sb.WriteString("|-----------|-------|\n")
		for _, f := range t.Summary {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", f.Key, escapeCell(FormatValue(f.Value, KindPlain))))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}
