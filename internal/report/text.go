package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

var (
	titleColor  = color.New(color.Bold, color.FgHiYellow)
	headerColor = color.New(color.Bold)
	keyColor    = color.New(color.FgHiBlack)
	nullColor   = color.New(color.FgHiBlack)
)

// renderText prints an aligned table followed by the summary lines.
// Cells are padded before coloring so escape codes never skew alignment.
func (g *Generator) renderText(w io.Writer, t *Table) error {
	if t.Title != "" {
		fmt.Fprintln(w)
		titleColor.Fprintln(w, strings.ToUpper(t.Title))
		fmt.Fprintln(w)
	}

	if len(t.Columns) > 0 {
		widths := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			widths[i] = utf8.RuneCountInString(c.Name)
		}

		cells := make([][]string, len(t.Rows))
		for r, row := range t.Rows {
			cells[r] = make([]string, len(t.Columns))
			for i, c := range t.Columns {
				cell := cleanCell(FormatValue(cellAt(row, i), c.Kind))
				cells[r][i] = cell
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}

		header := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			header[i] = headerColor.Sprint(pad(c.Name, widths[i], i == len(t.Columns)-1))
		}
		fmt.Fprintln(w, strings.Join(header, "  "))

		for r, row := range t.Rows {
			line := make([]string, len(t.Columns))
			for i := range t.Columns {
				cell := pad(cells[r][i], widths[i], i == len(t.Columns)-1)
				if cellAt(row, i) == nil {
					cell = nullColor.Sprint(cell)
				}
				line[i] = cell
			}
			fmt.Fprintln(w, strings.Join(line, "  "))
		}
	}

	if len(t.Summary) > 0 {
		fmt.Fprintln(w)
		for _, f := range t.Summary {
			fmt.Fprintf(w, "  %s %s\n", keyColor.Sprintf("%-14s", f.Key+":"), FormatValue(f.Value, KindPlain))
		}
	}
	return nil
}

func cellAt(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}

// pad right-pads s to width; the last column is left unpadded
func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// cleanCell keeps one row per line
func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}
