package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tuannm99/strata/internal/record"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// Render writes an aligned text view of at most limit rows (all rows when
// limit <= 0), followed by a row count footer.
func Render(w io.Writer, t *Table, limit int) error {
	cols := t.Schema.Names()
	n := t.NumRows()
	shown := n
	if limit > 0 && limit < n {
		shown = limit
	}

	// 1) compute widths
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c)
	}
	cells := make([][]string, shown)
	for r := 0; r < shown; r++ {
		cells[r] = make([]string, len(cols))
		for c := range cols {
			s := "NULL"
			if v := t.Value(r, c); v != nil {
				s = record.FormatValue(v)
			}
			cells[r][c] = s
			if w := lipgloss.Width(s); w > widths[c] {
				widths[c] = w
			}
		}
	}

	var b strings.Builder

	// 2) header
	for i, c := range cols {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(headerStyle.Render(padRight(c, widths[i])))
	}
	b.WriteByte('\n')

	// 3) separator ----+----
	for i := range cols {
		if i > 0 {
			b.WriteString("-+-")
		}
		b.WriteString(strings.Repeat("-", widths[i]))
	}
	b.WriteByte('\n')

	// 4) rows
	for _, row := range cells {
		for i := range cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(padRight(row[i], widths[i]))
		}
		b.WriteByte('\n')
	}

	if shown < n {
		fmt.Fprintf(&b, "... %d more\n", n-shown)
	}
	fmt.Fprintf(&b, "(%d rows)\n", n)

	_, err := io.WriteString(w, b.String())
	return err
}

// padRight pads to w terminal cells.
func padRight(s string, w int) string {
	n := lipgloss.Width(s)
	if n >= w {
		return s
	}
	return s + strings.Repeat(" ", w-n)
}
