package cleaner

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"text/tabwriter"

	pcsv "salesclean/internal/parser/csv"
	"salesclean/pkg/records"
)

// formatPreview renders the first n rows of t as aligned columns, headed by
// the column names. Null cells print as <null>.
func formatPreview(t records.Table, n int) []string {
	if n > t.Len() {
		n = t.Len()
	}
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	cells := make([]string, len(t.Columns))
	for _, r := range t.Rows[:n] {
		for i, c := range t.Columns {
			if r[c] == nil {
				cells[i] = "<null>"
				continue
			}
			cells[i] = pcsv.FormatCell(r[c])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func logPreview(label string, t records.Table, n int) {
	if n <= 0 {
		return
	}
	log.Printf("preview %s: first %d of %d rows", label, min(n, t.Len()), t.Len())
	for _, line := range formatPreview(t, n) {
		log.Printf("  %s", line)
	}
}
