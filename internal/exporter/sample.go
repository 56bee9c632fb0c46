package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"logisticsprep/pkg/contracts/domain"
)

// missingCell stands in for an empty cell in console samples
const missingCell = "NaN"

// WriteSample prints a title and the first n rows of t as an aligned text
// table. Values are formatted as in the CSV output.
func WriteSample(w io.Writer, title string, t *domain.Table, n int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", title)

	if t.Len() == 0 {
		b.WriteString("  (no rows)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\n", strings.Join(t.Columns, "\t"))
	for i, row := range t.Rows {
		if i == n {
			break
		}
		cells := FormatRow(row)
		for j, c := range cells {
			if c == "" && row[j].IsNull() {
				cells[j] = missingCell
			}
		}
		fmt.Fprintf(tw, "  %s\n", strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if t.Len() > n {
		fmt.Fprintf(&b, "  ... %d more rows\n", t.Len()-n)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
