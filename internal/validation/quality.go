package validation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"logisticsprep/internal/config"
	"logisticsprep/pkg/contracts/domain"
)

// ColumnMissing is the missing value count of one column
type ColumnMissing struct {
	Column  string  `yaml:"column"`
	Count   int     `yaml:"count"`
	Percent float64 `yaml:"percent"`
}

// DateRange is the earliest and latest shipment date
type DateRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// SummaryStats describes a numeric column. Quartiles are read off the
// empirical distribution, the same way as the median.
type SummaryStats struct {
	Count  int     `yaml:"count"`
	Min    float64 `yaml:"min"`
	Q1     float64 `yaml:"q1"`
	Median float64 `yaml:"median"`
	Q3     float64 `yaml:"q3"`
	Max    float64 `yaml:"max"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
}

// ColumnSummary is the summary of one numeric master column
type ColumnSummary struct {
	Column       string `yaml:"column"`
	SummaryStats `yaml:",inline"`
}

// StatusShare is the number and share of shipments with one status
type StatusShare struct {
	Status  string  `yaml:"status"`
	Count   int     `yaml:"count"`
	Percent float64 `yaml:"percent"`
}

// QualityReport summarizes the state of the master table
type QualityReport struct {
	TotalRows            int             `yaml:"total_rows"`
	TotalColumns         int             `yaml:"total_columns"`
	MissingValues        []ColumnMissing `yaml:"missing_values"`
	DuplicateShipmentIDs int             `yaml:"duplicate_shipment_ids"`
	DateRange            *DateRange      `yaml:"date_range,omitempty"`
	Sales                *SummaryStats   `yaml:"sales,omitempty"`
	StatusDistribution   []StatusShare   `yaml:"status_distribution"`
	NumericColumns       []ColumnSummary `yaml:"numeric_columns"`
}

// QualityValidator inspects a master table. It only observes: data
// problems end up in the report, never in an error.
type QualityValidator struct {
	logger *slog.Logger
}

// NewQualityValidator creates a new quality validator
func NewQualityValidator(logger *slog.Logger) *QualityValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &QualityValidator{logger: logger}
}

// Validate builds the quality report for master
func (v *QualityValidator) Validate(ctx context.Context, master *domain.Table) *QualityReport {
	report := &QualityReport{}
	if master == nil {
		return report
	}

	report.TotalRows = master.Len()
	report.TotalColumns = len(master.Columns)
	report.MissingValues = missingValues(master)
	report.DuplicateShipmentIDs = duplicateCount(master.Column(domain.ColShipmentID))
	report.DateRange = dateRange(master.Column(domain.ColDate))
	report.Sales = summarize(master.Column(domain.ColSales))
	report.StatusDistribution = statusDistribution(master.Column(domain.ColStatus))
	report.NumericColumns = numericSummaries(master)

	v.logger.InfoContext(ctx, "data quality checked",
		slog.Int("rows", report.TotalRows),
		slog.Int("columns_with_missing", len(report.MissingValues)),
		slog.Int("duplicate_shipment_ids", report.DuplicateShipmentIDs))
	if report.DuplicateShipmentIDs > 0 {
		v.logger.WarnContext(ctx, "duplicate shipment ids in master dataset",
			slog.Int("count", report.DuplicateShipmentIDs))
	}

	return report
}

func missingValues(t *domain.Table) []ColumnMissing {
	var out []ColumnMissing
	for _, col := range t.Columns {
		n := 0
		for _, v := range t.Column(col) {
			if v.IsNull() {
				n++
			}
		}
		if n > 0 {
			out = append(out, ColumnMissing{Column: col, Count: n, Percent: percent(n, t.Len())})
		}
	}
	return out
}

// duplicateCount counts values that repeat an earlier value. Missing IDs
// count as duplicates of each other.
func duplicateCount(values []domain.Value) int {
	seen := make(map[string]bool, len(values))
	missing := false
	dups := 0
	for _, v := range values {
		k, ok := domain.KeyOf(v)
		if !ok {
			if missing {
				dups++
			}
			missing = true
			continue
		}
		if seen[k] {
			dups++
			continue
		}
		seen[k] = true
	}
	return dups
}

func dateRange(values []domain.Value) *DateRange {
	var first, last domain.Value
	for _, v := range values {
		if v.Kind() != domain.KindDate {
			continue
		}
		if first.IsNull() || v.Compare(first) < 0 {
			first = v
		}
		if last.IsNull() || v.Compare(last) > 0 {
			last = v
		}
	}
	if first.IsNull() {
		return nil
	}
	start, _ := first.AsTime()
	end, _ := last.AsTime()
	return &DateRange{
		Start: start.Format(config.OutputDateLayout),
		End:   end.Format(config.OutputDateLayout),
	}
}

func summarize(values []domain.Value) *SummaryStats {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.AsFloat(); ok {
			xs = append(xs, f)
		}
	}
	if len(xs) == 0 {
		return nil
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	s := &SummaryStats{
		Count:  len(xs),
		Min:    floats.Min(xs),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    floats.Max(xs),
		Mean:   stat.Mean(xs, nil),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}

// numericSummaries summarizes every column whose present values are all
// numbers, in table order. Columns with no present value are skipped.
func numericSummaries(t *domain.Table) []ColumnSummary {
	var out []ColumnSummary
	for _, col := range t.Columns {
		values := t.Column(col)
		if !isNumericColumn(values) {
			continue
		}
		if stats := summarize(values); stats != nil {
			out = append(out, ColumnSummary{Column: col, SummaryStats: *stats})
		}
	}
	return out
}

func isNumericColumn(values []domain.Value) bool {
	for _, v := range values {
		if !v.IsNull() && !v.IsNumeric() {
			return false
		}
	}
	return true
}

// statusDistribution orders statuses by count, then name. Shares are taken
// over shipments that have a status, so they add up to 100.
func statusDistribution(values []domain.Value) []StatusShare {
	counts := make(map[string]int)
	total := 0
	for _, v := range values {
		s, ok := v.AsString()
		if !ok {
			continue
		}
		counts[s]++
		total++
	}

	out := make([]StatusShare, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusShare{Status: status, Count: n, Percent: percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

// Render writes the report in human readable form
func (r *QualityReport) Render(w io.Writer) error {
	rule := strings.Repeat("=", 60)
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\nDATA QUALITY REPORT\n%s\n", rule, rule)
	fmt.Fprintf(&b, "\nTotal Records: %d\n", r.TotalRows)
	fmt.Fprintf(&b, "Total Columns: %d\n", r.TotalColumns)

	b.WriteString("\nMissing Values:\n")
	if len(r.MissingValues) == 0 {
		b.WriteString("  No missing values\n")
	}
	for _, m := range r.MissingValues {
		fmt.Fprintf(&b, "  - %s: %d (%.2f%%)\n", m.Column, m.Count, m.Percent)
	}

	fmt.Fprintf(&b, "\nDuplicate Shipment IDs: %d\n", r.DuplicateShipmentIDs)

	b.WriteString("\nData Ranges:\n")
	if r.DateRange != nil {
		fmt.Fprintf(&b, "  - Date Range: %s to %s\n", r.DateRange.Start, r.DateRange.End)
	} else {
		b.WriteString("  - Date Range: n/a\n")
	}
	if r.Sales != nil {
		fmt.Fprintf(&b, "  - Sales Range: %.2f to %.2f\n", r.Sales.Min, r.Sales.Max)
		fmt.Fprintf(&b, "  - Avg Sales: %.2f\n", r.Sales.Mean)
		fmt.Fprintf(&b, "  - Median Sales: %.2f\n", r.Sales.Median)
		fmt.Fprintf(&b, "  - Sales Std Dev: %.2f\n", r.Sales.StdDev)
	} else {
		b.WriteString("  - Sales Range: n/a\n")
	}

	b.WriteString("\nStatus Distribution:\n")
	for _, s := range r.StatusDistribution {
		fmt.Fprintf(&b, "  - %s: %d (%.2f%%)\n", s.Status, s.Count, s.Percent)
	}

	if len(r.NumericColumns) > 0 {
		b.WriteString("\nNumeric Columns:\n")
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "  \tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
		for _, c := range r.NumericColumns {
			fmt.Fprintf(tw, "  %s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
				c.Column, c.Count, c.Mean, c.StdDev, c.Min, c.Q1, c.Median, c.Q3, c.Max)
		}
		tw.Flush()
	}

	fmt.Fprintf(&b, "\n%s\n\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}
