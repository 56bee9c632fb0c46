package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"logisticsprep/internal/config"
	"logisticsprep/pkg/contracts/domain"
)

const (
	leftSuffix  = "_x"
	rightSuffix = "_y"
)

// JoinStats reports how well each dimension matched the shipments
type JoinStats struct {
	Rows int
	// Unmatched counts shipments without a partner, per dimension
	Unmatched map[string]int
	// Duplicates counts dimension rows ignored because an earlier row had
	// the same key
	Duplicates map[string]int
}

// JoinResult is the outcome of a single left join
type JoinResult struct {
	Table      *domain.Table
	Unmatched  int
	Duplicates int
}

// LeftJoin keeps every row of left, in order, and appends the columns of
// right for the first right row whose key equals the left key. Rows
// without a partner get Null in the appended columns, and Null keys never
// match. Non-key columns present on both sides are suffixed with _x and _y.
func LeftJoin(left, right *domain.Table, key string) (JoinResult, error) {
	leftKey, ok := left.ColumnIndex(key)
	if !ok {
		return JoinResult{}, fmt.Errorf("left table %q has no column %q", left.Name, key)
	}
	rightKey, ok := right.ColumnIndex(key)
	if !ok {
		return JoinResult{}, fmt.Errorf("right table %q has no column %q", right.Name, key)
	}

	leftNames := make(map[string]bool, len(left.Columns))
	for _, c := range left.Columns {
		leftNames[c] = true
	}
	rightNames := make(map[string]bool, len(right.Columns))
	for _, c := range right.Columns {
		rightNames[c] = true
	}

	columns := make([]string, 0, len(left.Columns)+len(right.Columns)-1)
	for _, c := range left.Columns {
		if c != key && rightNames[c] {
			c += leftSuffix
		}
		columns = append(columns, c)
	}
	rightCols := make([]int, 0, len(right.Columns)-1)
	for i, c := range right.Columns {
		if i == rightKey {
			continue
		}
		if leftNames[c] {
			c += rightSuffix
		}
		columns = append(columns, c)
		rightCols = append(rightCols, i)
	}

	result := JoinResult{}
	lookup := make(map[string]domain.Row, right.Len())
	for _, row := range right.Rows {
		k, ok := domain.KeyOf(row[rightKey])
		if !ok {
			continue
		}
		if _, seen := lookup[k]; seen {
			result.Duplicates++
			continue
		}
		lookup[k] = row
	}

	joined := domain.NewTable(left.Name, columns)
	joined.Rows = make([]domain.Row, 0, left.Len())
	for _, row := range left.Rows {
		out := make(domain.Row, 0, len(columns))
		out = append(out, row...)

		var match domain.Row
		if k, ok := domain.KeyOf(row[leftKey]); ok {
			match = lookup[k]
		}
		if match == nil {
			result.Unmatched++
		}
		for _, i := range rightCols {
			if match == nil {
				out = append(out, domain.NullValue())
				continue
			}
			out = append(out, match[i])
		}
		joined.AppendRow(out)
	}

	result.Table = joined
	return result, nil
}

// dimension describes one many-to-one join onto the shipments
type dimension struct {
	name  string
	key   string
	table *domain.Table
}

// Joiner builds the master table
type Joiner struct {
	logger *slog.Logger
}

// NewJoiner creates a new joiner
func NewJoiner(logger *slog.Logger) *Joiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Joiner{logger: logger}
}

// BuildMaster joins salespeople, countries and products onto the cleaned
// shipments and adds Revenue and Profit. The result has exactly one row per
// shipment.
func (j *Joiner) BuildMaster(ctx context.Context, cleaned domain.Sources) (*domain.Table, JoinStats, error) {
	if !cleaned.Complete() {
		return nil, JoinStats{}, fmt.Errorf("joining requires all four source tables")
	}

	stats := JoinStats{
		Unmatched:  make(map[string]int, 3),
		Duplicates: make(map[string]int, 3),
	}

	dims := []dimension{
		{name: domain.EntitySalesperson, key: domain.ColSalesPerson, table: cleaned.Salespeople},
		{name: domain.EntityCountry, key: domain.ColGeography, table: cleaned.Countries},
		{name: domain.EntityProduct, key: domain.ColProduct, table: cleaned.Products},
	}

	master := cleaned.Shipments
	for _, dim := range dims {
		res, err := LeftJoin(master, dim.table, dim.key)
		if err != nil {
			return nil, JoinStats{}, fmt.Errorf("join %s on %q: %w", dim.name, dim.key, err)
		}
		master = res.Table
		stats.Unmatched[dim.name] = res.Unmatched
		stats.Duplicates[dim.name] = res.Duplicates

		if res.Duplicates > 0 {
			j.logger.WarnContext(ctx, "duplicate dimension keys ignored",
				slog.String("dimension", dim.name),
				slog.String("key", dim.key),
				slog.Int("duplicates", res.Duplicates))
		}
		if res.Unmatched > 0 {
			j.logger.WarnContext(ctx, "shipments without a matching dimension row",
				slog.String("dimension", dim.name),
				slog.Int("unmatched", res.Unmatched))
		}
	}

	master.Name = domain.EntityMaster
	if err := addFinancials(master); err != nil {
		return nil, JoinStats{}, fmt.Errorf("derive financials: %w", err)
	}

	stats.Rows = master.Len()
	j.logger.InfoContext(ctx, "master dataset built",
		slog.Int("rows", stats.Rows),
		slog.Int("columns", len(master.Columns)))

	return master, stats, nil
}

func addFinancials(master *domain.Table) error {
	return applyDerived(master, []DerivedColumn{
		{Column: domain.ColRevenue, Fn: func(t *domain.Table, row int) domain.Value {
			return multiply(t.Get(row, domain.ColSales), t.Get(row, domain.ColCostPerBox))
		}},
		{Column: domain.ColProfit, Fn: func(t *domain.Table, row int) domain.Value {
			return multiply(t.Get(row, domain.ColRevenue), domain.FloatValue(config.ProfitMargin))
		}},
	})
}

// multiply returns a*b as a Float, or Null when either side is missing
func multiply(a, b domain.Value) domain.Value {
	x, okA := a.AsFloat()
	y, okB := b.AsFloat()
	if !okA || !okB {
		return domain.NullValue()
	}
	return domain.FloatValue(x * y)
}
