package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"logisticsprep/pkg/contracts/domain"
)

// Reducer folds the values of one group into a single measure
type Reducer func(values []domain.Value) domain.Value

// Sum adds the non-missing values. The result stays an Int while every
// input is an Int; an empty group sums to 0.
func Sum(values []domain.Value) domain.Value {
	var (
		ints   int64
		floats float64
		isInt  = true
	)
	for _, v := range values {
		switch v.Kind() {
		case domain.KindInt:
			n, _ := v.AsInt()
			ints += n
		case domain.KindFloat:
			f, _ := v.AsFloat()
			floats += f
			isInt = false
		}
	}
	if isInt {
		return domain.IntValue(ints)
	}
	return domain.FloatValue(float64(ints) + floats)
}

// Count counts the non-missing values
func Count(values []domain.Value) domain.Value {
	var n int64
	for _, v := range values {
		if !v.IsNull() {
			n++
		}
	}
	return domain.IntValue(n)
}

// Mean averages the non-missing numeric values; an empty group has no mean
func Mean(values []domain.Value) domain.Value {
	var (
		total float64
		n     int
	)
	for _, v := range values {
		if f, ok := v.AsFloat(); ok {
			total += f
			n++
		}
	}
	if n == 0 {
		return domain.NullValue()
	}
	return domain.FloatValue(total / float64(n))
}

// CountTrue counts true flags
func CountTrue(values []domain.Value) domain.Value {
	var n int64
	for _, v := range values {
		if b, ok := v.AsBool(); ok && b {
			n++
		}
	}
	return domain.IntValue(n)
}

// Measure is one output column of an aggregate
type Measure struct {
	Column string
	Source string
	Reduce Reducer
}

type aggregateSpec struct {
	name     string
	keys     []string
	measures []Measure
}

var (
	totalSales      = Measure{Column: domain.ColTotalSales, Source: domain.ColSales, Reduce: Sum}
	totalRevenue    = Measure{Column: domain.ColTotalRevenue, Source: domain.ColRevenue, Reduce: Sum}
	totalProfit     = Measure{Column: domain.ColTotalProfit, Source: domain.ColProfit, Reduce: Sum}
	shipmentCount   = Measure{Column: domain.ColShipmentCount, Source: domain.ColShipmentID, Reduce: Count}
	avgDeliveryTime = Measure{Column: domain.ColAvgDeliveryTime, Source: domain.ColDeliveryTime, Reduce: Mean}
	completedCount  = Measure{Column: domain.ColCompletedCount, Source: domain.ColIsCompleted, Reduce: CountTrue}
)

var aggregateSpecs = []aggregateSpec{
	{
		name:     domain.AggregateMonthly,
		keys:     []string{domain.ColYear, domain.ColMonth, domain.ColMonthName},
		measures: []Measure{totalSales, totalRevenue, totalProfit, shipmentCount, avgDeliveryTime},
	},
	{
		name:     domain.AggregateSalesperson,
		keys:     []string{domain.ColSalesPerson, domain.ColTeam},
		measures: []Measure{totalSales, totalRevenue, shipmentCount, avgDeliveryTime, completedCount},
	},
	{
		name:     domain.AggregateGeography,
		keys:     []string{domain.ColGeography, domain.ColRegion},
		measures: []Measure{totalSales, totalRevenue, shipmentCount, avgDeliveryTime},
	},
	{
		name:     domain.AggregateProduct,
		keys:     []string{domain.ColProduct, domain.ColCategory},
		measures: []Measure{totalSales, totalRevenue, shipmentCount, avgDeliveryTime},
	},
	{
		name:     domain.AggregateStatus,
		keys:     []string{domain.ColStatus},
		measures: []Measure{shipmentCount, totalSales, totalRevenue},
	},
}

type group struct {
	key  domain.Row
	rows []int
}

// GroupBy partitions table by keys and reduces each group with measures.
// Groups are sorted by their key values and rows with any missing key are
// left out.
func GroupBy(table *domain.Table, name string, keys []string, measures []Measure) (*domain.Table, error) {
	required := append([]string(nil), keys...)
	for _, m := range measures {
		required = append(required, m.Source)
	}
	if missing := table.RequireColumns(required...); len(missing) > 0 {
		return nil, fmt.Errorf("aggregate %s: missing columns %v", name, missing)
	}

	index := make(map[string]int)
	var groups []*group
	for r := range table.Rows {
		keyRow := make(domain.Row, len(keys))
		for i, k := range keys {
			keyRow[i] = table.Get(r, k)
		}
		k, ok := domain.KeyOf(keyRow...)
		if !ok {
			continue
		}
		gi, seen := index[k]
		if !seen {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, &group{key: keyRow})
		}
		groups[gi].rows = append(groups[gi].rows, r)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		for i := range keys {
			if c := groups[a].key[i].Compare(groups[b].key[i]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	columns := append([]string(nil), keys...)
	for _, m := range measures {
		columns = append(columns, m.Column)
	}
	out := domain.NewTable(name, columns)

	for _, g := range groups {
		row := append(make(domain.Row, 0, len(columns)), g.key...)
		for _, m := range measures {
			values := make([]domain.Value, len(g.rows))
			for i, r := range g.rows {
				values[i] = table.Get(r, m.Source)
			}
			row = append(row, m.Reduce(values))
		}
		out.AppendRow(row)
	}

	return out, nil
}

// Aggregator builds the summary tables used by the report
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate builds the monthly, salesperson, geography, product and status
// summaries from the master table
func (a *Aggregator) Aggregate(ctx context.Context, master *domain.Table) (domain.Aggregates, error) {
	if master == nil {
		return domain.Aggregates{}, fmt.Errorf("aggregate: master table is nil")
	}

	tables := make(map[string]*domain.Table, len(aggregateSpecs))
	for _, spec := range aggregateSpecs {
		table, err := GroupBy(master, spec.name, spec.keys, spec.measures)
		if err != nil {
			return domain.Aggregates{}, err
		}
		tables[spec.name] = table

		a.logger.DebugContext(ctx, "aggregate built",
			slog.String("aggregate", spec.name),
			slog.Int("groups", table.Len()))
	}

	return domain.Aggregates{
		Monthly:     tables[domain.AggregateMonthly],
		Salesperson: tables[domain.AggregateSalesperson],
		Geography:   tables[domain.AggregateGeography],
		Product:     tables[domain.AggregateProduct],
		Status:      tables[domain.AggregateStatus],
	}, nil
}
