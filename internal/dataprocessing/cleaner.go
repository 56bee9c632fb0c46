package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"logisticsprep/internal/config"
	"logisticsprep/pkg/contracts/domain"
)

// CleanStats summarizes what a cleaner changed in one table
type CleanStats struct {
	Table       string
	InputRows   int
	OutputRows  int
	DroppedRows int
	// Coerced counts, per column, values that could not be parsed and were
	// replaced by a missing value
	Coerced map[string]int
}

// TotalCoerced sums coerced values over all columns
func (s CleanStats) TotalCoerced() int {
	total := 0
	for _, n := range s.Coerced {
		total += n
	}
	return total
}

// Per-entity cleaning rules. Each cleaner applies its table to a copy of
// the source; extending a rule means adding a row here.
var (
	salespersonTransforms = []ColumnTransform{
		{Column: domain.ColSalesPerson, Fn: TrimSpace},
		{Column: domain.ColTeam, Fn: TrimSpace},
		{Column: domain.ColPicture, Fn: FillNull(domain.StringValue(""))},
	}

	shipmentTransforms = []ColumnTransform{
		{Column: domain.ColDate, Fn: ParseDate(config.InputDateLayout)},
		{Column: domain.ColDeliveredOn, Fn: ParseDate(config.InputDateLayout)},
		{Column: domain.ColSalesPerson, Fn: TrimSpace},
		{Column: domain.ColGeography, Fn: TrimSpace},
		{Column: domain.ColProduct, Fn: TrimSpace},
		{Column: domain.ColStatus, Fn: TrimSpace},
		{Column: domain.ColSales, Fn: ToNumber},
	}

	countryTransforms = []ColumnTransform{
		{Column: domain.ColGeography, Fn: TrimSpace},
		{Column: domain.ColRegion, Fn: TrimSpace},
	}

	productTransforms = []ColumnTransform{
		{Column: domain.ColProduct, Fn: TrimSpace},
		{Column: domain.ColCategory, Fn: TrimSpace},
		{Column: domain.ColCostPerBox, Fn: ToFloat},
	}

	shipmentDerived = []DerivedColumn{
		{Column: domain.ColYear, Fn: dateField(domain.ColDate, func(d time.Time) domain.Value {
			return domain.IntValue(int64(d.Year()))
		})},
		{Column: domain.ColMonth, Fn: dateField(domain.ColDate, func(d time.Time) domain.Value {
			return domain.IntValue(int64(d.Month()))
		})},
		{Column: domain.ColMonthName, Fn: dateField(domain.ColDate, func(d time.Time) domain.Value {
			return domain.StringValue(monthAbbrev(d.Month()))
		})},
		{Column: domain.ColQuarter, Fn: dateField(domain.ColDate, func(d time.Time) domain.Value {
			return domain.IntValue(quarterOf(d.Month()))
		})},
		{Column: domain.ColWeekday, Fn: dateField(domain.ColDate, func(d time.Time) domain.Value {
			return domain.StringValue(d.Weekday().String())
		})},
		{Column: domain.ColWeek, Fn: dateField(domain.ColDate, func(d time.Time) domain.Value {
			_, week := d.ISOWeek()
			return domain.IntValue(int64(week))
		})},
		{Column: domain.ColDeliveryTime, Fn: deliveryTime},
		{Column: domain.ColIsLate, Fn: isLate},
		{Column: domain.ColIsActive, Fn: equalsLiteral(domain.ColStatus, domain.StatusActive)},
		{Column: domain.ColIsCompleted, Fn: equalsLiteral(domain.ColStatus, domain.StatusCompleted)},
		{Column: domain.ColIsReturned, Fn: equalsLiteral(domain.ColStatus, domain.StatusReturned)},
	}
)

// deliveryTime is the number of days between ship and delivery. A missing
// date on either side yields 0, so "not yet delivered" reads the same as
// "delivered the same day". Deliveries recorded before the ship date stay
// negative.
func deliveryTime(t *domain.Table, row int) domain.Value {
	shipped, okShip := t.Get(row, domain.ColDate).AsTime()
	delivered, okDelivered := t.Get(row, domain.ColDeliveredOn).AsTime()
	if !okShip || !okDelivered {
		return domain.IntValue(0)
	}
	return domain.IntValue(daysBetween(shipped, delivered))
}

func isLate(t *domain.Table, row int) domain.Value {
	days, ok := t.Get(row, domain.ColDeliveryTime).AsInt()
	return domain.BoolValue(ok && days > config.LateDeliveryThresholdDays)
}

// Cleaner normalizes the four entity tables. It never modifies its inputs.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a new cleaner
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// CleanSalespeople drops fully empty rows, trims names and teams and
// replaces missing picture references with an empty string
func (c *Cleaner) CleanSalespeople(ctx context.Context, source *domain.Table) (*domain.Table, CleanStats) {
	kept := domain.NewTable(source.Name, source.Columns)
	for _, row := range source.Rows {
		if !domain.IsEmptyRow(row) {
			kept.AppendRow(row)
		}
	}

	table, coerced := applyTransforms(kept, salespersonTransforms)
	return table, c.report(ctx, domain.EntitySalesperson, source, table, coerced)
}

// CleanShipments parses dates and quantities, trims categorical fields and
// derives calendar, delivery and status features
func (c *Cleaner) CleanShipments(ctx context.Context, source *domain.Table) (*domain.Table, CleanStats, error) {
	table, coerced := applyTransforms(source, shipmentTransforms)
	if err := applyDerived(table, shipmentDerived); err != nil {
		return nil, CleanStats{}, fmt.Errorf("derive shipment features: %w", err)
	}
	return table, c.report(ctx, domain.EntityShipment, source, table, coerced), nil
}

// CleanCountries trims geography and region names
func (c *Cleaner) CleanCountries(ctx context.Context, source *domain.Table) (*domain.Table, CleanStats) {
	table, coerced := applyTransforms(source, countryTransforms)
	return table, c.report(ctx, domain.EntityCountry, source, table, coerced)
}

// CleanProducts trims product and category names and makes the unit cost numeric
func (c *Cleaner) CleanProducts(ctx context.Context, source *domain.Table) (*domain.Table, CleanStats) {
	table, coerced := applyTransforms(source, productTransforms)
	return table, c.report(ctx, domain.EntityProduct, source, table, coerced)
}

// CleanAll cleans the four sources. The cleaners share no state, so they
// run concurrently and each writes its own slot.
func (c *Cleaner) CleanAll(ctx context.Context, raw domain.Sources) (domain.Sources, []CleanStats, error) {
	if !raw.Complete() {
		return domain.Sources{}, nil, fmt.Errorf("cleaning requires all four source tables")
	}

	var (
		cleaned domain.Sources
		stats   = make([]CleanStats, 4)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cleaned.Salespeople, stats[0] = c.CleanSalespeople(gctx, raw.Salespeople)
		return nil
	})
	g.Go(func() (err error) {
		cleaned.Shipments, stats[1], err = c.CleanShipments(gctx, raw.Shipments)
		return err
	})
	g.Go(func() error {
		cleaned.Countries, stats[2] = c.CleanCountries(gctx, raw.Countries)
		return nil
	})
	g.Go(func() error {
		cleaned.Products, stats[3] = c.CleanProducts(gctx, raw.Products)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Sources{}, nil, err
	}
	return cleaned, stats, nil
}

func (c *Cleaner) report(ctx context.Context, name string, source, cleaned *domain.Table, coerced map[string]int) CleanStats {
	stats := CleanStats{
		Table:       name,
		InputRows:   source.Len(),
		OutputRows:  cleaned.Len(),
		DroppedRows: source.Len() - cleaned.Len(),
		Coerced:     coerced,
	}

	c.logger.InfoContext(ctx, "table cleaned",
		slog.String("table", name),
		slog.Int("input_rows", stats.InputRows),
		slog.Int("output_rows", stats.OutputRows),
		slog.Int("dropped_rows", stats.DroppedRows))

	columns := make([]string, 0, len(coerced))
	for col := range coerced {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	for _, col := range columns {
		c.logger.WarnContext(ctx, "unparseable values replaced with missing",
			slog.String("table", name),
			slog.String("column", col),
			slog.Int("count", coerced[col]))
	}

	return stats
}
