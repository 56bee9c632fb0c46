package validation

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsprep/pkg/contracts/domain"
)

func date(y int, m time.Month, d int) domain.Value {
	return domain.DateValue(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func sampleMaster() *domain.Table {
	t := domain.NewTable(domain.EntityMaster, []string{
		domain.ColShipmentID, domain.ColDate, domain.ColSales, domain.ColStatus, domain.ColRegion,
	})
	s := domain.StringValue
	t.AppendRow(domain.Row{s("SH1"), date(2022, 1, 4), domain.IntValue(10), s("Completed"), s("APAC")})
	t.AppendRow(domain.Row{s("SH2"), date(2021, 12, 30), domain.IntValue(4), s("Active"), domain.NullValue()})
	t.AppendRow(domain.Row{s("SH1"), date(2022, 3, 1), domain.FloatValue(7.5), s("Completed"), s("APAC")})
	t.AppendRow(domain.Row{s("SH3"), domain.NullValue(), domain.NullValue(), s("Returned"), domain.NullValue()})
	t.AppendRow(domain.Row{s("SH4"), date(2022, 2, 1), domain.IntValue(2), domain.NullValue(), s("Europe")})
	return t
}

func TestQualityValidator_Validate(t *testing.T) {
	report := NewQualityValidator(nil).Validate(context.Background(), sampleMaster())

	assert.Equal(t, 5, report.TotalRows)
	assert.Equal(t, 5, report.TotalColumns)
	assert.Equal(t, 1, report.DuplicateShipmentIDs)

	assert.Equal(t, []ColumnMissing{
		{Column: domain.ColDate, Count: 1, Percent: 20},
		{Column: domain.ColSales, Count: 1, Percent: 20},
		{Column: domain.ColStatus, Count: 1, Percent: 20},
		{Column: domain.ColRegion, Count: 2, Percent: 40},
	}, report.MissingValues, "columns keep table order and complete columns are omitted")

	require.NotNil(t, report.DateRange)
	assert.Equal(t, "2021-12-30", report.DateRange.Start)
	assert.Equal(t, "2022-03-01", report.DateRange.End)

	require.NotNil(t, report.Sales)
	assert.Equal(t, 4, report.Sales.Count)
	assert.InDelta(t, 2.0, report.Sales.Min, 1e-9)
	assert.InDelta(t, 10.0, report.Sales.Max, 1e-9)
	assert.InDelta(t, 5.875, report.Sales.Mean, 1e-9)
	assert.InDelta(t, 4.0, report.Sales.Median, 1e-9)
	assert.InDelta(t, 2.0, report.Sales.Q1, 1e-9)
	assert.InDelta(t, 7.5, report.Sales.Q3, 1e-9)
	assert.InDelta(t, 3.5678, report.Sales.StdDev, 1e-4)
}

func TestQualityValidator_NumericColumns(t *testing.T) {
	master := sampleMaster()
	require.NoError(t, master.SetColumn(domain.ColRevenue, []domain.Value{
		domain.FloatValue(50), domain.FloatValue(20), domain.NullValue(), domain.NullValue(), domain.FloatValue(10),
	}))
	require.NoError(t, master.SetColumn(domain.ColMonthName, []domain.Value{
		domain.StringValue("Jan"), domain.StringValue("Dec"), domain.StringValue("Mar"), domain.NullValue(), domain.StringValue("Feb"),
	}))

	report := NewQualityValidator(nil).Validate(context.Background(), master)

	require.Len(t, report.NumericColumns, 2, "text and date columns are not summarized")
	assert.Equal(t, domain.ColSales, report.NumericColumns[0].Column)
	assert.Equal(t, *report.Sales, report.NumericColumns[0].SummaryStats)

	revenue := report.NumericColumns[1]
	assert.Equal(t, domain.ColRevenue, revenue.Column)
	assert.Equal(t, 3, revenue.Count)
	assert.InDelta(t, 10.0, revenue.Min, 1e-9)
	assert.InDelta(t, 50.0, revenue.Max, 1e-9)
	assert.InDelta(t, 26.6667, revenue.Mean, 1e-4)
}

func TestQualityValidator_StatusDistribution(t *testing.T) {
	report := NewQualityValidator(nil).Validate(context.Background(), sampleMaster())

	require.Len(t, report.StatusDistribution, 3)
	assert.Equal(t, "Completed", report.StatusDistribution[0].Status)
	assert.Equal(t, 2, report.StatusDistribution[0].Count)
	assert.Equal(t, "Active", report.StatusDistribution[1].Status, "ties are ordered by name")
	assert.Equal(t, "Returned", report.StatusDistribution[2].Status)

	var total float64
	for _, s := range report.StatusDistribution {
		total += s.Percent
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestQualityValidator_DuplicateCount(t *testing.T) {
	tests := []struct {
		name   string
		values []domain.Value
		want   int
	}{
		{"unique", []domain.Value{domain.StringValue("a"), domain.StringValue("b")}, 0},
		{"repeat counted once per extra row", []domain.Value{domain.StringValue("a"), domain.StringValue("a"), domain.StringValue("a")}, 2},
		{"missing ids repeat each other", []domain.Value{domain.NullValue(), domain.StringValue("a"), domain.NullValue()}, 1},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, duplicateCount(tt.values))
		})
	}
}

func TestQualityValidator_EmptyMaster(t *testing.T) {
	empty := domain.NewTable(domain.EntityMaster, []string{domain.ColShipmentID, domain.ColDate, domain.ColSales, domain.ColStatus})

	report := NewQualityValidator(nil).Validate(context.Background(), empty)

	assert.Equal(t, 0, report.TotalRows)
	assert.Empty(t, report.MissingValues)
	assert.Nil(t, report.DateRange)
	assert.Nil(t, report.Sales)
	assert.Empty(t, report.StatusDistribution)

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf))
	assert.Contains(t, buf.String(), "No missing values")
	assert.Contains(t, buf.String(), "Date Range: n/a")
}

func TestQualityReport_Render(t *testing.T) {
	report := NewQualityValidator(nil).Validate(context.Background(), sampleMaster())

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "DATA QUALITY REPORT")
	assert.Contains(t, out, "Total Records: 5")
	assert.Contains(t, out, "  - Region: 2 (40.00%)")
	assert.Contains(t, out, "Duplicate Shipment IDs: 1")
	assert.Contains(t, out, "Date Range: 2021-12-30 to 2022-03-01")
	assert.Contains(t, out, "Sales Range: 2.00 to 10.00")
	assert.Contains(t, out, "Sales Std Dev: 3.57")
	assert.Contains(t, out, "Numeric Columns:")
	assert.Regexp(t, `count\s+mean\s+std\s+min\s+25%\s+50%\s+75%\s+max`, out)
	assert.Regexp(t, `Sales\s+4\s+5\.88\s+3\.57\s+2\.00\s+2\.00\s+4\.00\s+7\.50\s+10\.00`, out)
	assert.Contains(t, out, "  - Completed: 2 (50.00%)")
}
