package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"logisticsprep/internal/config"
	"logisticsprep/pkg/contracts/domain"
)

func TestTransforms(t *testing.T) {
	parse := ParseDate(config.InputDateLayout)
	jan31 := domain.DateValue(time.Date(2022, time.January, 31, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		fn   TransformFunc
		in   domain.Value
		want domain.Value
	}{
		{"trim string", TrimSpace, domain.StringValue("  Ann Lee "), domain.StringValue("Ann Lee")},
		{"trim leaves numbers", TrimSpace, domain.IntValue(3), domain.IntValue(3)},
		{"trim keeps null", TrimSpace, domain.NullValue(), domain.NullValue()},
		{"date day first", parse, domain.StringValue("31/1/2022"), jan31},
		{"date padded", parse, domain.StringValue(" 31/01/2022 "), jan31},
		{"date month first is invalid", parse, domain.StringValue("1/31/2022"), domain.NullValue()},
		{"date garbage", parse, domain.StringValue("soon"), domain.NullValue()},
		{"date passthrough", parse, jan31, jan31},
		{"number integral", ToNumber, domain.StringValue("10"), domain.IntValue(10)},
		{"number decimal", ToNumber, domain.StringValue("2.5"), domain.FloatValue(2.5)},
		{"number negative", ToNumber, domain.StringValue("-4"), domain.IntValue(-4)},
		{"number thousands separator", ToNumber, domain.StringValue("1,200"), domain.NullValue()},
		{"number nan text", ToNumber, domain.StringValue("NaN"), domain.NullValue()},
		{"float from int text", ToFloat, domain.StringValue("5"), domain.FloatValue(5)},
		{"float garbage", ToFloat, domain.StringValue("n/a"), domain.NullValue()},
		{"fill null", FillNull(domain.StringValue("")), domain.NullValue(), domain.StringValue("")},
		{"fill keeps value", FillNull(domain.StringValue("")), domain.StringValue("a.png"), domain.StringValue("a.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.in)
			assert.Equal(t, tt.want.Kind(), got.Kind())
			if !tt.want.IsNull() {
				assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestApplyTransforms_CountsCoercions(t *testing.T) {
	source := domain.NewTable("product", domain.ProductColumns)
	source.AppendRow(domain.Row{domain.StringValue("Fudge"), domain.StringValue("Bars"), domain.StringValue("n/a")})
	source.AppendRow(domain.Row{domain.StringValue("Mint"), domain.NullValue(), domain.StringValue("5")})

	cleaned, coerced := applyTransforms(source, productTransforms)

	assert.Equal(t, map[string]int{domain.ColCostPerBox: 1}, coerced, "missing inputs are not coercions")
	assert.True(t, cleaned.Get(0, domain.ColCostPerBox).IsNull())
	assert.Equal(t, domain.StringValue("n/a"), source.Get(0, domain.ColCostPerBox), "source is untouched")
}

func TestDaysBetween(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2022, time.March, d, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, int64(15), daysBetween(day(1), day(16)))
	assert.Equal(t, int64(0), daysBetween(day(5), day(5)))
	assert.Equal(t, int64(-2), daysBetween(day(10), day(8)))
}

func TestCalendarHelpers(t *testing.T) {
	assert.Equal(t, "Jan", monthAbbrev(time.January))
	assert.Equal(t, "Sep", monthAbbrev(time.September))
	assert.Equal(t, int64(1), quarterOf(time.March))
	assert.Equal(t, int64(2), quarterOf(time.April))
	assert.Equal(t, int64(4), quarterOf(time.December))
}
