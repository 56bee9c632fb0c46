package exporter

import (
	"math"
	"strconv"
	"strings"

	"logisticsprep/internal/config"
	"logisticsprep/pkg/contracts/domain"
)

// FormatValue renders a cell for CSV output. Missing values are empty.
func FormatValue(v domain.Value) string {
	switch v.Kind() {
	case domain.KindString:
		s, _ := v.AsString()
		return s
	case domain.KindInt:
		i, _ := v.AsInt()
		return formatInt(i)
	case domain.KindFloat:
		f, _ := v.AsFloat()
		return formatFloat(f)
	case domain.KindBool:
		b, _ := v.AsBool()
		return formatBool(b)
	case domain.KindDate:
		t, _ := v.AsTime()
		return t.Format(config.OutputDateLayout)
	}
	return ""
}

// FormatRow renders every cell of a row
func FormatRow(row domain.Row) []string {
	record := make([]string, len(row))
	for i, v := range row {
		record[i] = FormatValue(v)
	}
	return record
}

// formatFloat uses the shortest representation that round-trips and keeps
// a trailing .0 on whole numbers so the column still reads as decimal
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool matches the capitalized literals Power BI infers as booleans
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
