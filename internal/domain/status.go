package domain

import "strings"

// Size is a garment size token as it appears in the sheet header.
type Size string

const (
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// Sizes lists every recognised size in display order.
var Sizes = []Size{SizeS, SizeM, SizeL, SizeXL, SizeXXL}

var sizeTokens = map[string]Size{
	"S":   SizeS,
	"M":   SizeM,
	"L":   SizeL,
	"XL":  SizeXL,
	"XXL": SizeXXL,
}

// ParseSize returns the size for an exact header token.
func ParseSize(token string) (Size, bool) {
	size, ok := sizeTokens[token]

	return size, ok
}

// Metric is the quantity a sheet column encodes.
type Metric string

const (
	MetricStock Metric = "Stock"
	MetricIn    Metric = "In"
	MetricOut   Metric = "Out"
)

var metricLabels = map[string]Metric{
	"S":     MetricStock,
	"Stock": MetricStock,
	"In":    MetricIn,
	"Out":   MetricOut,
}

// ParseMetric resolves a metric header label. Matching is exact: "S" and
// "Stock" both mean stock.
func ParseMetric(label string) (Metric, bool) {
	metric, ok := metricLabels[label]

	return metric, ok
}

// ParseTrendMetric resolves the metric selector used by trend queries
// (case-insensitive). "sales" is an alias for Out.
func ParseTrendMetric(value string) (Metric, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "stock":
		return MetricStock, true
	case "sales", "out":
		return MetricOut, true
	case "in":
		return MetricIn, true
	}

	return "", false
}
