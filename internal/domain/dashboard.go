package domain

import (
	"fmt"
	"strings"
	"time"
)

// All is the filter value that disables a product or size predicate.
const All = "All"

// IsAll reports whether a filter value means "no restriction".
func IsAll(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, All)
}

// Criteria narrows a record set by product, size and an inclusive ISO date
// range. Empty bounds are open.
type Criteria struct {
	Product   string `json:"product"`
	Size      string `json:"size"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// NewCriteria validates and normalises user supplied filter values. Blank
// or "all" product/size become All, sizes are matched case-insensitively
// and stored canonical, dates must be YYYY-MM-DD with start <= end. Errors
// wrap ErrInvalidFilter.
func NewCriteria(product, size, startDate, endDate string) (Criteria, error) {
	criteria := Criteria{
		Product:   strings.TrimSpace(product),
		Size:      strings.TrimSpace(size),
		StartDate: strings.TrimSpace(startDate),
		EndDate:   strings.TrimSpace(endDate),
	}

	if IsAll(criteria.Product) {
		criteria.Product = All
	}
	if IsAll(criteria.Size) {
		criteria.Size = All
	} else {
		parsed, ok := ParseSize(strings.ToUpper(criteria.Size))
		if !ok {
			return criteria, fmt.Errorf("%w: unknown size %q", ErrInvalidFilter, criteria.Size)
		}
		criteria.Size = string(parsed)
	}

	for _, d := range []struct{ name, value string }{
		{"start_date", criteria.StartDate},
		{"end_date", criteria.EndDate},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d.value); err != nil {
			return criteria, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", ErrInvalidFilter, d.name, d.value)
		}
	}
	if criteria.StartDate != "" && criteria.EndDate != "" && criteria.StartDate > criteria.EndDate {
		return criteria, fmt.Errorf("%w: start_date is after end_date", ErrInvalidFilter)
	}

	return criteria, nil
}

// Totals is the summary card data.
type Totals struct {
	TotalStock          float64 `json:"total_stock"`
	TotalIn             float64 `json:"total_in"`
	TotalOut            float64 `json:"total_out"`
	NetMovement         float64 `json:"net_movement"`
	InvalidStockRecords int     `json:"invalid_stock_records"`
}

// TrendPoint holds one date of the per-size trend series.
type TrendPoint struct {
	Date   string           `json:"date"`
	Values map[Size]float64 `json:"values"`
	Total  float64          `json:"total"`
}

// MovementPoint holds the summed in/out movement of one date.
type MovementPoint struct {
	Date string  `json:"date"`
	In   float64 `json:"in"`
	Out  float64 `json:"out"`
}

// RankingEntry is one row of the top sellers table.
type RankingEntry struct {
	Rank    int     `json:"rank"`
	Product string  `json:"product"`
	Size    Size    `json:"size"`
	Sales   float64 `json:"sales"`
}

// ForecastPoint is one projected day.
type ForecastPoint struct {
	Date       string  `json:"date"`
	Stock      float64 `json:"stock"`
	Target     float64 `json:"target"`
	MinStock   float64 `json:"min_stock"`
	PastActual float64 `json:"past_actual"`
}

// Forecast is the stock depletion projection of a single product.
type Forecast struct {
	Product      string          `json:"product"`
	Size         string          `json:"size"`
	TargetDaily  float64         `json:"target_daily"`
	MinStock     float64         `json:"min_stock"`
	CurrentStock float64         `json:"current_stock"`
	StockDate    string          `json:"stock_date,omitempty"`
	Points       []ForecastPoint `json:"points"`
	StockOutDate *string         `json:"stock_out_date"`
	ReorderDate  *string         `json:"reorder_date"`
}

// DateRange is the min/max date present in a record set.
type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Dashboard aggregates every derived view for one filter.
type Dashboard struct {
	SnapshotID string          `json:"snapshot_id"`
	Today      string          `json:"today"`
	Criteria   Criteria        `json:"criteria"`
	Metric     Metric          `json:"metric"`
	Totals     Totals          `json:"totals"`
	Trend      []TrendPoint    `json:"trend"`
	Movement   []MovementPoint `json:"movement"`
	Ranking    []RankingEntry  `json:"ranking"`
	Forecast   *Forecast       `json:"forecast"`
	Products   []string        `json:"products"`
	DateRange  DateRange       `json:"date_range"`
}
