package analytics

import (
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
)

// DefaultForecastDays is the projection horizon; the projection has one
// point per day from today up to and including today+DefaultForecastDays.
const DefaultForecastDays = 30

// ComputeForecast projects the stock of one product forward from today at
// its configured daily sales target. It returns nil when product is "All".
func ComputeForecast(records []domain.InventoryRecord, metadata domain.MetadataIndex, product, size string, today time.Time) *domain.Forecast {
	return computeForecast(records, metadata, product, size, today, DefaultForecastDays)
}

func computeForecast(records []domain.InventoryRecord, metadata domain.MetadataIndex, product, size string, today time.Time, days int) *domain.Forecast {
	if domain.IsAll(product) {
		return nil
	}
	if days < 0 {
		days = DefaultForecastDays
	}

	meta := metadata.Resolve(product, size)
	today = startOfDay(today)
	cutoff := today.Format(isoDate)

	var (
		maxDate   string
		current   float64
		pastSales = make(map[string]float64)
	)
	for _, r := range records {
		if r.Product != product || (!domain.IsAll(size) && string(r.Size) != size) {
			continue
		}

		if r.Date <= cutoff {
			pastSales[r.Date] += r.Out
		}

		if r.Date > maxDate {
			maxDate = r.Date
			current = 0
		}
		if r.Date == maxDate && r.Stock != nil {
			current += *r.Stock
		}
	}

	fc := &domain.Forecast{
		Product:      product,
		Size:         sizeLabel(size),
		TargetDaily:  meta.TargetSalesDaily,
		MinStock:     meta.MinStock,
		CurrentStock: current,
		StockDate:    maxDate,
		Points:       make([]domain.ForecastPoint, 0, days+1),
	}

	running := current
	for i := 0; i <= days; i++ {
		day := today.AddDate(0, 0, i)
		date := day.Format(isoDate)

		point := domain.ForecastPoint{
			Date:       date,
			Stock:      max(0, running),
			Target:     meta.TargetSalesDaily,
			MinStock:   meta.MinStock,
			PastActual: pastSales[day.AddDate(0, -1, 0).Format(isoDate)],
		}
		fc.Points = append(fc.Points, point)

		if fc.StockOutDate == nil && point.Stock <= 0 {
			fc.StockOutDate = &point.Date
		}
		if fc.ReorderDate == nil && meta.MinStock > 0 && point.Stock <= meta.MinStock {
			fc.ReorderDate = &point.Date
		}

		running -= meta.TargetSalesDaily
	}

	return fc
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sizeLabel(size string) string {
	if domain.IsAll(size) {
		return domain.All
	}
	return size
}
