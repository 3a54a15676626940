package analytics

import (
	"sort"
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
)

const isoDate = "2006-01-02"

// cell accumulates one product/size on one date.
type cell struct {
	stock *float64
	sum   float64
}

// ComputeTrend buckets records by date and reports, per size, the selected
// metric: the last known stock of the day (0 if none) for Stock, the sum
// for In and Out. With a specific product only that product contributes;
// with "All" the values of every product are added up per size. Records
// dated after today are left out. Points are in ascending date order.
func ComputeTrend(records []domain.InventoryRecord, product string, metric domain.Metric, today time.Time) []domain.TrendPoint {
	cutoff := today.Format(isoDate)
	allProducts := domain.IsAll(product)

	buckets := make(map[string]map[domain.ProductKey]*cell)
	for _, r := range records {
		if r.Date > cutoff {
			continue
		}
		if !allProducts && r.Product != product {
			continue
		}

		day, ok := buckets[r.Date]
		if !ok {
			day = make(map[domain.ProductKey]*cell)
			buckets[r.Date] = day
		}
		c, ok := day[r.Key()]
		if !ok {
			c = &cell{}
			day[r.Key()] = c
		}

		switch metric {
		case domain.MetricStock:
			if r.Stock != nil {
				v := *r.Stock
				c.stock = &v
			}
		case domain.MetricIn:
			c.sum += r.In
		default:
			c.sum += r.Out
		}
	}

	points := make([]domain.TrendPoint, 0, len(buckets))
	for _, date := range sortedKeys(buckets) {
		point := domain.TrendPoint{Date: date, Values: make(map[domain.Size]float64)}
		for key, c := range buckets[date] {
			v := c.sum
			if metric == domain.MetricStock {
				v = 0
				if c.stock != nil {
					v = *c.stock
				}
			}
			point.Values[key.Size] += v
		}
		for _, size := range domain.Sizes {
			point.Total += point.Values[size]
		}
		points = append(points, point)
	}

	return points
}

// ComputeMovement sums in and out per date, leaving out records dated
// after today. Points are in ascending date order.
func ComputeMovement(records []domain.InventoryRecord, today time.Time) []domain.MovementPoint {
	cutoff := today.Format(isoDate)

	buckets := make(map[string]*domain.MovementPoint)
	for _, r := range records {
		if r.Date > cutoff {
			continue
		}
		p, ok := buckets[r.Date]
		if !ok {
			p = &domain.MovementPoint{Date: r.Date}
			buckets[r.Date] = p
		}
		p.In += r.In
		p.Out += r.Out
	}

	points := make([]domain.MovementPoint, 0, len(buckets))
	for _, date := range sortedKeys(buckets) {
		points = append(points, *buckets[date])
	}
	return points
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
