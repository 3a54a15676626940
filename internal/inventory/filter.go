package inventory

import (
	"strings"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
)

// Filter returns the records matching criteria, preserving input order.
// "All" or empty product/size values and empty date bounds apply no
// restriction. Date bounds are inclusive and compared as ISO strings.
func Filter(records []domain.InventoryRecord, criteria domain.Criteria) []domain.InventoryRecord {
	product := strings.TrimSpace(criteria.Product)
	size := strings.TrimSpace(criteria.Size)
	anyProduct := domain.IsAll(product)
	anySize := domain.IsAll(size)

	out := make([]domain.InventoryRecord, 0, len(records))
	for _, r := range records {
		if !anyProduct && r.Product != product {
			continue
		}
		if !anySize && string(r.Size) != size {
			continue
		}
		if criteria.StartDate != "" && r.Date < criteria.StartDate {
			continue
		}
		if criteria.EndDate != "" && r.Date > criteria.EndDate {
			continue
		}
		out = append(out, r)
	}

	return out
}

// Products lists the distinct product names in first-appearance order.
func Products(records []domain.InventoryRecord) []string {
	seen := make(map[string]struct{})
	products := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Product]; ok {
			continue
		}
		seen[r.Product] = struct{}{}
		products = append(products, r.Product)
	}
	return products
}

// DateRangeOf returns the smallest and largest date in records. Both are
// empty when records is empty.
func DateRangeOf(records []domain.InventoryRecord) domain.DateRange {
	var dr domain.DateRange
	for _, r := range records {
		if dr.Min == "" || r.Date < dr.Min {
			dr.Min = r.Date
		}
		if dr.Max == "" || r.Date > dr.Max {
			dr.Max = r.Date
		}
	}
	return dr
}
