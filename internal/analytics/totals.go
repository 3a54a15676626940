package analytics

import "github.com/andresuchdata/inventory-dashboard/internal/domain"

// ComputeTotals sums in and out over records and adds up, per product/size,
// the stock of its latest record with a known stock level. When several
// records of a key share the latest date the one appearing last wins.
func ComputeTotals(records []domain.InventoryRecord) domain.Totals {
	type latest struct {
		date  string
		stock float64
	}

	var (
		totals domain.Totals
		order  []domain.ProductKey
		stocks = make(map[domain.ProductKey]latest)
	)
	for _, r := range records {
		totals.TotalIn += r.In
		totals.TotalOut += r.Out
		if !r.ValidStock {
			totals.InvalidStockRecords++
		}
		if r.Stock == nil {
			continue
		}

		key := r.Key()
		cur, ok := stocks[key]
		if !ok {
			order = append(order, key)
		}
		if !ok || r.Date >= cur.date {
			stocks[key] = latest{date: r.Date, stock: *r.Stock}
		}
	}

	for _, key := range order {
		totals.TotalStock += stocks[key].stock
	}
	totals.NetMovement = totals.TotalIn - totals.TotalOut

	return totals
}
