package parser

import (
	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/rs/zerolog/log"
)

// rowPlan precomputes, for a set of bindings, the distinct product/size
// keys in first-binding order and the key slot each binding writes to.
type rowPlan struct {
	keys  []domain.ProductKey
	slots []int
}

func newRowPlan(bindings []domain.HeaderBinding) rowPlan {
	plan := rowPlan{slots: make([]int, len(bindings))}
	index := make(map[domain.ProductKey]int)
	for i, b := range bindings {
		key := domain.ProductKey{Product: b.Product, Size: b.Size}
		slot, ok := index[key]
		if !ok {
			slot = len(plan.keys)
			index[key] = slot
			plan.keys = append(plan.keys, key)
		}
		plan.slots[i] = slot
	}
	return plan
}

// Parse decodes a full grid: two header rows followed by data rows. It
// fails only when the header structure is unusable.
func Parse(grid domain.Grid) ([]domain.InventoryRecord, error) {
	bindings, err := MapHeaders(grid)
	if err != nil {
		return nil, err
	}

	records := DecodeRows(bindings, grid[2:])

	log.Debug().
		Int("bindings", len(bindings)).
		Int("data_rows", len(grid)-2).
		Int("records", len(records)).
		Msg("parser: grid decoded")

	return records, nil
}

// DecodeRows builds one record per product/size per dated row. Rows without
// a valid date in column 0 are skipped. Cell problems are recorded on the
// record, never returned as errors.
func DecodeRows(bindings []domain.HeaderBinding, rows domain.Grid) []domain.InventoryRecord {
	plan := newRowPlan(bindings)

	records := make([]domain.InventoryRecord, 0, len(rows)*len(plan.keys))
	for _, row := range rows {
		date, ok := ParseDate(cellString(row, 0))
		if !ok {
			continue
		}

		pending := make([]domain.InventoryRecord, len(plan.keys))
		for i, key := range plan.keys {
			pending[i] = domain.InventoryRecord{
				Date:       date,
				Product:    key.Product,
				Size:       key.Size,
				ValidStock: true,
			}
		}

		for i, b := range bindings {
			applyMetric(&pending[plan.slots[i]], b.Metric, cellString(row, b.ColumnIndex))
		}

		records = append(records, pending...)
	}

	return records
}

func applyMetric(rec *domain.InventoryRecord, metric domain.Metric, raw string) {
	switch metric {
	case domain.MetricStock:
		if isBlank(raw) {
			rec.Stock = nil
			return
		}
		v, ok := parseNumber(raw)
		if !ok || v < 0 {
			rec.Stock = nil
			rec.ValidStock = false
			return
		}
		rec.Stock = &v
	case domain.MetricIn:
		rec.In = numberOrZero(raw)
	case domain.MetricOut:
		rec.Out = numberOrZero(raw)
	}
}

func numberOrZero(raw string) float64 {
	if v, ok := parseNumber(raw); ok {
		return v
	}
	return 0
}
