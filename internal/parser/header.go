package parser

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
)

// headerState is the product/size carried left to right across header
// columns; merged header cells leave the following columns blank.
type headerState struct {
	product string
	size    domain.Size
}

// advance folds one product/size label into the state.
func (s headerState) advance(label string) headerState {
	label = strings.TrimSpace(label)
	if label == "" {
		return s
	}

	parts := strings.Fields(label)
	if size, ok := domain.ParseSize(parts[len(parts)-1]); ok {
		s.size = size
		if len(parts) > 1 {
			s.product = strings.Join(parts[:len(parts)-1], " ")
		}
		return s
	}

	if size, ok := domain.ParseSize(label); ok {
		s.size = size
	}
	return s
}

func (s headerState) complete() bool {
	return s.product != "" && s.size != ""
}

// MapHeaders scans the two header rows of grid and returns one binding per
// column that resolves to a product, a size and a metric. Column 0 holds
// the date and is never bound.
func MapHeaders(grid domain.Grid) ([]domain.HeaderBinding, error) {
	if len(grid) < 2 {
		return nil, fmt.Errorf("%w: missing headers", domain.ErrInvalidSheetFormat)
	}

	labels, metrics := grid[0], grid[1]

	var (
		state    headerState
		bindings []domain.HeaderBinding
	)
	for i := 1; i < len(metrics); i++ {
		state = state.advance(cellString(labels, i))

		metric, ok := domain.ParseMetric(strings.TrimSpace(cellString(metrics, i)))
		if !ok || !state.complete() {
			continue
		}

		bindings = append(bindings, domain.HeaderBinding{
			Product:     state.product,
			Size:        state.size,
			Metric:      metric,
			ColumnIndex: i,
		})
	}

	if len(bindings) == 0 {
		return nil, fmt.Errorf("%w: no valid product/size/metric headers found", domain.ErrInvalidSheetFormat)
	}

	return bindings, nil
}
