package parser

import (
	"strings"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
)

// Fixed column layout of the master sheet.
const (
	masterProductCol = 2
	masterSizeCol    = 4
	masterMinStock   = 6
	masterTargetCol  = 7
)

// ParseMetadata reads the master sheet into a metadata index. The header
// row is skipped, rows without a product or a recognised size are ignored
// and min stock / daily target cells that are not non-negative numbers
// read as 0. A later row for the same product/size wins.
func ParseMetadata(grid domain.Grid) domain.MetadataIndex {
	idx := domain.MetadataIndex{}
	if len(grid) < 2 {
		return idx
	}

	for _, row := range grid[1:] {
		product := strings.TrimSpace(cellString(row, masterProductCol))
		if product == "" {
			continue
		}
		size, ok := domain.ParseSize(strings.TrimSpace(cellString(row, masterSizeCol)))
		if !ok {
			continue
		}

		idx.Set(product, size, domain.ProductMetadata{
			MinStock:         nonNegativeOrZero(cellString(row, masterMinStock)),
			TargetSalesDaily: nonNegativeOrZero(cellString(row, masterTargetCol)),
		})
	}

	return idx
}

func nonNegativeOrZero(raw string) float64 {
	v, ok := parseNumber(raw)
	if !ok || v < 0 {
		return 0
	}
	return v
}
