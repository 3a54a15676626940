package domain

import "strings"

// Grid is a raw two-dimensional cell matrix, the shape returned by the
// Sheets values API. Rows 0 and 1 are headers, the rest is data.
type Grid [][]interface{}

// HeaderBinding ties a sheet column to the product, size and metric it holds.
type HeaderBinding struct {
	Product     string `json:"product"`
	Size        Size   `json:"size"`
	Metric      Metric `json:"metric"`
	ColumnIndex int    `json:"column_index"`
}

// ProductKey identifies one product/size combination.
type ProductKey struct {
	Product string
	Size    Size
}

// InventoryRecord is one day of movement for a product/size.
type InventoryRecord struct {
	Date       string   `json:"date"` // YYYY-MM-DD
	Product    string   `json:"product"`
	Size       Size     `json:"size"`
	Stock      *float64 `json:"stock"`
	In         float64  `json:"in"`
	Out        float64  `json:"out"`
	ValidStock bool     `json:"valid_stock"`
}

// Key returns the product/size key of the record.
func (r InventoryRecord) Key() ProductKey {
	return ProductKey{Product: r.Product, Size: r.Size}
}

// ProductMetadata holds the reorder threshold and daily sales target of a
// product/size from the master sheet.
type ProductMetadata struct {
	MinStock         float64 `json:"min_stock"`
	TargetSalesDaily float64 `json:"target_sales_daily"`
}

// MetadataIndex is product -> size -> metadata.
type MetadataIndex map[string]map[Size]ProductMetadata

// Set stores metadata for a product/size, replacing any previous entry.
func (m MetadataIndex) Set(product string, size Size, meta ProductMetadata) {
	sizes, ok := m[product]
	if !ok {
		sizes = make(map[Size]ProductMetadata)
		m[product] = sizes
	}
	sizes[size] = meta
}

// Resolve returns the metadata that applies to a product under a size
// filter. An empty or "All" size sums every size of the product. Unknown
// products or sizes resolve to zero values.
func (m MetadataIndex) Resolve(product string, size string) ProductMetadata {
	sizes, ok := m[strings.TrimSpace(product)]
	if !ok {
		return ProductMetadata{}
	}

	if IsAll(size) {
		var total ProductMetadata
		for _, meta := range sizes {
			total.MinStock += meta.MinStock
			total.TargetSalesDaily += meta.TargetSalesDaily
		}
		return total
	}

	return sizes[Size(strings.TrimSpace(size))]
}
