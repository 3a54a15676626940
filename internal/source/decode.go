package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/drive"
)

var zipMagic = []byte("PK\x03\x04")

// Decode turns file content into a grid. XLSX is recognised by extension or
// by the zip signature; anything else is read as CSV. sheet selects the
// worksheet of a workbook and is ignored for CSV.
func Decode(name string, content []byte, sheet string) (domain.Grid, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); {
	case ext == ".xlsx" || ext == ".xlsm" || bytes.HasPrefix(content, zipMagic):
		return drive.ReadXLSXBytes(content, sheet)
	default:
		return ReadCSV(content)
	}
}

// ReadCSV parses CSV content into a grid of string cells. Rows may have
// different lengths.
func ReadCSV(content []byte) (domain.Grid, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	grid := make(domain.Grid, 0, len(records))
	for _, record := range records {
		row := make([]interface{}, len(record))
		for i, v := range record {
			row[i] = v
		}
		grid = append(grid, row)
	}
	return grid, nil
}
