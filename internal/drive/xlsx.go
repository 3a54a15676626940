package drive

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

// sheetDateLayout is the M/D/YYYY form the inventory date column uses.
const sheetDateLayout = "1/2/2006"

// Built-in number formats that render a calendar date. Time-only formats
// (18-21, 45-47) are left out.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// ReadXLSX decodes one sheet of an XLSX workbook into a grid of string
// cells. An empty sheet name selects the first sheet. Cells are read raw;
// date-styled serials are rendered as M/D/YYYY so they read the same as a
// text date typed into the sheet.
func ReadXLSX(r io.Reader, sheet string) (domain.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx workbook has no sheets")
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}

	dates := &dateStyles{f: f, known: make(map[int]bool)}

	grid := make(domain.Grid, 0, len(records))
	for r, record := range records {
		row := make([]interface{}, len(record))
		for c, v := range record {
			row[c] = v
			if v == "" {
				continue
			}
			if rendered, ok := dates.render(sheet, c+1, r+1, v); ok {
				row[c] = rendered
			}
		}
		grid = append(grid, row)
	}

	return grid, nil
}

// ReadXLSXBytes is ReadXLSX over an in-memory workbook.
func ReadXLSXBytes(content []byte, sheet string) (domain.Grid, error) {
	return ReadXLSX(bytes.NewReader(content), sheet)
}

// dateStyles remembers which cell style ids carry a date number format.
type dateStyles struct {
	f     *excelize.File
	known map[int]bool
}

// render converts a raw serial in a date-styled cell to M/D/YYYY.
func (d *dateStyles) render(sheet string, col, row int, raw string) (string, bool) {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false
	}
	styleID, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || !d.isDate(styleID) {
		return "", false
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.Format(sheetDateLayout), true
}

func (d *dateStyles) isDate(styleID int) bool {
	if isDate, ok := d.known[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		isDate = builtinDateFormats[style.NumFmt]
		if !isDate && style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	d.known[styleID] = isDate
	return isDate
}

// isDateFormatCode reports whether a custom number format shows a day or
// a year. Quoted literals and bracketed sections are ignored.
func isDateFormatCode(code string) bool {
	var inQuote, inBracket bool
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'd' || r == 'y':
			return true
		}
	}
	return false
}
