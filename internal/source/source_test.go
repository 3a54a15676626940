package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/config"
	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/drive"
	"github.com/andresuchdata/inventory-dashboard/internal/parser"
	"github.com/andresuchdata/inventory-dashboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const inventoryCSV = "\xef\xbb\xbfDate,Shirt S,,Shirt M\n,Stock,In,Stock\n3/4/24,10,2,\n3/5/24,\"9\",1\n"

func xlsxBytes(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestDecode_ExcelDatesReachTheParser(t *testing.T) {
	content := xlsxBytes(t, "Sheet1", [][]interface{}{
		{"Date", "Shirt S", ""},
		{"", "Stock", "Out"},
		{time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), 10, 2},
		{time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 9, 1},
	})

	grid, err := Decode("inventory.xlsx", content, "")
	require.NoError(t, err)

	records, err := parser.Parse(grid)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-04", records[0].Date)
	assert.Equal(t, "2024-03-05", records[1].Date)
	require.NotNil(t, records[1].Stock)
	assert.Equal(t, 9.0, *records[1].Stock)
	assert.Equal(t, 1.0, records[1].Out)
}

func TestReadCSV(t *testing.T) {
	grid, err := ReadCSV([]byte(inventoryCSV))
	require.NoError(t, err)

	require.Len(t, grid, 4)
	assert.Equal(t, "Date", grid[0][0], "byte order mark stripped")
	assert.Equal(t, []interface{}{"3/5/24", "9", "1"}, grid[3], "ragged rows allowed")
}

func TestDecode_DetectsWorkbooks(t *testing.T) {
	content := xlsxBytes(t, "Inventory", [][]interface{}{
		{"", "Hat L"},
		{"", "Out"},
		{"1/2/24", 3},
	})

	grid, err := Decode("download.bin", content, "")
	require.NoError(t, err)
	assert.Equal(t, "3", grid[2][1])

	grid, err = Decode("inventory.xlsx", content, "Inventory")
	require.NoError(t, err)
	assert.Len(t, grid, 3)

	grid, err = Decode("inventory.csv", []byte("a,b\n"), "")
	require.NoError(t, err)
	assert.Equal(t, domain.Grid{{"a", "b"}}, grid)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(inventoryCSV), 0o644))

	src := &FileSource{Path: csvPath}
	assert.Equal(t, "file:"+csvPath, src.Name())

	grid, err := src.FetchGrid(context.Background())
	require.NoError(t, err)
	assert.Len(t, grid, 4)

	_, err = (&FileSource{Path: filepath.Join(dir, "missing.csv")}).FetchGrid(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestObjectSource(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalClient(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.UploadObject(ctx, "exports/master.xlsx", xlsxBytes(t, "Sheet1", [][]interface{}{
		{"No", "SKU", "Product", "Color", "Size", "Price", "Min", "Target"},
		{1, "SH-S", "Shirt", "Blue", "S", 100, 10, 2},
	})))

	src := &ObjectSource{Store: store, Key: "exports/master.xlsx"}
	grid, err := src.FetchGrid(ctx)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, "Shirt", grid[1][2])

	_, err = (&ObjectSource{Store: store, Key: "missing.csv"}).FetchGrid(ctx)
	assert.ErrorContains(t, err, "object:missing.csv")
}

type fakeDrive struct {
	file    *drive.File
	content []byte
	err     error
}

func (f *fakeDrive) Fetch(ctx context.Context, fileID string) (*drive.File, []byte, error) {
	return f.file, f.content, f.err
}

func TestDriveSource(t *testing.T) {
	ctx := context.Background()

	sheet := &DriveSource{FileID: "abc", Files: &fakeDrive{
		file:    &drive.File{ID: "abc", Name: "Inventory", MimeType: drive.MimeGoogleSheet},
		content: xlsxBytes(t, "Sheet1", [][]interface{}{{"", "Cap S"}, {"", "In"}}),
	}}
	grid, err := sheet.FetchGrid(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cap S", grid[0][1])

	csvFile := &DriveSource{FileID: "def", Files: &fakeDrive{
		file:    &drive.File{ID: "def", Name: "inventory.csv", MimeType: drive.MimeCSV},
		content: []byte(inventoryCSV),
	}}
	grid, err = csvFile.FetchGrid(ctx)
	require.NoError(t, err)
	assert.Len(t, grid, 4)

	failing := &DriveSource{FileID: "x", Files: &fakeDrive{err: errors.New("quota")}}
	_, err = failing.FetchGrid(ctx)
	assert.ErrorContains(t, err, "drive:x")
}

type fakeSheets struct {
	grid domain.Grid
	id   string
	rng  string
}

func (f *fakeSheets) FetchGrid(ctx context.Context, spreadsheetID, readRange string) (domain.Grid, error) {
	f.id, f.rng = spreadsheetID, readRange
	return f.grid, nil
}

func TestSheetsAndStaticSources(t *testing.T) {
	client := &fakeSheets{grid: domain.Grid{{"a"}}}
	src := &SheetsSource{Client: client, SpreadsheetID: "sid", Range: "Inv!A1:ZZ"}

	grid, err := src.FetchGrid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Grid{{"a"}}, grid)
	assert.Equal(t, "sid", client.id)
	assert.Equal(t, "Inv!A1:ZZ", client.rng)
	assert.Equal(t, "sheets:sid!Inv!A1:ZZ", src.Name())

	static := &StaticSource{Label: "fixture", Grid: domain.Grid{{"b"}}}
	assert.Equal(t, "static:fixture", static.Name())
	grid, err = static.FetchGrid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Grid{{"b"}}, grid)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = static.FetchGrid(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	srcs, err := New(ctx, &config.Config{Source: config.SourceConfig{Kind: config.SourceFile, InventoryPath: "inv.csv", MasterPath: "master.csv"}})
	require.NoError(t, err)
	assert.Equal(t, "file:inv.csv", srcs.Inventory.Name())
	assert.Equal(t, "file:master.csv", srcs.Master.Name())

	srcs, err = New(ctx, &config.Config{Source: config.SourceConfig{Kind: config.SourceSheets, FallbackFile: "fallback.csv"}})
	require.NoError(t, err)
	assert.Equal(t, "file:fallback.csv", srcs.Inventory.Name())
	assert.Nil(t, srcs.Master)

	_, err = New(ctx, &config.Config{Source: config.SourceConfig{Kind: config.SourceDrive}})
	assert.ErrorContains(t, err, "no fallback file")

	srcs, err = New(ctx, &config.Config{
		Source:  config.SourceConfig{Kind: config.SourceObject, InventoryPath: "inv.xlsx"},
		Storage: config.StorageConfig{LocalDir: t.TempDir()},
	})
	require.NoError(t, err)
	assert.Equal(t, "object:inv.xlsx", srcs.Inventory.Name())

	_, err = New(ctx, &config.Config{Source: config.SourceConfig{Kind: config.SourceObject, InventoryPath: "inv.xlsx"}})
	assert.ErrorContains(t, err, "endpoint")

	_, err = New(ctx, &config.Config{Source: config.SourceConfig{Kind: "ftp"}})
	assert.ErrorContains(t, err, "unknown source kind")

	srcs, err = New(ctx, &config.Config{
		Source: config.SourceConfig{Kind: config.SourceSheets},
		Sheets: config.SheetsConfig{SpreadsheetID: "sid", InventoryRange: "Inv", MasterRange: "Master", APIKey: "key"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sheets:sid!Inv", srcs.Inventory.Name())
	assert.Equal(t, "sheets:sid!Master", srcs.Master.Name())
}
