package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventoryCSV = `Date,Shirt S,,,Shirt M,,,Pants L,,
,Stock,In,Out,Stock,In,Out,Stock,In,Out
3/1/24,10,5,1,8,0,2,4,0,0
3/2/24,9,0,1,-3,0,4,4,1,3
`

const masterCSV = "No,SKU,Product,Color,Size,Price,Min,Target\n1,P-L,Pants,Black,L,1,2,3\n"

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"inventory"}, args...))
	return out.String(), err
}

func TestRecordsCommand(t *testing.T) {
	file := writeFixture(t, "inventory.csv", inventoryCSV)

	out, err := runApp(t, "--file", file, "records", "--product", "Shirt", "--size", "m")
	require.NoError(t, err)

	var records []domain.InventoryRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, domain.SizeM, records[0].Size)
	assert.Nil(t, records[1].Stock)
	assert.False(t, records[1].ValidStock)
}

func TestDashboardCommand(t *testing.T) {
	file := writeFixture(t, "inventory.csv", inventoryCSV)

	out, err := runApp(t, "--file", file, "dashboard", "--metric", "sales", "--limit", "2")
	require.NoError(t, err)

	var dash domain.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &dash))
	assert.Equal(t, domain.MetricOut, dash.Metric)
	assert.Equal(t, []string{"Shirt", "Pants"}, dash.Products)
	require.Len(t, dash.Ranking, 2)
	assert.Equal(t, "Shirt", dash.Ranking[0].Product)
	assert.Equal(t, domain.SizeM, dash.Ranking[0].Size)
	assert.Equal(t, 6.0, dash.Ranking[0].Sales)
	assert.Nil(t, dash.Forecast)
}

func TestForecastCommand(t *testing.T) {
	file := writeFixture(t, "inventory.csv", inventoryCSV)
	master := writeFixture(t, "master.csv", masterCSV)

	out, err := runApp(t, "--file", file, "--master", master, "forecast", "--product", "Pants")
	require.NoError(t, err)

	var forecast domain.Forecast
	require.NoError(t, json.Unmarshal([]byte(out), &forecast))
	assert.Equal(t, "Pants", forecast.Product)
	assert.Equal(t, 4.0, forecast.CurrentStock)
	assert.Equal(t, 3.0, forecast.TargetDaily)
	assert.Equal(t, 2.0, forecast.MinStock)
}

func TestCommandsRejectBadFilters(t *testing.T) {
	_, err := runApp(t, "forecast")
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)

	_, err = runApp(t, "records", "--size", "XS")
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)

	_, err = runApp(t, "dashboard", "--metric", "margin")
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)

	_, err = runApp(t, "records", "--start-date", "3/1/24")
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)

	_, err = runApp(t, "records", "--start-date", "2024-03-02", "--end-date", "2024-03-01")
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestDownloadObjects(t *testing.T) {
	ctx := context.Background()
	client, err := storage.NewLocalClient(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, client.UploadObject(ctx, "exports/2024/inventory.csv", []byte(inventoryCSV)))
	require.NoError(t, client.UploadObject(ctx, "exports/2024/master.xlsx", []byte("xlsx")))
	require.NoError(t, client.UploadObject(ctx, "exports/2024/notes.txt", []byte("skip")))

	dest := t.TempDir()
	paths, err := downloadObjects(ctx, client, "exports", "", dest)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dest, "2024", "inventory.csv"),
		filepath.Join(dest, "2024", "master.xlsx"),
	}, paths)

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, inventoryCSV, string(content))

	paths, err = downloadObjects(ctx, client, "exports", "2024/master.xlsx", dest)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "2024", "master.xlsx")}, paths)

	_, err = downloadObjects(ctx, client, "missing", "", dest)
	assert.Error(t, err)
}

func TestObjectKeys(t *testing.T) {
	assert.Equal(t, "exports", resolveObjectKey(" exports ", ""))
	assert.Equal(t, "inventory.csv", resolveObjectKey("", "/inventory.csv"))
	assert.Equal(t, "exports/inventory.csv", resolveObjectKey("exports/", "inventory.csv"))
	assert.Equal(t, "exports/inventory.csv", resolveObjectKey("exports", "/exports/inventory.csv"))

	assert.Equal(t, "a/b.csv", objectRelativePath("", "a/b.csv"))
	assert.Equal(t, "b.csv", objectRelativePath("a/", "a/b.csv"))
	assert.True(t, isSheetExport("A.XLSX"))
	assert.False(t, isSheetExport("a.txt"))
}
