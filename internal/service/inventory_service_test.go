package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/analytics"
	"github.com/andresuchdata/inventory-dashboard/internal/cache"
	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inventoryGrid() domain.Grid {
	return domain.Grid{
		{"Date", "Shirt S", "", "", "Pants M", "", ""},
		{"", "Stock", "In", "Out", "Stock", "In", "Out"},
		{"3/1/24", "10", "5", "1", "7", "0", "2"},
		{"3/2/24", "9", "0", "1", "-1", "0", "4"},
	}
}

func masterGrid() domain.Grid {
	return domain.Grid{
		{"No", "SKU", "Product", "Color", "Size", "Price", "Min Stock", "Target"},
		{"1", "SH-S", "Shirt", "Blue", "S", "100", "4", "2"},
	}
}

type failingSource struct {
	err error
}

func (f *failingSource) Name() string { return "failing" }

func (f *failingSource) FetchGrid(ctx context.Context) (domain.Grid, error) {
	return nil, f.err
}

// memoryCache is a ViewCache keeping JSON payloads in a map.
type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	gets, hits  int
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) id(key cache.ViewKey) string {
	raw, _ := json.Marshal(key)
	return string(raw)
}

func (m *memoryCache) Get(ctx context.Context, key cache.ViewKey, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	payload, ok := m.entries[m.id(key)]
	if !ok {
		return false, nil
	}
	m.hits++
	return true, json.Unmarshal(payload, dest)
}

func (m *memoryCache) Set(ctx context.Context, key cache.ViewKey, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[m.id(key)] = payload
	return nil
}

func (m *memoryCache) InvalidateAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	m.invalidated++
	return nil
}

func fixedProcessor() *analytics.Processor {
	return analytics.NewProcessor(analytics.Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC) },
	})
}

func TestInventoryService_NoSnapshot(t *testing.T) {
	svc := NewInventoryService(Options{Inventory: &source.StaticSource{Grid: inventoryGrid()}})
	ctx := context.Background()

	_, err := svc.GetDashboard(ctx, analytics.Query{})
	assert.ErrorIs(t, err, domain.ErrNoSnapshot)
	_, err = svc.Products(ctx)
	assert.ErrorIs(t, err, domain.ErrNoSnapshot)
	_, err = svc.Status()
	assert.ErrorIs(t, err, domain.ErrNoSnapshot)
}

func TestInventoryService_RefreshAndViews(t *testing.T) {
	ctx := context.Background()
	svc := NewInventoryService(Options{
		Inventory: &source.StaticSource{Label: "inventory", Grid: inventoryGrid()},
		Master:    &source.StaticSource{Label: "master", Grid: masterGrid()},
		Processor: fixedProcessor(),
	})

	snap, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "static:inventory", snap.Source)
	assert.Len(t, snap.Records, 4)

	status, err := svc.Status()
	require.NoError(t, err)
	assert.Equal(t, snap.ID, status.SnapshotID)
	assert.Equal(t, 2, status.Products)
	assert.Equal(t, domain.DateRange{Min: "2024-03-01", Max: "2024-03-02"}, status.DateRange)

	products, err := svc.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shirt", "Pants"}, products)

	totals, err := svc.GetTotals(ctx, domain.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, 16.0, totals.TotalStock, "Shirt 9 + Pants 7 (the -1 is invalid)")
	assert.Equal(t, 1, totals.InvalidStockRecords)

	ranking, err := svc.GetRanking(ctx, domain.Criteria{}, 1)
	require.NoError(t, err)
	require.Len(t, ranking, 1)
	assert.Equal(t, "Pants", ranking[0].Product)

	trend, err := svc.GetTrend(ctx, domain.Criteria{Product: "Shirt"}, domain.MetricOut)
	require.NoError(t, err)
	assert.Len(t, trend, 2)

	movement, err := svc.GetMovement(ctx, domain.Criteria{StartDate: "2024-03-02"})
	require.NoError(t, err)
	assert.Equal(t, []domain.MovementPoint{{Date: "2024-03-02", In: 0, Out: 5}}, movement)

	forecast, err := svc.GetForecast(ctx, domain.Criteria{Product: "Shirt", Size: "S"})
	require.NoError(t, err)
	require.NotNil(t, forecast)
	assert.Equal(t, 2.0, forecast.TargetDaily)
	assert.Equal(t, 4.0, forecast.MinStock)
	assert.Equal(t, 9.0, forecast.CurrentStock)

	none, err := svc.GetForecast(ctx, domain.Criteria{})
	require.NoError(t, err)
	assert.Nil(t, none)

	meta, err := svc.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, meta["Shirt"][domain.SizeS].TargetSalesDaily)

	records, err := svc.Records(ctx, domain.Criteria{Product: "Pants"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestInventoryService_FailedRefreshKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	static := &source.StaticSource{Grid: inventoryGrid()}
	svc := NewInventoryService(Options{Inventory: static})

	first, err := svc.Refresh(ctx)
	require.NoError(t, err)

	svc.inventory = &failingSource{err: errors.New("503 from upstream")}
	_, err = svc.Refresh(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "503 from upstream")

	svc.inventory = &source.StaticSource{Grid: domain.Grid{{"only one row"}}}
	_, err = svc.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidSheetFormat)

	cur, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, cur)
}

func TestInventoryService_MasterFailureIsNotFatal(t *testing.T) {
	svc := NewInventoryService(Options{
		Inventory: &source.StaticSource{Grid: inventoryGrid()},
		Master:    &failingSource{err: errors.New("no access")},
	})

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Metadata)
}

func TestInventoryService_DashboardIsCachedPerSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryCache()
	svc := NewInventoryService(Options{
		Inventory: &source.StaticSource{Grid: inventoryGrid()},
		Processor: fixedProcessor(),
		Cache:     mem,
	})

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, mem.invalidated)

	q := analytics.Query{Criteria: domain.Criteria{Product: "Shirt"}}
	first, err := svc.GetDashboard(ctx, q)
	require.NoError(t, err)
	second, err := svc.GetDashboard(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, 1, mem.hits)
	assert.Equal(t, first.Totals, second.Totals)
	assert.Equal(t, first.SnapshotID, second.SnapshotID)
	assert.Equal(t, domain.MetricStock, second.Metric)
	require.NotNil(t, second.Forecast)
	assert.Len(t, second.Forecast.Points, analytics.DefaultForecastDays+1)

	_, err = svc.Refresh(ctx)
	require.NoError(t, err)
	third, err := svc.GetDashboard(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, mem.hits, "a new snapshot is never served from the old entry")
	assert.NotEqual(t, first.SnapshotID, third.SnapshotID)
}

func TestInventoryService_FetchTimeout(t *testing.T) {
	svc := NewInventoryService(Options{
		Inventory:    &blockingSource{},
		FetchTimeout: 10 * time.Millisecond,
	})

	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

type blockingSource struct{}

func (b *blockingSource) Name() string { return "blocking" }

func (b *blockingSource) FetchGrid(ctx context.Context) (domain.Grid, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestInventoryService_LoadUploadedGrids(t *testing.T) {
	svc := NewInventoryService(Options{})

	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	snap, err := svc.Load(context.Background(), "upload:inventory.csv", inventoryGrid(), masterGrid())
	require.NoError(t, err)
	assert.Equal(t, "upload:inventory.csv", snap.Source)
	assert.Len(t, snap.Metadata, 1)

	_, err = svc.Load(context.Background(), "upload:bad.csv", domain.Grid{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSheetFormat)

	cur, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, cur)
}
