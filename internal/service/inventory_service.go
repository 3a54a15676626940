package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/analytics"
	"github.com/andresuchdata/inventory-dashboard/internal/cache"
	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/inventory"
	"github.com/andresuchdata/inventory-dashboard/internal/parser"
	"github.com/andresuchdata/inventory-dashboard/internal/source"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options wires an InventoryService. Master, Processor and Cache are
// optional.
type Options struct {
	Inventory    source.GridSource
	Master       source.GridSource
	Processor    *analytics.Processor
	Cache        cache.ViewCache
	FetchTimeout time.Duration
}

// InventoryService loads inventory snapshots from a grid source and serves
// the derived dashboard views.
type InventoryService struct {
	inventory    source.GridSource
	master       source.GridSource
	processor    *analytics.Processor
	cache        cache.ViewCache
	store        *inventory.Store
	fetchTimeout time.Duration
}

// Status describes the loaded snapshot.
type Status struct {
	SnapshotID string           `json:"snapshot_id"`
	Source     string           `json:"source"`
	LoadedAt   time.Time        `json:"loaded_at"`
	Records    int              `json:"records"`
	Products   int              `json:"products"`
	DateRange  domain.DateRange `json:"date_range"`
}

func NewInventoryService(opts Options) *InventoryService {
	if opts.Processor == nil {
		opts.Processor = analytics.NewProcessor(analytics.Options{})
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopViewCache()
	}
	return &InventoryService{
		inventory:    opts.Inventory,
		master:       opts.Master,
		processor:    opts.Processor,
		cache:        opts.Cache,
		store:        inventory.NewStore(),
		fetchTimeout: opts.FetchTimeout,
	}
}

// Refresh fetches the inventory and master grids concurrently, parses them
// and installs a new snapshot. On error the previous snapshot stays in
// place. A failing master sheet only drops the metadata.
func (s *InventoryService) Refresh(ctx context.Context) (*inventory.Snapshot, error) {
	if s.inventory == nil {
		return nil, fmt.Errorf("%w: no inventory source configured", domain.ErrSourceUnavailable)
	}
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	started := time.Now()
	var inventoryGrid, masterGrid domain.Grid

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		grid, err := s.inventory.FetchGrid(gctx)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		inventoryGrid = grid
		return nil
	})
	if s.master != nil {
		g.Go(func() error {
			grid, err := s.master.FetchGrid(gctx)
			if err != nil {
				log.Warn().Err(err).Str("source", s.master.Name()).Msg("inventory: master sheet unavailable, continuing without metadata")
				return nil
			}
			masterGrid = grid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("source", s.inventory.Name()).Msg("inventory: refresh failed")
		return nil, err
	}

	log.Debug().Str("source", s.inventory.Name()).Dur("took", time.Since(started)).Msg("inventory: grids fetched")

	return s.Load(ctx, s.inventory.Name(), inventoryGrid, masterGrid)
}

// Load parses already fetched grids and installs them as the current
// snapshot. masterGrid may be nil.
func (s *InventoryService) Load(ctx context.Context, sourceName string, inventoryGrid, masterGrid domain.Grid) (*inventory.Snapshot, error) {
	records, err := parser.Parse(inventoryGrid)
	if err != nil {
		log.Error().Err(err).Str("source", sourceName).Msg("inventory: sheet rejected")
		return nil, err
	}
	metadata := parser.ParseMetadata(masterGrid)

	snap := inventory.NewSnapshot(sourceName, records, metadata)
	s.store.Replace(snap)

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("inventory: cache invalidate failed")
	}

	log.Info().
		Str("snapshot", snap.ID).
		Str("source", snap.Source).
		Int("records", len(records)).
		Int("products", len(snap.Products())).
		Int("metadata_products", len(metadata)).
		Msg("inventory: snapshot loaded")

	return snap, nil
}

// Snapshot returns the current snapshot or domain.ErrNoSnapshot.
func (s *InventoryService) Snapshot() (*inventory.Snapshot, error) {
	return s.store.Current()
}

func (s *InventoryService) Status() (*Status, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return &Status{
		SnapshotID: snap.ID,
		Source:     snap.Source,
		LoadedAt:   snap.LoadedAt,
		Records:    len(snap.Records),
		Products:   len(snap.Products()),
		DateRange:  snap.DateRange(),
	}, nil
}

func (s *InventoryService) Records(ctx context.Context, criteria domain.Criteria) ([]domain.InventoryRecord, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return snap.Filter(criteria), nil
}

func (s *InventoryService) Products(ctx context.Context) ([]string, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return snap.Products(), nil
}

func (s *InventoryService) DateRange(ctx context.Context) (domain.DateRange, error) {
	snap, err := s.store.Current()
	if err != nil {
		return domain.DateRange{}, err
	}
	return snap.DateRange(), nil
}

func (s *InventoryService) Metadata(ctx context.Context) (domain.MetadataIndex, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return snap.Metadata, nil
}

func (s *InventoryService) GetDashboard(ctx context.Context, q analytics.Query) (*domain.Dashboard, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	if q.Metric == "" {
		q.Metric = domain.MetricStock
	}

	key := s.viewKey("dashboard", snap, q.Criteria)
	key.Metric = q.Metric
	key.Limit = s.processor.Limit(q)

	dash := cachedView(ctx, s.cache, key, func() domain.Dashboard {
		return s.processor.Build(snap, q)
	})
	return &dash, nil
}

func (s *InventoryService) GetTotals(ctx context.Context, criteria domain.Criteria) (domain.Totals, error) {
	snap, err := s.store.Current()
	if err != nil {
		return domain.Totals{}, err
	}
	return cachedView(ctx, s.cache, s.viewKey("totals", snap, criteria), func() domain.Totals {
		return s.processor.Totals(snap, criteria)
	}), nil
}

func (s *InventoryService) GetTrend(ctx context.Context, criteria domain.Criteria, metric domain.Metric) ([]domain.TrendPoint, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	if metric == "" {
		metric = domain.MetricStock
	}
	key := s.viewKey("trend", snap, criteria)
	key.Metric = metric
	return cachedView(ctx, s.cache, key, func() []domain.TrendPoint {
		return s.processor.Trend(snap, criteria, metric)
	}), nil
}

func (s *InventoryService) GetMovement(ctx context.Context, criteria domain.Criteria) ([]domain.MovementPoint, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return cachedView(ctx, s.cache, s.viewKey("movement", snap, criteria), func() []domain.MovementPoint {
		return s.processor.Movement(snap, criteria)
	}), nil
}

func (s *InventoryService) GetRanking(ctx context.Context, criteria domain.Criteria, limit int) ([]domain.RankingEntry, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	key := s.viewKey("ranking", snap, criteria)
	key.Limit = s.processor.Limit(analytics.Query{Limit: limit})
	return cachedView(ctx, s.cache, key, func() []domain.RankingEntry {
		return s.processor.Ranking(snap, criteria, key.Limit)
	}), nil
}

// GetForecast returns nil when no single product is selected.
func (s *InventoryService) GetForecast(ctx context.Context, criteria domain.Criteria) (*domain.Forecast, error) {
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}
	return cachedView(ctx, s.cache, s.viewKey("forecast", snap, criteria), func() *domain.Forecast {
		return s.processor.Forecast(snap, criteria)
	}), nil
}

func (s *InventoryService) viewKey(view string, snap *inventory.Snapshot, criteria domain.Criteria) cache.ViewKey {
	return cache.ViewKey{
		View:       view,
		SnapshotID: snap.ID,
		Today:      s.processor.Today().Format("2006-01-02"),
		Criteria:   criteria,
	}
}

// cachedView serves a view from the cache, computing and storing it on a
// miss. Cache failures are logged and never fail the request.
func cachedView[T any](ctx context.Context, c cache.ViewCache, key cache.ViewKey, build func() T) T {
	var cached T
	if ok, err := c.Get(ctx, key, &cached); err == nil && ok {
		return cached
	} else if err != nil {
		log.Warn().Err(err).Str("view", key.View).Msg("inventory: cache get failed")
	}

	value := build()
	if err := c.Set(ctx, key, value); err != nil {
		log.Warn().Err(err).Str("view", key.View).Msg("inventory: cache set failed")
	}
	return value
}
