package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/inventory-dashboard/internal/config"
	"github.com/andresuchdata/inventory-dashboard/internal/domain"
)

const (
	viewKeyPrefix = "inventory:view"
	scanBatchSize = 100
)

// ViewKey identifies one computed view. Views depend on the snapshot, the
// filter and the current day (trend, movement and forecast are anchored on
// today), so all of them are part of the key.
type ViewKey struct {
	View       string
	SnapshotID string
	Today      string
	Criteria   domain.Criteria
	Metric     domain.Metric
	Limit      int
}

// ViewCache stores computed dashboard views as JSON.
type ViewCache interface {
	Get(ctx context.Context, key ViewKey, dest interface{}) (bool, error)
	Set(ctx context.Context, key ViewKey, value interface{}) error
	InvalidateAll(ctx context.Context) error
}

type redisViewCache struct {
	store *jsonStore
}

type noopViewCache struct{}

// NewViewCache returns a redis backed cache, or a no-op cache when caching
// is disabled.
func NewViewCache(cfg config.CacheConfig) (ViewCache, error) {
	if !cfg.Enabled {
		return &noopViewCache{}, nil
	}

	store, err := newJSONStore(cfg, viewKeyPrefix)
	if err != nil {
		return nil, err
	}

	return &redisViewCache{store: store}, nil
}

func NewNoopViewCache() ViewCache {
	return &noopViewCache{}
}

func (c *redisViewCache) Get(ctx context.Context, key ViewKey, dest interface{}) (bool, error) {
	return c.store.get(ctx, viewKeySuffix(key), dest)
}

func (c *redisViewCache) Set(ctx context.Context, key ViewKey, value interface{}) error {
	return c.store.set(ctx, viewKeySuffix(key), value)
}

func (c *redisViewCache) InvalidateAll(ctx context.Context) error {
	return c.store.purge(ctx, scanBatchSize)
}

func (n *noopViewCache) Get(ctx context.Context, key ViewKey, dest interface{}) (bool, error) {
	return false, nil
}

func (n *noopViewCache) Set(ctx context.Context, key ViewKey, value interface{}) error {
	return nil
}

func (n *noopViewCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// viewKeySuffix renders <view>:<snapshot>:<filter hash>; the store adds the
// inventory:view prefix.
func viewKeySuffix(key ViewKey) string {
	return fmt.Sprintf("%s:%s:%s", key.View, key.SnapshotID, viewFilterHash(key))
}

func viewFilterHash(key ViewKey) string {
	parts := []string{"today=" + key.Today}

	if !domain.IsAll(key.Criteria.Product) {
		parts = append(parts, "product="+strings.TrimSpace(key.Criteria.Product))
	}
	if !domain.IsAll(key.Criteria.Size) {
		// Filter compares sizes exactly, so the key must too.
		parts = append(parts, "size="+strings.TrimSpace(key.Criteria.Size))
	}
	if key.Criteria.StartDate != "" {
		parts = append(parts, "start_date="+key.Criteria.StartDate)
	}
	if key.Criteria.EndDate != "" {
		parts = append(parts, "end_date="+key.Criteria.EndDate)
	}
	if key.Metric != "" {
		parts = append(parts, "metric="+strings.ToLower(string(key.Metric)))
	}
	if key.Limit > 0 {
		parts = append(parts, "limit="+strconv.Itoa(key.Limit))
	}

	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
