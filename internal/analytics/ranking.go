package analytics

import (
	"sort"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
)

// DefaultRankingLimit is the size of the top sellers table.
const DefaultRankingLimit = 5

// ComputeRanking sums out per product/size and returns the top limit
// entries by sales. Equal sales keep the order in which the keys first
// appear. A non-positive limit falls back to DefaultRankingLimit.
func ComputeRanking(records []domain.InventoryRecord, limit int) []domain.RankingEntry {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	index := make(map[domain.ProductKey]int)
	entries := make([]domain.RankingEntry, 0)
	for _, r := range records {
		i, ok := index[r.Key()]
		if !ok {
			i = len(entries)
			index[r.Key()] = i
			entries = append(entries, domain.RankingEntry{Product: r.Product, Size: r.Size})
		}
		entries[i].Sales += r.Out
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Sales > entries[b].Sales
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
