package inventory

import (
	"sync"
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/google/uuid"
)

// Snapshot is one immutable load of the inventory sheet. Callers must not
// modify Records or Metadata.
type Snapshot struct {
	ID       string
	Source   string
	LoadedAt time.Time
	Records  []domain.InventoryRecord
	Metadata domain.MetadataIndex

	products  []string
	dateRange domain.DateRange
}

// NewSnapshot wraps freshly parsed data in a snapshot with a new id.
func NewSnapshot(source string, records []domain.InventoryRecord, metadata domain.MetadataIndex) *Snapshot {
	if metadata == nil {
		metadata = domain.MetadataIndex{}
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Source:    source,
		LoadedAt:  time.Now(),
		Records:   records,
		Metadata:  metadata,
		products:  Products(records),
		dateRange: DateRangeOf(records),
	}
}

// Products returns the distinct products of the snapshot in sheet order.
func (s *Snapshot) Products() []string {
	return append([]string(nil), s.products...)
}

// DateRange returns the min/max record date of the snapshot.
func (s *Snapshot) DateRange() domain.DateRange {
	return s.dateRange
}

// Filter applies criteria to the snapshot records.
func (s *Snapshot) Filter(criteria domain.Criteria) []domain.InventoryRecord {
	return Filter(s.Records, criteria)
}

// Store holds the current snapshot. Replace swaps it wholesale so readers
// always see a complete load; the last replace wins.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs snap as the current snapshot and returns the previous one.
func (s *Store) Replace(snap *Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current
	s.current = snap
	return prev
}

// Current returns the loaded snapshot or domain.ErrNoSnapshot.
func (s *Store) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, domain.ErrNoSnapshot
	}
	return s.current, nil
}
