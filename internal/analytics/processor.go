// internal/analytics/processor.go
package analytics

import (
	"time"

	"github.com/andresuchdata/inventory-dashboard/internal/domain"
	"github.com/andresuchdata/inventory-dashboard/internal/inventory"
	"github.com/rs/zerolog/log"
)

// Query selects the records and presentation options of a dashboard.
type Query struct {
	Criteria domain.Criteria
	Metric   domain.Metric
	Limit    int
}

// Options configures a Processor. Zero values fall back to defaults.
type Options struct {
	RankingLimit int
	ForecastDays int
	Location     *time.Location
	Now          func() time.Time
}

// Processor builds dashboard views from an inventory snapshot
type Processor struct {
	rankingLimit int
	forecastDays int
	location     *time.Location
	now          func() time.Time
}

func NewProcessor(opts Options) *Processor {
	p := &Processor{
		rankingLimit: opts.RankingLimit,
		forecastDays: opts.ForecastDays,
		location:     opts.Location,
		now:          opts.Now,
	}
	if p.rankingLimit <= 0 {
		p.rankingLimit = DefaultRankingLimit
	}
	if p.forecastDays <= 0 {
		p.forecastDays = DefaultForecastDays
	}
	if p.location == nil {
		p.location = time.Local
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Today is the current day in the processor's location, at midnight.
func (p *Processor) Today() time.Time {
	return startOfDay(p.now().In(p.location))
}

// Limit resolves the ranking size of a query.
func (p *Processor) Limit(q Query) int {
	if q.Limit > 0 {
		return q.Limit
	}
	return p.rankingLimit
}

// Totals computes the summary cards for the filtered snapshot.
func (p *Processor) Totals(snap *inventory.Snapshot, criteria domain.Criteria) domain.Totals {
	return ComputeTotals(snap.Filter(criteria))
}

// Trend computes the per-size trend series for the filtered snapshot.
func (p *Processor) Trend(snap *inventory.Snapshot, criteria domain.Criteria, metric domain.Metric) []domain.TrendPoint {
	return ComputeTrend(snap.Filter(criteria), criteria.Product, metric, p.Today())
}

// Movement computes the in/out series for the filtered snapshot.
func (p *Processor) Movement(snap *inventory.Snapshot, criteria domain.Criteria) []domain.MovementPoint {
	return ComputeMovement(snap.Filter(criteria), p.Today())
}

// Ranking computes the top sellers for the filtered snapshot.
func (p *Processor) Ranking(snap *inventory.Snapshot, criteria domain.Criteria, limit int) []domain.RankingEntry {
	if limit <= 0 {
		limit = p.rankingLimit
	}
	return ComputeRanking(snap.Filter(criteria), limit)
}

// Forecast projects the selected product. Nil when no single product is
// selected.
func (p *Processor) Forecast(snap *inventory.Snapshot, criteria domain.Criteria) *domain.Forecast {
	return computeForecast(snap.Filter(criteria), snap.Metadata, criteria.Product, criteria.Size, p.Today(), p.forecastDays)
}

// Build assembles every view for one query. The snapshot is filtered once.
func (p *Processor) Build(snap *inventory.Snapshot, q Query) domain.Dashboard {
	if q.Metric == "" {
		q.Metric = domain.MetricStock
	}

	today := p.Today()
	records := snap.Filter(q.Criteria)

	dash := domain.Dashboard{
		SnapshotID: snap.ID,
		Today:      today.Format(isoDate),
		Criteria:   q.Criteria,
		Metric:     q.Metric,
		Totals:     ComputeTotals(records),
		Trend:      ComputeTrend(records, q.Criteria.Product, q.Metric, today),
		Movement:   ComputeMovement(records, today),
		Ranking:    ComputeRanking(records, p.Limit(q)),
		Forecast:   computeForecast(records, snap.Metadata, q.Criteria.Product, q.Criteria.Size, today, p.forecastDays),
		Products:   snap.Products(),
		DateRange:  snap.DateRange(),
	}

	log.Debug().
		Str("snapshot", snap.ID).
		Str("product", q.Criteria.Product).
		Str("size", q.Criteria.Size).
		Int("records", len(records)).
		Int("invalid_stock", dash.Totals.InvalidStockRecords).
		Msg("analytics: dashboard built")

	return dash
}
