package index

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/meridianmaps/atlas/internal/metrics"
	"github.com/meridianmaps/atlas/internal/source"
)

const defaultCacheTTL = 5 * time.Minute

// NormalizedScore is one criterion's score for a (year, country) cell. Score
// is nil when the raw value was missing or non-numeric.
type NormalizedScore struct {
	RawValue    *float64  `json:"raw_value"`
	Score       *float64  `json:"score"`
	Confidence  float64   `json:"confidence"`
	Source      string    `json:"source"`
	LastUpdated time.Time `json:"last_updated"`
}

// ComponentScore is one criterion's contribution to a composite result.
type ComponentScore struct {
	Score       float64  `json:"score"`
	RawValue    float64  `json:"raw_value"`
	Confidence  float64  `json:"confidence"`
	Weight      float64  `json:"weight"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

// Ranking places a country within a year's composite set.
type Ranking struct {
	Rank           int     `json:"rank"`
	Percentile     float64 `json:"percentile"`
	TotalCountries int     `json:"total_countries"`
}

// CompositeResult is the full quality-of-living index output for one country
// in one year under one weighting scheme.
type CompositeResult struct {
	CountryCode      string                     `json:"country_code"`
	CompositeScore   float64                    `json:"composite_score"`
	ComponentScores  map[string]ComponentScore  `json:"component_scores"`
	CategoryScores   map[Category]float64       `json:"category_scores"`
	DataCompleteness float64                    `json:"data_completeness"`
	Confidence       float64                    `json:"confidence"`
	Ranking          Ranking                    `json:"ranking"`
}

type compositeKey struct {
	year   int
	scheme string
}

type seriesEntry struct {
	series  source.Series
	expires time.Time
}

type statsEntry struct {
	stats   GlobalStats
	expires time.Time
}

type compositeEntry struct {
	results map[string]*CompositeResult
	expires time.Time
}

// Engine computes and caches global statistics and composite index results.
// All memoization lives on the instance; there is no package-level state, and
// the clock is injectable so tests control freshness deterministically.
type Engine struct {
	provider source.Provider
	schemes  *SchemeRegistry
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time

	mu         sync.Mutex
	series     map[string]seriesEntry
	stats      map[string]statsEntry
	composites map[compositeKey]compositeEntry
}

type Option func(*Engine)

// WithClock replaces the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTTL sets the freshness window shared by the stats and composite caches.
func WithTTL(d time.Duration) Option {
	return func(e *Engine) { e.ttl = d }
}

func NewEngine(provider source.Provider, schemes *SchemeRegistry, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		provider:   provider,
		schemes:    schemes,
		logger:     logger,
		ttl:        defaultCacheTTL,
		now:        time.Now,
		series:     make(map[string]seriesEntry),
		stats:      make(map[string]statsEntry),
		composites: make(map[compositeKey]compositeEntry),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Schemes exposes the engine's weighting scheme registry.
func (e *Engine) Schemes() *SchemeRegistry {
	return e.schemes
}

// AvailableCriteria returns the static criterion configuration.
func (e *Engine) AvailableCriteria() []CriterionConfig {
	return Criteria()
}

// Stats returns the pooled distribution summary for one criterion, memoized
// within the freshness window. Unknown criterion ids are a caller error.
func (e *Engine) Stats(ctx context.Context, criterionID string) (GlobalStats, error) {
	if !source.IsKnown(criterionID) {
		return GlobalStats{}, source.ErrUnknownCriterion
	}
	return e.statsFor(ctx, criterionID), nil
}

// statsFor returns the memoized distribution summary for a known criterion,
// recomputing on cache expiry.
func (e *Engine) statsFor(ctx context.Context, criterionID string) GlobalStats {
	e.mu.Lock()
	if entry, ok := e.stats[criterionID]; ok && e.now().Before(entry.expires) {
		e.mu.Unlock()
		return entry.stats
	}
	e.mu.Unlock()

	series := e.seriesFor(ctx, criterionID)
	stats := computeStatsSafe(series, criterionID, e.logger)
	metrics.StatsComputations.Inc()

	e.mu.Lock()
	e.stats[criterionID] = statsEntry{stats: stats, expires: e.now().Add(e.ttl)}
	e.mu.Unlock()
	return stats
}

// Composite computes the full composite index map for a year under the named
// weighting scheme. Results are memoized per (year, resolved scheme).
func (e *Engine) Composite(ctx context.Context, year int, schemeName string) (map[string]*CompositeResult, error) {
	weights, resolved, known := e.schemes.Resolve(schemeName)
	if !known {
		e.logger.Warn("unknown weighting scheme, falling back to equal", "scheme", schemeName)
	}
	key := compositeKey{year: year, scheme: resolved}

	e.mu.Lock()
	if entry, ok := e.composites[key]; ok && e.now().Before(entry.expires) {
		e.mu.Unlock()
		metrics.CompositeCacheHits.Inc()
		return entry.results, nil
	}
	e.mu.Unlock()

	results, err := e.computeComposite(ctx, year, weights)
	if err != nil {
		return nil, err
	}
	metrics.CompositeComputations.Inc()

	// Last write wins: duplicate in-flight computations of the same key are
	// idempotent, so overwriting is harmless and the insertion is atomic.
	e.mu.Lock()
	e.composites[key] = compositeEntry{results: results, expires: e.now().Add(e.ttl)}
	e.mu.Unlock()
	return results, nil
}

// ClearCache drops series, stats and composite caches together so no stale
// composite can be rebuilt from a cleared stats cache.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	e.series = make(map[string]seriesEntry)
	e.stats = make(map[string]statsEntry)
	e.composites = make(map[compositeKey]compositeEntry)
	e.mu.Unlock()
	metrics.CacheClears.Inc()
}

// seriesFor returns the cached raw series for a criterion, fetching on
// expiry. A fetch failure degrades to an empty series; the provider boundary
// already absorbed any recoverable outage, so an error here means even the
// fallback path is gone and best-effort is an empty map.
func (e *Engine) seriesFor(ctx context.Context, criterionID string) source.Series {
	e.mu.Lock()
	if entry, ok := e.series[criterionID]; ok && e.now().Before(entry.expires) {
		e.mu.Unlock()
		return entry.series
	}
	e.mu.Unlock()

	series, err := e.provider.FetchSeries(ctx, criterionID)
	if err != nil {
		e.logger.Warn("series fetch failed, proceeding with empty series",
			"criterion", criterionID,
			"error", err,
		)
		return source.Series{}
	}

	e.mu.Lock()
	e.series[criterionID] = seriesEntry{series: series, expires: e.now().Add(e.ttl)}
	e.mu.Unlock()
	return series
}

// computeStatsSafe converts a stats-calculation panic into the neutral
// default so one malformed criterion never aborts a composite run.
func computeStatsSafe(series source.Series, criterionID string, logger *slog.Logger) (stats GlobalStats) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("stats computation failed, using neutral default",
				"criterion", criterionID,
				"panic", r,
			)
			stats = NeutralStats()
		}
	}()
	return ComputeStats(series)
}

type criterionData struct {
	cfg    CriterionConfig
	stats  GlobalStats
	points map[string]source.RawDataPoint
}

func (e *Engine) computeComposite(ctx context.Context, year int, weights map[string]float64) (map[string]*CompositeResult, error) {
	// Gather each criterion's year slice and pooled stats up front.
	data := make([]criterionData, 0, len(criteria))
	countries := make(map[string]struct{})
	for _, cfg := range criteria {
		series := e.seriesFor(ctx, cfg.ID)
		cd := criterionData{
			cfg:    cfg,
			stats:  e.statsFor(ctx, cfg.ID),
			points: series[year],
		}
		for cc := range cd.points {
			countries[cc] = struct{}{}
		}
		data = append(data, cd)
	}

	results := make(map[string]*CompositeResult)
	for cc := range countries {
		if r := scoreCountry(cc, data, weights); r != nil {
			results[cc] = r
		}
	}

	rankResults(results)
	return results, nil
}

// scoreCountry aggregates one country's criterion scores into a composite
// result, or returns nil when the country fails the completeness gate.
func scoreCountry(cc string, data []criterionData, weights map[string]float64) *CompositeResult {
	var (
		weightedSum, totalWeight float64
		minConfidence            = 1.0
		validCount               int
	)
	components := make(map[string]ComponentScore, len(data))
	catSum := make(map[Category]float64)
	catWeight := make(map[Category]float64)

	for _, cd := range data {
		pt, ok := cd.points[cc]
		var raw *float64
		if ok {
			v := pt.Value
			raw = &v
		}
		score := Normalize(raw, cd.stats, cd.cfg)
		if score == nil {
			continue
		}

		weight := weights[cd.cfg.ID]
		weightedSum += *score * weight
		totalWeight += weight
		catSum[cd.cfg.Category] += *score * weight
		catWeight[cd.cfg.Category] += weight
		if pt.Confidence < minConfidence {
			minConfidence = pt.Confidence
		}
		validCount++

		components[cd.cfg.ID] = ComponentScore{
			Score:       *score,
			RawValue:    pt.Value,
			Confidence:  pt.Confidence,
			Weight:      weight,
			Category:    cd.cfg.Category,
			Description: cd.cfg.Description,
		}
	}

	if validCount < MinValidCriteria {
		return nil
	}

	composite := 0.0
	if totalWeight > 0 {
		composite = round1(weightedSum / totalWeight)
	}

	categoryScores := make(map[Category]float64, len(catSum))
	for cat, sum := range catSum {
		categoryScores[cat] = sum / catWeight[cat]
	}

	return &CompositeResult{
		CountryCode:      cc,
		CompositeScore:   composite,
		ComponentScores:  components,
		CategoryScores:   categoryScores,
		DataCompleteness: float64(validCount) / float64(len(criteria)),
		Confidence:       minConfidence,
	}
}

// rankResults assigns dense descending ranks in place. Tied scores share the
// rank of the first equal score in the descending order; ties break on
// country code only to keep the order deterministic.
func rankResults(results map[string]*CompositeResult) {
	type scored struct {
		code  string
		score float64
	}
	ordered := make([]scored, 0, len(results))
	for cc, r := range results {
		ordered = append(ordered, scored{code: cc, score: r.CompositeScore})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].score != ordered[j].score {
			return ordered[i].score > ordered[j].score
		}
		return ordered[i].code < ordered[j].code
	})

	total := len(ordered)
	for i, s := range ordered {
		rank := i + 1
		if i > 0 && s.score == ordered[i-1].score {
			rank = results[ordered[i-1].code].Ranking.Rank
		}
		results[s.code].Ranking = Ranking{
			Rank:           rank,
			Percentile:     math.Round((1 - float64(rank-1)/float64(total)) * 100),
			TotalCountries: total,
		}
	}
}
