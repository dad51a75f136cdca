package index

import (
	"context"
	"sort"
)

const (
	strengthThreshold = 75
	weaknessThreshold = 25
	defaultRankLimit  = 10
)

// ComponentInsight is one notably strong or weak criterion in a breakdown.
type ComponentInsight struct {
	CriterionID string   `json:"criterion_id"`
	Score       float64  `json:"score"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

// Breakdown is a country's composite result annotated with its strongest and
// weakest components.
type Breakdown struct {
	Result     *CompositeResult   `json:"result"`
	Strengths  []ComponentInsight `json:"strengths"`
	Weaknesses []ComponentInsight `json:"weaknesses"`
}

// RankedCountry is one row of a top/bottom ranking.
type RankedCountry struct {
	CountryCode string  `json:"country_code"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
	Percentile  float64 `json:"percentile"`
}

// Rankings holds the top and bottom slices of a year's composite set. Both
// slices read best-to-worst.
type Rankings struct {
	Top    []RankedCountry `json:"top"`
	Bottom []RankedCountry `json:"bottom"`
	Total  int             `json:"total"`
}

// Breakdown returns the composite result for one country with strengths
// (components scoring >= 75) and weaknesses (<= 25). A country absent from
// the year's composite set yields (nil, nil), not an error.
func (e *Engine) Breakdown(ctx context.Context, country string, year int, scheme string) (*Breakdown, error) {
	results, err := e.Composite(ctx, year, scheme)
	if err != nil {
		return nil, err
	}
	result, ok := results[country]
	if !ok {
		return nil, nil
	}

	b := &Breakdown{Result: result}
	for _, id := range orderedComponentIDs(result) {
		comp := result.ComponentScores[id]
		insight := ComponentInsight{
			CriterionID: id,
			Score:       comp.Score,
			Category:    comp.Category,
			Description: comp.Description,
		}
		switch {
		case comp.Score >= strengthThreshold:
			b.Strengths = append(b.Strengths, insight)
		case comp.Score <= weaknessThreshold:
			b.Weaknesses = append(b.Weaknesses, insight)
		}
	}
	return b, nil
}

// Rankings returns the top and bottom limit countries by composite score.
// An empty composite set yields empty slices, never an error.
func (e *Engine) Rankings(ctx context.Context, year int, scheme string, limit int) (*Rankings, error) {
	results, err := e.Composite(ctx, year, scheme)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRankLimit
	}

	ordered := orderedResults(results)
	rankings := &Rankings{
		Top:    []RankedCountry{},
		Bottom: []RankedCountry{},
		Total:  len(ordered),
	}

	n := len(ordered)
	if limit > n {
		limit = n
	}
	for _, r := range ordered[:limit] {
		rankings.Top = append(rankings.Top, toRanked(r))
	}
	for _, r := range ordered[n-limit:] {
		rankings.Bottom = append(rankings.Bottom, toRanked(r))
	}
	return rankings, nil
}

// Compare restricts a year's composite map to the requested countries.
// Countries without a composite result are silently omitted.
func (e *Engine) Compare(ctx context.Context, countries []string, year int, scheme string) (map[string]*CompositeResult, error) {
	results, err := e.Composite(ctx, year, scheme)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*CompositeResult, len(countries))
	for _, cc := range countries {
		if r, ok := results[cc]; ok {
			out[cc] = r
		}
	}
	return out, nil
}

func toRanked(r *CompositeResult) RankedCountry {
	return RankedCountry{
		CountryCode: r.CountryCode,
		Score:       r.CompositeScore,
		Rank:        r.Ranking.Rank,
		Percentile:  r.Ranking.Percentile,
	}
}

// orderedResults sorts a composite map by descending score, country code as
// tie-break, matching the ranking order.
func orderedResults(results map[string]*CompositeResult) []*CompositeResult {
	ordered := make([]*CompositeResult, 0, len(results))
	for _, r := range results {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].CompositeScore != ordered[j].CompositeScore {
			return ordered[i].CompositeScore > ordered[j].CompositeScore
		}
		return ordered[i].CountryCode < ordered[j].CountryCode
	})
	return ordered
}

// orderedComponentIDs walks a result's components in the static criterion
// order so breakdown output is stable.
func orderedComponentIDs(r *CompositeResult) []string {
	ids := make([]string, 0, len(r.ComponentScores))
	for _, cfg := range criteria {
		if _, ok := r.ComponentScores[cfg.ID]; ok {
			ids = append(ids, cfg.ID)
		}
	}
	return ids
}
