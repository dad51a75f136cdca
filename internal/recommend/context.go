package recommend

import (
	"sort"

	"github.com/meridianmaps/atlas/internal/index"
)

// CountryContext is the slice of index output shipped to the recommender.
// The recommender is a black box; we only guarantee the context ordering.
type CountryContext struct {
	CountryCode     string             `json:"country_code"`
	CompositeScore  float64            `json:"composite_score"`
	Rank            int                `json:"rank"`
	ComponentScores map[string]float64 `json:"component_scores"`
	Completeness    float64            `json:"data_completeness"`
}

// BuildContext flattens composite results into recommender context entries,
// ordered by descending composite score with country code breaking ties.
func BuildContext(results map[string]*index.CompositeResult) []CountryContext {
	out := make([]CountryContext, 0, len(results))
	for code, r := range results {
		if r == nil {
			continue
		}
		components := make(map[string]float64, len(r.ComponentScores))
		for id, c := range r.ComponentScores {
			components[id] = c.Score
		}
		out = append(out, CountryContext{
			CountryCode:     code,
			CompositeScore:  r.CompositeScore,
			Rank:            r.Ranking.Rank,
			ComponentScores: components,
			Completeness:    r.DataCompleteness,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompositeScore != out[j].CompositeScore {
			return out[i].CompositeScore > out[j].CompositeScore
		}
		return out[i].CountryCode < out[j].CountryCode
	})
	return out
}
