package source

import (
	"context"
	"errors"
	"time"
)

// Criterion ids form the shared vocabulary between data providers and the
// index engine. The set is closed: adding a criterion is a code change here
// and in index.Criteria.
const (
	CriterionFloods         = "floods"
	CriterionCyclones       = "cyclones"
	CriterionExtremeHeat    = "extreme_heat"
	CriterionWildfires      = "wildfires"
	CriterionWaterScarcity  = "water_scarcity"
	CriterionGDPPerCapita   = "gdp_per_capita"
	CriterionFoodInsecurity = "food_insecurity"
)

// ErrUnknownCriterion is returned for criterion ids outside the closed set.
// Unlike provider outages, this is a caller error and is never substituted
// with fallback data.
var ErrUnknownCriterion = errors.New("unknown criterion")

// KnownCriteria returns the closed criterion id set in stable order.
func KnownCriteria() []string {
	return []string{
		CriterionFloods,
		CriterionCyclones,
		CriterionExtremeHeat,
		CriterionWildfires,
		CriterionWaterScarcity,
		CriterionGDPPerCapita,
		CriterionFoodInsecurity,
	}
}

// IsKnown reports whether id is a member of the closed criterion set.
func IsKnown(id string) bool {
	for _, c := range KnownCriteria() {
		if c == id {
			return true
		}
	}
	return false
}

// DecadeYears returns the fixed year axis: 2000 through 2100 inclusive,
// step 10 (11 years).
func DecadeYears() []int {
	years := make([]int, 0, 11)
	for y := 2000; y <= 2100; y += 10 {
		years = append(years, y)
	}
	return years
}

// RawDataPoint is one observed or interpolated measurement for a
// (criterion, year, country) cell. Value may be NaN for a present-but-unusable
// reading; downstream normalization treats that the same as an absent point.
type RawDataPoint struct {
	Value       float64   `json:"value"`
	Confidence  float64   `json:"confidence"`
	Source      string    `json:"source"`
	LastUpdated time.Time `json:"last_updated"`
}

// Series is a full multi-year, multi-country raw series for one criterion:
// year -> country code -> data point. Missing years and countries are a
// normal condition, not an error.
type Series map[int]map[string]RawDataPoint

// Provider supplies the raw series for one criterion.
type Provider interface {
	FetchSeries(ctx context.Context, criterionID string) (Series, error)
}
