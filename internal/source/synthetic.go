package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"
)

// interpolatedConfidenceFactor reduces the confidence of gap-filled points so
// min-confidence tracking downstream stays meaningful.
const interpolatedConfidenceFactor = 0.7

// anchorStep spaces the "observed" years; decades between anchors are
// linearly interpolated.
const anchorStep = 20

const observedConfidence = 0.9

// profile bounds the synthetic value range for one criterion.
type profile struct {
	base   float64
	spread float64
}

var profiles = map[string]profile{
	CriterionFloods:         {base: 10, spread: 80},
	CriterionCyclones:       {base: 5, spread: 70},
	CriterionExtremeHeat:    {base: 15, spread: 75},
	CriterionWildfires:      {base: 5, spread: 85},
	CriterionWaterScarcity:  {base: 10, spread: 80},
	CriterionGDPPerCapita:   {base: 2000, spread: 78000},
	CriterionFoodInsecurity: {base: 2, spread: 55},
}

// defaultCountries is the country set the synthetic dataset covers.
var defaultCountries = []string{
	"USA", "CAN", "MEX", "BRA", "ARG", "CHL", "GBR", "FRA", "DEU", "ESP",
	"ITA", "NLD", "BEL", "CHE", "SWE", "NOR", "FIN", "DNK", "POL", "GRC",
	"RUS", "TUR", "EGY", "NGA", "ZAF", "KEN", "ETH", "MAR", "IND", "CHN",
	"JPN", "KOR", "IDN", "PHL", "VNM", "THA", "AUS", "NZL", "SAU", "ISR",
}

// SyntheticProvider generates a deterministic mock dataset. The same
// (criterion, country, year) always yields the same point, which keeps the
// engine's caching and golden tests stable. It doubles as the fallback
// dataset when the upstream provider is unavailable.
type SyntheticProvider struct {
	countries []string
	updatedAt time.Time
}

func NewSyntheticProvider() *SyntheticProvider {
	return &SyntheticProvider{
		countries: defaultCountries,
		updatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewSyntheticProviderForCountries narrows the generated country set; used in
// tests that need a small, fully-controlled dataset.
func NewSyntheticProviderForCountries(countries []string) *SyntheticProvider {
	p := NewSyntheticProvider()
	p.countries = countries
	return p
}

func (p *SyntheticProvider) FetchSeries(_ context.Context, criterionID string) (Series, error) {
	prof, ok := profiles[criterionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCriterion, criterionID)
	}

	series := make(Series)
	for _, year := range DecadeYears() {
		byCountry := make(map[string]RawDataPoint, len(p.countries))
		for _, cc := range p.countries {
			byCountry[cc] = p.point(criterionID, cc, year, prof)
		}
		series[year] = byCountry
	}
	return series, nil
}

func (p *SyntheticProvider) point(criterionID, country string, year int, prof profile) RawDataPoint {
	if (year-2000)%anchorStep == 0 {
		return RawDataPoint{
			Value:       prof.base + unitHash(criterionID, country, year)*prof.spread,
			Confidence:  observedConfidence,
			Source:      "synthetic",
			LastUpdated: p.updatedAt,
		}
	}

	// Gap decade: interpolate between the surrounding anchors.
	prev := year - (year-2000)%anchorStep
	next := prev + anchorStep
	lo := prof.base + unitHash(criterionID, country, prev)*prof.spread
	hi := prof.base + unitHash(criterionID, country, next)*prof.spread
	frac := float64(year-prev) / float64(anchorStep)
	return RawDataPoint{
		Value:       lo + (hi-lo)*frac,
		Confidence:  observedConfidence * interpolatedConfidenceFactor,
		Source:      "synthetic-interpolated",
		LastUpdated: p.updatedAt,
	}
}

// unitHash maps (criterion, country, year) deterministically into [0, 1).
func unitHash(criterionID, country string, year int) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d", criterionID, country, year)
	return float64(h.Sum64()%100000) / 100000.0
}
