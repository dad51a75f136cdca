package index

import "github.com/meridianmaps/atlas/internal/source"

// Category groups criteria for per-category sub-scores.
type Category string

const (
	CategoryEnvironmentalRisk  Category = "Environmental Risk"
	CategoryEconomicProsperity Category = "Economic Prosperity"
	CategorySocialWelfare      Category = "Social Welfare"
)

// CriterionConfig is static per-criterion metadata. InvertScore marks
// criteria where a higher raw value means a worse outcome.
type CriterionConfig struct {
	ID          string   `json:"id"`
	InvertScore bool     `json:"invert_score"`
	Weight      float64  `json:"weight"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// MinValidCriteria is the completeness gate: a country needs valid scores for
// at least this many of the 7 criteria to appear in a year's composite set
// (ceil(7/2)).
const MinValidCriteria = 4

var criteria = []CriterionConfig{
	{
		ID:          source.CriterionFloods,
		InvertScore: true,
		Weight:      1.0,
		Description: "Projected flood risk exposure",
		Category:    CategoryEnvironmentalRisk,
	},
	{
		ID:          source.CriterionCyclones,
		InvertScore: true,
		Weight:      1.0,
		Description: "Projected tropical cyclone exposure",
		Category:    CategoryEnvironmentalRisk,
	},
	{
		ID:          source.CriterionExtremeHeat,
		InvertScore: true,
		Weight:      1.0,
		Description: "Projected extreme heat days per year",
		Category:    CategoryEnvironmentalRisk,
	},
	{
		ID:          source.CriterionWildfires,
		InvertScore: true,
		Weight:      1.0,
		Description: "Projected wildfire risk exposure",
		Category:    CategoryEnvironmentalRisk,
	},
	{
		ID:          source.CriterionWaterScarcity,
		InvertScore: true,
		Weight:      1.0,
		Description: "Projected water stress level",
		Category:    CategoryEnvironmentalRisk,
	},
	{
		ID:          source.CriterionGDPPerCapita,
		InvertScore: false,
		Weight:      1.0,
		Description: "GDP per capita, PPP-adjusted",
		Category:    CategoryEconomicProsperity,
	},
	{
		ID:          source.CriterionFoodInsecurity,
		InvertScore: true,
		Weight:      1.0,
		Description: "Share of population facing food insecurity",
		Category:    CategorySocialWelfare,
	},
}

// Criteria returns the closed criterion set in stable order. Callers must
// treat the slice as read-only.
func Criteria() []CriterionConfig {
	return criteria
}

// CriterionByID looks up one criterion config.
func CriterionByID(id string) (CriterionConfig, bool) {
	for _, c := range criteria {
		if c.ID == id {
			return c, true
		}
	}
	return CriterionConfig{}, false
}
