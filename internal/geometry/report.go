package geometry

import (
	"fmt"
	"time"

	"github.com/meridianmaps/atlas/internal/metrics"
)

// Recommendation is a prioritized follow-up derived from a batch run.
type Recommendation struct {
	Priority string `json:"priority"` // HIGH, MEDIUM
	Message  string `json:"message"`
}

// Averages are fleet-wide means over all validated features.
type Averages struct {
	VertexCount     float64 `json:"vertex_count"`
	AreaKm2         float64 `json:"area_km2"`
	ComplexityRatio float64 `json:"complexity_ratio"`
}

// BatchReport aggregates one validation run over a full border dataset.
type BatchReport struct {
	GeneratedAt     time.Time             `json:"generated_at"`
	TotalFeatures   int                   `json:"total_features"`
	ValidFeatures   int                   `json:"valid_features"`
	Results         []*Result             `json:"results"`
	IssueCounts     map[IssueCategory]int `json:"issue_counts"`
	SeverityCounts  map[IssueType]int     `json:"severity_counts"`
	Averages        Averages              `json:"averages"`
	Recommendations []Recommendation      `json:"recommendations"`
}

// Country returns the result for one country code, or nil when the feature
// was not part of the run.
func (r *BatchReport) Country(code string) *Result {
	for _, res := range r.Results {
		if res.CountryCode == code {
			return res
		}
	}
	return nil
}

// ValidateCollection validates every feature and assembles the batch report.
// A panic while validating one feature is converted into an ERROR result for
// that feature; the batch always completes.
func (v *Validator) ValidateCollection(fc *FeatureCollection) *BatchReport {
	report := &BatchReport{
		GeneratedAt:    time.Now().UTC(),
		TotalFeatures:  len(fc.Features),
		Results:        make([]*Result, 0, len(fc.Features)),
		IssueCounts:    make(map[IssueCategory]int),
		SeverityCounts: make(map[IssueType]int),
	}

	for i, f := range fc.Features {
		result := v.validateSafe(f, i)
		report.Results = append(report.Results, result)
		if result.IsValid {
			report.ValidFeatures++
		}
		for _, issue := range result.Issues {
			report.IssueCounts[issue.Category]++
			report.SeverityCounts[issue.Type]++
			metrics.ValidationIssues.WithLabelValues(string(issue.Type)).Inc()
		}
	}

	v.aggregate(report)
	report.Recommendations = recommendations(report)
	metrics.ValidationRuns.Inc()

	v.logger.Info("geometry validation complete",
		"features", report.TotalFeatures,
		"valid", report.ValidFeatures,
		"errors", report.SeverityCounts[IssueError],
		"warnings", report.SeverityCounts[IssueWarning],
	)
	return report
}

// validateSafe isolates one feature's validation so a malformed feature can
// never abort the batch.
func (v *Validator) validateSafe(f *Feature, idx int) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("feature validation panicked", "index", idx, "panic", r)
			result = &Result{
				CountryCode: f.CountryCode(),
				CountryName: f.CountryName(),
				IsValid:     false,
				Issues: []Issue{{
					Type:     IssueError,
					Category: CategoryStructure,
					Message:  fmt.Sprintf("validation aborted: %v", r),
					Feature:  f.CountryCode(),
				}},
			}
		}
	}()
	return v.ValidateFeature(f)
}

func (v *Validator) aggregate(report *BatchReport) {
	if len(report.Results) == 0 {
		return
	}
	var vertices, area, complexity float64
	for _, r := range report.Results {
		vertices += float64(r.Metrics.VertexCount)
		area += r.Metrics.AreaKm2
		complexity += r.Metrics.ComplexityRatio
	}
	n := float64(len(report.Results))
	report.Averages = Averages{
		VertexCount:     vertices / n,
		AreaKm2:         area / n,
		ComplexityRatio: complexity / n,
	}
}

func recommendations(report *BatchReport) []Recommendation {
	var recs []Recommendation

	structural := report.IssueCounts[CategoryStructure] + report.IssueCounts[CategoryGeometryType] + report.IssueCounts[CategoryRing]
	if structural > 0 {
		recs = append(recs, Recommendation{
			Priority: "HIGH",
			Message:  fmt.Sprintf("%d structural geometry errors found, these features cannot be rendered reliably", structural),
		})
	}
	coordErrors := 0
	for _, r := range report.Results {
		for _, issue := range r.Issues {
			if issue.Type == IssueError && issue.Category == CategoryCoordinates {
				coordErrors++
			}
		}
	}
	if coordErrors > 0 {
		recs = append(recs, Recommendation{
			Priority: "HIGH",
			Message:  fmt.Sprintf("%d coordinate errors found, re-project or clean the source dataset", coordErrors),
		})
	}

	heavy := 0
	for _, r := range report.Results {
		if r.Metrics.VertexCount > maxVertexCount {
			heavy++
		}
	}
	if report.TotalFeatures > 0 && heavy*10 > report.TotalFeatures {
		recs = append(recs, Recommendation{
			Priority: "MEDIUM",
			Message:  fmt.Sprintf("%d features exceed %d vertices, simplify geometries for rendering performance", heavy, maxVertexCount),
		})
	}
	return recs
}
