package geometry

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

type IssueType string

const (
	IssueError   IssueType = "ERROR"
	IssueWarning IssueType = "WARNING"
	IssueInfo    IssueType = "INFO"
)

type IssueCategory string

const (
	CategoryStructure    IssueCategory = "STRUCTURE"
	CategoryGeometryType IssueCategory = "GEOMETRY_TYPE"
	CategoryRing         IssueCategory = "RING"
	CategoryCoordinates  IssueCategory = "COORDINATES"
	CategoryArea         IssueCategory = "AREA"
	CategoryComplexity   IssueCategory = "COMPLEXITY"
	CategorySpecialCase  IssueCategory = "SPECIAL_CASE"
)

// Issue is a single validation finding. Only ERROR issues affect validity.
type Issue struct {
	Type     IssueType     `json:"type"`
	Category IssueCategory `json:"category"`
	Message  string        `json:"message"`
	Feature  string        `json:"feature,omitempty"`
}

// Metrics are the per-feature geometry measurements.
type Metrics struct {
	AreaKm2                float64 `json:"area_km2"`
	PerimeterKm            float64 `json:"perimeter_km"`
	VertexCount            int     `json:"vertex_count"`
	ComplexityRatio        float64 `json:"complexity_ratio"`
	AverageSegmentLength   float64 `json:"average_segment_length_km"`
	CoordinateValidityRate float64 `json:"coordinate_validity_rate"`
}

// Result is the validation outcome for one country feature.
type Result struct {
	CountryCode string  `json:"country_code"`
	CountryName string  `json:"country_name"`
	IsValid     bool    `json:"is_valid"`
	Issues      []Issue `json:"issues"`
	Metrics     Metrics `json:"metrics"`
}

// Thresholds for the advisory checks.
const (
	minAreaKm2          = 1.0
	maxAreaKm2          = 20_000_000.0
	minPerimeterKm      = 10.0
	maxVertexCount      = 50_000
	maxCoordinateErrors = 5
	maxDecimalDigits    = 6
)

// Validator runs the fixed check sequence over country border features.
type Validator struct {
	logger *slog.Logger
}

func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{logger: logger}
}

// ValidateFeature runs every check against one feature. Checks append issues
// independently and never short-circuit, with one exception: an unusable
// geometry type skips the shape checks that depend on parsed rings. The
// special-case check always runs.
func (v *Validator) ValidateFeature(f *Feature) *Result {
	r := &Result{
		CountryCode: f.CountryCode(),
		CountryName: f.CountryName(),
		Issues:      []Issue{},
	}

	v.checkStructure(f, r)
	polygons := v.checkGeometryType(f, r)
	if polygons != nil {
		v.checkRings(polygons, r)
		v.checkCoordinates(polygons, r)
		v.checkAreaPerimeter(polygons, r)
		v.checkComplexity(polygons, r)
	}
	v.checkSpecialCases(f, r)

	r.IsValid = true
	for _, issue := range r.Issues {
		if issue.Type == IssueError {
			r.IsValid = false
			break
		}
	}
	return r
}

func (v *Validator) addIssue(r *Result, t IssueType, cat IssueCategory, msg string) {
	r.Issues = append(r.Issues, Issue{Type: t, Category: cat, Message: msg, Feature: r.CountryCode})
}

// checkStructure verifies the GeoJSON envelope; each missing part is its own
// error.
func (v *Validator) checkStructure(f *Feature, r *Result) {
	if f.Type != "Feature" {
		v.addIssue(r, IssueError, CategoryStructure, fmt.Sprintf("feature type must be \"Feature\", got %q", f.Type))
	}
	if f.Properties == nil {
		v.addIssue(r, IssueError, CategoryStructure, "feature has no properties object")
	} else if f.CountryCode() == "" {
		v.addIssue(r, IssueError, CategoryStructure, "properties missing ISO_A3 country code")
	}
	if f.Geometry == nil {
		v.addIssue(r, IssueError, CategoryStructure, "feature has no geometry object")
	}
}

// checkGeometryType returns parsed polygons, or nil when the shape checks
// cannot run.
func (v *Validator) checkGeometryType(f *Feature, r *Result) [][][][]float64 {
	if f.Geometry == nil {
		return nil
	}
	if f.Geometry.Type != "Polygon" && f.Geometry.Type != "MultiPolygon" {
		v.addIssue(r, IssueError, CategoryGeometryType,
			fmt.Sprintf("geometry type must be Polygon or MultiPolygon, got %q", f.Geometry.Type))
		return nil
	}
	polygons, err := f.Geometry.Polygons()
	if err != nil {
		v.addIssue(r, IssueError, CategoryGeometryType, fmt.Sprintf("coordinates do not match geometry type: %v", err))
		return nil
	}
	return polygons
}

// checkRings requires every linear ring to be closed and carry at least 4
// positions.
func (v *Validator) checkRings(polygons [][][][]float64, r *Result) {
	for pi, poly := range polygons {
		for ri, ring := range poly {
			if len(ring) < 4 {
				v.addIssue(r, IssueError, CategoryRing,
					fmt.Sprintf("polygon %d ring %d has %d coordinates, need at least 4", pi, ri, len(ring)))
				continue
			}
			first, last := ring[0], ring[len(ring)-1]
			if len(first) < 2 || len(last) < 2 {
				continue // reported by the coordinate check
			}
			if first[0] != last[0] || first[1] != last[1] {
				v.addIssue(r, IssueError, CategoryRing,
					fmt.Sprintf("polygon %d ring %d is not closed", pi, ri))
			}
		}
	}
}

// checkCoordinates validates every position's ranges. Error reporting is
// capped per feature so a corrupt file cannot flood the issue list; the full
// extent shows up in the validity-rate metric instead.
func (v *Validator) checkCoordinates(polygons [][][][]float64, r *Result) {
	var total, invalid, excessPrecision, rangeErrors int
	for _, poly := range polygons {
		for _, ring := range poly {
			for _, pos := range ring {
				total++
				if len(pos) < 2 {
					invalid++
					if rangeErrors < maxCoordinateErrors {
						v.addIssue(r, IssueError, CategoryCoordinates, "coordinate has fewer than 2 ordinates")
						rangeErrors++
					}
					continue
				}
				lon, lat := pos[0], pos[1]
				if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
					invalid++
					if rangeErrors < maxCoordinateErrors {
						v.addIssue(r, IssueError, CategoryCoordinates,
							fmt.Sprintf("coordinate out of range: [%g, %g]", lon, lat))
						rangeErrors++
					}
					continue
				}
				if decimalDigits(lon) > maxDecimalDigits || decimalDigits(lat) > maxDecimalDigits {
					excessPrecision++
				}
			}
		}
	}

	if excessPrecision > 0 {
		v.addIssue(r, IssueWarning, CategoryCoordinates,
			fmt.Sprintf("%d coordinates exceed %d decimal digits of precision", excessPrecision, maxDecimalDigits))
	}
	if total > 0 {
		r.Metrics.CoordinateValidityRate = float64(total-invalid) / float64(total)
	}
}

// checkAreaPerimeter computes spherical area and perimeter and flags
// implausible magnitudes. The complexity ratio is exposed as a metric only.
func (v *Validator) checkAreaPerimeter(polygons [][][][]float64, r *Result) {
	var areaKm2, perimeterKm float64
	for _, poly := range polygons {
		areaKm2 += polygonAreaKm2(poly)
		if len(poly) > 0 {
			perimeterKm += ringPerimeterKm(poly[0])
		}
	}
	r.Metrics.AreaKm2 = areaKm2
	r.Metrics.PerimeterKm = perimeterKm
	r.Metrics.ComplexityRatio = complexityRatio(perimeterKm, areaKm2)

	if areaKm2 < minAreaKm2 {
		v.addIssue(r, IssueWarning, CategoryArea,
			fmt.Sprintf("area %.3f km2 below minimum %.0f km2", areaKm2, minAreaKm2))
	}
	if areaKm2 > maxAreaKm2 {
		v.addIssue(r, IssueWarning, CategoryArea,
			fmt.Sprintf("area %.0f km2 above maximum %.0f km2", areaKm2, maxAreaKm2))
	}
	if perimeterKm < minPerimeterKm {
		v.addIssue(r, IssueWarning, CategoryArea,
			fmt.Sprintf("perimeter %.3f km below minimum %.0f km", perimeterKm, minPerimeterKm))
	}
}

// checkComplexity flags excessive vertex counts; a heavy border is a
// rendering performance concern, not a correctness problem.
func (v *Validator) checkComplexity(polygons [][][][]float64, r *Result) {
	var vertices, segments int
	for _, poly := range polygons {
		for ri, ring := range poly {
			vertices += len(ring)
			// PerimeterKm covers exterior rings only; hole segments would
			// understate the average.
			if ri == 0 && len(ring) > 1 {
				segments += len(ring) - 1
			}
		}
	}
	r.Metrics.VertexCount = vertices
	if segments > 0 && r.Metrics.PerimeterKm > 0 {
		r.Metrics.AverageSegmentLength = r.Metrics.PerimeterKm / float64(segments)
	}

	if vertices > maxVertexCount {
		v.addIssue(r, IssueWarning, CategoryComplexity,
			fmt.Sprintf("vertex count %d exceeds %d, consider simplification", vertices, maxVertexCount))
	}
}

// checkSpecialCases consults the fixed country lists. These findings are
// advisory and never affect validity.
func (v *Validator) checkSpecialCases(f *Feature, r *Result) {
	code := f.CountryCode()
	if code == "" {
		return
	}
	if archipelagoCountries[code] {
		if f.Geometry == nil || f.Geometry.Type != "MultiPolygon" {
			v.addIssue(r, IssueWarning, CategorySpecialCase,
				fmt.Sprintf("%s is an archipelago and should use MultiPolygon", code))
		}
	}
	if enclaveCountries[code] {
		v.addIssue(r, IssueInfo, CategorySpecialCase,
			fmt.Sprintf("%s involves enclave territory, verify boundary handling", code))
	}
	if complexBorderCountries[code] {
		v.addIssue(r, IssueInfo, CategorySpecialCase,
			fmt.Sprintf("%s has a complex or disputed border, verify against current source data", code))
	}
}

// decimalDigits counts digits after the decimal point in the shortest
// representation of v.
func decimalDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
