package geometry

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustGeometry(t *testing.T, geomType string, coords interface{}) *Geometry {
	t.Helper()
	raw, err := json.Marshal(coords)
	if err != nil {
		t.Fatalf("marshal coordinates: %v", err)
	}
	return &Geometry{Type: geomType, Coordinates: raw}
}

// squareRing returns a closed ring around (lon, lat) with the given size in
// degrees.
func squareRing(lon, lat, size float64) [][]float64 {
	return [][]float64{
		{lon, lat},
		{lon + size, lat},
		{lon + size, lat + size},
		{lon, lat + size},
		{lon, lat},
	}
}

func validFeature(t *testing.T, code string) *Feature {
	t.Helper()
	return &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ISO_A3": code, "ADMIN": code + " land"},
		Geometry:   mustGeometry(t, "Polygon", [][][]float64{squareRing(10, 45, 2)}),
	}
}

func countIssues(r *Result, typ IssueType, cat IssueCategory) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Type == typ && issue.Category == cat {
			n++
		}
	}
	return n
}

func TestValidFeaturePasses(t *testing.T) {
	v := NewValidator(discardLogger())
	r := v.ValidateFeature(validFeature(t, "FRA"))

	if !r.IsValid {
		t.Fatalf("expected valid feature, issues: %+v", r.Issues)
	}
	if r.CountryCode != "FRA" {
		t.Errorf("country code: got %s, want FRA", r.CountryCode)
	}
	if r.Metrics.AreaKm2 <= 0 {
		t.Errorf("expected positive area, got %f", r.Metrics.AreaKm2)
	}
	if r.Metrics.VertexCount != 5 {
		t.Errorf("vertex count: got %d, want 5", r.Metrics.VertexCount)
	}
	if r.Metrics.CoordinateValidityRate != 1.0 {
		t.Errorf("validity rate: got %f, want 1.0", r.Metrics.CoordinateValidityRate)
	}
}

func TestStructureChecks(t *testing.T) {
	v := NewValidator(discardLogger())

	tests := []struct {
		name    string
		feature *Feature
		errors  int
	}{
		{
			name: "wrong feature type",
			feature: &Feature{
				Type:       "NotAFeature",
				Properties: map[string]interface{}{"ISO_A3": "FRA"},
				Geometry:   mustGeometry(t, "Polygon", [][][]float64{squareRing(0, 0, 1)}),
			},
			errors: 1,
		},
		{
			name:    "missing properties",
			feature: &Feature{Type: "Feature", Geometry: mustGeometry(t, "Polygon", [][][]float64{squareRing(0, 0, 1)})},
			errors:  1,
		},
		{
			name: "missing ISO_A3",
			feature: &Feature{
				Type:       "Feature",
				Properties: map[string]interface{}{"ADMIN": "Nowhere"},
				Geometry:   mustGeometry(t, "Polygon", [][][]float64{squareRing(0, 0, 1)}),
			},
			errors: 1,
		},
		{
			name:    "missing geometry",
			feature: &Feature{Type: "Feature", Properties: map[string]interface{}{"ISO_A3": "FRA"}},
			errors:  1,
		},
		{
			name:    "everything missing",
			feature: &Feature{},
			errors:  3, // type, properties, geometry
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := v.ValidateFeature(tt.feature)
			if r.IsValid {
				t.Error("expected invalid feature")
			}
			if got := countIssues(r, IssueError, CategoryStructure); got != tt.errors {
				t.Errorf("structure errors: got %d, want %d (issues: %+v)", got, tt.errors, r.Issues)
			}
		})
	}
}

func TestGeometryTypeCheck(t *testing.T) {
	v := NewValidator(discardLogger())
	f := &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ISO_A3": "FRA"},
		Geometry:   mustGeometry(t, "Point", []float64{2.35, 48.85}),
	}
	r := v.ValidateFeature(f)

	if r.IsValid {
		t.Error("Point geometry must be invalid")
	}
	if countIssues(r, IssueError, CategoryGeometryType) != 1 {
		t.Errorf("expected one geometry-type error, issues: %+v", r.Issues)
	}
	// Shape checks are skipped, but structure passed and metrics stay zero.
	if r.Metrics.VertexCount != 0 {
		t.Errorf("shape metrics must not run for bad geometry type, got %d vertices", r.Metrics.VertexCount)
	}
}

func TestRingClosureCheck(t *testing.T) {
	v := NewValidator(discardLogger())

	open := [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}} // 4 points, not closed
	f := &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ISO_A3": "FRA"},
		Geometry:   mustGeometry(t, "Polygon", [][][]float64{open}),
	}
	r := v.ValidateFeature(f)

	if r.IsValid {
		t.Error("unclosed ring must invalidate the feature")
	}
	if got := countIssues(r, IssueError, CategoryRing); got != 1 {
		t.Errorf("expected exactly one ring error, got %d", got)
	}
}

func TestRingTooShort(t *testing.T) {
	v := NewValidator(discardLogger())
	f := &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ISO_A3": "FRA"},
		Geometry:   mustGeometry(t, "Polygon", [][][]float64{{{0, 0}, {1, 0}, {0, 0}}}),
	}
	r := v.ValidateFeature(f)

	if r.IsValid {
		t.Error("3-point ring must be invalid")
	}
	if countIssues(r, IssueError, CategoryRing) != 1 {
		t.Errorf("expected one ring error, issues: %+v", r.Issues)
	}
}

func TestCoordinateRangeCheckAndCap(t *testing.T) {
	v := NewValidator(discardLogger())

	// Build a ring with 1000 out-of-range longitudes.
	ring := [][]float64{}
	for i := 0; i < 1000; i++ {
		ring = append(ring, []float64{200 + float64(i%5), 0})
	}
	ring = append(ring, ring[0]) // close it
	f := &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ISO_A3": "XXX"},
		Geometry:   mustGeometry(t, "Polygon", [][][]float64{ring}),
	}
	r := v.ValidateFeature(f)

	if r.IsValid {
		t.Error("out-of-range coordinates must invalidate the feature")
	}
	if got := countIssues(r, IssueError, CategoryCoordinates); got != maxCoordinateErrors {
		t.Errorf("coordinate errors must be capped at %d, got %d", maxCoordinateErrors, got)
	}
	if r.Metrics.CoordinateValidityRate != 0 {
		t.Errorf("validity rate must reflect all invalid coordinates, got %f", r.Metrics.CoordinateValidityRate)
	}
}

func TestExcessPrecisionIsWarningOnly(t *testing.T) {
	v := NewValidator(discardLogger())
	ring := [][]float64{
		{10.123456789, 45},
		{12, 45},
		{12, 47},
		{10.123456789, 45},
	}
	f := &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ISO_A3": "FRA"},
		Geometry:   mustGeometry(t, "Polygon", [][][]float64{ring}),
	}
	r := v.ValidateFeature(f)

	if !r.IsValid {
		t.Errorf("excess precision must not invalidate, issues: %+v", r.Issues)
	}
	if countIssues(r, IssueWarning, CategoryCoordinates) != 1 {
		t.Errorf("expected one precision warning, issues: %+v", r.Issues)
	}
}

func TestTinyAreaWarning(t *testing.T) {
	v := NewValidator(discardLogger())
	f := &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ISO_A3": "VVV"},
		Geometry:   mustGeometry(t, "Polygon", [][][]float64{squareRing(0, 0, 0.001)}),
	}
	r := v.ValidateFeature(f)

	if !r.IsValid {
		t.Errorf("small area is advisory only, issues: %+v", r.Issues)
	}
	if countIssues(r, IssueWarning, CategoryArea) == 0 {
		t.Error("expected area/perimeter warnings for a tiny polygon")
	}
}

func TestComplexityRatioMetric(t *testing.T) {
	v := NewValidator(discardLogger())
	r := v.ValidateFeature(validFeature(t, "FRA"))

	// A square should sit slightly above a circle's ratio of 1.0.
	if r.Metrics.ComplexityRatio < 1.0 || r.Metrics.ComplexityRatio > 1.5 {
		t.Errorf("square complexity ratio out of expected band: %f", r.Metrics.ComplexityRatio)
	}
	if r.Metrics.AverageSegmentLength <= 0 {
		t.Errorf("expected positive average segment length, got %f", r.Metrics.AverageSegmentLength)
	}
	// No issue is raised from the ratio alone.
	if countIssues(r, IssueWarning, CategoryComplexity) != 0 {
		t.Errorf("complexity ratio alone must not raise issues: %+v", r.Issues)
	}
}

func TestAverageSegmentLengthIgnoresHoles(t *testing.T) {
	v := NewValidator(discardLogger())

	solid := &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ISO_A3": "AAA"},
		Geometry:   mustGeometry(t, "Polygon", [][][]float64{squareRing(10, 45, 2)}),
	}
	holed := &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ISO_A3": "BBB"},
		Geometry: mustGeometry(t, "Polygon", [][][]float64{
			squareRing(10, 45, 2),
			squareRing(10.5, 45.5, 0.5), // hole
		}),
	}

	rs := v.ValidateFeature(solid)
	rh := v.ValidateFeature(holed)

	// Same exterior ring, so perimeter and average segment length match; the
	// hole shows up in the vertex count only.
	if rs.Metrics.PerimeterKm != rh.Metrics.PerimeterKm {
		t.Fatalf("perimeters differ: %f vs %f", rs.Metrics.PerimeterKm, rh.Metrics.PerimeterKm)
	}
	if rs.Metrics.AverageSegmentLength != rh.Metrics.AverageSegmentLength {
		t.Errorf("hole segments must not dilute average segment length: %f vs %f",
			rs.Metrics.AverageSegmentLength, rh.Metrics.AverageSegmentLength)
	}
	if rh.Metrics.VertexCount != rs.Metrics.VertexCount+5 {
		t.Errorf("hole vertices must still count: got %d, want %d", rh.Metrics.VertexCount, rs.Metrics.VertexCount+5)
	}
}

func TestArchipelagoWarning(t *testing.T) {
	v := NewValidator(discardLogger())

	t.Run("polygon archipelago warns", func(t *testing.T) {
		f := validFeature(t, "IDN")
		r := v.ValidateFeature(f)
		if !r.IsValid {
			t.Errorf("special-case warning must not invalidate, issues: %+v", r.Issues)
		}
		if countIssues(r, IssueWarning, CategorySpecialCase) != 1 {
			t.Errorf("expected archipelago warning, issues: %+v", r.Issues)
		}
	})

	t.Run("multipolygon archipelago passes", func(t *testing.T) {
		f := &Feature{
			Type:       "Feature",
			Properties: map[string]interface{}{"ISO_A3": "IDN"},
			Geometry: mustGeometry(t, "MultiPolygon", [][][][]float64{
				{squareRing(100, -5, 2)},
				{squareRing(110, -7, 1)},
			}),
		}
		r := v.ValidateFeature(f)
		if countIssues(r, IssueWarning, CategorySpecialCase) != 0 {
			t.Errorf("MultiPolygon archipelago must not warn, issues: %+v", r.Issues)
		}
	})
}

func TestEnclaveAndComplexBorderInfo(t *testing.T) {
	v := NewValidator(discardLogger())

	r := v.ValidateFeature(validFeature(t, "LSO"))
	if !r.IsValid {
		t.Errorf("INFO issues must never affect validity, issues: %+v", r.Issues)
	}
	if countIssues(r, IssueInfo, CategorySpecialCase) != 1 {
		t.Errorf("expected enclave INFO issue, issues: %+v", r.Issues)
	}

	r = v.ValidateFeature(validFeature(t, "IND"))
	if countIssues(r, IssueInfo, CategorySpecialCase) != 1 {
		t.Errorf("expected complex-border INFO issue, issues: %+v", r.Issues)
	}
	if !r.IsValid {
		t.Error("complex-border INFO must not invalidate")
	}
}

func TestChecksDoNotShortCircuit(t *testing.T) {
	v := NewValidator(discardLogger())

	// Missing ISO_A3 AND an unclosed ring: both findings must be reported.
	f := &Feature{
		Type:       "Feature",
		Properties: map[string]interface{}{"ADMIN": "Nowhere"},
		Geometry:   mustGeometry(t, "Polygon", [][][]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}),
	}
	r := v.ValidateFeature(f)

	if countIssues(r, IssueError, CategoryStructure) != 1 {
		t.Error("expected structure error alongside ring error")
	}
	if countIssues(r, IssueError, CategoryRing) != 1 {
		t.Error("expected ring error alongside structure error")
	}
}

func TestDecimalDigits(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{1, 0},
		{1.5, 1},
		{10.123456, 6},
		{10.1234567, 7},
		{-0.25, 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.v), func(t *testing.T) {
			if got := decimalDigits(tt.v); got != tt.want {
				t.Errorf("decimalDigits(%v): got %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}
