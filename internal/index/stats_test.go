package index

import (
	"math"
	"testing"
	"time"

	"github.com/meridianmaps/atlas/internal/source"
)

func seriesOf(yearValues map[int][]float64) source.Series {
	s := make(source.Series)
	for year, values := range yearValues {
		byCountry := make(map[string]source.RawDataPoint, len(values))
		for i, v := range values {
			cc := string(rune('A'+i)) + "AA"
			byCountry[cc] = source.RawDataPoint{
				Value:       v,
				Confidence:  0.9,
				Source:      "test",
				LastUpdated: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}
		}
		s[year] = byCountry
	}
	return s
}

func TestComputeStatsBasics(t *testing.T) {
	s := seriesOf(map[int][]float64{
		2000: {10, 20, 30, 40, 50},
		2010: {60, 70, 80, 90, 100},
	})
	stats := ComputeStats(s)

	if stats.Min != 10 {
		t.Errorf("min: got %f, want 10", stats.Min)
	}
	if stats.Max != 100 {
		t.Errorf("max: got %f, want 100", stats.Max)
	}
	if math.Abs(stats.Mean-55) > 1e-9 {
		t.Errorf("mean: got %f, want 55", stats.Mean)
	}
	if stats.Count != 10 {
		t.Errorf("count: got %d, want 10", stats.Count)
	}
	if stats.Range != 90 {
		t.Errorf("range: got %f, want 90", stats.Range)
	}
	// Population std of 10..100 step 10
	want := math.Sqrt(825.0)
	if math.Abs(stats.Std-want) > 1e-9 {
		t.Errorf("std: got %f, want %f", stats.Std, want)
	}
}

func TestComputeStatsNearestRankPercentiles(t *testing.T) {
	// n=10: p10 index = floor(1.0) = 1, p90 index = floor(9.0) = 9
	s := seriesOf(map[int][]float64{
		2000: {10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})
	stats := ComputeStats(s)

	if stats.P10 != 20 {
		t.Errorf("p10: got %f, want 20 (nearest-rank, not interpolated)", stats.P10)
	}
	if stats.P90 != 100 {
		t.Errorf("p90: got %f, want 100", stats.P90)
	}
}

func TestComputeStatsSingleValue(t *testing.T) {
	s := seriesOf(map[int][]float64{2000: {42}})
	stats := ComputeStats(s)

	if stats.P10 != 42 || stats.P90 != 42 {
		t.Errorf("single-value percentiles: got p10=%f p90=%f, want 42/42", stats.P10, stats.P90)
	}
	if stats.Std != 0 {
		t.Errorf("std of single value: got %f, want 0", stats.Std)
	}
}

func TestComputeStatsEmptyReturnsNeutral(t *testing.T) {
	stats := ComputeStats(source.Series{})
	want := NeutralStats()
	if stats != want {
		t.Errorf("empty series: got %+v, want neutral default %+v", stats, want)
	}
}

func TestComputeStatsSkipsNaN(t *testing.T) {
	s := source.Series{
		2000: {
			"USA": {Value: 10},
			"CAN": {Value: math.NaN()},
			"MEX": {Value: math.Inf(1)},
		},
	}
	stats := ComputeStats(s)
	if stats.Count != 1 {
		t.Errorf("count: got %d, want 1 (NaN/Inf excluded)", stats.Count)
	}
	if stats.Min != 10 || stats.Max != 10 {
		t.Errorf("got min=%f max=%f, want 10/10", stats.Min, stats.Max)
	}
}

func TestComputeStatsAllInvalidReturnsNeutral(t *testing.T) {
	s := source.Series{
		2000: {"USA": {Value: math.NaN()}},
	}
	if stats := ComputeStats(s); stats != NeutralStats() {
		t.Errorf("all-NaN series should degrade to neutral, got %+v", stats)
	}
}
