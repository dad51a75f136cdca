package index

import (
	"math"
	"sort"

	"github.com/meridianmaps/atlas/internal/source"
)

// GlobalStats summarizes one criterion's value distribution pooled across
// all years and countries. P10/P90 bound the usable range for
// outlier-robust normalization.
type GlobalStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	P10   float64 `json:"p10"`
	P90   float64 `json:"p90"`
	Count int     `json:"count"`
	Range float64 `json:"range"`
}

// NeutralStats is the documented degradation target when a criterion has no
// valid values: normalization against it never divides by zero.
func NeutralStats() GlobalStats {
	return GlobalStats{
		Min:   0,
		Max:   100,
		Mean:  50,
		Std:   25,
		P10:   10,
		P90:   90,
		Count: 0,
		Range: 100,
	}
}

// ComputeStats pools every present, finite value in the series and derives
// the distribution summary. Percentiles are nearest-rank: the value at index
// floor(0.1*n) / floor(0.9*n) of the ascending sort, not interpolated.
func ComputeStats(series source.Series) GlobalStats {
	var values []float64
	for _, countries := range series {
		for _, pt := range countries {
			if math.IsNaN(pt.Value) || math.IsInf(pt.Value, 0) {
				continue
			}
			values = append(values, pt.Value)
		}
	}
	if len(values) == 0 {
		return NeutralStats()
	}

	sort.Float64s(values)
	n := len(values)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	std := math.Sqrt(sqDiff / float64(n)) // population std

	return GlobalStats{
		Min:   values[0],
		Max:   values[n-1],
		Mean:  mean,
		Std:   std,
		P10:   values[int(math.Floor(0.1*float64(n)))],
		P90:   values[int(math.Floor(0.9*float64(n)))],
		Count: n,
		Range: values[n-1] - values[0],
	}
}
