package index

import "math"

// Normalize maps one raw value to a 0-100 score using percentile clamping.
// A nil or non-finite raw value yields nil: missing data propagates instead
// of defaulting to zero. A degenerate p10==p90 range yields exactly 50.
func Normalize(raw *float64, stats GlobalStats, cfg CriterionConfig) *float64 {
	if raw == nil || math.IsNaN(*raw) || math.IsInf(*raw, 0) {
		return nil
	}

	span := stats.P90 - stats.P10
	if span == 0 {
		mid := 50.0
		return &mid
	}

	v := clamp(*raw, stats.P10, stats.P90)
	scaled := (v - stats.P10) / span
	if cfg.InvertScore {
		scaled = 1 - scaled
	}
	score := round1(scaled * 100)
	return &score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
