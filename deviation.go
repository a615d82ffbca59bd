package tuner

import "math"

// Deviation maps a live frequency to a needle angle relative to reference.
//
// One percent of the reference frequency corresponds to full scale, so the
// needle's sensitivity follows the target pitch across octaves. This is a
// linear approximation, not cents; see Reading.Cents for the logarithmic value.
// The result is clamped to [-MaxDeviation, MaxDeviation]. A reference of 0
// (note outside the table) or non-finite input yields 0, centering the needle.
func Deviation(live, reference float64) float64 {
	if !validFrequency(reference) || math.IsNaN(live) || math.IsInf(live, 0) {
		return 0
	}

	// The ratio form stays defined for subnormal references, where
	// reference*deviationScale would underflow to zero.
	raw := (live/reference - 1) / deviationScale * MaxDeviation
	return clamp(raw, -MaxDeviation, MaxDeviation)
}

// Cents returns the pitch difference between live and reference in cents.
// It returns 0 when either frequency is invalid.
func Cents(live, reference float64) float64 {
	if !validFrequency(live) || !validFrequency(reference) {
		return 0
	}
	return centsPerOctave * math.Log2(live/reference)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
