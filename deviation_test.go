package tuner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-tuner/internal/testutil"
)

func TestDeviation_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		live, ref float64
		want      float64
	}{
		{"in_tune", 440, 440, 0},
		{"sharp_clamped", 445, 440, 90},
		{"flat_clamped", 400, 440, -90},
		{"slightly_flat", 438, 440, -2.0 / 4.4 * 90},
		{"slightly_sharp", 442, 440, 2.0 / 4.4 * 90},
		{"exact_full_scale", 444.4, 440, 90},
		{"half_scale_low_note", 82.41 * 1.005, 82.41, 45},
		{"no_target", 440, 0, 0},
		{"negative_target", 440, -440, 0},
		{"zero_live", 0, 440, -90},
		{"nan_live", math.NaN(), 440, 0},
		{"inf_live", math.Inf(1), 440, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deviation(tt.live, tt.ref)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDeviation_SelfIsZero(t *testing.T) {
	for _, note := range ReferenceNotes() {
		ref := Reference(note)
		assert.Zero(t, Deviation(ref, ref), "note %s", note)
	}
}

func TestDeviation_AlwaysClamped(t *testing.T) {
	refs := []float64{16.35, 82.41, 440, 4186.01, 1e-3, 1e6, math.SmallestNonzeroFloat64}
	var out []float64
	for _, ref := range refs {
		for live := 0.0; live < 10000; live += 7.3 {
			out = append(out, Deviation(live, ref))
		}
		out = append(out, Deviation(math.MaxFloat64, ref), Deviation(ref, ref))
	}
	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertAllInRange(t, out, -MaxDeviation, MaxDeviation)
}

func TestDeviation_SubnormalReference(t *testing.T) {
	ref := math.SmallestNonzeroFloat64
	assert.Zero(t, Deviation(ref, ref))
	assert.Equal(t, -MaxDeviation, Deviation(0, ref))
	assert.Equal(t, MaxDeviation, Deviation(440, ref))
}

func TestDeviation_TrendsWithFrequency(t *testing.T) {
	var out []float64
	for live := 435.0; live <= 445.0; live += 0.25 {
		out = append(out, Deviation(live, 440))
	}
	testutil.AssertMonotonic(t, out, 1)
}

func TestCents(t *testing.T) {
	assert.InDelta(t, 0, Cents(440, 440), 1e-12)
	assert.InDelta(t, 1200, Cents(880, 440), 1e-9)
	assert.InDelta(t, 100, Cents(440*math.Pow(2, 1.0/12.0), 440), 1e-9)
	assert.Zero(t, Cents(440, 0))
	assert.Zero(t, Cents(0, 440))
}
