package tuner

import (
	"math"
	"time"
)

// Equal temperament reference constants
const (
	concertA4         = 440.0 // A4 reference pitch in Hz
	c0OffsetOctaves   = -4.75 // C0 sits 4.75 octaves (57 half-steps) below A4
	halfStepsPerOct   = 12    // Half-steps in one octave
	centsPerOctave    = 1200  // Cents in one octave
	notesPerOctave    = 12    // Chromatic note names
	minTableOctave    = 0     // Lowest octave in the reference table
	maxTableOctave    = 8     // Highest octave in the reference table
	referenceNotesLen = 97    // C0 through C8 inclusive

	// maxOctaveMagnitude keeps octave*halfStepsPerOct plus a note index within int.
	maxOctaveMagnitude = math.MaxInt/halfStepsPerOct - 1
)

// Deviation mapping constants
const (
	// MaxDeviation is the needle's full-scale angle in degrees.
	MaxDeviation = 90.0

	// deviationScale is the fraction of the reference frequency that maps to full scale.
	deviationScale = 0.01
)

// Animation defaults
const (
	// DefaultAnimationDuration is the time the needle takes to reach a new target.
	DefaultAnimationDuration = 500 * time.Millisecond

	// DefaultFrameInterval is the session's needle refresh period (~60 fps).
	DefaultFrameInterval = 16 * time.Millisecond

	// frequencyLabelPrecision is the number of decimals shown for a live frequency.
	frequencyLabelPrecision = 2
)
