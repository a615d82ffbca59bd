package tuner

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidConfig indicates invalid tuner configuration parameters.
var ErrInvalidConfig = errors.New("invalid tuner configuration")

// Config holds tuner configuration.
type Config struct {
	// AnimationDuration is how long the needle takes to reach a new target.
	// Zero disables smoothing and the needle jumps to each raw deviation.
	AnimationDuration time.Duration

	// Easing shapes the needle animation. Nil selects EaseOutQuad.
	Easing EasingFunc

	// Logger receives debug output for rejected samples. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns the standard needle behavior: 500 ms ease-out-quad.
func DefaultConfig() *Config {
	return &Config{
		AnimationDuration: DefaultAnimationDuration,
		Easing:            EaseOutQuad,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.AnimationDuration < 0 {
		return fmt.Errorf("%w: animation duration must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Sample is one event from a pitch detector.
type Sample struct {
	// Frequency is the detected fundamental in Hz.
	Frequency float64

	// Tone is an optional detector-supplied label. The tuner ignores it.
	Tone string
}

// Reading is the result of processing one sample.
type Reading struct {
	Note      Note
	Frequency float64

	// Reference is the note's table frequency, 0 when the note is out of range.
	Reference float64

	// InRange is false when the note falls outside C0..C8.
	InRange bool

	// Deviation is the raw clamped needle angle in degrees.
	Deviation float64

	// Cents is the logarithmic pitch error, for information only.
	Cents float64
}

// Label returns the note label shown to the user, e.g. "A4".
func (r Reading) Label() string {
	return r.Note.String()
}

// FrequencyLabel returns the live frequency with two decimals, e.g. "440.00".
func (r Reading) FrequencyLabel() string {
	return strconv.FormatFloat(r.Frequency, 'f', frequencyLabelPrecision, 64)
}

// Analyze classifies frequency and computes its deviation without touching
// any animation state.
func Analyze(frequency float64) (Reading, error) {
	note, err := Classify(frequency)
	if err != nil {
		return Reading{}, err
	}

	ref, ok := LookupReference(note)
	return Reading{
		Note:      note,
		Frequency: frequency,
		Reference: ref,
		InRange:   ok,
		Deviation: Deviation(frequency, ref),
		Cents:     Cents(frequency, ref),
	}, nil
}

// Frame is the display state handed to a renderer.
type Frame struct {
	// Label is the current note, empty until the first valid sample.
	Label string

	// Frequency is the live frequency formatted with two decimals.
	Frequency string

	// Needle is the smoothed deviation angle in degrees.
	Needle float64

	// Target is the raw deviation the needle is moving toward.
	Target float64
}

// Tuner runs samples through classification, reference lookup and deviation
// mapping, and owns the needle animation. It is not safe for concurrent use.
type Tuner struct {
	smoother *Smoother
	logger   *zap.Logger
	last     Reading
	hasLast  bool
}

// New creates a tuner. A nil config uses DefaultConfig.
func New(config *Config) (*Tuner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Tuner{
		smoother: NewSmoother(config.AnimationDuration, config.Easing),
		logger:   logger,
	}, nil
}

// Process handles one detector sample at time now.
//
// Invalid frequencies are rejected with ErrInvalidFrequency and leave the
// displayed note, frequency and needle target untouched. Notes outside the
// reference table produce a reading with zero deviation.
func (t *Tuner) Process(sample Sample, now time.Time) (Reading, error) {
	reading, err := Analyze(sample.Frequency)
	if err != nil {
		t.logger.Debug("rejected sample",
			zap.Float64("frequency", sample.Frequency),
			zap.String("tone", sample.Tone),
			zap.Error(err))
		return Reading{}, err
	}

	if !reading.InRange {
		t.logger.Debug("note outside reference table",
			zap.String("note", reading.Label()),
			zap.Float64("frequency", reading.Frequency))
	}

	t.smoother.SetTarget(reading.Deviation, now)
	t.last = reading
	t.hasLast = true
	return reading, nil
}

// Last returns the most recent accepted reading.
func (t *Tuner) Last() (Reading, bool) {
	return t.last, t.hasLast
}

// Needle returns the smoothed deviation at now.
func (t *Tuner) Needle(now time.Time) float64 {
	return t.smoother.Value(now)
}

// Frame returns the display state at now.
func (t *Tuner) Frame(now time.Time) Frame {
	f := Frame{
		Needle: t.smoother.Value(now),
		Target: t.smoother.Target(),
	}
	if t.hasLast {
		f.Label = t.last.Label()
		f.Frequency = t.last.FrequencyLabel()
	}
	return f
}

// Reset clears the last reading and centers the needle.
func (t *Tuner) Reset() {
	t.smoother.Reset()
	t.last = Reading{}
	t.hasLast = false
}
