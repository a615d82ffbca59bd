package source

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	tuner "github.com/tphakala/go-tuner"
)

// Default sweep settings
const (
	DefaultSweepSpan   = 0.015           // ±1.5% around the reference
	DefaultSweepPeriod = 4 * time.Second // one full flat → sharp → flat cycle
	DefaultSweepRate   = 20.0            // samples per second
	maxSweepSpan       = 0.5
	triangleQuarter    = 0.25
	trianglePeak       = 0.75
)

// SweepConfig holds synthetic sweep configuration.
type SweepConfig struct {
	// Note is the pitch the sweep oscillates around.
	Note tuner.Note

	// Span is the relative excursion from the reference, e.g. 0.015 for ±1.5%.
	Span float64

	// Period is the duration of one full oscillation.
	Period time.Duration

	// Rate is the number of samples emitted per second.
	Rate float64

	// Logger receives lifecycle events. Nil disables logging.
	Logger *zap.Logger
}

// DefaultSweepConfig returns a sweep around A4.
func DefaultSweepConfig() *SweepConfig {
	return &SweepConfig{
		Note:   tuner.Note{Name: tuner.A, Octave: 4},
		Span:   DefaultSweepSpan,
		Period: DefaultSweepPeriod,
		Rate:   DefaultSweepRate,
	}
}

// Validate checks if the configuration is valid.
func (c *SweepConfig) Validate() error {
	if tuner.Reference(c.Note) == 0 {
		return fmt.Errorf("%w: sweep note %s is outside the reference table", tuner.ErrInvalidConfig, c.Note)
	}
	if c.Span <= 0 || c.Span > maxSweepSpan {
		return fmt.Errorf("%w: sweep span must be in (0, %v]", tuner.ErrInvalidConfig, maxSweepSpan)
	}
	if c.Period <= 0 {
		return fmt.Errorf("%w: sweep period must be positive", tuner.ErrInvalidConfig)
	}
	if c.Rate <= 0 || math.IsInf(c.Rate, 0) || math.IsNaN(c.Rate) {
		return fmt.Errorf("%w: sweep rate must be positive", tuner.ErrInvalidConfig)
	}
	return nil
}

// Sweep emits a frequency that glides linearly between flat and sharp of a
// note's reference pitch, like a string being tuned back and forth.
type Sweep struct {
	broadcaster
	runner

	reference float64
	config    SweepConfig
	logger    *zap.Logger
}

// NewSweep creates a sweep source. A nil config uses DefaultSweepConfig.
func NewSweep(config *SweepConfig) (*Sweep, error) {
	if config == nil {
		config = DefaultSweepConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Sweep{
		reference: tuner.Reference(config.Note),
		config:    *config,
		logger:    logger,
	}, nil
}

// Start begins emitting samples.
func (s *Sweep) Start(ctx context.Context) error {
	s.logger.Info("starting sweep source",
		zap.Stringer("note", s.config.Note),
		zap.Float64("reference", s.reference),
		zap.Float64("span", s.config.Span))
	return s.start(ctx, s.run)
}

// Stop halts emission and waits for the emitting goroutine to exit.
func (s *Sweep) Stop() error {
	s.stop()
	return nil
}

// FrequencyAt returns the swept frequency at elapsed time into the sweep.
func (s *Sweep) FrequencyAt(elapsed time.Duration) float64 {
	phase := math.Mod(float64(elapsed)/float64(s.config.Period), 1)
	return s.reference * (1 + s.config.Span*triangle(phase))
}

// triangle maps phase in [0, 1) to a wave starting at 0, peaking at +1 at
// 0.25 and bottoming at -1 at 0.75.
func triangle(phase float64) float64 {
	switch {
	case phase < triangleQuarter:
		return phase / triangleQuarter
	case phase < trianglePeak:
		return 1 - (phase-triangleQuarter)/triangleQuarter
	default:
		return (phase-trianglePeak)/triangleQuarter - 1
	}
}

func (s *Sweep) run(ctx context.Context) {
	interval := time.Duration(float64(time.Second) / s.config.Rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var elapsed time.Duration
	for {
		s.publish(tuner.Sample{Frequency: s.FrequencyAt(elapsed)})

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed += interval
		}
	}
}
