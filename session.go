package tuner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Session errors.
var (
	// ErrSourceStart indicates the pitch source failed to start.
	ErrSourceStart = errors.New("pitch source failed to start")

	// ErrSourceRunning indicates Start was called on a running source.
	ErrSourceRunning = errors.New("pitch source already running")
)

// Source delivers detected frequencies, typically from a pitch detector.
// Listeners may be invoked from any goroutine.
type Source interface {
	// Start begins delivering samples to subscribers.
	Start(ctx context.Context) error

	// Stop halts delivery. It is safe to call more than once.
	Stop() error

	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func(Sample)) (unsubscribe func())
}

// Renderer draws frames produced by a session.
type Renderer interface {
	Render(frame Frame) error
}

// Observer is notified of every accepted reading.
type Observer interface {
	Observe(reading Reading)
}

// SessionConfig holds session configuration.
type SessionConfig struct {
	// Tuner configures the needle animation.
	Tuner *Config

	// FrameInterval is the period between rendered frames.
	FrameInterval time.Duration

	// Observer optionally receives each accepted reading.
	Observer Observer

	// Clock returns the current time. Nil uses time.Now.
	Clock func() time.Time

	// Logger receives lifecycle events. Nil disables logging.
	Logger *zap.Logger
}

// Validate checks if the configuration is valid.
func (c *SessionConfig) Validate() error {
	if c.FrameInterval <= 0 {
		return fmt.Errorf("%w: frame interval must be positive", ErrInvalidConfig)
	}
	if c.Tuner != nil {
		return c.Tuner.Validate()
	}
	return nil
}

// Session connects a source to a renderer through a Tuner.
//
// A single goroutine, the one calling Run, applies samples and advances the
// needle, so the animation state is never touched concurrently.
type Session struct {
	source   Source
	renderer Renderer
	tuner    *Tuner
	observer Observer
	interval time.Duration
	clock    func() time.Time
	logger   *zap.Logger
}

// NewSession creates a session. A nil config uses default tuner settings and
// DefaultFrameInterval.
func NewSession(source Source, renderer Renderer, config *SessionConfig) (*Session, error) {
	if source == nil || renderer == nil {
		return nil, fmt.Errorf("%w: source and renderer are required", ErrInvalidConfig)
	}
	if config == nil {
		config = &SessionConfig{FrameInterval: DefaultFrameInterval}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tunerConfig := config.Tuner
	if tunerConfig == nil {
		tunerConfig = DefaultConfig()
	}
	if tunerConfig.Logger == nil {
		withLogger := *tunerConfig
		withLogger.Logger = logger
		tunerConfig = &withLogger
	}

	t, err := New(tunerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create tuner: %w", err)
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Session{
		source:   source,
		renderer: renderer,
		tuner:    t,
		observer: config.Observer,
		interval: config.FrameInterval,
		clock:    clock,
		logger:   logger,
	}, nil
}

// Tuner returns the session's tuner. Only read it after Run returns.
func (s *Session) Tuner() *Tuner {
	return s.tuner
}

// Run starts the source and renders frames until ctx is canceled.
// It unsubscribes and stops the source before returning. A source that fails
// to start is reported as ErrSourceStart and no sample is processed.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	samples := make(chan Sample)
	unsubscribe := s.source.Subscribe(func(sample Sample) {
		select {
		case samples <- sample:
		case <-ctx.Done():
		}
	})
	defer unsubscribe()

	if err := s.source.Start(ctx); err != nil {
		s.logger.Warn("pitch source failed to start", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSourceStart, err)
	}
	s.logger.Info("pitch source started", zap.Duration("frame_interval", s.interval))

	defer func() {
		// Release a listener blocked on samples before waiting on the source.
		cancel()
		if err := s.source.Stop(); err != nil {
			s.logger.Warn("failed to stop pitch source", zap.Error(err))
		}
		s.logger.Info("pitch source stopped")
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.render()
		case sample := <-samples:
			s.apply(sample)
		case <-ticker.C:
			if err := s.render(); err != nil {
				return err
			}
		}
	}
}

// apply runs one sample through the tuner, keeping the previous display on
// rejection.
func (s *Session) apply(sample Sample) {
	reading, err := s.tuner.Process(sample, s.clock())
	if err != nil {
		return
	}
	if s.observer != nil {
		s.observer.Observe(reading)
	}
}

func (s *Session) render() error {
	if err := s.renderer.Render(s.tuner.Frame(s.clock())); err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}
	return nil
}
