package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	tuner "github.com/tphakala/go-tuner"
)

// ErrInvalidScript indicates a sample script that could not be parsed.
var ErrInvalidScript = errors.New("invalid sample script")

// Default script settings
const (
	DefaultScriptInterval = 50 * time.Millisecond // ~20 detections per second
	commentPrefix         = "#"
	maxTextFields         = 2
)

// ScriptConfig holds script replay configuration.
type ScriptConfig struct {
	// Interval is the delay between consecutive samples.
	Interval time.Duration

	// Loop restarts the script after the last sample.
	Loop bool

	// Logger receives lifecycle events. Nil disables logging.
	Logger *zap.Logger
}

// Validate checks if the configuration is valid.
func (c *ScriptConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: script interval must be positive", tuner.ErrInvalidConfig)
	}
	return nil
}

// Script replays a fixed list of samples at a steady interval.
type Script struct {
	broadcaster
	runner

	samples  []tuner.Sample
	interval time.Duration
	loop     bool
	logger   *zap.Logger
	finished chan struct{}
	finish   sync.Once
}

// NewScript creates a script source. A nil config uses DefaultScriptInterval.
func NewScript(samples []tuner.Sample, config *ScriptConfig) (*Script, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrInvalidScript)
	}
	if config == nil {
		config = &ScriptConfig{Interval: DefaultScriptInterval}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Script{
		samples:  samples,
		interval: config.Interval,
		loop:     config.Loop,
		logger:   logger,
		finished: make(chan struct{}),
	}, nil
}

// Start begins replaying samples.
func (s *Script) Start(ctx context.Context) error {
	s.logger.Info("starting script source",
		zap.Int("samples", len(s.samples)),
		zap.Duration("interval", s.interval),
		zap.Bool("loop", s.loop))
	return s.start(ctx, s.run)
}

// Stop halts replay and waits for the emitting goroutine to exit.
func (s *Script) Stop() error {
	s.stop()
	return nil
}

// Finished is closed once a non-looping script has emitted every sample.
func (s *Script) Finished() <-chan struct{} {
	return s.finished
}

func (s *Script) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		if i == len(s.samples) {
			if !s.loop {
				s.logger.Debug("script source finished")
				s.finish.Do(func() { close(s.finished) })
				return
			}
			i = 0
		}

		s.publish(s.samples[i])

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ParseText reads one sample per line as "<frequency> [tone]".
// Blank lines and lines starting with '#' are ignored.
func ParseText(r io.Reader) ([]tuner.Sample, error) {
	var samples []tuner.Sample
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, commentPrefix) {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) > maxTextFields {
			return nil, fmt.Errorf("%w: line %d: expected \"<frequency> [tone]\"", ErrInvalidScript, line)
		}

		freq, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidScript, line, err)
		}

		sample := tuner.Sample{Frequency: freq}
		if len(fields) == maxTextFields {
			sample.Tone = fields[1]
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return samples, nil
}

// yamlScript is the YAML script document.
type yamlScript struct {
	Samples []yamlSample `yaml:"samples"`
}

type yamlSample struct {
	Frequency float64 `yaml:"frequency"`
	Tone      string  `yaml:"tone,omitempty"`
	Repeat    int     `yaml:"repeat,omitempty"`
}

// ParseYAML reads a YAML script:
//
//	samples:
//	  - frequency: 438.0
//	    repeat: 10
//	  - frequency: 440.0
//	    tone: A
func ParseYAML(r io.Reader) ([]tuner.Sample, error) {
	var doc yamlScript
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	var samples []tuner.Sample
	for i, s := range doc.Samples {
		if s.Repeat < 0 {
			return nil, fmt.Errorf("%w: sample %d: negative repeat", ErrInvalidScript, i)
		}
		n := max(s.Repeat, 1)
		for range n {
			samples = append(samples, tuner.Sample{Frequency: s.Frequency, Tone: s.Tone})
		}
	}
	return samples, nil
}

// LoadScript reads a script file, choosing the format by extension:
// .yaml and .yml are YAML, anything else is the line format.
func LoadScript(path string) ([]tuner.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseText(f)
	}
}
