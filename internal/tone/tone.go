// Package tone writes reference-pitch WAV files for tuning by ear.
package tone

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	tuner "github.com/tphakala/go-tuner"
)

// ErrInvalidConfig indicates invalid tone parameters.
var ErrInvalidConfig = errors.New("invalid tone configuration")

// Tone defaults
const (
	DefaultSampleRate = 44100
	DefaultBitDepth   = 16
	DefaultDuration   = 2 * time.Second
	DefaultAmplitude  = 0.5
	DefaultFade       = 20 * time.Millisecond

	wavFormatPCM = 1
	monoChannels = 1
	chunkSize    = 4096
	nyquistRatio = 2
)

// Supported PCM bit depths
var supportedBitDepths = map[int]bool{16: true, 24: true, 32: true}

// Config holds tone rendering parameters.
type Config struct {
	// SampleRate of the output file in Hz.
	SampleRate int

	// BitDepth of the PCM samples: 16, 24 or 32.
	BitDepth int

	// Duration of the tone.
	Duration time.Duration

	// Amplitude is the peak level in (0, 1].
	Amplitude float64

	// Fade is the length of the linear fade-in and fade-out.
	Fade time.Duration
}

// DefaultConfig returns a 2 s, 16-bit, 44.1 kHz tone at half scale.
func DefaultConfig() *Config {
	return &Config{
		SampleRate: DefaultSampleRate,
		BitDepth:   DefaultBitDepth,
		Duration:   DefaultDuration,
		Amplitude:  DefaultAmplitude,
		Fade:       DefaultFade,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidConfig)
	}
	if !supportedBitDepths[c.BitDepth] {
		return fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidConfig, c.BitDepth)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidConfig)
	}
	if c.Amplitude <= 0 || c.Amplitude > 1 {
		return fmt.Errorf("%w: amplitude must be in (0, 1]", ErrInvalidConfig)
	}
	if c.Fade < 0 || 2*c.Fade > c.Duration {
		return fmt.Errorf("%w: fade must be between 0 and half the duration", ErrInvalidConfig)
	}
	return nil
}

// Write encodes a sine at frequency as a mono PCM WAV stream.
func Write(w io.WriteSeeker, frequency float64, config *Config) error {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if frequency <= 0 || frequency*nyquistRatio >= float64(config.SampleRate) {
		return fmt.Errorf("%w: frequency %.2f Hz not representable at %d Hz", ErrInvalidConfig, frequency, config.SampleRate)
	}

	sr := beep.SampleRate(config.SampleRate)
	sine, err := generators.SineTone(sr, frequency)
	if err != nil {
		return fmt.Errorf("failed to create sine generator: %w", err)
	}

	total := sr.N(config.Duration)
	stream := beep.Take(total, sine)
	env := newFade(total, sr.N(config.Fade))
	scale := config.Amplitude * maxSampleValue(config.BitDepth)

	enc := wav.NewEncoder(w, config.SampleRate, config.BitDepth, monoChannels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: monoChannels, SampleRate: config.SampleRate},
		SourceBitDepth: config.BitDepth,
		Data:           make([]int, 0, chunkSize),
	}
	frames := make([][2]float64, chunkSize)

	pos := 0
	for {
		n, ok := stream.Stream(frames)
		buf.Data = buf.Data[:0]
		for i := range n {
			buf.Data = append(buf.Data, int(math.Round(frames[i][0]*scale*env.gain(pos))))
			pos++
		}
		if n > 0 {
			if err := enc.Write(buf); err != nil {
				return fmt.Errorf("failed to write samples: %w", err)
			}
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("sine generator failed: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

// WriteNote writes the reference pitch of note to path and returns that pitch.
func WriteNote(path string, note tuner.Note, config *Config) (float64, error) {
	ref, ok := tuner.LookupReference(note)
	if !ok {
		return 0, fmt.Errorf("%w: %s is outside the reference table", ErrInvalidConfig, note)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(f, ref, config); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output file: %w", err)
	}
	return ref, nil
}

func maxSampleValue(bitDepth int) float64 {
	return math.Exp2(float64(bitDepth-1)) - 1
}

// fade is a linear attack/release envelope.
type fade struct {
	total int
	ramp  int
}

func newFade(total, ramp int) fade {
	return fade{total: total, ramp: ramp}
}

// gain returns the envelope level at sample pos.
func (f fade) gain(pos int) float64 {
	if f.ramp <= 0 {
		return 1
	}
	if pos < f.ramp {
		return float64(pos) / float64(f.ramp)
	}
	if remaining := f.total - 1 - pos; remaining < f.ramp {
		return math.Max(float64(remaining), 0) / float64(f.ramp)
	}
	return 1
}
