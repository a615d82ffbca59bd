// Package config loads command-line settings from defaults, a YAML file and
// TUNER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	tuner "github.com/tphakala/go-tuner"
	"github.com/tphakala/go-tuner/internal/display"
	"github.com/tphakala/go-tuner/internal/report"
	"github.com/tphakala/go-tuner/internal/source"
	"github.com/tphakala/go-tuner/internal/tone"
)

// ErrInvalidConfig indicates an invalid setting.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	// EnvPrefix prefixes environment overrides, e.g. TUNER_LOG_LEVEL.
	EnvPrefix = "TUNER"

	// FileName is the config file searched for, without extension.
	FileName = "tuner"

	appDir = "go-tuner"
)

// Source kinds
const (
	SourceScript = "script"
	SourceSweep  = "sweep"
)

// Easing names
const (
	EasingOutQuad = "ease-out-quad"
	EasingLinear  = "linear"
)

// Config is the complete command-line configuration.
type Config struct {
	Verbose  bool          `mapstructure:"verbose"`
	LogLevel string        `mapstructure:"log_level"`
	Needle   NeedleConfig  `mapstructure:"needle"`
	Source   SourceConfig  `mapstructure:"source"`
	Display  DisplayConfig `mapstructure:"display"`
	Report   ReportConfig  `mapstructure:"report"`
	Tone     ToneConfig    `mapstructure:"tone"`
}

// NeedleConfig controls the needle animation and redraw rate.
type NeedleConfig struct {
	AnimationDuration time.Duration `mapstructure:"animation_duration"`
	Easing            string        `mapstructure:"easing"`
	FrameInterval     time.Duration `mapstructure:"frame_interval"`
}

// SourceConfig selects and configures the pitch source.
type SourceConfig struct {
	Kind   string       `mapstructure:"kind"`
	Script ScriptConfig `mapstructure:"script"`
	Sweep  SweepConfig  `mapstructure:"sweep"`
}

// ScriptConfig configures file replay.
type ScriptConfig struct {
	Path     string        `mapstructure:"path"`
	Interval time.Duration `mapstructure:"interval"`
	Loop     bool          `mapstructure:"loop"`
}

// SweepConfig configures the synthetic sweep.
type SweepConfig struct {
	Note   string        `mapstructure:"note"`
	Span   float64       `mapstructure:"span"`
	Period time.Duration `mapstructure:"period"`
	Rate   float64       `mapstructure:"rate"`
}

// DisplayConfig selects the renderer.
type DisplayConfig struct {
	Mode string `mapstructure:"mode"`
}

// ReportConfig controls the session report. An empty path disables it.
type ReportConfig struct {
	Path      string  `mapstructure:"path"`
	Tolerance float64 `mapstructure:"tolerance"`
}

// ToneConfig holds reference tone rendering settings.
type ToneConfig struct {
	SampleRate int           `mapstructure:"sample_rate"`
	BitDepth   int           `mapstructure:"bit_depth"`
	Duration   time.Duration `mapstructure:"duration"`
	Amplitude  float64       `mapstructure:"amplitude"`
	Fade       time.Duration `mapstructure:"fade"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")

	v.SetDefault("needle.animation_duration", tuner.DefaultAnimationDuration)
	v.SetDefault("needle.easing", EasingOutQuad)
	v.SetDefault("needle.frame_interval", tuner.DefaultFrameInterval)

	sweep := source.DefaultSweepConfig()
	v.SetDefault("source.kind", SourceSweep)
	v.SetDefault("source.script.path", "")
	v.SetDefault("source.script.interval", source.DefaultScriptInterval)
	v.SetDefault("source.script.loop", false)
	v.SetDefault("source.sweep.note", sweep.Note.String())
	v.SetDefault("source.sweep.span", sweep.Span)
	v.SetDefault("source.sweep.period", sweep.Period)
	v.SetDefault("source.sweep.rate", sweep.Rate)

	v.SetDefault("display.mode", string(display.ModeAuto))

	v.SetDefault("report.path", "")
	v.SetDefault("report.tolerance", report.DefaultTolerance)

	v.SetDefault("tone.sample_rate", tone.DefaultSampleRate)
	v.SetDefault("tone.bit_depth", tone.DefaultBitDepth)
	v.SetDefault("tone.duration", tone.DefaultDuration)
	v.SetDefault("tone.amplitude", tone.DefaultAmplitude)
	v.SetDefault("tone.fade", tone.DefaultFade)
}

// NewViper returns a viper instance with defaults and environment overrides.
// An explicit configFile must exist; otherwise tuner.yaml is searched in the
// working directory, the user config directory and /etc.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appDir))
	}
	v.AddConfigPath(filepath.Join("/etc", appDir))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the settings that are not validated by the component
// configs themselves.
func (c *Config) Validate() error {
	if _, err := easing(c.Needle.Easing); err != nil {
		return err
	}
	switch c.Source.Kind {
	case SourceSweep:
		if _, err := tuner.ParseNote(c.Source.Sweep.Note); err != nil {
			return fmt.Errorf("%w: sweep note: %w", ErrInvalidConfig, err)
		}
	case SourceScript:
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, c.Source.Kind)
	}
	switch display.Mode(c.Display.Mode) {
	case display.ModeAuto, display.ModeTerminal, display.ModeLine:
	default:
		return fmt.Errorf("%w: unknown display mode %q", ErrInvalidConfig, c.Display.Mode)
	}
	if c.Report.Tolerance < 0 {
		return fmt.Errorf("%w: report tolerance must not be negative", ErrInvalidConfig)
	}
	return nil
}

// SessionConfig builds the session settings.
func (c *Config) SessionConfig(observer tuner.Observer, logger *zap.Logger) (*tuner.SessionConfig, error) {
	ease, err := easing(c.Needle.Easing)
	if err != nil {
		return nil, err
	}
	sc := &tuner.SessionConfig{
		Tuner: &tuner.Config{
			AnimationDuration: c.Needle.AnimationDuration,
			Easing:            ease,
			Logger:            logger,
		},
		FrameInterval: c.Needle.FrameInterval,
		Observer:      observer,
		Logger:        logger,
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// ScriptConfig builds the script replay settings.
func (c *Config) ScriptConfig(logger *zap.Logger) *source.ScriptConfig {
	return &source.ScriptConfig{
		Interval: c.Source.Script.Interval,
		Loop:     c.Source.Script.Loop,
		Logger:   logger,
	}
}

// SweepConfig builds the sweep settings.
func (c *Config) SweepConfig(logger *zap.Logger) (*source.SweepConfig, error) {
	note, err := tuner.ParseNote(c.Source.Sweep.Note)
	if err != nil {
		return nil, fmt.Errorf("%w: sweep note: %w", ErrInvalidConfig, err)
	}
	sc := &source.SweepConfig{
		Note:   note,
		Span:   c.Source.Sweep.Span,
		Period: c.Source.Sweep.Period,
		Rate:   c.Source.Sweep.Rate,
		Logger: logger,
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// ToneConfig builds the reference tone settings.
func (c *Config) ToneConfig() *tone.Config {
	return &tone.Config{
		SampleRate: c.Tone.SampleRate,
		BitDepth:   c.Tone.BitDepth,
		Duration:   c.Tone.Duration,
		Amplitude:  c.Tone.Amplitude,
		Fade:       c.Tone.Fade,
	}
}

func easing(name string) (tuner.EasingFunc, error) {
	switch strings.ToLower(name) {
	case EasingOutQuad, "":
		return tuner.EaseOutQuad, nil
	case EasingLinear:
		return tuner.Linear, nil
	default:
		return nil, fmt.Errorf("%w: unknown easing %q", ErrInvalidConfig, name)
	}
}
