package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tuner "github.com/tphakala/go-tuner"
	"github.com/tphakala/go-tuner/internal/source"
	"github.com/tphakala/go-tuner/internal/tone"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := NewViper("")
	require.NoError(t, err)
	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, tuner.DefaultAnimationDuration, c.Needle.AnimationDuration)
	assert.Equal(t, tuner.DefaultFrameInterval, c.Needle.FrameInterval)
	assert.Equal(t, SourceSweep, c.Source.Kind)
	assert.Equal(t, "A4", c.Source.Sweep.Note)
	assert.Equal(t, source.DefaultScriptInterval, c.Source.Script.Interval)
	assert.Equal(t, "auto", c.Display.Mode)
	assert.Equal(t, tone.DefaultSampleRate, c.Tone.SampleRate)
	assert.NoError(t, c.ToneConfig().Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
needle:
  animation_duration: 250ms
  easing: linear
source:
  kind: script
  script:
    path: strings.txt
    interval: 100ms
    loop: true
display:
  mode: line
report:
  path: report.yaml
  tolerance: 5
`)
	v, err := NewViper(path)
	require.NoError(t, err)
	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 250*time.Millisecond, c.Needle.AnimationDuration)
	assert.Equal(t, SourceScript, c.Source.Kind)
	assert.Equal(t, "strings.txt", c.Source.Script.Path)
	assert.True(t, c.Source.Script.Loop)
	assert.Equal(t, "report.yaml", c.Report.Path)
	assert.Equal(t, 5.0, c.Report.Tolerance)

	sc := c.ScriptConfig(nil)
	assert.Equal(t, 100*time.Millisecond, sc.Interval)
	assert.NoError(t, sc.Validate())

	session, err := c.SessionConfig(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, session.Tuner.AnimationDuration)
	assert.InDelta(t, 0.3, session.Tuner.Easing(0.3), 1e-12, "linear easing")
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TUNER_SOURCE_SWEEP_NOTE", "E2")
	t.Setenv("TUNER_NEEDLE_FRAME_INTERVAL", "40ms")

	v, err := NewViper("")
	require.NoError(t, err)
	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 40*time.Millisecond, c.Needle.FrameInterval)
	sweep, err := c.SweepConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, tuner.Note{Name: tuner.E, Octave: 2}, sweep.Note)
}

func TestNewViper_MissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		t.Helper()
		t.Chdir(t.TempDir())
		v, err := NewViper("")
		require.NoError(t, err)
		c, err := Load(v)
		require.NoError(t, err)
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"easing", func(c *Config) { c.Needle.Easing = "bounce" }},
		{"source kind", func(c *Config) { c.Source.Kind = "microphone" }},
		{"sweep note", func(c *Config) { c.Source.Sweep.Note = "H2" }},
		{"display mode", func(c *Config) { c.Display.Mode = "hologram" }},
		{"tolerance", func(c *Config) { c.Report.Tolerance = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base(t)
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestComponentConfigs_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	v, err := NewViper("")
	require.NoError(t, err)
	c, err := Load(v)
	require.NoError(t, err)

	c.Needle.FrameInterval = 0
	_, err = c.SessionConfig(nil, nil)
	assert.ErrorIs(t, err, tuner.ErrInvalidConfig)

	c.Source.Sweep.Span = 2
	_, err = c.SweepConfig(nil)
	assert.ErrorIs(t, err, tuner.ErrInvalidConfig)
}
