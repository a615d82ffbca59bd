package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	tuner "github.com/tphakala/go-tuner"
	"github.com/tphakala/go-tuner/internal/display"
	"github.com/tphakala/go-tuner/internal/report"
)

// execute runs the CLI in a clean working directory and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestClassify(t *testing.T) {
	out, err := execute(t, "classify", "440", "438", "82.41", "9000", "0")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "A4")
	assert.Contains(t, lines[1], "+0.0°")
	assert.Contains(t, lines[2], "-40.9°")
	assert.Contains(t, lines[3], "E2")
	assert.Contains(t, lines[4], "out of range")
	assert.Contains(t, lines[5], "invalid")
}

func TestClassify_BadArgument(t *testing.T) {
	_, err := execute(t, "classify", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid frequency")

	_, err = execute(t, "classify")
	assert.Error(t, err)
}

func TestClassifyRow(t *testing.T) {
	assert.True(t, strings.HasPrefix(classifyRow(440), "440.00\tA4\t440.00\t"))
	assert.True(t, strings.HasPrefix(classifyRow(-1), "-1\tinvalid"))
}

func TestTable(t *testing.T) {
	out, err := execute(t, "table")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 98, "header plus every reference note")
	assert.Contains(t, lines[1], "C0")
	assert.Contains(t, lines[1], "16.35")
	assert.Contains(t, lines[97], "C8")

	out, err = execute(t, "table", "--octave", "4")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 13)
	assert.Contains(t, out, "440.00")

	assert.Len(t, tableNotes(8), 1)
	assert.Empty(t, tableNotes(9))
}

func TestTone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "e2.wav")

	_, err := execute(t, "tone", "E2", "-o", path, "--duration", "250ms")
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44100/4))

	_, err = execute(t, "tone", "H4")
	assert.ErrorIs(t, err, tuner.ErrUnknownNote)

	_, err = execute(t, "tone", "A4", "-o", path, "--bit-depth", "12")
	assert.Error(t, err)
}

func TestRun_ScriptWithReport(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "strings.txt")
	require.NoError(t, os.WriteFile(script, []byte("# low E then A\n82.41\n82.41\n110.5 A\n"), 0o600))
	reportPath := filepath.Join(dir, "report.yaml")

	_, err := execute(t, "run",
		"--source", "script",
		"--script", script,
		"--interval", "5ms",
		"--animation", "0s",
		"--frame-interval", "5ms",
		"--display", "line",
		"--report", reportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var s report.Summary
	require.NoError(t, yaml.Unmarshal(data, &s))
	assert.Equal(t, 3, s.Samples)
	require.Len(t, s.Notes, 2)
	assert.Equal(t, "E2", s.Notes[0].Note)
	assert.Equal(t, 2, s.Notes[0].Samples)
	assert.Equal(t, "A2", s.Notes[1].Note)
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "run", "--source", "script", "--display", "line")
	assert.ErrorIs(t, err, errNoScript)

	_, err = execute(t, "run", "--source", "microphone")
	assert.Error(t, err)

	_, err = execute(t, "run", "--note", "Q9")
	assert.Error(t, err)
}

func TestLoggerFor(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	dial := display.NewTerminal(screen)
	defer func() { _ = dial.Close() }()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	quiet := loggerFor(logger, dial)
	quiet.Info("pitch source started")
	quiet.Warn("failed to stop pitch source")
	require.Equal(t, 1, logs.Len(), "only warnings reach the dial's tty")
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)

	line, err := display.Open(display.ModeLine)
	require.NoError(t, err)
	assert.Same(t, logger, loggerFor(logger, line))

	errorsOnly := zap.New(core).WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))
	assert.Same(t, errorsOnly, loggerFor(errorsOnly, dial))
}
