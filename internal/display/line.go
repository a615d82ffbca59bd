package display

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"

	tuner "github.com/tphakala/go-tuner"
)

// Line rendering
const (
	lineGaugeWidth = 31
	lineNeedleStep = 1.0 // degrees; smaller needle moves are not reprinted
)

// Line writes one text line per visible change, for pipes and logs.
type Line struct {
	w       io.Writer
	last    tuner.Frame
	printed bool
}

// NewLine creates a line renderer writing to w.
func NewLine(w io.Writer) *Line {
	return &Line{w: w}
}

// Render prints frame when its label, frequency or rounded needle changed.
func (l *Line) Render(frame tuner.Frame) error {
	if frame.Label == "" {
		return nil
	}
	if l.printed && frame.Label == l.last.Label && frame.Frequency == l.last.Frequency &&
		roundNeedle(frame.Needle) == roundNeedle(l.last.Needle) {
		return nil
	}

	_, err := fmt.Fprintf(l.w, "%-4s %10s Hz %s %+4.0f°\n",
		frame.Label, frame.Frequency, Gauge(frame.Needle, lineGaugeWidth), frame.Needle)
	if err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	l.last = frame
	l.printed = true
	return nil
}

func roundNeedle(v float64) float64 {
	return math.Round(v / lineNeedleStep)
}

// Mode selects a renderer.
type Mode string

// Renderer modes
const (
	ModeAuto     Mode = "auto"
	ModeTerminal Mode = "terminal"
	ModeLine     Mode = "line"
)

// Display is a renderer that must be closed after use.
type Display interface {
	tuner.Renderer
	Close() error
}

type nopCloser struct{ *Line }

func (nopCloser) Close() error { return nil }

// Open returns a renderer for mode. Auto uses the terminal dial when stdout
// is a terminal and line output otherwise.
func Open(mode Mode) (Display, error) {
	switch mode {
	case ModeTerminal:
		return OpenTerminal()
	case ModeLine:
		return nopCloser{NewLine(os.Stdout)}, nil
	case ModeAuto, "":
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return OpenTerminal()
		}
		return nopCloser{NewLine(os.Stdout)}, nil
	default:
		return nil, fmt.Errorf("unknown display mode %q", mode)
	}
}
