package display

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	tuner "github.com/tphakala/go-tuner"
)

// Terminal layout
const (
	terminalMargin = 2
	maxGaugeWidth  = 61
	titleText      = "tuner"
	helpText       = "q / esc to quit"
	noteRow        = 2
	frequencyRow   = 3
	gaugeRow       = 5
	scaleRow       = 6
	helpRowOffset  = 1
)

var (
	titleStyle     = tcell.StyleDefault.Bold(true)
	noteStyle      = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	frequencyStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	trackStyle     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	needleStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	helpStyle      = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Terminal draws a needle dial on a tcell screen.
type Terminal struct {
	screen tcell.Screen
}

// OpenTerminal initializes the controlling terminal.
func OpenTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return NewTerminal(screen), nil
}

// NewTerminal wraps an initialized screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	screen.HideCursor()
	return &Terminal{screen: screen}
}

// Render draws frame and shows it.
func (t *Terminal) Render(frame tuner.Frame) error {
	t.screen.Clear()
	w, h := t.screen.Size()

	t.centered(0, w, titleText, titleStyle)
	label := frame.Label
	if label == "" {
		label = "--"
	}
	t.centered(noteRow, w, label, noteStyle)
	if frame.Frequency != "" {
		t.centered(frequencyRow, w, frame.Frequency+" Hz", frequencyStyle)
	}

	gaugeWidth := min(w-2*terminalMargin, maxGaugeWidth)
	if gaugeWidth >= minGauge {
		x0 := (w - gaugeWidth) / 2
		t.text(x0, gaugeRow, Gauge(frame.Needle, gaugeWidth), trackStyle)
		t.screen.SetContent(x0+needleColumn(frame.Needle, gaugeWidth), gaugeRow, gaugeNeedle, nil, needleStyle)

		t.text(x0, scaleRow, "♭", helpStyle)
		t.text(x0+gaugeWidth-1, scaleRow, "♯", helpStyle)
		t.centered(scaleRow, w, fmt.Sprintf("%+.0f°", frame.Needle), frequencyStyle)
	}

	t.centered(h-helpRowOffset, w, helpText, helpStyle)
	t.screen.Show()
	return nil
}

// WatchQuit calls cancel when the user presses q, Esc or Ctrl-C, or when the
// screen is closed. It blocks, so run it in its own goroutine.
func (t *Terminal) WatchQuit(ctx context.Context, cancel context.CancelFunc) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			cancel()
			return
		}
		if ctx.Err() != nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
				cancel()
				return
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.screen.Fini()
	return nil
}

func (t *Terminal) centered(y, width int, s string, style tcell.Style) {
	x := (width - len([]rune(s))) / 2
	t.text(max(x, 0), y, s, style)
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}
