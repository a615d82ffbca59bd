// Package display renders tuner frames to a terminal.
package display

import (
	"math"
	"strings"

	tuner "github.com/tphakala/go-tuner"
)

// Gauge glyphs
const (
	gaugeTrack  = '─'
	gaugeCenter = '┼'
	gaugeEdge   = '│'
	gaugeNeedle = '●'
	minGauge    = 3
)

// needleColumn maps a needle angle to a column in a gauge of width cells.
// -90° is column 0, 0° the middle column and +90° the last column.
func needleColumn(needle float64, width int) int {
	if width < 1 {
		return 0
	}
	if math.IsNaN(needle) {
		needle = 0
	}
	n := math.Min(math.Max(needle, -tuner.MaxDeviation), tuner.MaxDeviation)
	pos := (n + tuner.MaxDeviation) / (2 * tuner.MaxDeviation) * float64(width-1)
	return int(math.Round(pos))
}

// Gauge draws a horizontal needle gauge of the given width.
func Gauge(needle float64, width int) string {
	width = max(width, minGauge)
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = gaugeTrack
	}
	cells[0] = gaugeEdge
	cells[width-1] = gaugeEdge
	cells[(width-1)/2] = gaugeCenter
	cells[needleColumn(needle, width)] = gaugeNeedle

	var b strings.Builder
	for _, r := range cells {
		b.WriteRune(r)
	}
	return b.String()
}
