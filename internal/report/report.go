// Package report summarizes a tuning session per note.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	tuner "github.com/tphakala/go-tuner"
)

// DefaultTolerance is the needle angle, in degrees, still counted as in tune.
const DefaultTolerance = 9.0

const medianQuantile = 0.5

// NoteSummary describes the readings collected for one note.
type NoteSummary struct {
	Note            string  `yaml:"note"`
	Reference       float64 `yaml:"reference_hz"`
	Samples         int     `yaml:"samples"`
	MeanDeviation   float64 `yaml:"mean_deviation"`
	StdDevDeviation float64 `yaml:"stddev_deviation"`
	MedianDeviation float64 `yaml:"median_deviation"`
	MeanCents       float64 `yaml:"mean_cents"`
	InTuneRatio     float64 `yaml:"in_tune_ratio"`
}

// Summary describes a whole session.
type Summary struct {
	Samples      int           `yaml:"samples"`
	OutOfRange   int           `yaml:"out_of_range"`
	Tolerance    float64       `yaml:"tolerance_degrees"`
	RMSDeviation float64       `yaml:"rms_deviation"`
	Notes        []NoteSummary `yaml:"notes"`
}

type noteReadings struct {
	reference  float64
	deviations []float64
	cents      []float64
}

// Collector accumulates readings. It implements tuner.Observer and is safe
// for concurrent use.
type Collector struct {
	mu         sync.Mutex
	tolerance  float64
	notes      map[tuner.Note]*noteReadings
	all        []float64
	outOfRange int
}

// NewCollector creates a collector. A non-positive tolerance uses DefaultTolerance.
func NewCollector(tolerance float64) *Collector {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Collector{
		tolerance: tolerance,
		notes:     make(map[tuner.Note]*noteReadings),
	}
}

// Observe records one reading. Readings outside the reference table are
// only counted.
func (c *Collector) Observe(r tuner.Reading) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !r.InRange {
		c.outOfRange++
		return
	}

	nr, ok := c.notes[r.Note]
	if !ok {
		nr = &noteReadings{reference: r.Reference}
		c.notes[r.Note] = nr
	}
	nr.deviations = append(nr.deviations, r.Deviation)
	nr.cents = append(nr.cents, r.Cents)
	c.all = append(c.all, r.Deviation)
}

// Summary computes statistics over everything observed so far. Notes are
// listed from lowest to highest.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{
		Samples:      len(c.all) + c.outOfRange,
		OutOfRange:   c.outOfRange,
		Tolerance:    c.tolerance,
		RMSDeviation: rms(c.all),
	}

	keys := make([]tuner.Note, 0, len(c.notes))
	for n := range c.notes {
		keys = append(keys, n)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].HalfSteps() < keys[j].HalfSteps() })

	for _, n := range keys {
		nr := c.notes[n]
		s.Notes = append(s.Notes, NoteSummary{
			Note:            n.String(),
			Reference:       nr.reference,
			Samples:         len(nr.deviations),
			MeanDeviation:   mean(nr.deviations),
			StdDevDeviation: stdDev(nr.deviations),
			MedianDeviation: median(nr.deviations),
			MeanCents:       mean(nr.cents),
			InTuneRatio:     inTuneRatio(nr.deviations, c.tolerance),
		})
	}
	return s
}

// WriteYAML encodes s as YAML.
func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return f64.Sum(x) / float64(len(x))
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(f64.DotProductUnsafe(x, x) / float64(len(x)))
}

func stdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}

func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	return stat.Quantile(medianQuantile, stat.Empirical, sorted, nil)
}

func inTuneRatio(x []float64, tolerance float64) float64 {
	if len(x) == 0 {
		return 0
	}
	n := 0
	for _, v := range x {
		if math.Abs(v) <= tolerance {
			n++
		}
	}
	return float64(n) / float64(len(x))
}
