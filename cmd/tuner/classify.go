package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	tuner "github.com/tphakala/go-tuner"
)

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <hz>...",
		Short: "Classify frequencies into notes",
		Example: `  tuner classify 440
  tuner classify 82.41 110 146.83 196 246.94 329.63`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.classify(cmd, args)
		},
	}
}

func (a *app) classify(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "hz\tnote\treference\tdeviation\tcents\t")

	for _, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid frequency %q: %w", arg, err)
		}
		fmt.Fprintln(w, classifyRow(f))
	}
	return w.Flush()
}

// classifyRow formats one tab-separated output row.
func classifyRow(f float64) string {
	r, err := tuner.Analyze(f)
	switch {
	case errors.Is(err, tuner.ErrInvalidFrequency):
		return fmt.Sprintf("%g\tinvalid\t-\t-\t-\t", f)
	case !r.InRange:
		return fmt.Sprintf("%s\t%s\tout of range\t-\t-\t", r.FrequencyLabel(), r.Label())
	default:
		return fmt.Sprintf("%s\t%s\t%.2f\t%+.1f°\t%+.1f\t",
			r.FrequencyLabel(), r.Label(), r.Reference, r.Deviation, r.Cents)
	}
}
