package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	tuner "github.com/tphakala/go-tuner"
)

const allOctaves = -1

func newTableCmd(_ *app) *cobra.Command {
	var octave int
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the reference pitch table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "note\thz\t")
			for _, n := range tableNotes(octave) {
				fmt.Fprintf(w, "%s\t%.2f\t\n", n, tuner.Reference(n))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&octave, "octave", allOctaves, "only list one octave (0-8)")
	return cmd
}

func tableNotes(octave int) []tuner.Note {
	notes := tuner.ReferenceNotes()
	if octave == allOctaves {
		return notes
	}
	out := notes[:0]
	for _, n := range notes {
		if n.Octave == octave {
			out = append(out, n)
		}
	}
	return out
}
