package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tuner "github.com/tphakala/go-tuner"
	"github.com/tphakala/go-tuner/internal/tone"
)

func newToneCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "tone <note>",
		Short:   "Write a note's reference pitch to a WAV file",
		Example: "  tuner tone A4\n  tuner tone E2 -o low-e.wav --duration 5s",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			note, err := tuner.ParseNote(args[0])
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = note.String() + ".wav"
			}
			ref, err := tone.WriteNote(path, note, a.cfg.ToneConfig())
			if err != nil {
				return err
			}
			a.logger.Info("wrote reference tone",
				zap.Stringer("note", note),
				zap.Float64("frequency", ref),
				zap.String("path", path))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (default <note>.wav)")
	f.Int("sample-rate", tone.DefaultSampleRate, "sample rate in Hz")
	f.Int("bit-depth", tone.DefaultBitDepth, "bit depth (16, 24 or 32)")
	f.Duration("duration", tone.DefaultDuration, "tone length")
	f.Float64("amplitude", tone.DefaultAmplitude, "peak amplitude in (0, 1]")
	f.Duration("fade", tone.DefaultFade, "fade in and out length")
	a.bind("sample-rate", "tone.sample_rate")
	a.bind("bit-depth", "tone.bit_depth")
	a.bind("duration", "tone.duration")
	a.bind("amplitude", "tone.amplitude")
	a.bind("fade", "tone.fade")
	return cmd
}
