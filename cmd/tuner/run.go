package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	tuner "github.com/tphakala/go-tuner"
	"github.com/tphakala/go-tuner/internal/config"
	"github.com/tphakala/go-tuner/internal/display"
	"github.com/tphakala/go-tuner/internal/report"
	"github.com/tphakala/go-tuner/internal/source"
)

var errNoScript = errors.New("script source requires --script")

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Show the tuning needle for a pitch source",
		Long: `Run a tuning session: samples from the source are classified, compared
with the reference pitch and drawn as an animated needle until the source
finishes, q is pressed or the process is interrupted.`,
		Example: `  tuner run --note E2 --span 0.02
  tuner run --source script --script strings.txt --loop
  tuner run --source script --script session.yaml --display line --report report.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}

	defaults := source.DefaultSweepConfig()
	f := cmd.Flags()
	f.String("source", config.SourceSweep, "pitch source (script or sweep)")
	f.String("script", "", "script file, one \"<hz> [tone]\" per line or YAML")
	f.Duration("interval", source.DefaultScriptInterval, "delay between script samples")
	f.Bool("loop", false, "repeat the script forever")
	f.String("note", defaults.Note.String(), "sweep center note")
	f.Float64("span", defaults.Span, "sweep excursion relative to the reference")
	f.Duration("period", defaults.Period, "sweep oscillation period")
	f.Float64("rate", defaults.Rate, "sweep samples per second")
	f.String("display", string(display.ModeAuto), "display mode (auto, terminal or line)")
	f.Duration("frame-interval", tuner.DefaultFrameInterval, "needle redraw interval")
	f.Duration("animation", tuner.DefaultAnimationDuration, "needle animation duration, 0 disables smoothing")
	f.String("easing", config.EasingOutQuad, "needle easing (ease-out-quad or linear)")
	f.String("report", "", "write a per-note YAML report to this file")
	f.Float64("tolerance", report.DefaultTolerance, "report in-tune tolerance in degrees")

	for flag, key := range map[string]string{
		"source":         "source.kind",
		"script":         "source.script.path",
		"interval":       "source.script.interval",
		"loop":           "source.script.loop",
		"note":           "source.sweep.note",
		"span":           "source.sweep.span",
		"period":         "source.sweep.period",
		"rate":           "source.sweep.rate",
		"display":        "display.mode",
		"frame-interval": "needle.frame_interval",
		"animation":      "needle.animation_duration",
		"easing":         "needle.easing",
		"report":         "report.path",
		"tolerance":      "report.tolerance",
	} {
		a.bind(flag, key)
	}
	return cmd
}

// pitchSource is a source that may end on its own. A nil done channel never
// closes.
type pitchSource struct {
	tuner.Source
	done <-chan struct{}
}

func (a *app) openSource(logger *zap.Logger) (pitchSource, error) {
	switch a.cfg.Source.Kind {
	case config.SourceScript:
		path := a.cfg.Source.Script.Path
		if path == "" {
			return pitchSource{}, errNoScript
		}
		samples, err := source.LoadScript(path)
		if err != nil {
			return pitchSource{}, err
		}
		script, err := source.NewScript(samples, a.cfg.ScriptConfig(logger))
		if err != nil {
			return pitchSource{}, err
		}
		return pitchSource{Source: script, done: script.Finished()}, nil
	default:
		sc, err := a.cfg.SweepConfig(logger)
		if err != nil {
			return pitchSource{}, err
		}
		sweep, err := source.NewSweep(sc)
		if err != nil {
			return pitchSource{}, err
		}
		return pitchSource{Source: sweep}, nil
	}
}

func (a *app) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	disp, err := display.Open(display.Mode(a.cfg.Display.Mode))
	if err != nil {
		return err
	}
	defer func() { _ = disp.Close() }()
	logger := loggerFor(a.logger, disp)

	src, err := a.openSource(logger)
	if err != nil {
		return err
	}

	var (
		collector *report.Collector
		observer  tuner.Observer
	)
	if a.cfg.Report.Path != "" {
		collector = report.NewCollector(a.cfg.Report.Tolerance)
		observer = collector
	}
	sc, err := a.cfg.SessionConfig(observer, logger)
	if err != nil {
		return err
	}

	session, err := tuner.NewSession(src, disp, sc)
	if err != nil {
		return err
	}

	if t, ok := disp.(*display.Terminal); ok {
		go t.WatchQuit(ctx, cancel)
	}
	go a.cancelWhenDone(ctx, cancel, src.done)

	if err := session.Run(ctx); err != nil {
		return err
	}

	if collector != nil {
		return a.writeReport(collector.Summary())
	}
	return nil
}

// loggerFor keeps the console logger off a tty that the terminal dial is
// drawing on. Only warnings and errors get through there.
func loggerFor(logger *zap.Logger, disp display.Display) *zap.Logger {
	if _, ok := disp.(*display.Terminal); !ok {
		return logger
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		return logger
	}
	return logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
}

// cancelWhenDone ends the session once the source finished and the needle
// had time to settle on the last sample.
func (a *app) cancelWhenDone(ctx context.Context, cancel context.CancelFunc, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		return
	case <-done:
	}
	a.logger.Debug("source finished, letting the needle settle",
		zap.Duration("animation", a.cfg.Needle.AnimationDuration))

	settle := time.NewTimer(a.cfg.Needle.AnimationDuration + a.cfg.Needle.FrameInterval)
	defer settle.Stop()
	select {
	case <-ctx.Done():
	case <-settle.C:
		cancel()
	}
}

func (a *app) writeReport(s report.Summary) error {
	f, err := os.Create(a.cfg.Report.Path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := report.WriteYAML(f, s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	a.logger.Info("wrote session report",
		zap.String("path", a.cfg.Report.Path),
		zap.Int("samples", s.Samples),
		zap.Int("notes", len(s.Notes)))
	return nil
}
