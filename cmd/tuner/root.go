package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tphakala/go-tuner/internal/config"
	"github.com/tphakala/go-tuner/internal/logging"
)

// app holds state shared by all subcommands once flags are parsed.
type app struct {
	configFile string
	bindings   map[string]string // flag name -> config key
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{bindings: make(map[string]string)}

	cmd := &cobra.Command{
		Use:   "tuner",
		Short: "Pitch-to-note tuning engine",
		Long: `Classify detected frequencies into note names, compare them against the
equal-tempered reference table from C0 to C8 and animate a tuning needle.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./tuner.yaml, then the user config dir)")
	flags.String("log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "debug logging")
	a.bind("log-level", "log_level")
	a.bind("verbose", "verbose")

	cmd.AddCommand(
		newClassifyCmd(a),
		newTableCmd(a),
		newToneCmd(a),
		newRunCmd(a),
	)
	return cmd
}

// bind maps a flag onto a config key.
func (a *app) bind(flag, key string) {
	a.bindings[flag] = key
}

// initialize loads the configuration with the parsed flags layered on top.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	if err := a.bindFlags(cmd, v); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Verbose)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config file", zap.String("path", used))
	}
	return nil
}

func (a *app) bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := a.bindings[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}
