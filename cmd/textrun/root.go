package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/textrun/internal/config"
	"github.com/tsawler/textrun/logging"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "textrun",
		Short: "Extract reading-order text from PDF pages",
		Long: `textrun reconstructs the strings a reader sees on a PDF page.

Text runs are taken from the page's content stream, decoded through each
font's ToUnicode map and merged into words and lines by position.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ~/.textrun/config.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	flags.Float64("max-dx", 0, "largest horizontal gap between merged runs (default 22)")
	flags.Float64("max-dy", 0, "largest baseline difference between merged runs (default 0.05)")
	flags.Float64("fallback-avg-width", 0, "average glyph width for fonts that declare none (default 0.521)")

	bind := map[string]string{
		"log.level":                  "log-level",
		"log.format":                 "log-format",
		"cluster.max_advance_gap":    "max-dx",
		"cluster.max_baseline_drift": "max-dy",
		"cluster.fallback_avg_width": "fallback-avg-width",
	}
	for key, flag := range bind {
		// Only flags set on the command line override the config
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		newStringsCmd(a),
		newRunsCmd(a),
		newTOCCmd(a),
		newIndexCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// init loads configuration and installs the logger before any subcommand
// runs.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	logging.SetLogger(logger)

	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config", "file", used)
	}
	return nil
}
