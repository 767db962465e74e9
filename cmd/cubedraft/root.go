package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/cubedraft/internal/config"
	"github.com/ramonehamilton/cubedraft/internal/logging"
	"github.com/ramonehamilton/cubedraft/internal/version"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	formatsDir string
	format     string
	seats      int
	seed       string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "cubedraft",
		Short:        "Generate and analyze cube drafts",
		Long:         "cubedraft builds seeded draft packs from a cube list and a draft format, and estimates how often each card is seen.",
		Version:      version.GetVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: ~/.cubedraft/config.toml)")
	flags.StringVar(&opts.formatsDir, "formats-dir", "", "Format library directory (overrides config)")
	flags.StringVarP(&opts.format, "format", "f", "", `Format name from the library, or a .yaml/.json format file (default "standard")`)
	flags.IntVarP(&opts.seats, "seats", "n", 0, "Number of seats (default: format, then config)")
	flags.StringVar(&opts.seed, "seed", "", "Random seed (default: current time)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newGenerateCmd(opts),
		newValidateCmd(opts),
		newAsfanCmd(opts),
		newSimulateCmd(opts),
		newImportCmd(opts),
	)
	return root
}

func (o *options) setup(cmd *cobra.Command) error {
	path := o.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	// stdout carries the JSON result, so logs stay at warn unless asked
	level := "warn"
	if o.logLevel != "" {
		level = o.logLevel
	}
	if o.formatsDir != "" {
		cfg.Formats.Dir = o.formatsDir
	}

	logging.SetupWriter(cmd.ErrOrStderr(), level, true)
	o.cfg = cfg
	return nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
