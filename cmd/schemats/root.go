package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/schemats/internal/config"
	"github.com/reoring/schemats/internal/runner"
)

type rootFlags struct {
	cfgFile string
	cfg     config.Config
	emit    bool
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:   "schemats",
		Short: "Generate io-ts modules from JSON Schema",
		Long: `schemats converts JSON Schema draft-07 documents into TypeScript
modules exporting io-ts codecs, static types and doctest-annotated constants.

Settings come from --config, then SCHEMATS_* environment variables, then flags.

Examples:
  schemats --input-file 'schemas/**/*.json' --output-dir src/generated
  schemats --config schemats.yaml --watch
  schemats --input-file schema.json --emit=false --strict`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			r := runner.New(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
			if err := r.Run(cmd.Context()); err != nil {
				return err
			}
			if cfg.Watch {
				return r.Watch(cmd.Context())
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.cfgFile, "config", "c", "", "config file path")
	fl.StringVarP(&f.cfg.InputFile, "input-file", "i", "", "glob of schema files to convert")
	fl.StringVarP(&f.cfg.OutputDir, "output-dir", "o", "", "directory generated modules are written to")
	fl.BoolVar(&f.cfg.Strict, "strict", false, "treat warnings as fatal")
	fl.BoolVar(&f.cfg.MaskNull, "mask-null", false, "distinguish null from absent properties")
	fl.BoolVar(&f.emit, "emit", true, "write generated modules")
	fl.StringVar(&f.cfg.Base, "base", "", "URI prefix stripped to compute output paths")
	fl.StringArrayVar(&f.cfg.Import, "import", nil, "URI^location import rewrite (repeatable)")
	fl.StringVar(&f.cfg.ImportHashAlgorithm, "import-hash-algorithm", "", "hash used for import aliases")
	fl.IntVar(&f.cfg.ImportHashLength, "import-hash-length", 0, "hex digits of import hash, 0 disables")
	fl.StringVar(&f.cfg.QED, "qed", "", "text written to stdout after each file")
	fl.BoolVar(&f.cfg.ContinueOnError, "continue-on-error", false, "keep converting after a file fails")
	fl.StringVar(&f.cfg.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	fl.StringVar(&f.cfg.MetricsTextfile, "metrics-textfile", "", "write prometheus metrics to this file")
	fl.BoolVarP(&f.cfg.Watch, "watch", "w", false, "regenerate when schema files change")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// resolve layers changed flags over the config file, or over the
// environment when no file is given.
func (f *rootFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if f.cfgFile != "" {
		loaded, err := config.Load(f.cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.FromEnv()
	}

	changed := cmd.Flags().Changed
	if changed("input-file") {
		cfg.InputFile = f.cfg.InputFile
	}
	if changed("output-dir") {
		cfg.OutputDir = f.cfg.OutputDir
	}
	if changed("strict") {
		cfg.Strict = f.cfg.Strict
	}
	if changed("mask-null") {
		cfg.MaskNull = f.cfg.MaskNull
	}
	if changed("emit") {
		emit := f.emit
		cfg.Emit = &emit
	}
	if changed("base") {
		cfg.Base = f.cfg.Base
	}
	if changed("import") {
		cfg.Import = f.cfg.Import
	}
	if changed("import-hash-algorithm") {
		cfg.ImportHashAlgorithm = f.cfg.ImportHashAlgorithm
	}
	if changed("import-hash-length") {
		cfg.ImportHashLength = f.cfg.ImportHashLength
	}
	if changed("qed") {
		cfg.QED = f.cfg.QED
	}
	if changed("continue-on-error") {
		cfg.ContinueOnError = f.cfg.ContinueOnError
	}
	if changed("log-level") {
		cfg.LogLevel = f.cfg.LogLevel
	}
	if changed("metrics-textfile") {
		cfg.MetricsTextfile = f.cfg.MetricsTextfile
	}
	if changed("watch") {
		cfg.Watch = f.cfg.Watch
	}

	config.SetDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, levelStr string) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(level), nil
}
