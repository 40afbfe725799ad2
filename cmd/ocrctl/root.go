package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrctl/internal/api"
	"github.com/jackzampolin/ocrctl/internal/config"
	"github.com/jackzampolin/ocrctl/internal/home"
	"github.com/jackzampolin/ocrctl/internal/process"
	"github.com/jackzampolin/ocrctl/internal/svcctx"
	"github.com/jackzampolin/ocrctl/version"
)

// skipConfigAnnotation marks commands that run without loading the config
// file or environment.
const skipConfigAnnotation = "ocrctl/skip-config"

type rootOptions struct {
	cfgFile string
	homeDir string
	verbose bool
}

// newRootCmd builds the command tree. Every external process goes through
// runner.
func newRootCmd(runner process.Runner) *cobra.Command {
	var opts rootOptions
	defaults := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "ocrctl",
		Short: "Run OCR jobs over PDFs using named engine profiles",
		Long: `ocrctl drives an external OCR engine (ocrmypdf by default) over single
PDFs or whole directories. Engine arguments come from named profiles kept
in a YAML document; every run prints a JSON result to stdout and logs JSON
events to stderr.`,
		Version:       version.GitRelease,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default: ./config.yaml or ~/.ocrctl/config.yaml)")
	pf.StringVar(&opts.homeDir, "home", "", "ocrctl home directory (default: ~/.ocrctl)")
	pf.String("profiles", defaults.Profiles, "profile document (falls back to ~/.ocrctl/ocr_profiles.yaml)")
	pf.StringP("profile", "p", defaults.Profile, "profile name")
	pf.String("engine", defaults.Engine, "OCR engine executable")
	pf.String("log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	pf.String("output-format", defaults.OutputFormat, "output format: json or yaml")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		h, err := home.New(opts.homeDir)
		if err != nil {
			return fail(cmd, exitFailure, api.ErrorDocument{Error: err.Error(), Kind: api.KindInternal})
		}

		// Commands that must work with a broken config run on defaults.
		cfg := config.DefaultConfig()
		var configUsed string
		if _, skip := cmd.Annotations[skipConfigAnnotation]; skip {
			if f := cmd.Flags().Lookup("output-format"); f != nil && f.Changed {
				cfg.OutputFormat = f.Value.String()
			}
		} else {
			cm, err := config.NewManager(config.Options{
				ConfigFile:  opts.cfgFile,
				SearchPaths: []string{".", h.Path()},
				Flags:       cmd.Flags(),
			})
			if err != nil {
				return fail(cmd, exitUsage, api.ErrorDocument{Error: err.Error(), Kind: api.KindConfig})
			}
			cfg = cm.Get()
			configUsed = cm.ConfigFileUsed()
		}

		level, _ := cfg.SlogLevel()
		if opts.verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		if configUsed != "" {
			logger.Debug("loaded config", "path", configUsed)
		}

		cmd.SetContext(svcctx.WithServices(cmd.Context(), &svcctx.Services{
			Config: cfg,
			Logger: logger,
			Runner: runner,
			Home:   h,
		}))
		return nil
	}

	rootCmd.AddCommand(
		newFileCmd(),
		newBatchCmd(),
		newWatchCmd(),
		newValidateCmd(),
		newProfilesCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, runner process.Runner) int {
	rootCmd := newRootCmd(runner)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	var ee *exitError
	if err == nil || errors.As(err, &ee) {
		return exitCode(err)
	}

	// Anything else comes from cobra itself: unknown commands, bad flags,
	// wrong argument counts.
	writeError(stdout, api.KindUsage, err)
	return exitUsage
}
