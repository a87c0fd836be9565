// Package cmd provides the CLI commands for amanalign.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanalign/internal/config"
	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/logging"
	"github.com/Aman-CERP/amanalign/internal/profiling"
	"github.com/Aman-CERP/amanalign/pkg/version"
)

// Profiling flags
var (
	profileOpts profiling.Options
	profiler    *profiling.Session
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for amanalign CLI. Run with three
// arguments it aligns a hypothesis to a reference file.
func NewRootCmd() *cobra.Command {
	var flags alignFlags

	cmd := &cobra.Command{
		Use:   "amanalign [flags] <reference> <hypothesis> <output>",
		Short: "Align an unsegmented hypothesis to reference sentences",
		Long: `amanalign splits a machine generated token stream (for example ASR
output) into one segment per reference sentence, so that sentence-level
metrics can be computed against the gold standard.

The reference file holds one tokenized sentence per line. The hypothesis
file is read as a single stream of whitespace-separated tokens. The output
file receives one line per reference sentence.

The segmentation is found with a beam-limited best-first search that
maximizes BLEU (default) or 1-WER.`,
		Example: `  # Align with BLEU
  amanalign ref.txt asr.txt aligned.txt

  # Optimize 1-WER with a wider beam and show intermediate results
  amanalign --wer -b 40 -v ref.txt asr.txt aligned.txt

  # Score an aligned file
  amanalign score ref.txt aligned.txt`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runAlign(cmd, args[0], args[1], args[2], flags)
		},
	}

	cmd.SetVersionTemplate("amanalign version {{.Version}}\n")

	flags.register(cmd)
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show intermediate best alignments")

	cmd.PersistentFlags().StringVar(&profileOpts.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Mem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Trace, "profile-trace", "", "Write execution trace to file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.amanalign/logs/")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newScoreCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging starts profiling and debug logging if flags are set.
func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if debugMode {
		logCfg := logging.DebugConfig()
		logCfg.Level = debugLevel()
		logger, cleanup, err := logging.Setup(logCfg)
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("debug_logging_enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version))
	}

	if profileOpts.Enabled() {
		s, err := profiling.Start(profileOpts)
		if err != nil {
			return err
		}
		profiler = s
	}
	return nil
}

// debugLevel returns logging.level from the configuration, or debug when
// the configuration cannot be loaded.
func debugLevel() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "debug"
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return "debug"
	}
	return cfg.Logging.Level
}

// stopProfilingAndLogging stops profiling and logging, writing the memory
// profile if requested.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if profiler != nil {
		err := profiler.Stop()
		profiler = nil
		if err != nil {
			return fmt.Errorf("failed to write profiles: %w", err)
		}
	}

	if loggingCleanup != nil {
		slog.Info("debug_logging_stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprint(os.Stderr, amerrors.FormatForCLI(err))
	}
	// PersistentPostRunE is skipped when RunE fails.
	_ = stopProfilingAndLogging(root, nil)
	return err
}
