package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Amr-9/npubhunter/internal/config"
	"github.com/Amr-9/npubhunter/internal/logger"
	"github.com/Amr-9/npubhunter/internal/output"
	"github.com/Amr-9/npubhunter/internal/session"
	"github.com/Amr-9/npubhunter/internal/ui"
	"github.com/Amr-9/npubhunter/pkg/generator/nostr"
)

// Version info (injected at build time)
var Version = "dev"

var (
	cfg        = config.NewConfig()
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "npubhunter",
		Short:   "Nostr vanity npub address generator",
		Long:    `Searches secp256k1 key pairs for a Nostr npub matching one of the given patterns.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE:    run,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&cfg.Patterns, "patterns", "p", "", "Comma-separated list of patterns to search for")
	flags.StringVarP(&cfg.PatternFile, "file", "f", "", "Path to a file with one pattern per line")
	flags.StringVarP(&cfg.Output, "output", "o", "", "Output file path (optional)")
	flags.BoolVar(&cfg.CSV, "csv", false, "Output in CSV format")
	flags.VarP(&cfg.MatchKind, "match-type", "m", "Match type: prefix, suffix or contains")
	flags.BoolVarP(&cfg.CaseSensitive, "case-sensitive", "c", false, "Case sensitive matching")
	flags.IntVarP(&cfg.Workers, "threads", "t", cfg.Workers, "Number of worker goroutines (default: all cores)")
	flags.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Candidates generated per parallel batch")
	flags.BoolVar(&cfg.Continuous, "continuous", false, "Continue searching after finding first match")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Quiet mode (less output)")
	flags.BoolVar(&cfg.Estimate, "estimate", false, "Estimate time for patterns and exit")
	flags.Var(&cfg.MaxDuration, "max-duration", "Safety time limit (default 1h in continuous mode)")
	flags.StringVar(&cfg.LogFile, "log-file", "", "Rotating JSON log file prefix")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose logging")
	flags.BoolVar(&cfg.HighPriority, "high-priority", false, "Raise process priority (Windows)")
	flags.StringVar(&configFile, "config", "", "Path to a TOML config file")

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := loadConfigFile(cmd); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	patterns, err := cfg.CollectPatterns()
	if err != nil {
		return err
	}

	if cfg.Estimate {
		ui.PrintEstimates(os.Stdout, patterns, nostr.KeysPerSecondPerCore*float64(cfg.Workers))
		return nil
	}

	log, err := logger.New(logger.Options{File: cfg.LogFile, Verbose: cfg.Verbose})
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.HighPriority {
		if err := raisePriority(); err != nil {
			log.Warn("could not raise process priority", zap.Error(err))
		}
	}

	if !cfg.Quiet {
		ui.PrintSearchInfo(os.Stdout, ui.SearchInfo{
			Patterns:   patterns,
			Kind:       cfg.MatchKind,
			Workers:    cfg.Workers,
			Continuous: cfg.Continuous,
		})
	}

	// Ctrl+C stops the search; matches already found are still delivered.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := session.Options{
		Patterns:      patterns,
		Kind:          cfg.MatchKind,
		CaseSensitive: cfg.CaseSensitive,
		Workers:       cfg.Workers,
		BatchSize:     cfg.BatchSize,
		Continuous:    cfg.Continuous,
		Ceiling:       cfg.Ceiling(),
		Verifier:      nostr.Verify,
		Logger:        log,
	}

	sinkCfg := output.SinkConfig{Path: cfg.Output, CSV: cfg.CSV, Logger: log.Named("output")}
	if !cfg.Quiet {
		sinkCfg.Console = os.Stdout
		opts.Renderer = ui.NewSpinnerRenderer(os.Stderr)
	}
	opts.Sink = output.NewSink(sinkCfg)

	summary, err := session.Run(ctx, opts)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		ui.PrintSummary(os.Stdout, ui.Summary{
			Attempts:    summary.Attempts,
			Matches:     summary.Matches,
			Elapsed:     summary.Elapsed,
			Interrupted: summary.Reason != session.StopMatch,
		})
	}
	if cfg.Output != "" && summary.Matches > 0 {
		log.Info("results saved", zap.String("path", cfg.Output))
	}
	return nil
}

// loadConfigFile reads --config, then re-applies the flags given on the
// command line so they take precedence over the file.
func loadConfigFile(cmd *cobra.Command) error {
	if configFile == "" {
		return nil
	}

	given := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		given[f.Name] = f.Value.String()
	})

	if err := cfg.Load(configFile); err != nil {
		return err
	}

	for name, value := range given {
		if err := cmd.Flags().Set(name, value); err != nil {
			return errors.Wrapf(err, "flag --%s", name)
		}
	}
	return nil
}
