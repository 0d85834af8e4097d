package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tuannm99/strata/internal"
	"github.com/tuannm99/strata/internal/sampling"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	seed    uint64

	cfg    *internal.StrataConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Stratified, quota-bounded resampling of labeled tables",
	Long: `strata splits a table on a label column, picks a roster of groups on
each side and fills a per-side row quota by cycling through the roster,
drawing rows with replacement.

Sources and destinations may be .tsv/.txt, .csv, .parquet files or
sqlite:// and mysql:// locations with a table= parameter.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = internal.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		logger, err = buildLogger(cfg.Log.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file (env STRATA_* overrides it)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed (default: sampling.seed, else the clock)")

	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(valuesCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// currentConfig falls back to defaults when PersistentPreRunE did not run.
func currentConfig() (*internal.StrataConfig, error) {
	if cfg != nil {
		return cfg, nil
	}
	return internal.LoadConfig(cfgFile)
}

func currentLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newSampler applies --seed when given (0 included), then a non-zero
// sampling.seed, then a clock seed.
func newSampler(cmd *cobra.Command, c *internal.StrataConfig, oversample bool) *sampling.Sampler {
	opts := []sampling.Option{sampling.WithLogger(currentLogger())}
	switch {
	case cmd.Flags().Changed("seed"):
		opts = append(opts, sampling.WithSeed(seed))
	case c.Sampling.Seed != 0:
		opts = append(opts, sampling.WithSeed(c.Sampling.Seed))
	}
	if oversample {
		opts = append(opts, sampling.WithOversampling())
	}
	return sampling.New(opts...)
}
