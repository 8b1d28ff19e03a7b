// Command importer loads the raw vacant-building export into the dataset
// store, optionally scoring it first.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecospirit/greenmap/internal/config"
	"github.com/ecospirit/greenmap/internal/core/scoring"
	"github.com/ecospirit/greenmap/internal/dataset"
	"github.com/ecospirit/greenmap/internal/driver"
	"github.com/ecospirit/greenmap/internal/logger"
)

type options struct {
	configPath string
	input      string
	score      bool
	year       int
}

func main() {
	_ = godotenv.Load()
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "importer",
		Short:        "Import raw building records as a GeoJSON collection",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadOrDefault(opts.configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			objects, err := driver.Open(cmd.Context(), cfg.Dataset, cfg.Redis)
			if err != nil {
				return err
			}
			defer func() { _ = objects.Close(context.Background()) }()

			raw, err := os.ReadFile(opts.input)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", opts.input, err)
			}

			store := dataset.NewStore(objects, cfg.Dataset.Key, log.Named("dataset"))
			return runImport(cmd.Context(), store, raw, opts, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", envOr("CONFIG_PATH", "config/config.toml"), "path to the TOML config")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "raw JSON array of building records")
	cmd.Flags().BoolVar(&opts.score, "score", false, "compute green scores before writing")
	cmd.Flags().IntVar(&opts.year, "year", time.Now().Year(), "reference year for emissions when --score is set")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runImport(ctx context.Context, store *dataset.Store, raw []byte, opts *options, out io.Writer, log *zap.Logger) error {
	fc, stats, err := dataset.Import(raw)
	if err != nil {
		return err
	}
	log.Info("records parsed", zap.Int("records", stats.Records), zap.Int("kept", stats.Kept), zap.Int("dropped", stats.Dropped))

	if opts.score {
		summary := scoring.ScoreCollection(fc, opts.year)
		log.Info("records scored", zap.Int("total", summary.Total), zap.Int("avg_score", summary.AvgScore))
	}

	if err := store.WriteAll(ctx, fc); err != nil {
		return fmt.Errorf("failed to write collection: %w", err)
	}

	_, err = fmt.Fprintf(out, "Imported %d of %d records (%d without coordinates)\n", stats.Kept, stats.Records, stats.Dropped)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
