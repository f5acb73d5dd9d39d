package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karaokeos/backend/internal/config"
	"github.com/karaokeos/backend/internal/database"
	"github.com/karaokeos/backend/internal/logger"
	"github.com/karaokeos/backend/internal/metadata"
	"github.com/karaokeos/backend/internal/models"
	"github.com/karaokeos/backend/internal/repositories"
	"github.com/karaokeos/backend/internal/services"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type backfillFlags struct {
	batch  int
	limit  int
	dryRun bool
	force  bool
	delay  time.Duration
}

// backfillFunc is a method expression of backfillRunner
type backfillFunc func(svc backfillRunner, ctx context.Context, opts services.BackfillOptions) (models.BackfillReport, error)

type backfillRunner interface {
	BackfillCovers(ctx context.Context, opts services.BackfillOptions) (models.BackfillReport, error)
	BackfillArtists(ctx context.Context, opts services.BackfillOptions) (models.BackfillReport, error)
}

func newBackfillCmd() *cobra.Command {
	flags := &backfillFlags{}

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fill missing song covers and artist images from the public music APIs",
	}
	cmd.PersistentFlags().IntVar(&flags.batch, "batch", services.DefaultBatchSize, "rows fetched per query")
	cmd.PersistentFlags().IntVar(&flags.limit, "limit", 0, "stop after this many rows (0 = no limit)")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "look up metadata without writing it")
	cmd.PersistentFlags().BoolVar(&flags.force, "force", false, "also revisit rows that already have a cover or image and overwrite their fields")
	cmd.PersistentFlags().DurationVar(&flags.delay, "delay", 0, "pause between rows")

	cmd.AddCommand(&cobra.Command{
		Use:   "covers",
		Short: "Fill album, genre, year, language and cover of songs without a cover",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd, flags, "Covers", backfillRunner.BackfillCovers)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "artists",
		Short: "Fill images of artists without one from Wikidata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd, flags, "Artists", backfillRunner.BackfillArtists)
		},
	})

	return cmd
}

func runBackfill(cmd *cobra.Command, flags *backfillFlags, label string, run backfillFunc) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db, database.MigrationPath()); err != nil {
		return err
	}

	lookups := metadata.NewClients(cfg.Metadata, logger.Logger)
	svc := services.NewBackfillService(
		repositories.NewSongRepository(db, logger.Logger),
		repositories.NewArtistRepository(db, logger.Logger),
		lookups.Lookup,
		lookups.ArtistImages,
		logger.Logger,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := newProgressBar(label, flags.limit)
	opts := services.BackfillOptions{
		BatchSize: flags.batch,
		Limit:     flags.limit,
		DryRun:    flags.dryRun,
		Force:     flags.force,
		Delay:     flags.delay,
		Progress: func(report models.BackfillReport) {
			bar.Describe(describeReport(label, report))
			bar.Set(report.Scanned)
		},
	}

	report, err := run(svc, ctx, opts)
	bar.Finish()
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), describeReport(label, report))
	if err != nil {
		logger.Logger.Error("backfill stopped", zap.String("target", label), zap.Error(err))
		return err
	}
	if flags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Dry run, nothing was written")
	}
	return nil
}

// newProgressBar shows a bounded bar when a limit is known and a spinner otherwise
func newProgressBar(label string, limit int) *progressbar.ProgressBar {
	total := -1
	if limit > 0 {
		total = limit
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func describeReport(label string, report models.BackfillReport) string {
	return fmt.Sprintf("%s | %d scanned | %d updated | %d skipped | %d failed",
		label, report.Scanned, report.Updated, report.Skipped, report.Failed)
}
