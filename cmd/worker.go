package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"example.com/ferramentas/config"
	"example.com/ferramentas/internal/cache"
	"example.com/ferramentas/internal/database"
	"example.com/ferramentas/internal/export"
	"example.com/ferramentas/internal/metrics"
	"example.com/ferramentas/internal/models"
	"example.com/ferramentas/internal/notify"
	"example.com/ferramentas/internal/search"
	"example.com/ferramentas/internal/service"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the export worker",
	Long:  `Start the background worker that periodically snapshots the ledger and pushes the Excel report and Google Sheets sync`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	configureLogging(cfg)

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Create an error group to manage goroutines
	g, ctx := errgroup.WithContext(ctx)

	// Initialize database
	db, err := database.Connect(cfg.DB)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if err := models.SetupModels(db); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	// Initialize cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	// Initialize Elasticsearch client
	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
	}

	// Initialize metrics and notification sender
	metricsCollector := metrics.NewMetrics()
	notifier := notify.NewEmailSender(cfg.Email)

	// Initialize the ledger service and export targets
	ledger := service.NewLedgerService(db, redisCache, elasticClient, metricsCollector, notifier)
	sheets := export.NewSheetsClient(cfg.Export.SheetsWebhookURL)

	// Start the export cron job
	g.Go(func() error {
		log.Info().Dur("interval", cfg.Export.Interval).Msg("Starting spreadsheet export job")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Export.Interval),
			gocron.NewTask(func() {
				if err := ledger.RunExport(ctx, cfg.Export.ExcelPath, sheets); err != nil {
					log.Error().Err(err).Msg("Failed to run spreadsheet export")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		// Wait for context cancellation
		<-ctx.Done()

		return scheduler.Shutdown()
	})

	// Wait for any goroutine to exit
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
