package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"airbnb-reviews/models"
	"airbnb-reviews/scraper/airbnb"
	"airbnb-reviews/services"
	"airbnb-reviews/storage"
	"airbnb-reviews/utils"
)

var (
	acquireMaxReviews int
	acquireCSV        bool
	acquireArchive    bool
	acquireJSON       bool
)

var acquireCmd = &cobra.Command{
	Use:   "acquire <airbnb-url>...",
	Short: "Acquire reviews for one or more listings",
	Long:  "Acquires reviews for each listing on a bounded worker pool, prints an insight report and optionally exports the results.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAcquire,
}

func init() {
	acquireCmd.Flags().IntVarP(&acquireMaxReviews, "max-reviews", "n", models.DefaultAcquireReviews, "Maximum reviews per listing")
	acquireCmd.Flags().BoolVar(&acquireCSV, "csv", false, "Write results to CSV_OUTPUT_PATH")
	acquireCmd.Flags().BoolVar(&acquireArchive, "archive", false, "Archive results to PostgreSQL")
	acquireCmd.Flags().BoolVar(&acquireJSON, "json", false, "Print results as JSON instead of the report")
	rootCmd.AddCommand(acquireCmd)
}

func runAcquire(_ *cobra.Command, locators []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Config: %d listings | concurrency %d | rate %dms | max reviews %d",
		len(locators), cfg.MaxConcurrency, cfg.RateLimitMs, acquireMaxReviews)

	writers, err := openWriters(ctx)
	if err != nil {
		return err
	}
	defer func() {
		for _, w := range writers {
			_ = w.Close()
		}
	}()

	results, failed := acquireAll(ctx, airbnb.NewFetcher(cfg, logger), locators, acquireMaxReviews)
	if len(results) == 0 {
		return fmt.Errorf("no listing produced a result (%d failed)", failed)
	}

	for _, w := range writers {
		if err := w.WriteResults(results); err != nil {
			logger.Error("Export failed: %v", err)
		}
	}

	if acquireJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	insights := services.NewInsightService(logger)
	insights.Print(insights.Generate(results, failed))
	return nil
}

// acquireAll runs one independent acquisition per locator and keeps input order.
func acquireAll(ctx context.Context, fetcher *airbnb.Fetcher, locators []string, maxReviews int) ([]*models.AcquisitionResult, int) {
	slots := make([]*models.AcquisitionResult, len(locators))
	var mu sync.Mutex
	failed := 0

	pool := utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs)
	for i, locator := range locators {
		i, locator := i, locator
		pool.Submit(func() {
			res, err := fetcher.Acquire(ctx, locator, maxReviews, nil)
			if err != nil {
				logger.Error("Acquisition failed for %s: %v", locator, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			slots[i] = res
		})
	}
	pool.Wait()

	results := make([]*models.AcquisitionResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, r)
		}
	}
	return results, failed
}

func openWriters(ctx context.Context) ([]storage.ResultWriter, error) {
	var writers []storage.ResultWriter

	if acquireCSV {
		w, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			return nil, fmt.Errorf("create CSV writer: %w", err)
		}
		logger.Info("Results will be written to %s", cfg.CSVOutputPath)
		writers = append(writers, w)
	}

	if acquireArchive {
		w, err := storage.NewPostgresWriter(ctx, cfg.DSN())
		if err != nil {
			for _, open := range writers {
				_ = open.Close()
			}
			return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		logger.Info("Results will be archived to PostgreSQL")
		writers = append(writers, w)
	}

	return writers, nil
}
