package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"airbnb-reviews/scraper/airbnb"
	"airbnb-reviews/server"
	"airbnb-reviews/services"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	if servePort > 0 {
		cfg.Port = servePort
	}

	logger.Info("=== Airbnb Review Service starting ===")
	logger.Info("Config: port %d | rendered %v (%d attempts) | parsed %v (%d attempts) | backoff unit %v",
		cfg.Port, cfg.RenderedEnabled, cfg.RenderedMaxAttempts, cfg.ParsedEnabled, cfg.ParsedMaxAttempts, cfg.RetryBaseDelay())

	fetcher := airbnb.NewFetcher(cfg, logger)
	analyzer := services.NewAnalyzer(cfg.MaxAnalyzeReviews, logger)
	srv := server.New(cfg, fetcher, analyzer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
