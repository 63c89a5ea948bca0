package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sheetcheck/internal/cli"
	"sheetcheck/internal/config"
	"sheetcheck/internal/exporter"
	"sheetcheck/internal/infrastructure"
	"sheetcheck/internal/middleware"
	"sheetcheck/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Reports go to stdout; logs stay on stderr so output can be piped.
	logger := infrastructure.NewLogger(os.Stderr, cfg.Logging.Level)

	app := &cli.App{
		Ingestor:    services.NewIngestor(cfg.Ingest, nil, nil, logger),
		Exporter:    exporter.NewCSVWriter(logger),
		Validator:   middleware.NewValidator(),
		Concurrency: cfg.Ingest.Concurrency,
		Logger:      logger,
		Out:         os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
