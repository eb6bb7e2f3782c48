package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"battexplorer/internal/app"
	"battexplorer/internal/config"
	"battexplorer/internal/infrastructure"
)

func main() {
	dataDir := flag.String("data", "", "dataset root directory holding charge/ and partial_charge/ (defaults to data/MIT)")
	outDir := flag.String("out", "", "output directory for CSV artifacts (defaults to output)")
	plotsDir := flag.String("plots", "", "output directory for capacity-fade plots (defaults to plots)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyOverrides(*dataDir, *outDir, *plotsDir)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	// One run ID for the whole invocation; every log record carries it.
	ctx := infrastructure.ContextWithRunID(context.Background())

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize application", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Pipeline failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
