package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"battexplorer/internal/config"
	"battexplorer/internal/dataprocessing"
	"battexplorer/internal/exporter"
	"battexplorer/internal/infrastructure"
	"battexplorer/internal/validation"
	"battexplorer/pkg/contracts/domain"
)

func main() {
	input := flag.String("in", "", "path to a battery_cycle_summary.csv (defaults to the configured output directory)")
	outDir := flag.String("out", "", "directory to write the recomputed battery_cycle_type_summary.csv (omit to report only)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	in := *input
	if in == "" {
		in = cfg.ResolvePaths().CycleSummaryCSV()
	}

	ctx := infrastructure.ContextWithRunID(context.Background())
	if err := run(ctx, logger, in, *outDir, os.Stdout); err != nil {
		logger.ErrorContext(ctx, "Statistics recompute failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run re-derives the dataset statistics from a previously written summary
// CSV: the same Summarizer the pipeline uses, fed from disk instead of
// from freshly decoded containers.
func run(ctx context.Context, logger *slog.Logger, inPath, outDir string, stdout io.Writer) error {
	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateCSVFile(inPath); err != nil {
		return err
	}

	reader := exporter.NewSummaryExporter(nil)
	records, err := reader.ReadCycleSummary(inPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Loaded %d cycle records from %s\n", len(records), inPath)

	summarizer := dataprocessing.NewSummarizer(logger)
	summary, err := summarizer.Summarize(ctx, records, countGroups(records))
	if err != nil {
		return err
	}
	summarizer.WriteReport(stdout, summary)

	if outDir != "" {
		writer := exporter.NewSummaryExporter(config.NewPaths(config.PathsConfig{OutputDir: outDir}))
		if err := writer.WriteCycleTypeSummary(summary.ByType, config.CycleTypeSummaryFileName); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nGrouped statistics saved to %s\n", filepath.Join(outDir, config.CycleTypeSummaryFileName))
	}

	logger.InfoContext(ctx, "Statistics recomputed",
		slog.Int("records", len(records)),
		slog.Int("batteries", summary.TotalGroups))

	return nil
}

// countGroups counts distinct (battery, cycle type) pairs. The summary
// CSV does not store group boundaries, but every record names its group,
// so the pipeline's "Total Batteries" is recoverable exactly.
func countGroups(records []domain.CycleRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[rec.GroupKey()] = struct{}{}
	}
	return len(seen)
}
