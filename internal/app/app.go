package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"battexplorer/internal/config"
	"battexplorer/internal/dataprocessing"
	"battexplorer/internal/exporter"
	"battexplorer/internal/infrastructure"
	"battexplorer/internal/plotting"
	"battexplorer/internal/validation"
	"battexplorer/pkg/contracts/domain"
)

// Application is the pipeline container. It wires every component against
// one resolved path set and owns the per-run accumulation state through
// its Extractor, so two Applications never share results.
type Application struct {
	Config     *config.Config
	Paths      *config.Paths
	Logger     *slog.Logger
	Validator  *validation.FileValidator
	Extractor  *dataprocessing.Extractor
	Summarizer *dataprocessing.Summarizer
	Exporter   *exporter.SummaryExporter
	Plotter    *plotting.CapacityPlotter

	// Out receives the console report. Defaults to os.Stdout; tests point
	// it at a buffer.
	Out io.Writer
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	paths := cfg.ResolvePaths()

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("data_dir", paths.DataDir))

	logger.Info("Ensuring required directories exist")
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	paths.LogPathResolution()

	app := &Application{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
		Out:    os.Stdout,
	}
	app.initializeComponents()

	return app, nil
}

// initializeComponents initializes all pipeline components
func (a *Application) initializeComponents() {
	a.Validator = validation.NewFileValidator(a.Logger)
	a.Extractor = dataprocessing.NewExtractor(a.Logger, a.Paths.DataDir)
	a.Summarizer = dataprocessing.NewSummarizer(a.Logger)
	a.Exporter = exporter.NewSummaryExporter(a.Paths)
	a.Plotter = plotting.NewCapacityPlotter(a.Logger, a.Paths)
}

// Run executes the pipeline end to end: validate the environment, load
// both cycle types, summarize, report, export the CSV artifacts, and
// render the capacity-fade plots. The first error aborts the run.
func (a *Application) Run(ctx context.Context) error {
	ctx, runID := infrastructure.EnsureRunID(ctx)
	a.Logger.InfoContext(ctx, "Pipeline run starting",
		slog.String("run_id", runID),
		slog.String("data_dir", a.Paths.DataDir))

	if err := a.validateEnvironment(ctx); err != nil {
		return err
	}

	for _, ct := range domain.AllCycleTypes {
		count, err := a.Extractor.LoadCycleType(ctx, ct)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Loaded %s data for %d battery datasets\n", cycleTypeLabel(ct), count)
	}

	summary, err := a.Summarizer.Summarize(ctx, a.Extractor.Records(), a.Extractor.GroupCount())
	if err != nil {
		return err
	}
	a.Summarizer.WriteReport(a.Out, summary)

	if err := a.Exporter.WriteCycleSummary(a.Extractor.Records(), config.CycleSummaryFileName); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "\nSummary saved to %s\n", a.Paths.CycleSummaryCSV())

	if err := a.Exporter.WriteCycleTypeSummary(summary.ByType, config.CycleTypeSummaryFileName); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Grouped statistics saved to %s\n", a.Paths.CycleTypeSummaryCSV())

	rendered, err := a.Plotter.RenderAll(ctx, a.Extractor.Groups())
	if err != nil {
		return err
	}

	a.Logger.InfoContext(ctx, "Pipeline run complete",
		slog.Int("batteries", summary.TotalGroups),
		slog.Int("cycles", summary.TotalCycles),
		slog.Int("plots_rendered", len(rendered)))

	return nil
}

// validateEnvironment checks every file system precondition before any
// container is decoded. The dataset contract promises at least one file
// per cycle-type directory, so emptiness is caught here rather than
// surfacing later as an empty summary.
func (a *Application) validateEnvironment(ctx context.Context) error {
	if err := a.Paths.Validate(); err != nil {
		return err
	}

	for _, ct := range domain.AllCycleTypes {
		if err := a.Validator.ValidateInputDirectory(a.Paths.CycleTypeDir(ct), "*.mat"); err != nil {
			return err
		}
	}

	if err := a.Validator.ValidateOutputDirectory(a.Paths.OutputDir); err != nil {
		return err
	}
	if err := a.Validator.ValidateOutputDirectory(a.Paths.PlotsDir); err != nil {
		return err
	}

	a.Logger.DebugContext(ctx, "Environment validated",
		slog.String("data_dir", a.Paths.DataDir),
		slog.String("output_dir", a.Paths.OutputDir))

	return nil
}

// cycleTypeLabel renders a cycle type for console output: directory
// names use underscores, the report uses spaces ("partial charge").
func cycleTypeLabel(ct domain.CycleType) string {
	return strings.ReplaceAll(string(ct), "_", " ")
}
