package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"battexplorer/internal/errors"
	"battexplorer/pkg/contracts/domain"
)

// Paths contains the resolved file system locations of one run.
// This is the single source of truth for ALL file paths in the pipeline.
type Paths struct {
	DataDir   string
	OutputDir string
	PlotsDir  string
	LogsDir   string
}

// NewPaths derives the run's locations from the configured directories.
func NewPaths(cfg PathsConfig) *Paths {
	return &Paths{
		DataDir:   cfg.DataDir,
		OutputDir: cfg.OutputDir,
		PlotsDir:  cfg.PlotsDir,
		LogsDir:   cfg.LogsDir,
	}
}

// CycleTypeDir returns the dataset subdirectory holding the containers
// of one cycle type.
func (p *Paths) CycleTypeDir(ct domain.CycleType) string {
	return filepath.Join(p.DataDir, ct.DirName())
}

// ChargeDir returns the full-charge dataset directory.
func (p *Paths) ChargeDir() string {
	return p.CycleTypeDir(domain.CycleTypeCharge)
}

// PartialChargeDir returns the partial-charge dataset directory.
func (p *Paths) PartialChargeDir() string {
	return p.CycleTypeDir(domain.CycleTypePartialCharge)
}

// CycleSummaryCSV returns the path of the per-cycle summary table.
func (p *Paths) CycleSummaryCSV() string {
	return filepath.Join(p.OutputDir, CycleSummaryFileName)
}

// CycleTypeSummaryCSV returns the path of the grouped statistics table.
func (p *Paths) CycleTypeSummaryCSV() string {
	return filepath.Join(p.OutputDir, CycleTypeSummaryFileName)
}

// CapacityPlotPath returns where the capacity-fade plot of a battery
// group is rendered.
func (p *Paths) CapacityPlotPath(groupKey string) string {
	return filepath.Join(p.PlotsDir, fmt.Sprintf("capacity_fade_%s.png", groupKey))
}

// LogPath returns the path for a log file
func (p *Paths) LogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// EnsureDirectories creates the writable directories if they don't
// exist. The data root is never created here: it holds the input, and
// its absence is a configuration problem rather than something to
// paper over with an empty directory.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.PlotsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// Validate checks that the dataset root and both cycle-type
// subdirectories exist.
func (p *Paths) Validate() error {
	if !DirExists(p.DataDir) {
		return errors.NewConfigError(
			fmt.Sprintf("data directory %s does not exist", p.DataDir), nil).
			WithContext("data_dir", p.DataDir)
	}

	for _, ct := range domain.AllCycleTypes {
		dir := p.CycleTypeDir(ct)
		if !DirExists(dir) {
			return errors.NewConfigError(
				fmt.Sprintf("cycle type directory %s does not exist", dir), nil).
				WithContext("cycle_type", string(ct))
		}
	}

	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// DirExists checks if path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("data", p.DataDir),
			slog.String("output", p.OutputDir),
			slog.String("plots", p.PlotsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("output_files",
			slog.String("cycle_summary_csv", p.CycleSummaryCSV()),
			slog.String("cycle_type_summary_csv", p.CycleTypeSummaryCSV()),
		))
}
