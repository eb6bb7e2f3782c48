package plotting

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"battexplorer/internal/config"
	"battexplorer/internal/errors"
	"battexplorer/pkg/contracts/domain"
)

// CapacityPlotter renders one capacity-fade curve per battery group: cycle
// index on X, capacity on Y. Output files land in the configured plots
// directory as capacity_fade_{group key}.png.
type CapacityPlotter struct {
	logger *slog.Logger
	paths  *config.Paths
}

// NewCapacityPlotter creates a plotter writing into the configured plots dir.
func NewCapacityPlotter(logger *slog.Logger, paths *config.Paths) *CapacityPlotter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CapacityPlotter{logger: logger, paths: paths}
}

// RenderAll renders every group in order and returns the written paths.
// Groups without cycles are skipped; they have no curve to draw.
func (c *CapacityPlotter) RenderAll(ctx context.Context, groups []*domain.BatteryGroup) ([]string, error) {
	paths := make([]string, 0, len(groups))
	for _, group := range groups {
		path, err := c.RenderGroup(ctx, group)
		if err != nil {
			return nil, err
		}
		if path != "" {
			paths = append(paths, path)
		}
	}

	c.logger.InfoContext(ctx, "rendered capacity fade plots",
		slog.Int("plot_count", len(paths)),
		slog.String("plots_dir", c.paths.PlotsDir))

	return paths, nil
}

// RenderGroup draws one group's capacity-over-cycle curve and returns the
// output path, or "" for an empty group.
func (c *CapacityPlotter) RenderGroup(ctx context.Context, group *domain.BatteryGroup) (string, error) {
	if group == nil || group.CycleCount() == 0 {
		c.logger.DebugContext(ctx, "skipping empty battery group")
		return "", nil
	}

	pts := make(plotter.XYs, len(group.Capacities))
	for i, capacity := range group.Capacities {
		pts[i].X = float64(group.Cycles[i].CycleIndex)
		pts[i].Y = capacity
	}

	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("Capacity Fade: battery %d (%s)", group.BatteryID, group.CycleType)
	plt.X.Label.Text = "Cycle"
	plt.Y.Label.Text = "Capacity (Ah)"
	plt.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return "", errors.NewPlotError(
			fmt.Sprintf("failed to build capacity series for %s", group.Key()), err)
	}
	plt.Add(line, points)

	outPath := c.paths.CapacityPlotPath(group.Key())
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", errors.NewPlotError(
			fmt.Sprintf("failed to create plots directory for %s", group.Key()), err)
	}
	if err := plt.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return "", errors.NewPlotError(
			fmt.Sprintf("failed to save capacity fade plot for %s", group.Key()), err)
	}

	c.logger.DebugContext(ctx, "rendered capacity fade plot",
		slog.String("group", group.Key()),
		slog.String("path", outPath),
		slog.Int("cycle_count", group.CycleCount()))

	return outPath, nil
}
