package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"battexplorer/internal/errors"
	"battexplorer/pkg/contracts/domain"
)

// Summarizer is the Single Source of Truth for capacity statistics over a
// completed summary table. Both binaries derive their figures here, so the
// console report and the grouped CSV can never disagree.
//
// Two deliberate divisor conventions coexist: the global standard deviation
// is the population figure (divide by N) while the per-type figures use the
// sample convention (divide by N-1). A cycle type with a single record
// therefore has std NaN, which is reported as-is rather than masked.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize computes the dataset summary from the full record table.
// groupCount is the number of battery groups the records partition into,
// reported as the console's "Total Batteries". An empty table is a fatal
// validation error; there is nothing meaningful to report.
func (s *Summarizer) Summarize(ctx context.Context, records []domain.CycleRecord, groupCount int) (*domain.DatasetSummary, error) {
	if len(records) == 0 {
		return nil, errors.NewAppValidationError("no cycle records loaded: cannot summarize an empty dataset")
	}

	s.logger.InfoContext(ctx, "summarizing cycle records",
		slog.Int("record_count", len(records)),
		slog.Int("group_count", groupCount))

	capacities := make([]float64, len(records))
	byType := make(map[domain.CycleType][]float64)
	var typeOrder []domain.CycleType
	for i, rec := range records {
		capacities[i] = rec.Capacity
		if _, seen := byType[rec.CycleType]; !seen {
			typeOrder = append(typeOrder, rec.CycleType)
		}
		byType[rec.CycleType] = append(byType[rec.CycleType], rec.Capacity)
	}

	summary := &domain.DatasetSummary{
		TotalGroups: groupCount,
		TotalCycles: len(records),
		Capacity: domain.CapacityStats{
			Count: len(capacities),
			Mean:  stat.Mean(capacities, nil),
			Min:   floats.Min(capacities),
			Max:   floats.Max(capacities),
			Std:   stat.PopStdDev(capacities, nil),
		},
	}

	for _, ct := range typeOrder {
		vals := byType[ct]
		summary.ByType = append(summary.ByType, domain.TypeCapacityStats{
			CycleType: ct,
			Count:     len(vals),
			Mean:      stat.Mean(vals, nil),
			Min:       floats.Min(vals),
			Max:       floats.Max(vals),
			Std:       stat.StdDev(vals, nil),
		})
	}

	return summary, nil
}

// WriteReport renders the summary in the fixed console layout, every figure
// at two decimal places. NaN std values print as "NaN".
func (s *Summarizer) WriteReport(w io.Writer, summary *domain.DatasetSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Battery Dataset Summary ---")
	fmt.Fprintf(w, "Total Batteries: %d\n", summary.TotalGroups)
	fmt.Fprintf(w, "Total Cycles: %d\n", summary.TotalCycles)
	fmt.Fprintln(w, "Capacity Statistics:")
	fmt.Fprintf(w, "  Mean Capacity: %.2f\n", summary.Capacity.Mean)
	fmt.Fprintf(w, "  Min Capacity: %.2f\n", summary.Capacity.Min)
	fmt.Fprintf(w, "  Max Capacity: %.2f\n", summary.Capacity.Max)
	fmt.Fprintf(w, "  Capacity Std Dev: %.2f\n", summary.Capacity.Std)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capacity Statistics by Cycle Type:")
	fmt.Fprintf(w, "  %-16s %6s %10s %10s %10s %10s\n", "cycle_type", "count", "mean", "min", "max", "std")
	for _, ts := range summary.ByType {
		fmt.Fprintf(w, "  %-16s %6d %10.2f %10.2f %10.2f %10.2f\n",
			ts.CycleType, ts.Count, ts.Mean, ts.Min, ts.Max, ts.Std)
	}
}
