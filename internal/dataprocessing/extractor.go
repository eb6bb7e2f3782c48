package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"battexplorer/internal/dataset"
	"battexplorer/internal/errors"
	"battexplorer/internal/files"
	"battexplorer/pkg/contracts/domain"
)

// Extractor is the Single Source of Truth for one run's accumulation state:
// the flat summary table and the battery groups partitioning it. It is
// constructed fresh per run and owned by the application container; nothing
// here is global or shared across runs.
type Extractor struct {
	logger    *slog.Logger
	discovery *files.Discovery

	records []domain.CycleRecord
	groups  map[string]*domain.BatteryGroup
	order   []string
	loaded  map[domain.CycleType]int
}

// NewExtractor creates an extractor rooted at the given dataset directory.
func NewExtractor(logger *slog.Logger, dataDir string) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		logger:    logger,
		discovery: files.NewDiscovery(dataDir),
		groups:    make(map[string]*domain.BatteryGroup),
		loaded:    make(map[domain.CycleType]int),
	}
}

// LoadCycleType decodes every dataset file of one cycle type and folds its
// cycles into the summary table. Files are visited in lexical name order,
// and battery IDs continue across files so the nth battery of a regime keeps
// a single identity for the whole run. Any unreadable or malformed file
// aborts the load. Returns the cumulative number of battery groups loaded
// for this cycle type.
func (e *Extractor) LoadCycleType(ctx context.Context, ct domain.CycleType) (int, error) {
	if !ct.IsValid() {
		return 0, errors.NewAppValidationError(fmt.Sprintf("unknown cycle type %q", ct))
	}

	matFiles, err := e.discovery.FindMatFiles(ct.DirName())
	if err != nil {
		return 0, errors.NewStorageError(
			fmt.Sprintf("failed to list %s dataset files", ct), err)
	}

	e.logger.InfoContext(ctx, "loading cycle type",
		slog.String("cycle_type", string(ct)),
		slog.Int("file_count", len(matFiles)))

	for _, f := range matFiles {
		ds, err := dataset.ReadFile(f.Path)
		if err != nil {
			return 0, err
		}

		for _, battery := range ds.Batteries {
			e.loaded[ct]++
			if err := e.extractBattery(e.loaded[ct], ct, battery); err != nil {
				return 0, err
			}
		}

		e.logger.DebugContext(ctx, "decoded dataset file",
			slog.String("path", f.Path),
			slog.Int("battery_count", len(ds.Batteries)))
	}

	e.logger.InfoContext(ctx, "cycle type loaded",
		slog.String("cycle_type", string(ct)),
		slog.Int("battery_count", e.loaded[ct]),
		slog.Int("total_records", len(e.records)))

	return e.loaded[ct], nil
}

// extractBattery folds one battery's cycles into the table and its group.
func (e *Extractor) extractBattery(batteryID int, ct domain.CycleType, battery dataset.Battery) error {
	group := domain.NewBatteryGroup(batteryID, ct)
	for idx := range battery.Cycles {
		rec, err := extractRecord(batteryID, ct, idx, &battery.Cycles[idx])
		if err != nil {
			return err
		}
		if err := group.Append(rec); err != nil {
			return errors.NewAppValidationError(err.Error())
		}
		e.records = append(e.records, rec)
	}
	e.groups[group.Key()] = group
	e.order = append(e.order, group.Key())
	return nil
}

// extractRecord computes one cycle's features. Mean and max are defined only
// over non-empty signals; an empty one is a fatal error naming the field.
func extractRecord(batteryID int, ct domain.CycleType, cycleIdx int, c *dataset.Cycle) (domain.CycleRecord, error) {
	rec := domain.CycleRecord{
		BatteryID:  batteryID,
		CycleType:  ct,
		CycleIndex: cycleIdx,
		Capacity:   c.Capacity,
	}

	for _, sig := range c.Signals() {
		if len(sig.Samples) == 0 {
			return domain.CycleRecord{}, errors.NewEmptySignalError(sig.Name, batteryID, cycleIdx)
		}
		mean := stat.Mean(sig.Samples, nil)
		max := floats.Max(sig.Samples)

		switch sig.Name {
		case dataset.FieldRelativeTime:
			rec.TimeMean, rec.TimeMax = mean, max
		case dataset.FieldCurrent:
			rec.CurrentMean, rec.CurrentMax = mean, max
		case dataset.FieldVoltage:
			rec.VoltageMean, rec.VoltageMax = mean, max
		case dataset.FieldTemperature:
			rec.TemperatureMean, rec.TemperatureMax = mean, max
		}
	}

	if err := rec.Validate(); err != nil {
		return domain.CycleRecord{}, errors.NewAppValidationError(err.Error())
	}
	return rec, nil
}

// Records returns the summary table in accumulation order: file order, then
// battery order, then cycle order. The slice is the extractor's backing
// store and must not be modified by callers.
func (e *Extractor) Records() []domain.CycleRecord {
	return e.records
}

// Groups returns the battery groups in first-loaded order.
func (e *Extractor) Groups() []*domain.BatteryGroup {
	groups := make([]*domain.BatteryGroup, 0, len(e.order))
	for _, key := range e.order {
		groups = append(groups, e.groups[key])
	}
	return groups
}

// Group looks up one battery group by its battery_{id}_{type} key.
func (e *Extractor) Group(key string) (*domain.BatteryGroup, bool) {
	g, ok := e.groups[key]
	return g, ok
}

// GroupCount returns the number of battery groups loaded so far.
func (e *Extractor) GroupCount() int {
	return len(e.groups)
}

// TotalCycles returns the number of records in the summary table.
func (e *Extractor) TotalCycles() int {
	return len(e.records)
}
