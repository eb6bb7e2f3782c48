package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"battexplorer/internal/config"
	"battexplorer/internal/errors"
	"battexplorer/pkg/contracts/domain"
)

// SummaryExporter writes the pipeline's two CSV artifacts and reads the
// cycle summary table back for downstream tools.
type SummaryExporter struct {
	csvWriter *CSVWriter
}

// NewSummaryExporter creates a summary exporter resolving relative file
// names against the configured output directory.
func NewSummaryExporter(paths *config.Paths) *SummaryExporter {
	return &SummaryExporter{csvWriter: NewCSVWriter(paths)}
}

// cycleSummaryHeaders returns the summary table's column order. The layout
// is an external contract; reordering breaks downstream consumers.
func cycleSummaryHeaders() []string {
	return []string{
		"battery_id", "cycle_type", "cycle_idx",
		"time_mean", "time_max",
		"current_mean", "current_max",
		"voltage_mean", "voltage_max",
		"temperature_mean", "temperature_max",
		"flattened_capacity",
	}
}

// cycleTypeSummaryHeaders returns the grouped statistics column order.
func cycleTypeSummaryHeaders() []string {
	return []string{"cycle_type", "mean", "min", "max", "std"}
}

// WriteCycleSummary writes one row per record, preserving table order
// exactly: file order, then battery order, then cycle order.
func (e *SummaryExporter) WriteCycleSummary(records []domain.CycleRecord, filePath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(filePath, cycleSummaryHeaders())
	if err != nil {
		return errors.NewStorageError("failed to create cycle summary CSV", err)
	}

	for _, rec := range records {
		if err := stream.WriteRecord(recordToCSVRow(rec)); err != nil {
			stream.Close()
			return errors.NewStorageError("failed to write cycle summary row", err)
		}
	}

	if err := stream.Close(); err != nil {
		return errors.NewStorageError("failed to finalize cycle summary CSV", err)
	}
	return nil
}

// WriteCycleTypeSummary writes one row per cycle type in the given order.
// NaN statistics are written as the literal "NaN".
func (e *SummaryExporter) WriteCycleTypeSummary(stats []domain.TypeCapacityStats, filePath string) error {
	rows := make([][]string, 0, len(stats))
	for _, ts := range stats {
		rows = append(rows, typeStatsToCSVRow(ts))
	}

	if err := e.csvWriter.WriteSimpleCSV(filePath, cycleTypeSummaryHeaders(), rows); err != nil {
		return errors.NewStorageError("failed to write cycle type summary CSV", err)
	}
	return nil
}

// ReadCycleSummary loads a previously written cycle summary CSV back into
// records. The header must match the writer's column order exactly.
func (e *SummaryExporter) ReadCycleSummary(filePath string) ([]domain.CycleRecord, error) {
	fullPath := e.csvWriter.resolvePath(filePath)

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open cycle summary CSV %s", fullPath), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewAppValidationError(fmt.Sprintf("cycle summary CSV %s has no header row", fullPath))
	}
	if !equalHeaders(header, cycleSummaryHeaders()) {
		return nil, errors.NewAppValidationError(fmt.Sprintf(
			"cycle summary CSV %s header %v does not match expected columns %v",
			fullPath, header, cycleSummaryHeaders()))
	}

	var records []domain.CycleRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewAppValidationError(fmt.Sprintf("cycle summary CSV %s line %d: %v", fullPath, line, err))
		}
		rec, err := parseSummaryRow(row)
		if err != nil {
			return nil, errors.NewAppValidationError(fmt.Sprintf("cycle summary CSV %s line %d: %v", fullPath, line, err))
		}
		records = append(records, rec)
	}
	return records, nil
}

// recordToCSVRow converts a cycle record to its summary CSV row
func recordToCSVRow(rec domain.CycleRecord) []string {
	return []string{
		formatInt(rec.BatteryID),
		string(rec.CycleType),
		formatInt(rec.CycleIndex),
		formatFloat(rec.TimeMean),
		formatFloat(rec.TimeMax),
		formatFloat(rec.CurrentMean),
		formatFloat(rec.CurrentMax),
		formatFloat(rec.VoltageMean),
		formatFloat(rec.VoltageMax),
		formatFloat(rec.TemperatureMean),
		formatFloat(rec.TemperatureMax),
		formatFloat(rec.Capacity),
	}
}

// typeStatsToCSVRow converts per-type statistics to a grouped summary row
func typeStatsToCSVRow(ts domain.TypeCapacityStats) []string {
	return []string{
		string(ts.CycleType),
		formatFloat(ts.Mean),
		formatFloat(ts.Min),
		formatFloat(ts.Max),
		formatFloat(ts.Std),
	}
}

// parseSummaryRow parses one data row; the reader has already enforced the
// field count against the header.
func parseSummaryRow(row []string) (domain.CycleRecord, error) {
	var rec domain.CycleRecord
	var err error

	if rec.BatteryID, err = strconv.Atoi(row[0]); err != nil {
		return rec, fmt.Errorf("battery_id %q: %w", row[0], err)
	}
	if rec.CycleType, err = domain.ParseCycleType(row[1]); err != nil {
		return rec, err
	}
	if rec.CycleIndex, err = strconv.Atoi(row[2]); err != nil {
		return rec, fmt.Errorf("cycle_idx %q: %w", row[2], err)
	}

	fields := []*float64{
		&rec.TimeMean, &rec.TimeMax,
		&rec.CurrentMean, &rec.CurrentMax,
		&rec.VoltageMean, &rec.VoltageMax,
		&rec.TemperatureMean, &rec.TemperatureMax,
		&rec.Capacity,
	}
	for i, dst := range fields {
		v, err := strconv.ParseFloat(row[i+3], 64)
		if err != nil {
			return rec, fmt.Errorf("column %s value %q: %w", cycleSummaryHeaders()[i+3], row[i+3], err)
		}
		*dst = v
	}

	return rec, rec.Validate()
}

func equalHeaders(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
