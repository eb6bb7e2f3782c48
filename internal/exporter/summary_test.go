package exporter

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battexplorer/internal/config"
	apperrors "battexplorer/internal/errors"
	"battexplorer/pkg/contracts/domain"
)

func setupSummaryExporter(t *testing.T) (*SummaryExporter, string) {
	t.Helper()
	outputDir := filepath.Join(t.TempDir(), "output")
	return NewSummaryExporter(&config.Paths{OutputDir: outputDir}), outputDir
}

// sampleRecords covers both cycle types and non-round feature values.
func sampleRecords() []domain.CycleRecord {
	return []domain.CycleRecord{
		{
			BatteryID: 1, CycleType: domain.CycleTypeCharge, CycleIndex: 0,
			TimeMean: 2.5, TimeMax: 4,
			CurrentMean: -1.25, CurrentMax: -0.25,
			VoltageMean: 3.6, VoltageMax: 4.2,
			TemperatureMean: 25, TemperatureMax: 25,
			Capacity: 1.1,
		},
		{
			BatteryID: 1, CycleType: domain.CycleTypeCharge, CycleIndex: 1,
			TimeMean: 1.0 / 3.0, TimeMax: 1,
			CurrentMean: 0.5, CurrentMax: 2,
			VoltageMean: 3.7, VoltageMax: 4.1,
			TemperatureMean: 24.5, TemperatureMax: 26,
			Capacity: 1.05,
		},
		{
			BatteryID: 1, CycleType: domain.CycleTypePartialCharge, CycleIndex: 0,
			TimeMean: 10, TimeMax: 20,
			CurrentMean: 1, CurrentMax: 1,
			VoltageMean: 3.9, VoltageMax: 3.9,
			TemperatureMean: 30, TemperatureMax: 31,
			Capacity: 0.98,
		},
	}
}

func TestSummaryExporter_WriteCycleSummary(t *testing.T) {
	exp, outputDir := setupSummaryExporter(t)

	require.NoError(t, exp.WriteCycleSummary(sampleRecords(), config.CycleSummaryFileName))

	content, err := os.ReadFile(filepath.Join(outputDir, config.CycleSummaryFileName))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t,
		"battery_id,cycle_type,cycle_idx,time_mean,time_max,current_mean,current_max,"+
			"voltage_mean,voltage_max,temperature_mean,temperature_max,flattened_capacity",
		lines[0])
	assert.Equal(t, "1,charge,0,2.5,4,-1.25,-0.25,3.6,4.2,25,25,1.1", lines[1])
	assert.Equal(t, "1,partial_charge,0,10,20,1,1,3.9,3.9,30,31,0.98", lines[3])
}

func TestSummaryExporter_WriteCycleSummary_Empty(t *testing.T) {
	exp, outputDir := setupSummaryExporter(t)

	require.NoError(t, exp.WriteCycleSummary(nil, config.CycleSummaryFileName))

	content, err := os.ReadFile(filepath.Join(outputDir, config.CycleSummaryFileName))
	require.NoError(t, err)

	// Header only.
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "battery_id,"))
}

func TestSummaryExporter_WriteCycleTypeSummary(t *testing.T) {
	exp, outputDir := setupSummaryExporter(t)

	stats := []domain.TypeCapacityStats{
		{CycleType: domain.CycleTypeCharge, Count: 3, Mean: 20, Min: 10, Max: 30, Std: 10},
		{CycleType: domain.CycleTypePartialCharge, Count: 1, Mean: 5, Min: 5, Max: 5, Std: math.NaN()},
	}

	require.NoError(t, exp.WriteCycleTypeSummary(stats, config.CycleTypeSummaryFileName))

	content, err := os.ReadFile(filepath.Join(outputDir, config.CycleTypeSummaryFileName))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "cycle_type,mean,min,max,std", lines[0])
	assert.Equal(t, "charge,20,10,30,10", lines[1])
	assert.Equal(t, "partial_charge,5,5,5,NaN", lines[2])
}

func TestSummaryExporter_Idempotence(t *testing.T) {
	exp, outputDir := setupSummaryExporter(t)
	records := sampleRecords()
	stats := []domain.TypeCapacityStats{
		{CycleType: domain.CycleTypeCharge, Count: 2, Mean: 1.075, Min: 1.05, Max: 1.1, Std: 0.03535533905932738},
	}

	require.NoError(t, exp.WriteCycleSummary(records, config.CycleSummaryFileName))
	require.NoError(t, exp.WriteCycleTypeSummary(stats, config.CycleTypeSummaryFileName))
	first, err := os.ReadFile(filepath.Join(outputDir, config.CycleSummaryFileName))
	require.NoError(t, err)
	firstTypes, err := os.ReadFile(filepath.Join(outputDir, config.CycleTypeSummaryFileName))
	require.NoError(t, err)

	require.NoError(t, exp.WriteCycleSummary(records, config.CycleSummaryFileName))
	require.NoError(t, exp.WriteCycleTypeSummary(stats, config.CycleTypeSummaryFileName))
	second, err := os.ReadFile(filepath.Join(outputDir, config.CycleSummaryFileName))
	require.NoError(t, err)
	secondTypes, err := os.ReadFile(filepath.Join(outputDir, config.CycleTypeSummaryFileName))
	require.NoError(t, err)

	assert.Equal(t, first, second, "rewriting the same table must be byte-identical")
	assert.Equal(t, firstTypes, secondTypes, "rewriting the same statistics must be byte-identical")
}

func TestSummaryExporter_RoundTrip(t *testing.T) {
	exp, _ := setupSummaryExporter(t)
	records := sampleRecords()

	require.NoError(t, exp.WriteCycleSummary(records, config.CycleSummaryFileName))

	got, err := exp.ReadCycleSummary(config.CycleSummaryFileName)
	require.NoError(t, err)

	assert.Equal(t, records, got)
}

func TestSummaryExporter_ReadCycleSummary_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantType apperrors.ErrorType
		wantMsg  string
	}{
		{
			name: "wrong header",
			content: "battery_id,cycle_type\n" +
				"1,charge\n",
			wantType: apperrors.ErrTypeValidation,
			wantMsg:  "does not match expected columns",
		},
		{
			name:     "empty file",
			content:  "",
			wantType: apperrors.ErrTypeValidation,
			wantMsg:  "has no header row",
		},
		{
			name: "unparseable battery id",
			content: "battery_id,cycle_type,cycle_idx,time_mean,time_max,current_mean,current_max," +
				"voltage_mean,voltage_max,temperature_mean,temperature_max,flattened_capacity\n" +
				"x,charge,0,1,1,1,1,1,1,1,1,1\n",
			wantType: apperrors.ErrTypeValidation,
			wantMsg:  "line 2",
		},
		{
			name: "unknown cycle type",
			content: "battery_id,cycle_type,cycle_idx,time_mean,time_max,current_mean,current_max," +
				"voltage_mean,voltage_max,temperature_mean,temperature_max,flattened_capacity\n" +
				"1,trickle,0,1,1,1,1,1,1,1,1,1\n",
			wantType: apperrors.ErrTypeValidation,
			wantMsg:  "trickle",
		},
		{
			name: "unparseable feature value",
			content: "battery_id,cycle_type,cycle_idx,time_mean,time_max,current_mean,current_max," +
				"voltage_mean,voltage_max,temperature_mean,temperature_max,flattened_capacity\n" +
				"1,charge,0,1,1,oops,1,1,1,1,1,1\n",
			wantType: apperrors.ErrTypeValidation,
			wantMsg:  "current_mean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, outputDir := setupSummaryExporter(t)
			require.NoError(t, os.MkdirAll(outputDir, 0755))
			require.NoError(t, os.WriteFile(filepath.Join(outputDir, "table.csv"), []byte(tt.content), 0644))

			_, err := exp.ReadCycleSummary("table.csv")
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Contains(t, appErr.Message, tt.wantMsg)
		})
	}
}

func TestSummaryExporter_ReadCycleSummary_MissingFile(t *testing.T) {
	exp, _ := setupSummaryExporter(t)

	_, err := exp.ReadCycleSummary("never_written.csv")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}

func TestSummaryExporter_ReadCycleSummary_NaNStatistics(t *testing.T) {
	exp, outputDir := setupSummaryExporter(t)
	require.NoError(t, os.MkdirAll(outputDir, 0755))

	content := "battery_id,cycle_type,cycle_idx,time_mean,time_max,current_mean,current_max," +
		"voltage_mean,voltage_max,temperature_mean,temperature_max,flattened_capacity\n" +
		"1,charge,0,1,1,1,1,1,1,1,1,NaN\n"
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "table.csv"), []byte(content), 0644))

	records, err := exp.ReadCycleSummary("table.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, math.IsNaN(records[0].Capacity))
}
