package dataset

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "battexplorer/internal/errors"
	"battexplorer/internal/shared/testutil"
)

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.mat")
	testutil.WriteMatFile(t, path, data)
	return path
}

func TestReadFile_DecodesBatterySchema(t *testing.T) {
	path := writeFixture(t, testutil.BuildBatteryMatFile(
		[]testutil.FixtureCycle{
			{
				Time:        []float64{0, 1, 2},
				Current:     []float64{1.5, 1.4, 1.3},
				Voltage:     []float64{3.1, 3.3, 3.5},
				Temperature: []float64{25, 26, 27},
				Capacity:    []float64{1.1, 99},
			},
			testutil.SimpleCycle(2, 1.05),
		},
		[]testutil.FixtureCycle{
			testutil.SimpleCycle(4, 0.97),
		},
	))

	f, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, f.Path)
	require.Len(t, f.Batteries, 2)
	require.Len(t, f.Batteries[0].Cycles, 2)
	require.Len(t, f.Batteries[1].Cycles, 1)

	first := f.Batteries[0].Cycles[0]
	assert.Equal(t, []float64{0, 1, 2}, first.RelativeTimeMin)
	assert.Equal(t, []float64{1.5, 1.4, 1.3}, first.CurrentA)
	assert.Equal(t, []float64{3.1, 3.3, 3.5}, first.VoltageV)
	assert.Equal(t, []float64{25, 26, 27}, first.TemperatureC)
	assert.Equal(t, 1.1, first.Capacity, "first element of the capacity array")

	assert.Equal(t, 0.97, f.Batteries[1].Cycles[0].Capacity)
}

func TestReadFile_AcceptsAlternateCycleFieldNames(t *testing.T) {
	testCases := []struct {
		name       string
		cycleField string
	}{
		{name: "canonical cycle", cycleField: "cycle"},
		{name: "plural cycles", cycleField: "cycles"},
		{name: "sole field of any name", cycleField: "cycle_data"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := testutil.BatteryVar(tc.cycleField, []testutil.FixtureCycle{testutil.SimpleCycle(3, 1.2)})
			path := writeFixture(t, testutil.BuildMatFile(testutil.MatFileOptions{},
				testutil.MatEntry{Name: "battery", Var: v},
			))

			f, err := ReadFile(path)
			require.NoError(t, err)
			require.Len(t, f.Batteries, 1)
			require.Len(t, f.Batteries[0].Cycles, 1)
			assert.Equal(t, 1.2, f.Batteries[0].Cycles[0].Capacity)
		})
	}
}

func TestReadFile_EmptySignalIsAccepted(t *testing.T) {
	cycle := testutil.FixtureCycle{
		Time:        nil,
		Current:     []float64{1},
		Voltage:     []float64{3.3},
		Temperature: []float64{25},
		Capacity:    []float64{1.0},
	}
	path := writeFixture(t, testutil.BuildBatteryMatFile([]testutil.FixtureCycle{cycle}))

	f, err := ReadFile(path)
	require.NoError(t, err)

	decoded := f.Batteries[0].Cycles[0]
	assert.Empty(t, decoded.RelativeTimeMin, "emptiness is judged later, by the extractor")
	assert.Equal(t, []float64{1}, decoded.CurrentA)
}

func TestReadFile_SchemaMismatch(t *testing.T) {
	signalFields := []string{"relative_time_min", "current_A", "voltage_V", "temperature_C", "capacity"}

	missingVoltage := testutil.StructArray([]string{"cycle"}, []*testutil.MatVar{
		testutil.StructArray([]string{"relative_time_min", "current_A", "temperature_C", "capacity"},
			[]*testutil.MatVar{testutil.Num(1), testutil.Num(1), testutil.Num(25), testutil.Num(1.1)},
		),
	})

	charVoltage := testutil.StructArray([]string{"cycle"}, []*testutil.MatVar{
		testutil.StructArray(signalFields,
			[]*testutil.MatVar{testutil.Num(1), testutil.Num(1), testutil.Chars("3.3V"), testutil.Num(25), testutil.Num(1.1)},
		),
	})

	emptyCapacity := testutil.StructArray([]string{"cycle"}, []*testutil.MatVar{
		testutil.StructArray(signalFields,
			[]*testutil.MatVar{testutil.Num(1), testutil.Num(1), testutil.Num(3.3), testutil.Num(25), testutil.NumDims([]int{0, 0}, nil)},
		),
	})

	testCases := []struct {
		name    string
		entries []testutil.MatEntry
		wantErr string
	}{
		{
			name:    "battery variable missing",
			entries: []testutil.MatEntry{{Name: "other", Var: testutil.Num(1)}},
			wantErr: `variable "battery" not found`,
		},
		{
			name:    "battery variable not a struct",
			entries: []testutil.MatEntry{{Name: "battery", Var: testutil.Num(1, 2)}},
			wantErr: "want a struct array",
		},
		{
			name: "no recognizable cycle field",
			entries: []testutil.MatEntry{{Name: "battery", Var: testutil.StructArray(
				[]string{"alpha", "beta"},
				[]*testutil.MatVar{testutil.Num(1), testutil.Num(2)},
			)}},
			wantErr: "has no cycle field among",
		},
		{
			name: "cycle field not a struct",
			entries: []testutil.MatEntry{{Name: "battery", Var: testutil.StructArray(
				[]string{"cycle"},
				[]*testutil.MatVar{testutil.Num(1, 2, 3)},
			)}},
			wantErr: "want a struct array of cycles",
		},
		{
			name:    "missing signal field",
			entries: []testutil.MatEntry{{Name: "battery", Var: missingVoltage}},
			wantErr: `missing field "voltage_V"`,
		},
		{
			name:    "non-numeric signal field",
			entries: []testutil.MatEntry{{Name: "battery", Var: charVoltage}},
			wantErr: "want numeric",
		},
		{
			name:    "empty capacity array",
			entries: []testutil.MatEntry{{Name: "battery", Var: emptyCapacity}},
			wantErr: `empty "capacity" array`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFixture(t, testutil.BuildMatFile(testutil.MatFileOptions{}, tc.entries...))

			_, err := ReadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema mismatch")
			assert.Contains(t, err.Error(), tc.wantErr)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.ErrTypeSchema, appErr.Type)
			assert.Equal(t, path, appErr.Context["path"])
		})
	}
}

func TestReadFile_MissingFile(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.mat"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}
