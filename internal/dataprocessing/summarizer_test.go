package dataprocessing

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "battexplorer/internal/errors"
	"battexplorer/pkg/contracts/domain"
)

// capRecord builds a minimal record; summarization only reads the capacity
// and grouping fields.
func capRecord(batteryID int, ct domain.CycleType, cycleIdx int, capacity float64) domain.CycleRecord {
	return domain.CycleRecord{
		BatteryID:  batteryID,
		CycleType:  ct,
		CycleIndex: cycleIdx,
		Capacity:   capacity,
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(nil)

	// Two cycle types with capacities [10, 20, 30] and [5, 5, 5].
	records := []domain.CycleRecord{
		capRecord(1, domain.CycleTypeCharge, 0, 10),
		capRecord(1, domain.CycleTypeCharge, 1, 20),
		capRecord(1, domain.CycleTypeCharge, 2, 30),
		capRecord(1, domain.CycleTypePartialCharge, 0, 5),
		capRecord(1, domain.CycleTypePartialCharge, 1, 5),
		capRecord(1, domain.CycleTypePartialCharge, 2, 5),
	}

	summary, err := summarizer.Summarize(ctx, records, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalGroups)
	assert.Equal(t, 6, summary.TotalCycles)

	// Global statistics use the population standard deviation.
	assert.Equal(t, 6, summary.Capacity.Count)
	assert.InDelta(t, 12.5, summary.Capacity.Mean, 1e-12)
	assert.InDelta(t, 5.0, summary.Capacity.Min, 1e-12)
	assert.InDelta(t, 30.0, summary.Capacity.Max, 1e-12)
	assert.InDelta(t, math.Sqrt(537.5/6.0), summary.Capacity.Std, 1e-12)

	// Per-type statistics use the sample standard deviation.
	require.Len(t, summary.ByType, 2)

	charge := summary.ByType[0]
	assert.Equal(t, domain.CycleTypeCharge, charge.CycleType)
	assert.Equal(t, 3, charge.Count)
	assert.InDelta(t, 20.0, charge.Mean, 1e-12)
	assert.InDelta(t, 10.0, charge.Min, 1e-12)
	assert.InDelta(t, 30.0, charge.Max, 1e-12)
	assert.InDelta(t, 10.0, charge.Std, 1e-12)

	partial := summary.ByType[1]
	assert.Equal(t, domain.CycleTypePartialCharge, partial.CycleType)
	assert.Equal(t, 3, partial.Count)
	assert.InDelta(t, 5.0, partial.Mean, 1e-12)
	assert.InDelta(t, 5.0, partial.Min, 1e-12)
	assert.InDelta(t, 5.0, partial.Max, 1e-12)
	assert.InDelta(t, 0.0, partial.Std, 1e-12)
}

func TestSummarizer_Summarize_TypeOrderFollowsRecords(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(nil)

	records := []domain.CycleRecord{
		capRecord(1, domain.CycleTypePartialCharge, 0, 1),
		capRecord(1, domain.CycleTypeCharge, 0, 2),
	}

	summary, err := summarizer.Summarize(ctx, records, 2)
	require.NoError(t, err)

	require.Len(t, summary.ByType, 2)
	assert.Equal(t, domain.CycleTypePartialCharge, summary.ByType[0].CycleType)
	assert.Equal(t, domain.CycleTypeCharge, summary.ByType[1].CycleType)
}

func TestSummarizer_Summarize_SingleRecordStd(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(nil)

	summary, err := summarizer.Summarize(ctx, []domain.CycleRecord{
		capRecord(1, domain.CycleTypeCharge, 0, 1.5),
	}, 1)
	require.NoError(t, err)

	// One sample: population std is 0, sample std is undefined (NaN).
	assert.InDelta(t, 0.0, summary.Capacity.Std, 1e-12)
	require.Len(t, summary.ByType, 1)
	assert.True(t, math.IsNaN(summary.ByType[0].Std))
}

func TestSummarizer_Summarize_EmptyTableFatal(t *testing.T) {
	summarizer := NewSummarizer(nil)

	_, err := summarizer.Summarize(context.Background(), nil, 0)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Message, "no cycle records loaded")
}

func TestSummarizer_WriteReport(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(nil)

	records := []domain.CycleRecord{
		capRecord(1, domain.CycleTypeCharge, 0, 10),
		capRecord(1, domain.CycleTypeCharge, 1, 20),
		capRecord(1, domain.CycleTypeCharge, 2, 30),
		capRecord(1, domain.CycleTypePartialCharge, 0, 5),
		capRecord(1, domain.CycleTypePartialCharge, 1, 5),
		capRecord(1, domain.CycleTypePartialCharge, 2, 5),
	}
	summary, err := summarizer.Summarize(ctx, records, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	summarizer.WriteReport(&buf, summary)
	out := buf.String()

	assert.Contains(t, out, "--- Battery Dataset Summary ---")
	assert.Contains(t, out, "Total Batteries: 2")
	assert.Contains(t, out, "Total Cycles: 6")
	assert.Contains(t, out, "Mean Capacity: 12.50")
	assert.Contains(t, out, "Min Capacity: 5.00")
	assert.Contains(t, out, "Max Capacity: 30.00")
	assert.Contains(t, out, "Capacity Std Dev: 9.46")
	assert.Contains(t, out, "Capacity Statistics by Cycle Type:")
	assert.Contains(t, out, "charge")
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "0.00")
}

func TestSummarizer_WriteReport_NaNStd(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(nil)

	summary, err := summarizer.Summarize(ctx, []domain.CycleRecord{
		capRecord(1, domain.CycleTypeCharge, 0, 1.5),
	}, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	summarizer.WriteReport(&buf, summary)

	assert.Contains(t, buf.String(), "NaN")
}
