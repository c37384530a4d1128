package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavraq/trip-analyzer-go/internal/models"
)

func detectedSession(activity string, priority int, start, end time.Time, score float64, minSpan time.Duration) Detected {
	return Detected{
		Session: models.ActivitySession{
			ActivityType:    activity,
			StartTime:       start,
			EndTime:         end,
			DurationHours:   end.Sub(start).Hours(),
			ConfidenceScore: score,
			ConfidenceLabel: models.ConfidenceLabelFor(score),
		},
		Priority: priority,
		MinSpan:  minSpan,
	}
}

func at(h, m int) time.Time {
	return time.Date(2025, 6, 1, h, m, 0, 0, time.UTC)
}

func TestReconcileTruncatesLowerPriority(t *testing.T) {
	// Flight 14:00-14:30 beats a visit 14:15-14:45; the visit keeps its
	// tail outside the flight
	items := []Detected{
		detectedSession("location_visit", 1, at(14, 15), at(14, 45), 1.0, 10*time.Minute),
		detectedSession("flight", 3, at(14, 0), at(14, 30), 1.0, 10*time.Minute),
	}

	result := Reconcile(items)
	require.Len(t, result, 2)

	assert.Equal(t, "flight", result[0].ActivityType)
	assert.Equal(t, at(14, 0), result[0].StartTime)
	assert.Equal(t, at(14, 30), result[0].EndTime)

	assert.Equal(t, "location_visit", result[1].ActivityType)
	assert.Equal(t, at(14, 30), result[1].StartTime)
	assert.Equal(t, at(14, 45), result[1].EndTime)
	assert.InDelta(t, 0.25, result[1].DurationHours, 1e-9)
}

func TestReconcileDropsBelowMinSpan(t *testing.T) {
	items := []Detected{
		detectedSession("location_visit", 1, at(14, 15), at(14, 45), 1.0, 20*time.Minute),
		detectedSession("flight", 3, at(14, 0), at(14, 30), 1.0, 10*time.Minute),
	}

	result := Reconcile(items)
	require.Len(t, result, 1)
	assert.Equal(t, "flight", result[0].ActivityType)
}

func TestReconcileKeepsLongestRemainder(t *testing.T) {
	// The golf session punches a hole in the visit; only the longer side
	// of the hole survives
	items := []Detected{
		detectedSession("location_visit", 1, at(9, 0), at(13, 0), 1.0, 10*time.Minute),
		detectedSession("golf", 2, at(10, 0), at(10, 45), 0.9, 10*time.Minute),
	}

	result := Reconcile(items)
	require.Len(t, result, 2)
	assert.Equal(t, "golf", result[0].ActivityType)
	assert.Equal(t, "location_visit", result[1].ActivityType)
	assert.Equal(t, at(10, 45), result[1].StartTime)
	assert.Equal(t, at(13, 0), result[1].EndTime)
}

func TestReconcileEqualPriorityTieBreaks(t *testing.T) {
	// Higher confidence wins the overlap at equal priority
	items := []Detected{
		detectedSession("golf", 2, at(9, 0), at(12, 0), 0.7, 10*time.Minute),
		detectedSession("golf", 2, at(11, 0), at(14, 0), 0.9, 10*time.Minute),
	}

	result := Reconcile(items)
	require.Len(t, result, 2)
	assert.Equal(t, at(9, 0), result[0].StartTime)
	assert.Equal(t, at(11, 0), result[0].EndTime) // truncated
	assert.Equal(t, at(11, 0), result[1].StartTime)
	assert.Equal(t, at(14, 0), result[1].EndTime) // admitted intact

	// At equal confidence the longer session is admitted first
	items = []Detected{
		detectedSession("golf", 2, at(9, 0), at(11, 0), 0.8, 10*time.Minute),
		detectedSession("golf", 2, at(10, 0), at(14, 0), 0.8, 10*time.Minute),
	}

	result = Reconcile(items)
	require.Len(t, result, 2)
	assert.Equal(t, at(9, 0), result[0].StartTime)
	assert.Equal(t, at(10, 0), result[0].EndTime)
	assert.Equal(t, at(10, 0), result[1].StartTime)
	assert.Equal(t, at(14, 0), result[1].EndTime)
}

func TestReconcileNonOverlappingUntouched(t *testing.T) {
	items := []Detected{
		detectedSession("golf", 2, at(9, 0), at(12, 0), 0.9, 10*time.Minute),
		detectedSession("flight", 3, at(14, 0), at(16, 0), 1.0, 10*time.Minute),
	}

	result := Reconcile(items)
	require.Len(t, result, 2)
	assert.Equal(t, "golf", result[0].ActivityType)
	assert.Equal(t, at(12, 0), result[0].EndTime)
	assert.Equal(t, "flight", result[1].ActivityType)
	assert.Equal(t, at(16, 0), result[1].EndTime)
}

func TestReconcileOutputNeverOverlaps(t *testing.T) {
	items := []Detected{
		detectedSession("location_visit", 1, at(8, 0), at(18, 0), 1.0, 10*time.Minute),
		detectedSession("golf", 2, at(9, 0), at(13, 0), 0.9, 10*time.Minute),
		detectedSession("flight", 3, at(12, 0), at(14, 30), 1.0, 10*time.Minute),
		detectedSession("golf", 2, at(14, 0), at(16, 0), 0.6, 10*time.Minute),
	}

	result := Reconcile(items)
	require.NotEmpty(t, result)
	for i := 1; i < len(result); i++ {
		prev, cur := result[i-1], result[i]
		assert.False(t, cur.StartTime.Before(prev.EndTime),
			"sessions %d and %d overlap: %s-%s vs %s-%s", i-1, i,
			prev.StartTime, prev.EndTime, cur.StartTime, cur.EndTime)
	}
}

func TestReconcileEmpty(t *testing.T) {
	assert.Empty(t, Reconcile(nil))
}
