package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/models"
)

const (
	shopLat = 51.4613
	shopLon = -0.3037
)

func shopRegistry(t *testing.T) *locations.Registry {
	t.Helper()
	r, err := locations.Load([]models.LocationDefinition{
		{
			ID:           "waitrose-richmond",
			Name:         "Waitrose Richmond",
			Latitude:     shopLat,
			Longitude:    shopLon,
			RadiusMeters: 150,
			Type:         models.LocationTypeSupermarket,
		},
	})
	require.NoError(t, err)
	return r
}

// samplesAt emits one point every two minutes at a fixed coordinate
func samplesAt(t0 time.Time, lat, lon float64, n int) []models.TracePoint {
	var points []models.TracePoint
	for i := 0; i < n; i++ {
		points = append(points, models.TracePoint{
			Timestamp: t0.Add(time.Duration(i) * 2 * time.Minute),
			Latitude:  lat,
			Longitude: lon,
		})
	}
	return points
}

func TestVisitDetectorConfirmedVisit(t *testing.T) {
	d := NewVisitDetector(shopRegistry(t), VisitConfig{})

	t0 := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	points := samplesAt(t0, shopLat, shopLon, 15) // 28 minutes inside

	sessions, err := d.Detect(points)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, models.LocationTypeSupermarket, s.ActivityType)
	assert.Equal(t, "Waitrose Richmond", s.LocationName)
	assert.Equal(t, t0, s.StartTime)
	assert.Equal(t, t0.Add(28*time.Minute), s.EndTime)
	assert.Equal(t, 1.0, s.ConfidenceScore)
	assert.Equal(t, models.LabelConfirmed, s.ConfidenceLabel)
	assert.Equal(t, "waitrose-richmond", s.Details["location_id"])
	assert.InDelta(t, 28.0, s.Details["dwell_minutes"].(float64), 1e-9)
}

func TestVisitDetectorBelowMinDwell(t *testing.T) {
	d := NewVisitDetector(shopRegistry(t), VisitConfig{})

	t0 := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	points := samplesAt(t0, shopLat, shopLon, 4) // 6 minutes inside

	sessions, err := d.Detect(points)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestVisitDetectorOutsideRadius(t *testing.T) {
	d := NewVisitDetector(shopRegistry(t), VisitConfig{})

	t0 := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	points := samplesAt(t0, shopLat+0.01, shopLon, 15) // about 1.1 km away

	sessions, err := d.Detect(points)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestVisitDetectorSplitsAcrossLongAbsence(t *testing.T) {
	d := NewVisitDetector(shopRegistry(t), VisitConfig{})

	t0 := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	inside := samplesAt(t0, shopLat, shopLon, 7) // 12 minutes
	away := samplesAt(t0.Add(14*time.Minute), shopLat+0.05, shopLon, 10)
	back := samplesAt(t0.Add(34*time.Minute), shopLat, shopLon, 7)

	points := append(append(inside, away...), back...)

	sessions, err := d.Detect(points)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, t0, sessions[0].StartTime)
	assert.Equal(t, t0.Add(34*time.Minute), sessions[1].StartTime)
}

func TestVisitDetectorClosesAcrossRecordingHiatus(t *testing.T) {
	d := NewVisitDetector(shopRegistry(t), VisitConfig{})

	// 12 minutes in the morning, nothing recorded for nine hours, 12
	// minutes in the evening: two visits, and the silent hours never
	// count as dwell
	t0 := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	morning := samplesAt(t0, shopLat, shopLon, 7)
	evening := samplesAt(t0.Add(9*time.Hour), shopLat, shopLon, 7)

	sessions, err := d.Detect(append(morning, evening...))
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, t0, sessions[0].StartTime)
	assert.Equal(t, t0.Add(12*time.Minute), sessions[0].EndTime)
	assert.InDelta(t, 12.0, sessions[0].Details["dwell_minutes"].(float64), 1e-9)

	assert.Equal(t, t0.Add(9*time.Hour), sessions[1].StartTime)
	assert.InDelta(t, 12.0, sessions[1].Details["dwell_minutes"].(float64), 1e-9)
}

func TestVisitDetectorToleratesShortAbsence(t *testing.T) {
	d := NewVisitDetector(shopRegistry(t), VisitConfig{})

	// 12 minutes inside, 10 away, 12 back: one visit, dwell 24 minutes
	t0 := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	inside := samplesAt(t0, shopLat, shopLon, 7)
	away := samplesAt(t0.Add(14*time.Minute), shopLat+0.05, shopLon, 4)
	back := samplesAt(t0.Add(24*time.Minute), shopLat, shopLon, 7)

	points := append(append(inside, away...), back...)

	sessions, err := d.Detect(points)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, t0, s.StartTime)
	assert.Equal(t, t0.Add(36*time.Minute), s.EndTime)
	assert.InDelta(t, 24.0, s.Details["dwell_minutes"].(float64), 1e-9)
}

func TestVisitDetectorEmptyRegistry(t *testing.T) {
	empty, err := locations.Load(nil)
	require.NoError(t, err)

	d := NewVisitDetector(empty, VisitConfig{})
	t0 := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)

	sessions, err := d.Detect(samplesAt(t0, shopLat, shopLon, 15))
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
