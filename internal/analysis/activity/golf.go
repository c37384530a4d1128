package activity

import (
	"log"

	"github.com/gavraq/trip-analyzer-go/internal/analysis"
	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/models"
)

// Detector priorities; flights claim their window first, visits last
const (
	PriorityFlight = 3
	PriorityGolf   = 2
	PriorityVisit  = 1
)

// Golf confidence factor weights; they sum to 1.0
const (
	golfWeightCourse    = 0.40
	golfWeightDuration  = 0.25
	golfWeightDistance  = 0.20
	golfWeightWalkRatio = 0.10
	golfWeightFast      = 0.05
)

// Expected 9- and 18-hole windows
const (
	nineHoleMinHours  = 1.5
	nineHoleMaxHours  = 2.5
	fullRoundMinHours = 3.0
	fullRoundMaxHours = 5.0

	nineHoleMinMeters  = 3000.0
	nineHoleMaxMeters  = 5000.0
	fullRoundMinMeters = 6000.0
	fullRoundMaxMeters = 10000.0
)

// GolfDetector detects golf rounds: long stretches of walking and standing
// inside (ideally) a known golf course
type GolfDetector struct {
	*analysis.BaseDetector
	registry *locations.Registry
}

// NewGolfDetector creates a golf detector. Zero-value config fields fall
// back to the golf defaults (stationary < 0.5 m/s, walking < 2.5 m/s,
// 15 minute gap tolerance, 60 minute minimum round).
func NewGolfDetector(registry *locations.Registry, cfg analysis.DetectorConfig) (*GolfDetector, error) {
	if len(cfg.Profile.Bands) == 0 && cfg.Profile.StationaryMax == 0 {
		cfg.Profile = analysis.GolfProfile()
	}
	if cfg.RelevantBands == nil {
		cfg.RelevantBands = []string{analysis.BandStationary, analysis.BandWalking}
	}

	base, err := analysis.NewBaseDetector(models.ActivityGolf, cfg)
	if err != nil {
		return nil, err
	}
	return &GolfDetector{BaseDetector: base, registry: registry}, nil
}

// ActivityType returns the activity tag
func (d *GolfDetector) ActivityType() string { return models.ActivityGolf }

// Priority returns the reconciliation priority
func (d *GolfDetector) Priority() int { return PriorityGolf }

// Detect clusters the day's points and scores each candidate as a golf round
func (d *GolfDetector) Detect(points []models.TracePoint) ([]models.ActivitySession, error) {
	var sessions []models.ActivitySession
	for _, c := range d.Cluster(points) {
		course := d.dominantLocation(c)
		score, details := d.score(c, course)

		name, lat, lon := "", 0.0, 0.0
		if course != nil {
			name, lat, lon = course.Name, course.Latitude, course.Longitude
		} else {
			lat, lon = centroid(c.Points)
		}

		sessions = append(sessions, analysis.NewSession(models.ActivityGolf, c, name, lat, lon, score, details))
	}
	if len(sessions) > 0 {
		log.Printf("[GolfDetector] Detected %d candidate round(s)", len(sessions))
	}
	return sessions, nil
}

// score combines the five weighted confidence factors
func (d *GolfDetector) score(c analysis.Candidate, course *models.LocationDefinition) (float64, map[string]interface{}) {
	hours := c.Span().Hours()

	courseScore := 0.0
	if course != nil && course.Type == models.LocationTypeGolfCourse {
		courseScore = 1.0
	}

	durationScore := maxFloat(
		windowScore(hours, nineHoleMinHours, nineHoleMaxHours, 0.5),
		windowScore(hours, fullRoundMinHours, fullRoundMaxHours, 1.0),
	)
	distanceScore := maxFloat(
		windowScore(c.DistanceMeters, nineHoleMinMeters, nineHoleMaxMeters, 1000),
		windowScore(c.DistanceMeters, fullRoundMinMeters, fullRoundMaxMeters, 2000),
	)

	walking := c.BandDurations[analysis.BandWalking]
	stationary := c.BandDurations[analysis.BandStationary]
	walkRatio := 0.0
	if walking+stationary > 0 {
		walkRatio = float64(walking) / float64(walking+stationary)
	}
	walkScore := windowScore(walkRatio, 0.6, 0.8, 0.2)

	fastFraction := 0.0
	if span := c.Span(); span > 0 {
		fastFraction = float64(c.BandDurations[analysis.BandFast]) / float64(span)
	}
	fastScore := 0.0
	if fastFraction < 0.10 {
		fastScore = 1.0
	}

	total := golfWeightCourse*courseScore +
		golfWeightDuration*durationScore +
		golfWeightDistance*distanceScore +
		golfWeightWalkRatio*walkScore +
		golfWeightFast*fastScore

	details := map[string]interface{}{
		"total_distance_m": c.DistanceMeters,
		"walking_ratio":    walkRatio,
		"fast_fraction":    fastFraction,
	}
	if holes, ok := estimateHoles(hours); ok {
		details["estimated_holes"] = holes
	}

	return total, details
}

// estimateHoles categorizes a round as 9 or 18 holes. Duration is the
// deciding signal; when it matches neither window the estimate is withheld
// rather than guessed.
func estimateHoles(hours float64) (int, bool) {
	durHoles := 0
	switch {
	case hours >= nineHoleMinHours && hours <= nineHoleMaxHours:
		durHoles = 9
	case hours >= fullRoundMinHours && hours <= fullRoundMaxHours:
		durHoles = 18
	}
	if durHoles == 0 {
		return 0, false
	}
	return durHoles, true
}

// dominantLocation resolves the place most of the candidate's points fall in
func (d *GolfDetector) dominantLocation(c analysis.Candidate) *models.LocationDefinition {
	counts := make(map[string]int)
	first := make(map[string]int)
	defs := make(map[string]*models.LocationDefinition)

	for i, p := range c.Points {
		loc := d.registry.FindContaining(p.Latitude, p.Longitude)
		if loc == nil {
			continue
		}
		if _, seen := counts[loc.ID]; !seen {
			first[loc.ID] = i
			defs[loc.ID] = loc
		}
		counts[loc.ID]++
	}

	var bestID string
	for id, n := range counts {
		if bestID == "" || n > counts[bestID] || (n == counts[bestID] && first[id] < first[bestID]) {
			bestID = id
		}
	}
	if bestID == "" {
		return nil
	}
	return defs[bestID]
}

// windowScore returns 1 inside [lo, hi], tapering linearly to 0 at a slack
// margin outside the window
func windowScore(v, lo, hi, slack float64) float64 {
	switch {
	case v >= lo && v <= hi:
		return 1.0
	case v < lo && v > lo-slack:
		return (v - (lo - slack)) / slack
	case v > hi && v < hi+slack:
		return ((hi + slack) - v) / slack
	default:
		return 0.0
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// centroid returns the mean coordinate of a point set
func centroid(points []models.TracePoint) (float64, float64) {
	if len(points) == 0 {
		return 0, 0
	}
	var lat, lon float64
	for _, p := range points {
		lat += p.Latitude
		lon += p.Longitude
	}
	n := float64(len(points))
	return lat / n, lon / n
}

var _ analysis.Detector = (*GolfDetector)(nil)
