package activity

import (
	"fmt"
	"log"
	"time"

	"github.com/gavraq/trip-analyzer-go/internal/analysis"
	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/models"
	"github.com/gavraq/trip-analyzer-go/internal/spatial"
)

// Flight detection thresholds
const (
	DefaultFlightMinAltitude = 5000.0 // meters
	DefaultFlightMinVelocity = 200.0  // m/s
	DefaultFlightMinSession  = 10 * time.Minute

	// Factor by which both thresholds must be cleared for full confidence
	flightClearMargin = 1.25
	// Confidence for borderline spans that only just clear the gates
	flightBorderlineScore = 0.7
)

// FlightConfig holds flight-specific thresholds on top of the shared
// clustering configuration
type FlightConfig struct {
	MinAltitude float64 // meters, 0 means default
	MinVelocity float64 // m/s, 0 means default
	MaxGap      time.Duration
	MinSession  time.Duration
}

// FlightDetector detects airborne spans: sustained high velocity at
// cruising altitude. Points without an altitude reading never qualify.
type FlightDetector struct {
	*analysis.BaseDetector
	registry    *locations.Registry
	minAltitude float64
	minVelocity float64
}

// NewFlightDetector creates a flight detector with the given thresholds;
// zero values fall back to the defaults (5,000 m, 200 m/s, 10 minutes)
func NewFlightDetector(registry *locations.Registry, cfg FlightConfig) (*FlightDetector, error) {
	if cfg.MinAltitude == 0 {
		cfg.MinAltitude = DefaultFlightMinAltitude
	}
	if cfg.MinVelocity == 0 {
		cfg.MinVelocity = DefaultFlightMinVelocity
	}
	if cfg.MinSession == 0 {
		cfg.MinSession = DefaultFlightMinSession
	}
	if cfg.MinAltitude < 0 || cfg.MinVelocity < 0 {
		return nil, fmt.Errorf("invalid flight thresholds: altitude %.1f, velocity %.1f", cfg.MinAltitude, cfg.MinVelocity)
	}

	base, err := analysis.NewBaseDetector(models.ActivityFlight, analysis.DetectorConfig{
		Profile:    analysis.VelocityProfile{StationaryMax: cfg.MinVelocity},
		MaxGap:     cfg.MaxGap,
		MinSession: cfg.MinSession,
	})
	if err != nil {
		return nil, err
	}

	d := &FlightDetector{
		BaseDetector: base,
		registry:     registry,
		minAltitude:  cfg.MinAltitude,
		minVelocity:  cfg.MinVelocity,
	}
	// Flight relevance is a compound gate, not a plain band lookup
	d.Relevant = func(v float64, band string, p1, p2 models.TracePoint) bool {
		if p1.Altitude == nil || p2.Altitude == nil {
			return false
		}
		return *p1.Altitude > d.minAltitude && *p2.Altitude > d.minAltitude && v > d.minVelocity
	}
	return d, nil
}

// ActivityType returns the activity tag
func (d *FlightDetector) ActivityType() string { return models.ActivityFlight }

// Priority returns the reconciliation priority
func (d *FlightDetector) Priority() int { return PriorityFlight }

// Detect clusters airborne spans and names their endpoints
func (d *FlightDetector) Detect(points []models.TracePoint) ([]models.ActivitySession, error) {
	var sessions []models.ActivitySession
	for _, c := range d.Cluster(points) {
		if len(c.Points) == 0 {
			continue
		}
		first := c.Points[0]
		last := c.Points[len(c.Points)-1]

		origin, _ := d.registry.Nearest(first.Latitude, first.Longitude, models.LocationTypeAirport)
		dest, _ := d.registry.Nearest(last.Latitude, last.Longitude, models.LocationTypeAirport)

		score, details := d.score(c)
		if origin != nil {
			details["origin"] = origin.Name
		}
		if dest != nil {
			details["destination"] = dest.Name
		}

		name := flightName(origin, dest)
		lat, lon := spatial.Midpoint(first.Latitude, first.Longitude, last.Latitude, last.Longitude)

		sessions = append(sessions, analysis.NewSession(models.ActivityFlight, c, name, lat, lon, score, details))
	}
	if len(sessions) > 0 {
		log.Printf("[FlightDetector] Detected %d flight(s)", len(sessions))
	}
	return sessions, nil
}

// score is binary-weighted: full confidence when the whole span clearly
// exceeds both thresholds, reduced when it is borderline
func (d *FlightDetector) score(c analysis.Candidate) (float64, map[string]interface{}) {
	minAlt, maxAlt := 0.0, 0.0
	var velocitySum float64
	var velocitySamples int
	haveAlt := false

	for i := 1; i < len(c.Points); i++ {
		p1, p2 := c.Points[i-1], c.Points[i]
		if p2.Altitude != nil {
			if !haveAlt || *p2.Altitude < minAlt {
				minAlt = *p2.Altitude
			}
			if !haveAlt || *p2.Altitude > maxAlt {
				maxAlt = *p2.Altitude
			}
			haveAlt = true
		}
		if v, err := spatial.Velocity(p1.Latitude, p1.Longitude, p1.Timestamp, p2.Latitude, p2.Longitude, p2.Timestamp); err == nil {
			// Same sensor preference as the clustering pass, so a span
			// admitted on sensor velocity is scored on it too
			if p2.Velocity != nil {
				v = *p2.Velocity
			}
			velocitySum += v
			velocitySamples++
		}
	}

	meanVelocity := 0.0
	if velocitySamples > 0 {
		meanVelocity = velocitySum / float64(velocitySamples)
	}

	score := flightBorderlineScore
	if haveAlt && minAlt >= d.minAltitude*flightClearMargin && meanVelocity >= d.minVelocity*flightClearMargin {
		score = 1.0
	}

	first := c.Points[0]
	last := c.Points[len(c.Points)-1]
	details := map[string]interface{}{
		"distance_m":        c.DistanceMeters,
		"mean_velocity_mps": meanVelocity,
		"max_altitude_m":    maxAlt,
		"bearing_deg":       spatial.Bearing(first.Latitude, first.Longitude, last.Latitude, last.Longitude),
	}
	return score, details
}

func flightName(origin, dest *models.LocationDefinition) string {
	switch {
	case origin != nil && dest != nil:
		return fmt.Sprintf("%s to %s", origin.Name, dest.Name)
	case origin != nil:
		return origin.Name
	case dest != nil:
		return dest.Name
	default:
		return ""
	}
}

var _ analysis.Detector = (*FlightDetector)(nil)
