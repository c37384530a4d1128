package activity

import (
	"sort"
	"time"

	"github.com/gavraq/trip-analyzer-go/internal/analysis"
	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/models"
)

// Visit detection defaults
const (
	DefaultVisitMinDwell = 10 * time.Minute
	DefaultVisitMaxGap   = 15 * time.Minute
)

// VisitConfig holds dwell thresholds for the visit detector
type VisitConfig struct {
	MinDwell time.Duration // cumulative time inside a place before a visit is emitted
	MaxGap   time.Duration // how long the trace may leave the radius before the visit closes
}

// VisitDetector detects dwell time at known places. It never infers an
// unnamed place, so every visit it emits is backed by a location definition
// and carries full confidence.
type VisitDetector struct {
	registry *locations.Registry
	minDwell time.Duration
	maxGap   time.Duration
}

// NewVisitDetector creates a visit detector; zero config values fall back
// to the defaults (10 minute dwell, 15 minute gap)
func NewVisitDetector(registry *locations.Registry, cfg VisitConfig) *VisitDetector {
	if cfg.MinDwell == 0 {
		cfg.MinDwell = DefaultVisitMinDwell
	}
	if cfg.MaxGap == 0 {
		cfg.MaxGap = DefaultVisitMaxGap
	}
	return &VisitDetector{registry: registry, minDwell: cfg.MinDwell, maxGap: cfg.MaxGap}
}

// ActivityType returns the activity tag. Visit sessions carry the matched
// location's type as their activity type, so this names the detector only.
func (d *VisitDetector) ActivityType() string { return "visit" }

// Priority returns the reconciliation priority
func (d *VisitDetector) Priority() int { return PriorityVisit }

// MinSession returns the minimum dwell before a visit is emitted
func (d *VisitDetector) MinSession() time.Duration { return d.minDwell }

// visitState tracks one in-progress visit
type visitState struct {
	loc      *models.LocationDefinition
	start    time.Time
	lastSeen time.Time // last point inside the radius
	dwell    time.Duration
}

// Detect walks the trace and accumulates dwell per known place. A visit
// closes once the trace stays outside the place's radius longer than the
// gap tolerance, and is emitted when its cumulative dwell meets the minimum.
func (d *VisitDetector) Detect(points []models.TracePoint) ([]models.ActivitySession, error) {
	if len(points) == 0 || d.registry.Len() == 0 {
		return nil, nil
	}

	sorted := make([]models.TracePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	active := make(map[string]*visitState)
	var sessions []models.ActivitySession

	var prevLoc *models.LocationDefinition
	var prevTime time.Time

	for i, p := range sorted {
		loc := d.registry.FindContaining(p.Latitude, p.Longitude)

		// Close visits whose gap tolerance has run out. Elapsed time is
		// what counts: re-entering the same place after a long recording
		// hiatus starts a fresh visit, never stretches the old one.
		for id, st := range active {
			if p.Timestamp.Sub(st.lastSeen) > d.maxGap {
				if s := d.finishVisit(st); s != nil {
					sessions = append(sessions, *s)
				}
				delete(active, id)
			}
		}

		if loc != nil {
			st, ok := active[loc.ID]
			if !ok {
				st = &visitState{loc: loc, start: p.Timestamp, lastSeen: p.Timestamp}
				active[loc.ID] = st
			} else {
				// Dwell only accumulates while consecutive samples stay inside
				if i > 0 && prevLoc != nil && prevLoc.ID == loc.ID {
					st.dwell += p.Timestamp.Sub(prevTime)
				}
				st.lastSeen = p.Timestamp
			}
		}

		prevLoc = loc
		prevTime = p.Timestamp
	}

	for _, st := range active {
		if s := d.finishVisit(st); s != nil {
			sessions = append(sessions, *s)
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].StartTime.Equal(sessions[j].StartTime) {
			return sessions[i].LocationName < sessions[j].LocationName
		}
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})
	return sessions, nil
}

// finishVisit turns a closed visit state into a session when it qualifies
func (d *VisitDetector) finishVisit(st *visitState) *models.ActivitySession {
	if st.dwell < d.minDwell || !st.lastSeen.After(st.start) {
		return nil
	}

	s := models.ActivitySession{
		ActivityType:    st.loc.Type,
		StartTime:       st.start,
		EndTime:         st.lastSeen,
		DurationHours:   st.lastSeen.Sub(st.start).Hours(),
		LocationName:    st.loc.Name,
		Latitude:        st.loc.Latitude,
		Longitude:       st.loc.Longitude,
		ConfidenceScore: 1.0,
		// Backed by a named place, never inferred
		ConfidenceLabel: models.LabelConfirmed,
		Details: map[string]interface{}{
			"location_id":   st.loc.ID,
			"dwell_minutes": st.dwell.Minutes(),
		},
	}
	return &s
}

var _ analysis.Detector = (*VisitDetector)(nil)
