package analysis

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gavraq/trip-analyzer-go/internal/models"
	"github.com/gavraq/trip-analyzer-go/internal/spatial"
)

// Detector is the interface all activity detectors implement
type Detector interface {
	// Detect turns an ordered day of trace points into zero or more
	// sessions of one activity type
	Detect(points []models.TracePoint) ([]models.ActivitySession, error)

	// ActivityType returns the activity tag this detector emits
	ActivityType() string

	// Priority orders detectors for overlap reconciliation; higher wins
	Priority() int

	// MinSession returns the shortest span this detector will keep
	MinSession() time.Duration
}

// DetectorConfig holds the shared clustering thresholds
type DetectorConfig struct {
	Profile       VelocityProfile
	RelevantBands []string
	MaxGap        time.Duration // segments closer than this merge into one session
	MinSession    time.Duration // candidates shorter than this are discarded
}

// Default clustering thresholds. Tuned empirically; override per detector.
const (
	DefaultMaxGap     = 15 * time.Minute
	DefaultMinSession = 60 * time.Minute
)

// Validate checks the configuration at construction time
func (c *DetectorConfig) Validate() error {
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	if c.MaxGap < 0 {
		return fmt.Errorf("max gap must be non-negative, got %s", c.MaxGap)
	}
	if c.MinSession < 0 {
		return fmt.Errorf("min session must be non-negative, got %s", c.MinSession)
	}
	return nil
}

// Candidate is one gap-merged cluster of relevant movement, handed to the
// concrete detector for scoring and location resolution
type Candidate struct {
	StartTime time.Time
	EndTime   time.Time

	// Distance covered during relevant pairs, in meters
	DistanceMeters float64

	// Time spent per band across the whole candidate window, gaps included
	BandDurations map[string]time.Duration

	// Points inside the candidate window, in time order
	Points []models.TracePoint

	firstIdx int // index into the sorted slice, used only during merging
}

// Span returns the candidate's total elapsed time
func (c *Candidate) Span() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// RelevantFunc decides whether one classified point pair belongs to the
// detector's activity. The default checks band membership; detectors with
// extra conditions (e.g. altitude) supply their own.
type RelevantFunc func(velocity float64, band string, p1, p2 models.TracePoint) bool

// BaseDetector implements the clustering algorithm every detector shares:
// sort, pairwise velocity classification, contiguous-relevance segmentation,
// gap-tolerant merging, and the minimum-span filter. Concrete detectors
// embed it and add scoring and location hooks on top of Cluster.
type BaseDetector struct {
	Name     string
	Config   DetectorConfig
	Relevant RelevantFunc
}

// NewBaseDetector creates a base detector, failing on invalid thresholds
func NewBaseDetector(name string, cfg DetectorConfig) (*BaseDetector, error) {
	if cfg.MaxGap == 0 {
		cfg.MaxGap = DefaultMaxGap
	}
	if cfg.MinSession == 0 {
		cfg.MinSession = DefaultMinSession
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s detector config: %w", name, err)
	}

	d := &BaseDetector{Name: name, Config: cfg}
	d.Relevant = func(v float64, band string, p1, p2 models.TracePoint) bool {
		for _, b := range cfg.RelevantBands {
			if band == b {
				return true
			}
		}
		return false
	}
	return d, nil
}

// MinSession returns the configured minimum session span
func (d *BaseDetector) MinSession() time.Duration {
	return d.Config.MinSession
}

// velocitySegment is a contiguous run of point pairs sharing relevance.
// Internal to clustering; never crosses the detector boundary.
type velocitySegment struct {
	start    time.Time
	end      time.Time
	distance float64
	relevant bool
	bands    map[string]time.Duration
	firstIdx int // index of first point in the sorted slice
	lastIdx  int
}

// pairInfo is one classified consecutive-point pair
type pairInfo struct {
	p1, p2   int
	velocity float64
	distance float64
	band     string
	relevant bool
}

// Cluster runs the shared session-clustering algorithm and returns the
// surviving candidates in time order. Pairs with non-increasing timestamps
// are skipped; gaps are measured in elapsed time regardless of what moved
// during them.
func (d *BaseDetector) Cluster(points []models.TracePoint) []Candidate {
	if len(points) < 2 {
		return nil
	}

	sorted := make([]models.TracePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	pairs := d.classifyPairs(sorted)
	if len(pairs) == 0 {
		return nil
	}

	segments := buildSegments(sorted, pairs)
	candidates := d.mergeSegments(sorted, segments)

	var kept []Candidate
	for _, c := range candidates {
		if c.Span() >= d.Config.MinSession {
			kept = append(kept, c)
		}
	}
	return kept
}

// classifyPairs computes and classifies consecutive-pair velocities
func (d *BaseDetector) classifyPairs(sorted []models.TracePoint) []pairInfo {
	var pairs []pairInfo
	for i := 1; i < len(sorted); i++ {
		p1, p2 := sorted[i-1], sorted[i]

		v, err := spatial.Velocity(p1.Latitude, p1.Longitude, p1.Timestamp, p2.Latitude, p2.Longitude, p2.Timestamp)
		if err != nil {
			var degenerate *spatial.DegenerateIntervalError
			if errors.As(err, &degenerate) {
				continue // noisy input, drop the pair
			}
			continue
		}
		// Prefer the sensor-reported velocity when the sample carries one
		if p2.Velocity != nil {
			v = *p2.Velocity
		}

		band := ClassifyVelocity(v, d.Config.Profile)
		pairs = append(pairs, pairInfo{
			p1:       i - 1,
			p2:       i,
			velocity: v,
			distance: spatial.Distance(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude),
			band:     band,
			relevant: d.Relevant(v, band, p1, p2),
		})
	}
	return pairs
}

// buildSegments groups contiguous same-relevance pairs into segments
func buildSegments(sorted []models.TracePoint, pairs []pairInfo) []velocitySegment {
	var segments []velocitySegment
	var cur *velocitySegment

	for _, pair := range pairs {
		dt := sorted[pair.p2].Timestamp.Sub(sorted[pair.p1].Timestamp)

		if cur != nil && cur.relevant == pair.relevant && cur.lastIdx == pair.p1 {
			cur.end = sorted[pair.p2].Timestamp
			cur.distance += pair.distance
			cur.bands[pair.band] += dt
			cur.lastIdx = pair.p2
			continue
		}

		if cur != nil {
			segments = append(segments, *cur)
		}
		cur = &velocitySegment{
			start:    sorted[pair.p1].Timestamp,
			end:      sorted[pair.p2].Timestamp,
			distance: pair.distance,
			relevant: pair.relevant,
			bands:    map[string]time.Duration{pair.band: dt},
			firstIdx: pair.p1,
			lastIdx:  pair.p2,
		}
	}
	if cur != nil {
		segments = append(segments, *cur)
	}
	return segments
}

// mergeSegments merges relevant segments separated by tolerable gaps into
// candidates. Irrelevant segments inside a gap contribute their band time
// to the candidate window without breaking the merge.
func (d *BaseDetector) mergeSegments(sorted []models.TracePoint, segments []velocitySegment) []Candidate {
	var candidates []Candidate
	var cur *Candidate
	var curLastIdx int
	var pending []velocitySegment // irrelevant segments seen since the last relevant one

	flush := func() {
		if cur != nil {
			cur.Points = append([]models.TracePoint(nil), sorted[cur.firstIdx:curLastIdx+1]...)
			candidates = append(candidates, *cur)
			cur = nil
		}
		pending = pending[:0]
	}

	for _, seg := range segments {
		if !seg.relevant {
			pending = append(pending, seg)
			continue
		}

		if cur != nil && seg.start.Sub(cur.EndTime) <= d.Config.MaxGap {
			// Fold the gap into the window
			for _, gap := range pending {
				for band, dur := range gap.bands {
					cur.BandDurations[band] += dur
				}
			}
			pending = pending[:0]

			cur.EndTime = seg.end
			cur.DistanceMeters += seg.distance
			for band, dur := range seg.bands {
				cur.BandDurations[band] += dur
			}
			curLastIdx = seg.lastIdx
			continue
		}

		flush()
		c := Candidate{
			StartTime:      seg.start,
			EndTime:        seg.end,
			DistanceMeters: seg.distance,
			BandDurations:  make(map[string]time.Duration, len(seg.bands)),
			firstIdx:       seg.firstIdx,
		}
		for band, dur := range seg.bands {
			c.BandDurations[band] = dur
		}
		cur = &c
		curLastIdx = seg.lastIdx
	}
	flush()

	return candidates
}

// NewSession assembles an immutable session from a scored candidate
func NewSession(activityType string, c Candidate, name string, lat, lon float64, score float64, details map[string]interface{}) models.ActivitySession {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return models.ActivitySession{
		ActivityType:    activityType,
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		DurationHours:   c.Span().Hours(),
		LocationName:    name,
		Latitude:        lat,
		Longitude:       lon,
		ConfidenceScore: score,
		ConfidenceLabel: models.ConfidenceLabelFor(score),
		Details:         details,
	}
}
