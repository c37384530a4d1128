package models

import "time"

// ActivityType constants for the built-in detectors; visit detectors emit
// the containing location's type as the activity type
const (
	ActivityGolf   = "golf"
	ActivityFlight = "flight"
)

// Confidence label constants
const (
	LabelConfirmed = "CONFIRMED"
	LabelHigh      = "HIGH"
	LabelMedium    = "MEDIUM"
	LabelLow       = "LOW"
)

// ConfidenceLabelFor maps a confidence score to its categorical label.
// HIGH >= 0.8, MEDIUM >= 0.6, LOW below.
func ConfidenceLabelFor(score float64) string {
	switch {
	case score >= 0.8:
		return LabelHigh
	case score >= 0.6:
		return LabelMedium
	default:
		return LabelLow
	}
}

// ActivitySession represents one detected activity instance. Sessions are
// constructed by a detector and consumed read-only downstream.
type ActivitySession struct {
	ID            int64     `json:"id,omitempty" db:"id"`
	ActivityType  string    `json:"activityType" db:"activity_type"`
	StartTime     time.Time `json:"startTime" db:"start_time"`
	EndTime       time.Time `json:"endTime" db:"end_time"`
	DurationHours float64   `json:"durationHours" db:"duration_hours"`

	// Resolved place, when any
	LocationName string  `json:"locationName,omitempty" db:"location_name"`
	Latitude     float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude    float64 `json:"longitude,omitempty" db:"longitude"`

	// Classification confidence
	ConfidenceScore float64 `json:"confidenceScore" db:"confidence_score"` // 0~1
	ConfidenceLabel string  `json:"confidenceLabel" db:"confidence_label"`

	// Activity-specific facts, e.g. estimated holes, total distance,
	// origin/destination airports
	Details map[string]interface{} `json:"details,omitempty" db:"-"`
}

// Duration returns the session span
func (s *ActivitySession) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Overlaps reports whether two sessions overlap in time
func (s *ActivitySession) Overlaps(other *ActivitySession) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

// SessionsResponse represents a paginated response of activity sessions
type SessionsResponse struct {
	Data       []ActivitySession `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// SessionFilter represents filter parameters for querying activity sessions
type SessionFilter struct {
	StartTime    int64   `form:"startTime"` // Unix timestamp
	EndTime      int64   `form:"endTime"`   // Unix timestamp
	ActivityType string  `form:"activityType"`
	MinScore     float64 `form:"minScore"`
	Page         int     `form:"page"`
	PageSize     int     `form:"pageSize"`
}
