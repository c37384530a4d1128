package models

import "time"

// TracePoint represents one raw geolocation sample
type TracePoint struct {
	ID        int64     `json:"id,omitempty" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`

	// Optional sensor readings; Velocity is computed from consecutive
	// points when absent
	Velocity *float64 `json:"velocity,omitempty" db:"velocity"` // m/s
	Altitude *float64 `json:"altitude,omitempty" db:"altitude"` // meters

	// Metadata
	CreatedAt *string `json:"createdAt,omitempty" db:"created_at"`
}

// TracePointsResponse represents a paginated response of trace points
type TracePointsResponse struct {
	Data       []TracePoint `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
}

// TracePointFilter represents filter parameters for querying trace points
type TracePointFilter struct {
	StartTime int64 `form:"startTime"` // Unix timestamp
	EndTime   int64 `form:"endTime"`   // Unix timestamp
	Page      int   `form:"page"`
	PageSize  int   `form:"pageSize"`
}
