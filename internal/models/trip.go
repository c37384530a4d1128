package models

// DailySummary represents one calendar day's classified activities.
// Sessions are sorted by start time and never overlap.
type DailySummary struct {
	Date           string            `json:"date"`    // YYYY-MM-DD
	DayName        string            `json:"dayName"` // e.g. "Saturday"
	Activities     []ActivitySession `json:"activities"`
	ActivityCounts map[string]int    `json:"activityCounts"`
}

// TripAnalysis represents the aggregated result of analyzing a date range
type TripAnalysis struct {
	ID             string         `json:"id"`
	TripName       string         `json:"tripName"`
	StartDate      string         `json:"startDate"` // YYYY-MM-DD
	EndDate        string         `json:"endDate"`   // YYYY-MM-DD
	Days           []DailySummary `json:"days"`
	ActivityCounts map[string]int `json:"activityCounts"`
}

// CountActivities tallies sessions by activity type
func CountActivities(sessions []ActivitySession) map[string]int {
	counts := make(map[string]int)
	for _, s := range sessions {
		counts[s.ActivityType]++
	}
	return counts
}
