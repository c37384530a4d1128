package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gavraq/trip-analyzer-go/internal/database"
	"github.com/gavraq/trip-analyzer-go/internal/models"
)

// SessionRepository persists trip analyses and their activity sessions
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// SaveTripAnalysis stores a trip analysis and all its sessions in one
// transaction
func (r *SessionRepository) SaveTripAnalysis(ta *models.TripAnalysis) error {
	countsJSON, err := json.Marshal(ta.ActivityCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal activity counts: %w", err)
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO trip_analyses (id, trip_name, start_date, end_date, activity_counts_json)
			VALUES (?, ?, ?, ?, ?)
		`, ta.ID, ta.TripName, ta.StartDate, ta.EndDate, string(countsJSON)); err != nil {
			return fmt.Errorf("failed to insert trip analysis: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO activity_sessions (
				trip_id, date, activity_type, start_time, end_time, duration_hours,
				location_name, latitude, longitude, confidence_score, confidence_label, details_json
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare session insert: %w", err)
		}
		defer stmt.Close()

		for _, day := range ta.Days {
			for _, s := range day.Activities {
				detailsJSON := ""
				if s.Details != nil {
					b, err := json.Marshal(s.Details)
					if err != nil {
						return fmt.Errorf("failed to marshal session details: %w", err)
					}
					detailsJSON = string(b)
				}

				if _, err := stmt.Exec(
					ta.ID, day.Date, s.ActivityType,
					s.StartTime.Unix(), s.EndTime.Unix(), s.DurationHours,
					s.LocationName, s.Latitude, s.Longitude,
					s.ConfidenceScore, s.ConfidenceLabel, detailsJSON,
				); err != nil {
					return fmt.Errorf("failed to insert activity session: %w", err)
				}
			}
		}
		return nil
	})
}

// GetTripByID reconstructs a stored trip analysis, empty days included
func (r *SessionRepository) GetTripByID(id string) (*models.TripAnalysis, error) {
	var ta models.TripAnalysis
	var countsJSON string

	err := r.db.QueryRow(`
		SELECT id, trip_name, start_date, end_date, activity_counts_json
		FROM trip_analyses WHERE id = ?
	`, id).Scan(&ta.ID, &ta.TripName, &ta.StartDate, &ta.EndDate, &countsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query trip analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(countsJSON), &ta.ActivityCounts); err != nil {
		return nil, fmt.Errorf("failed to parse activity counts: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT date, activity_type, start_time, end_time, duration_hours,
		       location_name, latitude, longitude, confidence_score, confidence_label, details_json
		FROM activity_sessions
		WHERE trip_id = ?
		ORDER BY start_time
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	byDate := make(map[string][]models.ActivitySession)
	for rows.Next() {
		var s models.ActivitySession
		var date, detailsJSON string
		var startTS, endTS int64

		if err := rows.Scan(&date, &s.ActivityType, &startTS, &endTS, &s.DurationHours,
			&s.LocationName, &s.Latitude, &s.Longitude,
			&s.ConfidenceScore, &s.ConfidenceLabel, &detailsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.StartTime = time.Unix(startTS, 0).UTC()
		s.EndTime = time.Unix(endTS, 0).UTC()
		if detailsJSON != "" {
			if err := json.Unmarshal([]byte(detailsJSON), &s.Details); err != nil {
				return nil, fmt.Errorf("failed to parse session details: %w", err)
			}
		}
		byDate[date] = append(byDate[date], s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	start, err := time.Parse("2006-01-02", ta.StartDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt start date %q: %w", ta.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", ta.EndDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt end date %q: %w", ta.EndDate, err)
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		sessions := byDate[date]
		if sessions == nil {
			sessions = []models.ActivitySession{}
		}
		ta.Days = append(ta.Days, models.DailySummary{
			Date:           date,
			DayName:        d.Weekday().String(),
			Activities:     sessions,
			ActivityCounts: models.CountActivities(sessions),
		})
	}

	return &ta, nil
}

// GetSessions retrieves stored sessions with filtering and pagination
func (r *SessionRepository) GetSessions(filter models.SessionFilter) ([]models.ActivitySession, int64, error) {
	query := `SELECT activity_type, start_time, end_time, duration_hours,
		location_name, latitude, longitude, confidence_score, confidence_label, details_json
		FROM activity_sessions`

	var conditions []string
	var args []interface{}

	if filter.StartTime > 0 {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "end_time <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.ActivityType != "" {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, filter.ActivityType)
	}
	if filter.MinScore > 0 {
		conditions = append(conditions, "confidence_score >= ?")
		args = append(args, filter.MinScore)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM activity_sessions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query+where+" ORDER BY start_time LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ActivitySession
	for rows.Next() {
		var s models.ActivitySession
		var detailsJSON string
		var startTS, endTS int64

		if err := rows.Scan(&s.ActivityType, &startTS, &endTS, &s.DurationHours,
			&s.LocationName, &s.Latitude, &s.Longitude,
			&s.ConfidenceScore, &s.ConfidenceLabel, &detailsJSON); err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		s.StartTime = time.Unix(startTS, 0).UTC()
		s.EndTime = time.Unix(endTS, 0).UTC()
		if detailsJSON != "" {
			if err := json.Unmarshal([]byte(detailsJSON), &s.Details); err != nil {
				return nil, 0, fmt.Errorf("failed to parse session details: %w", err)
			}
		}
		sessions = append(sessions, s)
	}
	return sessions, total, rows.Err()
}
