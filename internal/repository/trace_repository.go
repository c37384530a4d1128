package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gavraq/trip-analyzer-go/internal/models"
)

// TraceRepository handles database operations for trace points. It also
// implements the trip analyzer's TraceSource contract.
type TraceRepository struct {
	db *sql.DB
}

// NewTraceRepository creates a new trace repository
func NewTraceRepository(db *sql.DB) *TraceRepository {
	return &TraceRepository{db: db}
}

// InsertBatch inserts a batch of trace points in one transaction
func (r *TraceRepository) InsertBatch(points []models.TracePoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO trace_points (timestamp, latitude, longitude, velocity, altitude)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		var velocity, altitude interface{}
		if p.Velocity != nil {
			velocity = *p.Velocity
		}
		if p.Altitude != nil {
			altitude = *p.Altitude
		}
		if _, err := stmt.Exec(p.Timestamp.Unix(), p.Latitude, p.Longitude, velocity, altitude); err != nil {
			return 0, fmt.Errorf("failed to insert trace point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(points), nil
}

// GetTracePoints retrieves trace points with filtering and pagination
func (r *TraceRepository) GetTracePoints(filter models.TracePointFilter) ([]models.TracePoint, int64, error) {
	conditions := " WHERE 1=1"
	var args []interface{}

	if filter.StartTime > 0 {
		conditions += " AND timestamp >= ?"
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions += " AND timestamp <= ?"
		args = append(args, filter.EndTime)
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trace_points"+conditions, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trace points: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}

	query := `SELECT id, timestamp, latitude, longitude, velocity, altitude FROM trace_points` +
		conditions + " ORDER BY timestamp LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trace points: %w", err)
	}
	defer rows.Close()

	points, err := scanTracePoints(rows)
	if err != nil {
		return nil, 0, err
	}
	return points, total, nil
}

// FetchDay returns the day's trace points ordered by time. The date is
// interpreted as a UTC calendar day. An empty day returns an empty slice.
func (r *TraceRepository) FetchDay(ctx context.Context, date string) ([]models.TracePoint, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	start := day.Unix()
	end := day.AddDate(0, 0, 1).Unix()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, latitude, longitude, velocity, altitude
		FROM trace_points
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query trace points for %s: %w", date, err)
	}
	defer rows.Close()

	return scanTracePoints(rows)
}

func scanTracePoints(rows *sql.Rows) ([]models.TracePoint, error) {
	var points []models.TracePoint
	for rows.Next() {
		var p models.TracePoint
		var ts int64
		var velocity, altitude sql.NullFloat64

		if err := rows.Scan(&p.ID, &ts, &p.Latitude, &p.Longitude, &velocity, &altitude); err != nil {
			return nil, fmt.Errorf("failed to scan trace point: %w", err)
		}
		p.Timestamp = time.Unix(ts, 0).UTC()
		if velocity.Valid {
			v := velocity.Float64
			p.Velocity = &v
		}
		if altitude.Valid {
			a := altitude.Float64
			p.Altitude = &a
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
