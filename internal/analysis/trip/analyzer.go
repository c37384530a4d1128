package trip

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gavraq/trip-analyzer-go/internal/analysis"
	"github.com/gavraq/trip-analyzer-go/internal/analysis/activity"
	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/models"
)

// DateLayout is the calendar-day format used throughout trip analysis
const DateLayout = "2006-01-02"

// defaultDayParallelism bounds concurrent per-day analysis
const defaultDayParallelism = 4

// TraceSource supplies one day's trace points. The analyzer tolerates
// empty days and re-sorts whatever it receives.
type TraceSource interface {
	FetchDay(ctx context.Context, date string) ([]models.TracePoint, error)
}

// Analyzer runs the per-day detection pipeline over a date range and
// aggregates the results. Stateless between runs; safe for concurrent use.
type Analyzer struct {
	source      TraceSource
	detectors   []analysis.Detector
	maxParallel int
}

// NewAnalyzer creates a trip analyzer over the given detectors, which are
// ordered by descending priority for reconciliation
func NewAnalyzer(source TraceSource, detectors ...analysis.Detector) *Analyzer {
	ds := make([]analysis.Detector, len(detectors))
	copy(ds, detectors)
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Priority() > ds[j].Priority()
	})
	return &Analyzer{source: source, detectors: ds, maxParallel: defaultDayParallelism}
}

// NewDefaultAnalyzer wires the standard detector set: flight, golf, and
// known-place visits, in that priority order
func NewDefaultAnalyzer(registry *locations.Registry, source TraceSource) (*Analyzer, error) {
	flight, err := activity.NewFlightDetector(registry, activity.FlightConfig{})
	if err != nil {
		return nil, err
	}
	golf, err := activity.NewGolfDetector(registry, analysis.DetectorConfig{})
	if err != nil {
		return nil, err
	}
	visit := activity.NewVisitDetector(registry, activity.VisitConfig{})

	return NewAnalyzer(source, flight, golf, visit), nil
}

// AnalyzeDay classifies one calendar day: fetch, detect per priority,
// reconcile overlaps, summarize. An empty trace yields an empty summary,
// not an error.
func (a *Analyzer) AnalyzeDay(ctx context.Context, date string) (models.DailySummary, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	summary := models.DailySummary{
		Date:           date,
		DayName:        day.Weekday().String(),
		Activities:     []models.ActivitySession{},
		ActivityCounts: map[string]int{},
	}

	points, err := a.source.FetchDay(ctx, date)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to fetch traces for %s: %w", date, err)
	}
	if len(points) == 0 {
		return summary, nil
	}

	var detected []analysis.Detected
	for _, d := range a.detectors {
		sessions, err := d.Detect(points)
		if err != nil {
			return models.DailySummary{}, fmt.Errorf("%s detection failed for %s: %w", d.ActivityType(), date, err)
		}
		for _, s := range sessions {
			detected = append(detected, analysis.Detected{
				Session:  s,
				Priority: d.Priority(),
				MinSpan:  d.MinSession(),
			})
		}
	}

	resolved := analysis.Reconcile(detected)
	summary.Activities = resolved
	summary.ActivityCounts = models.CountActivities(resolved)
	return summary, nil
}

// AnalyzeTrip analyzes every day in [startDate, endDate] and aggregates the
// per-day summaries. Days are independent and run concurrently; the trip
// totals are a plain reduce over the day counts.
func (a *Analyzer) AnalyzeTrip(ctx context.Context, name, startDate, endDate string) (*models.TripAnalysis, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s", endDate, startDate)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}

	log.Printf("[TripAnalyzer] Analyzing %q: %d day(s) from %s to %s", name, len(dates), startDate, endDate)

	days := make([]models.DailySummary, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxParallel)
	for i, date := range dates {
		g.Go(func() error {
			summary, err := a.AnalyzeDay(gctx, date)
			if err != nil {
				return err
			}
			days[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	total := 0
	for _, day := range days {
		for activityType, n := range day.ActivityCounts {
			counts[activityType] += n
			total += n
		}
	}

	log.Printf("[TripAnalyzer] Completed %q: %d session(s) across %d day(s)", name, total, len(days))

	return &models.TripAnalysis{
		ID:             uuid.NewString(),
		TripName:       name,
		StartDate:      startDate,
		EndDate:        endDate,
		Days:           days,
		ActivityCounts: counts,
	}, nil
}
