package analysis

import (
	"sort"
	"time"

	"github.com/gavraq/trip-analyzer-go/internal/models"
)

// Detected pairs a session with its detector's reconciliation inputs
type Detected struct {
	Session  models.ActivitySession
	Priority int
	MinSpan  time.Duration
}

// Reconcile resolves overlapping detections into a non-overlapping daily
// timeline. Sessions are admitted in priority order (higher first, ties by
// confidence then duration then start time); an admitted session keeps its
// full span, and a later session is truncated to its longest remainder
// outside everything already admitted, or dropped when that remainder falls
// under its detector's minimum span. The result is sorted by start time.
func Reconcile(items []Detected) []models.ActivitySession {
	ordered := make([]Detected, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Session.ConfidenceScore != b.Session.ConfidenceScore {
			return a.Session.ConfidenceScore > b.Session.ConfidenceScore
		}
		da, db := a.Session.Duration(), b.Session.Duration()
		if da != db {
			return da > db
		}
		return a.Session.StartTime.Before(b.Session.StartTime)
	})

	var admitted []models.ActivitySession
	for _, item := range ordered {
		s := item.Session

		start, end, ok := longestRemainder(s.StartTime, s.EndTime, admitted)
		if !ok || end.Sub(start) < item.MinSpan {
			continue
		}

		if !start.Equal(s.StartTime) || !end.Equal(s.EndTime) {
			s.StartTime = start
			s.EndTime = end
			s.DurationHours = end.Sub(start).Hours()
		}
		admitted = append(admitted, s)
	}

	sort.SliceStable(admitted, func(i, j int) bool {
		return admitted[i].StartTime.Before(admitted[j].StartTime)
	})
	return admitted
}

// longestRemainder subtracts the admitted sessions' spans from [start, end)
// and returns the longest surviving interval
func longestRemainder(start, end time.Time, admitted []models.ActivitySession) (time.Time, time.Time, bool) {
	type interval struct{ start, end time.Time }
	remainders := []interval{{start, end}}

	for _, a := range admitted {
		var next []interval
		for _, r := range remainders {
			if !a.StartTime.Before(r.end) || !r.start.Before(a.EndTime) {
				next = append(next, r) // no overlap
				continue
			}
			if r.start.Before(a.StartTime) {
				next = append(next, interval{r.start, a.StartTime})
			}
			if a.EndTime.Before(r.end) {
				next = append(next, interval{a.EndTime, r.end})
			}
		}
		remainders = next
	}

	var best interval
	found := false
	for _, r := range remainders {
		if !found || r.end.Sub(r.start) > best.end.Sub(best.start) {
			best = r
			found = true
		}
	}
	if !found || !best.end.After(best.start) {
		return time.Time{}, time.Time{}, false
	}
	return best.start, best.end, true
}
