package spatial

import (
	"fmt"
	"time"
)

// DegenerateIntervalError signals a point pair whose timestamps do not
// strictly increase. Callers are expected to drop the pair and continue.
type DegenerateIntervalError struct {
	Start time.Time
	End   time.Time
}

func (e *DegenerateIntervalError) Error() string {
	return fmt.Sprintf("degenerate time interval: %s -> %s", e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Velocity calculates the mean velocity in m/s between two timestamped points.
// Returns a DegenerateIntervalError when t2 is not after t1.
func Velocity(lat1, lon1 float64, t1 time.Time, lat2, lon2 float64, t2 time.Time) (float64, error) {
	if !t2.After(t1) {
		return 0, &DegenerateIntervalError{Start: t1, End: t2}
	}
	d := Distance(lat1, lon1, lat2, lon2)
	return d / t2.Sub(t1).Seconds(), nil
}
