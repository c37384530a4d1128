package analysis

import "fmt"

// Velocity band names shared by the built-in profiles. Profiles may define
// additional activity-specific bands.
const (
	BandStationary = "stationary"
	BandWalking    = "walking"
	BandFast       = "fast"
)

// VelocityBand is one named bucket with an exclusive upper bound in m/s
type VelocityBand struct {
	Name string
	Max  float64
}

// VelocityProfile maps velocities to named bands. Callers supply the
// thresholds; nothing is hardcoded, which lets different activities share
// the classification code with different bands.
type VelocityProfile struct {
	StationaryMax float64
	Bands         []VelocityBand // ascending by Max
}

// Validate checks threshold ordering. Inverted bounds are configuration
// errors and surface at construction, never mid-analysis.
func (p VelocityProfile) Validate() error {
	if p.StationaryMax < 0 {
		return fmt.Errorf("stationary threshold must be non-negative, got %.2f", p.StationaryMax)
	}
	prev := p.StationaryMax
	for _, b := range p.Bands {
		if b.Name == "" {
			return fmt.Errorf("velocity band missing name")
		}
		if b.Max <= prev {
			return fmt.Errorf("velocity band %q upper bound %.2f does not exceed previous bound %.2f", b.Name, b.Max, prev)
		}
		prev = b.Max
	}
	return nil
}

// ClassifyVelocity returns the band a velocity falls into. A velocity below
// StationaryMax is stationary; otherwise the first band whose upper bound
// exceeds it wins; above all bands the result is "fast". Bounds are
// exclusive upper: a velocity exactly at a bound belongs to the band above.
func ClassifyVelocity(v float64, p VelocityProfile) string {
	if v < p.StationaryMax {
		return BandStationary
	}
	for _, b := range p.Bands {
		if v < b.Max {
			return b.Name
		}
	}
	return BandFast
}

// GolfProfile returns the default golf velocity profile
func GolfProfile() VelocityProfile {
	return VelocityProfile{
		StationaryMax: 0.5,
		Bands:         []VelocityBand{{Name: BandWalking, Max: 2.5}},
	}
}
