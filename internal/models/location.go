package models

import "fmt"

// Location type constants
const (
	LocationTypeGolfCourse  = "golf_course"
	LocationTypeAirport     = "airport"
	LocationTypeSupermarket = "supermarket"
	LocationTypeResidence   = "residence"
)

// LocationDefinition represents one named place that trace points can
// resolve against
type LocationDefinition struct {
	ID           string   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Latitude     float64  `json:"latitude" db:"latitude"`
	Longitude    float64  `json:"longitude" db:"longitude"`
	RadiusMeters float64  `json:"radiusMeters" db:"radius_meters"`
	Type         string   `json:"type" db:"type"` // e.g. golf_course, airport, supermarket
	Activities   []string `json:"activities,omitempty" db:"-"` // activity tags this place can produce
	Timezone     string   `json:"timezone,omitempty" db:"timezone"`
}

// Validate checks that a location definition is structurally sound
func (l *LocationDefinition) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("location definition missing id")
	}
	if l.Name == "" {
		return fmt.Errorf("location %q missing name", l.ID)
	}
	if l.RadiusMeters <= 0 {
		return fmt.Errorf("location %q has non-positive radius %.1f", l.ID, l.RadiusMeters)
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("location %q has invalid latitude %.6f", l.ID, l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("location %q has invalid longitude %.6f", l.ID, l.Longitude)
	}
	return nil
}
