package locations

import (
	"fmt"
	"math"

	"github.com/gavraq/trip-analyzer-go/internal/models"
	"github.com/gavraq/trip-analyzer-go/internal/spatial"
)

// DuplicateLocationConflictError signals that an overlay set redefined an
// existing location id with different coordinates or radius
type DuplicateLocationConflictError struct {
	ID string
}

func (e *DuplicateLocationConflictError) Error() string {
	return fmt.Sprintf("location %q redefined with conflicting coordinates or radius", e.ID)
}

// UnknownLocationError signals a lookup for a location id that was never loaded
type UnknownLocationError struct {
	ID string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown location %q", e.ID)
}

// coordEpsilon tolerates float noise when comparing redefinitions
const coordEpsilon = 1e-9

// Registry holds the merged set of known places. Read-only after Load and
// safe for concurrent lookups.
type Registry struct {
	byID  map[string]*models.LocationDefinition
	order []*models.LocationDefinition // load order, for deterministic tie-breaks
}

// Load merges a base location set with zero or more overlay sets. An overlay
// repeating an identical definition is a no-op; a conflicting redefinition
// fails the load. An empty base set is valid and simply never matches.
func Load(base []models.LocationDefinition, overlays ...[]models.LocationDefinition) (*Registry, error) {
	r := &Registry{byID: make(map[string]*models.LocationDefinition)}

	sets := append([][]models.LocationDefinition{base}, overlays...)
	for _, set := range sets {
		for i := range set {
			def := set[i]
			if err := def.Validate(); err != nil {
				return nil, err
			}

			existing, ok := r.byID[def.ID]
			if ok {
				if !sameDefinition(existing, &def) {
					return nil, &DuplicateLocationConflictError{ID: def.ID}
				}
				continue
			}

			copied := def
			r.byID[def.ID] = &copied
			r.order = append(r.order, &copied)
		}
	}

	return r, nil
}

func sameDefinition(a, b *models.LocationDefinition) bool {
	return math.Abs(a.Latitude-b.Latitude) < coordEpsilon &&
		math.Abs(a.Longitude-b.Longitude) < coordEpsilon &&
		math.Abs(a.RadiusMeters-b.RadiusMeters) < coordEpsilon
}

// Get retrieves a location definition by id
func (r *Registry) Get(id string) (*models.LocationDefinition, error) {
	def, ok := r.byID[id]
	if !ok {
		return nil, &UnknownLocationError{ID: id}
	}
	return def, nil
}

// All returns the loaded definitions in load order
func (r *Registry) All() []*models.LocationDefinition {
	return r.order
}

// Len returns the number of loaded definitions
func (r *Registry) Len() int {
	return len(r.order)
}

// FindContaining returns the location whose circle contains the point, or
// nil. When circles overlap the smallest radius wins; radius ties go to the
// definition loaded first.
func (r *Registry) FindContaining(lat, lon float64) *models.LocationDefinition {
	var best *models.LocationDefinition
	for _, def := range r.order {
		d := spatial.Distance(lat, lon, def.Latitude, def.Longitude)
		if d > def.RadiusMeters {
			continue
		}
		if best == nil || def.RadiusMeters < best.RadiusMeters {
			best = def
		}
	}
	return best
}

// Nearest returns the closest definition of the given type (any type when
// empty) and its distance in meters, ignoring radii. Returns nil when no
// definition of that type is loaded.
func (r *Registry) Nearest(lat, lon float64, locType string) (*models.LocationDefinition, float64) {
	var best *models.LocationDefinition
	bestDist := math.MaxFloat64
	for _, def := range r.order {
		if locType != "" && def.Type != locType {
			continue
		}
		d := spatial.Distance(lat, lon, def.Latitude, def.Longitude)
		if d < bestDist {
			best = def
			bestDist = d
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestDist
}
