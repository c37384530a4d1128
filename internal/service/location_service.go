package service

import (
	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/models"
)

// LocationService exposes the loaded location registry
type LocationService struct {
	registry *locations.Registry
}

// NewLocationService creates a new location service
func NewLocationService(registry *locations.Registry) *LocationService {
	return &LocationService{registry: registry}
}

// GetLocations returns all loaded definitions in load order
func (s *LocationService) GetLocations() []*models.LocationDefinition {
	return s.registry.All()
}

// GetLocation retrieves one definition by id
func (s *LocationService) GetLocation(id string) (*models.LocationDefinition, error) {
	return s.registry.Get(id)
}

// FindContaining resolves the place containing a coordinate, if any
func (s *LocationService) FindContaining(lat, lon float64) *models.LocationDefinition {
	return s.registry.FindContaining(lat, lon)
}
