package service

import (
	"fmt"

	"github.com/gavraq/trip-analyzer-go/internal/models"
	"github.com/gavraq/trip-analyzer-go/internal/repository"
)

// TraceService handles business logic for trace points
type TraceService struct {
	repo *repository.TraceRepository
}

// NewTraceService creates a new trace service
func NewTraceService(repo *repository.TraceRepository) *TraceService {
	return &TraceService{repo: repo}
}

// Ingest validates and stores a batch of trace points
func (s *TraceService) Ingest(points []models.TracePoint) (int, error) {
	for i, p := range points {
		if p.Timestamp.IsZero() {
			return 0, fmt.Errorf("trace point %d missing timestamp", i)
		}
		if p.Latitude < -90 || p.Latitude > 90 {
			return 0, fmt.Errorf("trace point %d has invalid latitude %.6f", i, p.Latitude)
		}
		if p.Longitude < -180 || p.Longitude > 180 {
			return 0, fmt.Errorf("trace point %d has invalid longitude %.6f", i, p.Longitude)
		}
	}
	return s.repo.InsertBatch(points)
}

// GetTracePoints retrieves trace points with filtering and pagination
func (s *TraceService) GetTracePoints(filter models.TracePointFilter) ([]models.TracePoint, int64, error) {
	return s.repo.GetTracePoints(filter)
}
