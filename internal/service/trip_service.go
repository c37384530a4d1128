package service

import (
	"context"
	"fmt"
	"log"

	"github.com/gavraq/trip-analyzer-go/internal/analysis/trip"
	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/models"
	"github.com/gavraq/trip-analyzer-go/internal/repository"
)

// TripService runs trip analyses and persists their results
type TripService struct {
	analyzer *trip.Analyzer
	sessions *repository.SessionRepository
}

// NewTripService wires the default detector set over the given registry and
// trace repository
func NewTripService(registry *locations.Registry, traces *repository.TraceRepository, sessions *repository.SessionRepository) (*TripService, error) {
	analyzer, err := trip.NewDefaultAnalyzer(registry, traces)
	if err != nil {
		return nil, fmt.Errorf("failed to build trip analyzer: %w", err)
	}
	return &TripService{analyzer: analyzer, sessions: sessions}, nil
}

// AnalyzeRequest describes one trip analysis run
type AnalyzeRequest struct {
	TripName  string `json:"tripName" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// RunAnalysis analyzes the requested date range and stores the result
func (s *TripService) RunAnalysis(ctx context.Context, req AnalyzeRequest) (*models.TripAnalysis, error) {
	result, err := s.analyzer.AnalyzeTrip(ctx, req.TripName, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveTripAnalysis(result); err != nil {
		return nil, fmt.Errorf("failed to persist trip analysis: %w", err)
	}

	log.Printf("[TripService] Stored analysis %s (%q)", result.ID, result.TripName)
	return result, nil
}

// GetTrip retrieves a stored trip analysis by id; nil when absent
func (s *TripService) GetTrip(id string) (*models.TripAnalysis, error) {
	return s.sessions.GetTripByID(id)
}

// GetSessions retrieves stored sessions with filtering and pagination
func (s *TripService) GetSessions(filter models.SessionFilter) ([]models.ActivitySession, int64, error) {
	return s.sessions.GetSessions(filter)
}
