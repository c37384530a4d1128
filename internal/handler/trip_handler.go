package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gavraq/trip-analyzer-go/internal/models"
	"github.com/gavraq/trip-analyzer-go/internal/service"
	"github.com/gavraq/trip-analyzer-go/pkg/response"
)

// TripHandler handles HTTP requests for trip analyses
type TripHandler struct {
	service *service.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(service *service.TripService) *TripHandler {
	return &TripHandler{service: service}
}

// RunAnalysis handles POST /api/v1/analysis/trips
func (h *TripHandler) RunAnalysis(c *gin.Context) {
	var req service.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid analysis request", err)
		return
	}

	result, err := h.service.RunAnalysis(c.Request.Context(), req)
	if err != nil {
		response.BadRequest(c, "Analysis failed", err)
		return
	}

	response.Success(c, result)
}

// GetTrip handles GET /api/v1/analysis/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	id := c.Param("id")

	trip, err := h.service.GetTrip(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get trip analysis", err)
		return
	}
	if trip == nil {
		response.NotFound(c, "Trip analysis not found")
		return
	}

	response.Success(c, trip)
}

// GetSessions handles GET /api/v1/analysis/sessions
func (h *TripHandler) GetSessions(c *gin.Context) {
	var filter models.SessionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	sessions, total, err := h.service.GetSessions(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get sessions", err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, models.SessionsResponse{
		Data:       sessions,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	})
}
