package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gavraq/trip-analyzer-go/internal/models"
	"github.com/gavraq/trip-analyzer-go/internal/service"
	"github.com/gavraq/trip-analyzer-go/pkg/response"
)

// TraceHandler handles HTTP requests for trace points
type TraceHandler struct {
	service *service.TraceService
}

// NewTraceHandler creates a new trace handler
func NewTraceHandler(service *service.TraceService) *TraceHandler {
	return &TraceHandler{service: service}
}

// IngestTraces handles POST /api/v1/traces
func (h *TraceHandler) IngestTraces(c *gin.Context) {
	var points []models.TracePoint
	if err := c.ShouldBindJSON(&points); err != nil {
		response.BadRequest(c, "Invalid trace payload", err)
		return
	}

	inserted, err := h.service.Ingest(points)
	if err != nil {
		response.BadRequest(c, "Failed to ingest traces", err)
		return
	}

	response.Success(c, gin.H{"inserted": inserted})
}

// GetTraces handles GET /api/v1/traces
func (h *TraceHandler) GetTraces(c *gin.Context) {
	var filter models.TracePointFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	points, total, err := h.service.GetTracePoints(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get traces", err)
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

	response.Success(c, models.TracePointsResponse{
		Data:       points,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	})
}
