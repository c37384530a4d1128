package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/service"
	"github.com/gavraq/trip-analyzer-go/pkg/response"
)

// LocationHandler handles HTTP requests for the location registry
type LocationHandler struct {
	service *service.LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(service *service.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// GetLocations handles GET /api/v1/locations
func (h *LocationHandler) GetLocations(c *gin.Context) {
	response.Success(c, h.service.GetLocations())
}

// GetLocation handles GET /api/v1/locations/:id
func (h *LocationHandler) GetLocation(c *gin.Context) {
	loc, err := h.service.GetLocation(c.Param("id"))
	if err != nil {
		var unknown *locations.UnknownLocationError
		if errors.As(err, &unknown) {
			response.NotFound(c, "Location not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get location", err)
		return
	}

	response.Success(c, loc)
}

// ResolveLocation handles GET /api/v1/locations/resolve?lat=..&lon=..
func (h *LocationHandler) ResolveLocation(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid latitude", err)
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		response.BadRequest(c, "Invalid longitude", err)
		return
	}

	loc := h.service.FindContaining(lat, lon)
	if loc == nil {
		response.NotFound(c, "No location contains this point")
		return
	}
	response.Success(c, loc)
}
