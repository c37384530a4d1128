package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gavraq/trip-analyzer-go/internal/config"
	"github.com/gavraq/trip-analyzer-go/internal/handler"
	"github.com/gavraq/trip-analyzer-go/internal/middleware"
)

// Handlers bundles the API's request handlers
type Handlers struct {
	Trace    *handler.TraceHandler
	Trip     *handler.TripHandler
	Location *handler.LocationHandler
}

// SetupRouter builds the gin engine with middleware and routes
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trip Analyzer API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	api.Use(middleware.RateLimit(120, time.Minute))
	{
		traces := api.Group("/traces")
		{
			traces.POST("", h.Trace.IngestTraces)
			traces.GET("", h.Trace.GetTraces)
		}

		locations := api.Group("/locations")
		{
			locations.GET("", h.Location.GetLocations)
			locations.GET("/resolve", h.Location.ResolveLocation)
			locations.GET("/:id", h.Location.GetLocation)
		}

		analysis := api.Group("/analysis")
		{
			analysis.POST("/trips", h.Trip.RunAnalysis)
			analysis.GET("/trips/:id", h.Trip.GetTrip)
			analysis.GET("/sessions", h.Trip.GetSessions)
		}
	}

	return r
}
