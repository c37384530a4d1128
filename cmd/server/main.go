package main

import (
	"log"
	"os"

	"github.com/gavraq/trip-analyzer-go/internal/api"
	"github.com/gavraq/trip-analyzer-go/internal/config"
	"github.com/gavraq/trip-analyzer-go/internal/database"
	"github.com/gavraq/trip-analyzer-go/internal/handler"
	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/repository"
	"github.com/gavraq/trip-analyzer-go/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	registry, err := loadRegistry(cfg.LocationsDir)
	if err != nil {
		log.Fatal("Failed to load location sets: ", err)
	}
	log.Printf("[Server] Loaded %d location definition(s)", registry.Len())

	traceRepo := repository.NewTraceRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	traceService := service.NewTraceService(traceRepo)
	tripService, err := service.NewTripService(registry, traceRepo, sessionRepo)
	if err != nil {
		log.Fatal("Failed to build trip service: ", err)
	}
	locationService := service.NewLocationService(registry)

	router := api.SetupRouter(cfg, api.Handlers{
		Trace:    handler.NewTraceHandler(traceService),
		Trip:     handler.NewTripHandler(tripService),
		Location: handler.NewLocationHandler(locationService),
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

// loadRegistry loads the location sets, tolerating a missing directory
// (an empty registry is a valid configuration)
func loadRegistry(dir string) (*locations.Registry, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("[Server] Locations directory %s not found, starting with an empty registry", dir)
		return locations.Load(nil)
	}
	return locations.LoadDir(dir)
}
