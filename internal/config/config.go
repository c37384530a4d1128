package config

import (
	"os"
)

// Config holds the application configuration
type Config struct {
	Port         string
	DBPath       string
	JWTSecret    string
	LocationsDir string
}

// Load reads configuration from the environment, with defaults
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/traces/traces.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	locationsDir := os.Getenv("LOCATIONS_DIR")
	if locationsDir == "" {
		locationsDir = "./data/locations"
	}

	return &Config{
		Port:         port,
		DBPath:       dbPath,
		JWTSecret:    jwtSecret,
		LocationsDir: locationsDir,
	}
}
