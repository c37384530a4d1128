package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavraq/trip-analyzer-go/internal/config"
	"github.com/gavraq/trip-analyzer-go/internal/database"
	"github.com/gavraq/trip-analyzer-go/internal/handler"
	"github.com/gavraq/trip-analyzer-go/internal/locations"
	"github.com/gavraq/trip-analyzer-go/internal/models"
	"github.com/gavraq/trip-analyzer-go/internal/repository"
	"github.com/gavraq/trip-analyzer-go/internal/service"
)

const testSecret = "router-test-secret"

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	registry, err := locations.Load([]models.LocationDefinition{
		{
			ID:           "corner-shop",
			Name:         "Corner Shop",
			Latitude:     51.50,
			Longitude:    -0.26,
			RadiusMeters: 150,
			Type:         models.LocationTypeSupermarket,
		},
	})
	require.NoError(t, err)

	traceRepo := repository.NewTraceRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	tripService, err := service.NewTripService(registry, traceRepo, sessionRepo)
	require.NoError(t, err)

	cfg := &config.Config{Port: ":0", JWTSecret: testSecret}
	return SetupRouter(cfg, Handlers{
		Trace:    handler.NewTraceHandler(service.NewTraceService(traceRepo)),
		Trip:     handler.NewTripHandler(tripService),
		Location: handler.NewLocationHandler(service.NewLocationService(registry)),
	})
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestAPIRequiresToken(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/locations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/locations", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIRejectsWrongSecret(t *testing.T) {
	r := testRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/api/v1/locations", "Bearer "+signed, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetLocations(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/locations", bearerToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Corner Shop")
}

func TestResolveLocation(t *testing.T) {
	r := testRouter(t)
	token := bearerToken(t)

	w := doRequest(r, http.MethodGet, "/api/v1/locations/resolve?lat=51.50&lon=-0.26", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "corner-shop")

	w = doRequest(r, http.MethodGet, "/api/v1/locations/resolve?lat=0&lon=0", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/locations/resolve?lat=abc&lon=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUnknownLocation(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/locations/nope", bearerToken(t), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestAnalyzeAndFetchTrip(t *testing.T) {
	r := testRouter(t)
	token := bearerToken(t)

	// Half an hour at the corner shop
	t0 := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	var points []models.TracePoint
	for i := 0; i < 15; i++ {
		points = append(points, models.TracePoint{
			Timestamp: t0.Add(time.Duration(i) * 2 * time.Minute),
			Latitude:  51.50,
			Longitude: -0.26,
		})
	}

	w := doRequest(r, http.MethodPost, "/api/v1/traces", token, points)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"inserted":15`)

	w = doRequest(r, http.MethodPost, "/api/v1/analysis/trips", token, map[string]string{
		"tripName":  "shopping run",
		"startDate": "2025-06-03",
		"endDate":   "2025-06-03",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.TripAnalysis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, 1, envelope.Data.ActivityCounts[models.LocationTypeSupermarket])

	w = doRequest(r, http.MethodGet, fmt.Sprintf("/api/v1/analysis/trips/%s", envelope.Data.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Corner Shop")

	w = doRequest(r, http.MethodGet, "/api/v1/analysis/sessions?activityType=supermarket", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CONFIRMED")
}

func TestIngestRejectsInvalidPayload(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/traces", bearerToken(t), []models.TracePoint{
		{Timestamp: time.Now(), Latitude: 123.0, Longitude: 0},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisRejectsMissingFields(t *testing.T) {
	r := testRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/analysis/trips", bearerToken(t), map[string]string{
		"tripName": "incomplete",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
