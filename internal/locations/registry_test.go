package locations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavraq/trip-analyzer-go/internal/models"
)

func def(id, name, locType string, lat, lon, radius float64) models.LocationDefinition {
	return models.LocationDefinition{
		ID: id, Name: name, Type: locType,
		Latitude: lat, Longitude: lon, RadiusMeters: radius,
	}
}

func TestLoadMergesOverlays(t *testing.T) {
	base := []models.LocationDefinition{
		def("home", "Home", models.LocationTypeResidence, 51.5, -0.1, 100),
	}
	overlay := []models.LocationDefinition{
		def("course", "Royal Oak GC", models.LocationTypeGolfCourse, 51.6, -0.2, 800),
	}

	r, err := Load(base, overlay)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	got, err := r.Get("course")
	require.NoError(t, err)
	assert.Equal(t, "Royal Oak GC", got.Name)
}

func TestLoadIdempotentRedefinition(t *testing.T) {
	home := def("home", "Home", models.LocationTypeResidence, 51.5, -0.1, 100)

	r, err := Load([]models.LocationDefinition{home}, []models.LocationDefinition{home})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}

func TestLoadConflictingRedefinition(t *testing.T) {
	base := []models.LocationDefinition{
		def("home", "Home", models.LocationTypeResidence, 51.5, -0.1, 100),
	}
	overlay := []models.LocationDefinition{
		def("home", "Home", models.LocationTypeResidence, 52.0, -0.1, 100),
	}

	_, err := Load(base, overlay)
	require.Error(t, err)

	var conflict *DuplicateLocationConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "home", conflict.ID)
}

func TestLoadInvalidRadius(t *testing.T) {
	_, err := Load([]models.LocationDefinition{
		def("bad", "Bad", models.LocationTypeResidence, 51.5, -0.1, 0),
	})
	require.Error(t, err)
}

func TestLoadEmptyBase(t *testing.T) {
	r, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.FindContaining(51.5, -0.1))
}

func TestGetUnknown(t *testing.T) {
	r, err := Load(nil)
	require.NoError(t, err)

	_, err = r.Get("missing")
	var unknown *UnknownLocationError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.ID)
}

func TestFindContainingSmallestRadiusWins(t *testing.T) {
	// A shop inside a larger campus circle; same center
	r, err := Load([]models.LocationDefinition{
		def("campus", "Campus", "campus", 51.5, -0.1, 2000),
		def("shop", "Shop", models.LocationTypeSupermarket, 51.5, -0.1, 100),
	})
	require.NoError(t, err)

	got := r.FindContaining(51.5, -0.1)
	require.NotNil(t, got)
	assert.Equal(t, "shop", got.ID)

	// Outside the shop but inside the campus
	got = r.FindContaining(51.505, -0.1)
	require.NotNil(t, got)
	assert.Equal(t, "campus", got.ID)
}

func TestFindContainingRadiusTieLoadOrderWins(t *testing.T) {
	r, err := Load([]models.LocationDefinition{
		def("first", "First", "poi", 51.5, -0.1, 500),
		def("second", "Second", "poi", 51.5001, -0.1, 500),
	})
	require.NoError(t, err)

	got := r.FindContaining(51.50005, -0.1)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.ID)
}

func TestNearest(t *testing.T) {
	r, err := Load([]models.LocationDefinition{
		def("lhr", "Heathrow", models.LocationTypeAirport, 51.47, -0.4543, 3000),
		def("lgw", "Gatwick", models.LocationTypeAirport, 51.1537, -0.1821, 3000),
		def("home", "Home", models.LocationTypeResidence, 51.5, -0.1, 100),
	})
	require.NoError(t, err)

	nearest, dist := r.Nearest(51.45, -0.45, models.LocationTypeAirport)
	require.NotNil(t, nearest)
	assert.Equal(t, "lhr", nearest.ID)
	assert.Less(t, dist, 5000.0)

	none, _ := r.Nearest(51.45, -0.45, "harbor")
	assert.Nil(t, none)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	writeSet := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	writeSet("base.json", `[{"id":"home","name":"Home","latitude":51.5,"longitude":-0.1,"radiusMeters":100,"type":"residence"}]`)
	writeSet("trip-spain.json", `[{"id":"course","name":"Valderrama","latitude":36.28,"longitude":-5.33,"radiusMeters":900,"type":"golf_course"}]`)

	r, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	_, err = r.Get("course")
	require.NoError(t, err)
}

func TestLoadDirConflict(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.json"),
		[]byte(`[{"id":"home","name":"Home","latitude":51.5,"longitude":-0.1,"radiusMeters":100,"type":"residence"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overlay.json"),
		[]byte(`[{"id":"home","name":"Home","latitude":40.0,"longitude":-0.1,"radiusMeters":100,"type":"residence"}]`), 0o644))

	_, err := LoadDir(dir)
	var conflict *DuplicateLocationConflictError
	require.ErrorAs(t, err, &conflict)
}
