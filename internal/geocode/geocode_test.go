package geocode

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Phoenix, Arizona", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"lat": "33.4484",
			"lon": "-112.0740",
			"display_name": "Phoenix, Maricopa County, Arizona, United States",
			"boundingbox": ["33.2903", "33.9203", "-112.3240", "-111.9255"],
			"address": {"city": "Phoenix", "state": "Arizona", "country": "United States"}
		}]`))
	}))
	defer server.Close()

	loc, err := NewClientWithURL(server.URL).Search("Phoenix, Arizona")
	require.NoError(t, err)
	require.NotNil(t, loc)

	assert.Equal(t, "Phoenix, Arizona, United States", loc.Name)
	assert.InDelta(t, 33.4484, loc.Lat, 1e-9)
	assert.InDelta(t, -112.0740, loc.Lon, 1e-9)
	assert.Equal(t, [4]float64{-112.3240, 33.2903, -111.9255, 33.9203}, loc.BBox)
}

func TestSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	loc, err := NewClientWithURL(server.URL).Search("nowhere at all")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestSearchWithoutBoundingBoxBuffersPoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat": "0", "lon": "10", "display_name": "Somewhere"}]`))
	}))
	defer server.Close()

	loc, err := NewClientWithURL(server.URL).Search("somewhere")
	require.NoError(t, err)
	require.NotNil(t, loc)

	// At the equator a 15 km buffer is symmetric in both axes.
	expected := 15.0 / 111.0
	assert.InDelta(t, 10-expected, loc.BBox[0], 1e-9)
	assert.InDelta(t, -expected, loc.BBox[1], 1e-9)
	assert.InDelta(t, 10+expected, loc.BBox[2], 1e-9)
	assert.InDelta(t, expected, loc.BBox[3], 1e-9)
	assert.Equal(t, "Somewhere", loc.Name)
}

func TestReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "33.4484", r.URL.Query().Get("lat"))

		w.Write([]byte(`{
			"lat": "33.4480",
			"lon": "-112.0730",
			"display_name": "Some Street, Phoenix, Arizona, United States",
			"address": {"city": "Phoenix", "state": "Arizona", "country": "United States"}
		}`))
	}))
	defer server.Close()

	loc, err := NewClientWithURL(server.URL).Reverse(33.4484, -112.0740)
	require.NoError(t, err)
	require.NotNil(t, loc)

	// Reverse keeps the caller's coordinates, not the matched feature's.
	assert.InDelta(t, 33.4484, loc.Lat, 1e-9)
	assert.InDelta(t, -112.0740, loc.Lon, 1e-9)
	assert.Equal(t, "Phoenix, Arizona, United States", loc.Name)
	assert.Less(t, loc.BBox[0], loc.BBox[2])
	assert.Less(t, loc.BBox[1], loc.BBox[3])
}

func TestReverseNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Unable to geocode"}`))
	}))
	defer server.Close()

	loc, err := NewClientWithURL(server.URL).Reverse(0, 0)
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClientWithURL(server.URL).Search("Phoenix")
	assert.Error(t, err)
}

func TestBBoxAroundShrinksLongitudeWithLatitude(t *testing.T) {
	equator := BBoxAround(0, 0, 15)
	arctic := BBoxAround(70, 0, 15)

	equatorWidth := equator.Max.Lon() - equator.Min.Lon()
	arcticWidth := arctic.Max.Lon() - arctic.Min.Lon()
	assert.Greater(t, arcticWidth, equatorWidth)

	// Latitude buffer is latitude-independent.
	assert.InDelta(t, equator.Max.Lat()-equator.Min.Lat(), arctic.Max.Lat()-arctic.Min.Lat(), 1e-9)
}
