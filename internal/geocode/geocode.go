package geocode

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"github.com/urban-heat/uhi-monitor-api/internal/properties"
)

const (
	userAgent = "uhi-monitor-api/2.0"

	// DefaultBufferKm is the half-width of bounding boxes built around a
	// bare point, matching the analysis footprint of a mid-sized city.
	DefaultBufferKm = 15.0

	kmPerDegreeLat = 111.0
)

// Location is a resolved place with its analysis bounding box.
// BBox is [minLon, minLat, maxLon, maxLat].
type Location struct {
	Name        string     `json:"name"`
	Lat         float64    `json:"lat"`
	Lon         float64    `json:"lon"`
	BBox        [4]float64 `json:"bbox"`
	DisplayName string     `json:"display_name"`
}

// Client resolves place names and coordinates against a Nominatim server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    properties.NominatimURL(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithURL targets a specific Nominatim endpoint.
func NewClientWithURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

type nominatimResult struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	BoundingBox []string          `json:"boundingbox"`
	Address     map[string]string `json:"address"`
}

// Search resolves a free-form query to a location. A nil result with nil
// error means the query matched nothing.
func (c *Client) Search(query string) (*Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")

	var results []nominatimResult
	if err := c.get("/search", params, &results); err != nil {
		return nil, fmt.Errorf("failed to search location %q: %w", query, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	return locationFromResult(results[0])
}

// Reverse resolves coordinates to the containing place. The bounding box is
// always buffered around the point so the analysis footprint stays
// predictable regardless of the matched feature's extent.
func (c *Client) Reverse(lat, lon float64) (*Location, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")

	var result nominatimResult
	if err := c.get("/reverse", params, &result); err != nil {
		return nil, fmt.Errorf("failed to reverse geocode (%f, %f): %w", lat, lon, err)
	}
	if result.DisplayName == "" {
		return nil, nil
	}

	loc := &Location{
		Name:        placeName(result.Address, fmt.Sprintf("Location (%.4f, %.4f)", lat, lon)),
		Lat:         lat,
		Lon:         lon,
		BBox:        boundToBBox(BBoxAround(lat, lon, DefaultBufferKm)),
		DisplayName: result.DisplayName,
	}
	return loc, nil
}

func (c *Client) get(path string, params url.Values, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func locationFromResult(result nominatimResult) (*Location, error) {
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", result.Lat, err)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", result.Lon, err)
	}

	bbox := boundToBBox(BBoxAround(lat, lon, DefaultBufferKm))
	if len(result.BoundingBox) == 4 {
		// Nominatim orders its box [minLat, maxLat, minLon, maxLon].
		minLat, err1 := strconv.ParseFloat(result.BoundingBox[0], 64)
		maxLat, err2 := strconv.ParseFloat(result.BoundingBox[1], 64)
		minLon, err3 := strconv.ParseFloat(result.BoundingBox[2], 64)
		maxLon, err4 := strconv.ParseFloat(result.BoundingBox[3], 64)
		if err1 == nil && err2 == nil && err3 == nil && err4 == nil {
			bbox = [4]float64{minLon, minLat, maxLon, maxLat}
		}
	}

	return &Location{
		Name:        placeName(result.Address, result.DisplayName),
		Lat:         lat,
		Lon:         lon,
		BBox:        bbox,
		DisplayName: result.DisplayName,
	}, nil
}

// placeName builds a hierarchical name from address fields, most local
// first.
func placeName(address map[string]string, fallback string) string {
	name := ""
	for _, key := range []string{"city", "town", "village", "state", "country"} {
		if part, ok := address[key]; ok {
			if name != "" {
				name += ", "
			}
			name += part
		}
	}
	if name == "" {
		return fallback
	}
	return name
}

// BBoxAround builds a bounding box bufferKm from the point in every
// direction. Longitude degrees shrink with latitude.
func BBoxAround(lat, lon, bufferKm float64) orb.Bound {
	latBuffer := bufferKm / kmPerDegreeLat
	lonBuffer := bufferKm / (kmPerDegreeLat * math.Cos(lat*math.Pi/180))
	return orb.Bound{
		Min: orb.Point{lon - lonBuffer, lat - latBuffer},
		Max: orb.Point{lon + lonBuffer, lat + latBuffer},
	}
}

func boundToBBox(b orb.Bound) [4]float64 {
	return [4]float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}
}
