package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/urban-heat/uhi-monitor-api/internal/properties"
	"github.com/urban-heat/uhi-monitor-api/internal/raster"
)

const (
	collection = "landsat-c2-l2"

	downloadRetries    = 5
	downloadRetryDelay = 5 * time.Second
)

// ErrNoScenes reports that no scene matched the search window and cloud
// cover limit.
var ErrNoScenes = errors.New("no suitable satellite scenes found")

// requiredBands lists the assets fetched for every scene. For Landsat
// Collection 2 Level 2 the STAC asset keys match the scene band names.
var requiredBands = []string{raster.BandRed, raster.BandNIR, raster.BandThermal}

// SceneData is a loaded scene plus the catalog metadata callers report.
type SceneData struct {
	Scene      *raster.Scene
	Date       time.Time
	CloudCover float64
}

// Client searches a STAC catalog and materializes scenes from its COG
// assets.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient targets the configured catalog. When client credentials are
// present the HTTP client carries an OAuth2 token source, so the same code
// serves private catalogs; the default Planetary Computer endpoint works
// anonymously.
func NewClient() *Client {
	httpClient := &http.Client{Timeout: 5 * time.Minute}
	if properties.StacTokenURL() != "" {
		config := &clientcredentials.Config{
			ClientID:     properties.StacClientID(),
			ClientSecret: properties.StacClientSecret(),
			TokenURL:     properties.StacTokenURL(),
		}
		httpClient = config.Client(context.Background())
		httpClient.Timeout = 5 * time.Minute
	}
	return &Client{baseURL: properties.StacAPIURL(), httpClient: httpClient}
}

// NewClientWithURL targets a specific catalog root, mainly for tests.
func NewClientWithURL(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpClient: &http.Client{Timeout: 5 * time.Minute}}
}

type stacAsset struct {
	Href string `json:"href"`
}

type stacItem struct {
	ID         string `json:"id"`
	Properties struct {
		Datetime   string  `json:"datetime"`
		CloudCover float64 `json:"eo:cloud_cover"`
	} `json:"properties"`
	Assets map[string]stacAsset `json:"assets"`
}

type searchRequest struct {
	Collections []string       `json:"collections"`
	BBox        [4]float64     `json:"bbox"`
	Datetime    string         `json:"datetime"`
	Query       map[string]any `json:"query"`
	SortBy      []sortSpec     `json:"sortby"`
	Limit       int            `json:"limit"`
}

type sortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type searchResponse struct {
	Features []stacItem `json:"features"`
}

// FetchScene searches the catalog for the clearest Landsat scene inside the
// bbox ([minLon, minLat, maxLon, maxLat]) and date range, downloads its
// red, near-infrared and thermal assets and assembles them into a Scene.
func (c *Client) FetchScene(bbox [4]float64, startDate, endDate time.Time, maxCloudCover float64) (*SceneData, error) {
	items, err := c.searchScenes(bbox, startDate, endDate, maxCloudCover)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoScenes
	}

	item := pickClearest(items)
	fmt.Printf("Found %d scenes, using %s (cloud cover %.1f%%)\n", len(items), item.ID, item.Properties.CloudCover)

	scene, err := c.loadScene(item)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(time.RFC3339, item.Properties.Datetime)
	if err != nil {
		return nil, fmt.Errorf("scene %s has invalid datetime %q: %w", item.ID, item.Properties.Datetime, err)
	}

	return &SceneData{
		Scene:      scene,
		Date:       date,
		CloudCover: item.Properties.CloudCover,
	}, nil
}

func (c *Client) searchScenes(bbox [4]float64, startDate, endDate time.Time, maxCloudCover float64) ([]stacItem, error) {
	request := searchRequest{
		Collections: []string{collection},
		BBox:        bbox,
		Datetime:    fmt.Sprintf("%s/%s", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")),
		Query: map[string]any{
			"eo:cloud_cover": map[string]float64{"lt": maxCloudCover},
		},
		SortBy: []sortSpec{{Field: "properties.eo:cloud_cover", Direction: "asc"}},
		Limit:  10,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/search", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		responseBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog search returned status %d: %s", resp.StatusCode, responseBody)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return result.Features, nil
}

// pickClearest returns the item with the lowest cloud cover. The catalog is
// asked to sort, but not every STAC server honors sortby.
func pickClearest(items []stacItem) stacItem {
	sorted := make([]stacItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Properties.CloudCover < sorted[j].Properties.CloudCover
	})
	return sorted[0]
}

// loadScene downloads the required band assets in parallel and reads them
// into aligned grids.
func (c *Client) loadScene(item stacItem) (*raster.Scene, error) {
	type bandResult struct {
		grid [][]float64
		lats []float64
		lons []float64
	}

	var (
		mu          sync.Mutex
		results     = make(map[string]bandResult, len(requiredBands))
		progressBar = progressbar.Default(int64(len(requiredBands)), "Downloading bands")
	)

	errChan := make(chan error, 1)
	var stopProcessing sync.Once

	wp := workerpool.New(len(requiredBands))
	for _, band := range requiredBands {
		asset, ok := item.Assets[band]
		if !ok {
			wp.StopWait()
			return nil, fmt.Errorf("scene %s: %w", item.ID, &raster.MissingBandError{Band: band})
		}

		b := band
		href := asset.Href
		wp.Submit(func() {
			grid, lats, lons, err := c.downloadBand(href)
			if err != nil {
				stopProcessing.Do(func() { errChan <- fmt.Errorf("band %s: %w", b, err) })
				return
			}

			mu.Lock()
			results[b] = bandResult{grid: grid, lats: lats, lons: lons}
			progressBar.Add(1)
			mu.Unlock()
		})
	}
	wp.StopWait()
	progressBar.Finish()

	select {
	case err := <-errChan:
		return nil, err
	default:
	}

	bands := make(map[string][][]float64, len(results))
	var lats, lons []float64
	for name, result := range results {
		bands[name] = result.grid
		lats, lons = result.lats, result.lons
	}

	return raster.NewScene(bands, lats, lons)
}

// downloadBand fetches one COG asset to a temp file and reads it into a
// grid with its coordinate vectors.
func (c *Client) downloadBand(href string) ([][]float64, []float64, []float64, error) {
	var (
		resp *http.Response
		err  error
	)
	for attempt := 1; attempt <= downloadRetries; attempt++ {
		resp, err = c.httpClient.Get(href)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}
		if resp != nil {
			resp.Body.Close()
			err = fmt.Errorf("asset download returned status %d", resp.StatusCode)
		}
		fmt.Printf("Attempt %d failed: %v\n", attempt, err)
		time.Sleep(downloadRetryDelay)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to download asset after %d attempts: %w", downloadRetries, err)
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp("", "landsat-band-*.tif")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		return nil, nil, nil, fmt.Errorf("failed to write asset to disk: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, nil, nil, err
	}

	return readGeoTIFF(tmpFile.Name())
}
