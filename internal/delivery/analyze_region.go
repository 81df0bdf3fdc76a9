package delivery

import (
	"fmt"
	"time"

	"github.com/urban-heat/uhi-monitor-api/internal/analysis"
	"github.com/urban-heat/uhi-monitor-api/internal/catalog"
	"github.com/urban-heat/uhi-monitor-api/internal/notification"
	"github.com/urban-heat/uhi-monitor-api/internal/stats"
)

// SceneFetcher acquires the clearest scene for a region and date range.
// catalog.Client satisfies it; tests substitute in-memory scenes.
type SceneFetcher interface {
	FetchScene(bbox [4]float64, startDate, endDate time.Time, maxCloudCover float64) (*catalog.SceneData, error)
}

// LayerResult is one derived raster ready for display.
type LayerResult struct {
	Image      string        `json:"image"`
	Bounds     [2][2]float64 `json:"bounds"`
	Statistics stats.Summary `json:"statistics"`
}

// RegionAnalysis is the externally exposed analysis record.
type RegionAnalysis struct {
	SceneDate    string      `json:"scene_date"`
	CloudCover   float64     `json:"cloud_cover"`
	LST          LayerResult `json:"lst"`
	NDVI         LayerResult `json:"ndvi"`
	Correlation  float64     `json:"correlation"`
	UHIMagnitude float64     `json:"uhi_magnitude"`
}

// AnalyzeRegion fetches the clearest scene for the bbox and date range,
// runs the full analysis and reports the outcome to the configured
// notification webhooks.
func AnalyzeRegion(fetcher SceneFetcher, bbox [4]float64, startDate, endDate time.Time, maxCloudCover float64) (*RegionAnalysis, error) {
	sceneData, err := fetcher.FetchScene(bbox, startDate, endDate, maxCloudCover)
	if err != nil {
		notification.SendAnalysisFailure(fmt.Sprintf("Scene fetch failed for bbox %v: %s", bbox, err.Error()))
		return nil, err
	}

	result, err := analysis.Analyze(sceneData.Scene)
	if err != nil {
		notification.SendAnalysisFailure(fmt.Sprintf("Analysis failed for scene %s: %s", sceneData.Date.Format("2006-01-02"), err.Error()))
		return nil, err
	}

	regionAnalysis := &RegionAnalysis{
		SceneDate:  sceneData.Date.Format("2006-01-02"),
		CloudCover: sceneData.CloudCover,
		LST: LayerResult{
			Image:      result.LSTImage.ImageBase64,
			Bounds:     result.LSTImage.Bounds,
			Statistics: result.LSTStats,
		},
		NDVI: LayerResult{
			Image:      result.NDVIImage.ImageBase64,
			Bounds:     result.NDVIImage.Bounds,
			Statistics: result.NDVIStats,
		},
		Correlation:  result.Correlation,
		UHIMagnitude: result.UHIMagnitude,
	}

	notification.SendAnalysisSuccess(fmt.Sprintf(
		"Scene %s analyzed.\nUHI magnitude: %.1f °C\nLST-NDVI correlation: %.2f",
		regionAnalysis.SceneDate, regionAnalysis.UHIMagnitude, regionAnalysis.Correlation,
	))

	return regionAnalysis, nil
}
