package output

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"

	"github.com/urban-heat/uhi-monitor-api/internal/delivery"
	"github.com/urban-heat/uhi-monitor-api/internal/properties"
)

// StatRow is one derived layer's summary as written to the stats CSV.
type StatRow struct {
	Layer        string  `csv:"layer"`
	SceneDate    string  `csv:"scene_date"`
	Min          float64 `csv:"min"`
	Max          float64 `csv:"max"`
	Mean         float64 `csv:"mean"`
	Median       float64 `csv:"median"`
	Std          float64 `csv:"std"`
	P25          float64 `csv:"p25"`
	P75          float64 `csv:"p75"`
	Count        int     `csv:"count"`
	Correlation  float64 `csv:"lst_ndvi_correlation"`
	UHIMagnitude float64 `csv:"uhi_magnitude"`
}

// ExportRegionAnalysis writes both rendered images and a stats CSV under
// $ROOT_PATH/data/result and returns the created paths.
func ExportRegionAnalysis(result *delivery.RegionAnalysis, name string) ([]string, error) {
	dir := filepath.Join(properties.RootPath(), "data", "result")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create result folder: %w", err)
	}

	lstPath := filepath.Join(dir, fmt.Sprintf("%s_lst.png", name))
	ndviPath := filepath.Join(dir, fmt.Sprintf("%s_ndvi.png", name))
	csvPath := filepath.Join(dir, fmt.Sprintf("%s_stats.csv", name))

	var g errgroup.Group
	g.Go(func() error { return writeImage(lstPath, result.LST.Image) })
	g.Go(func() error { return writeImage(ndviPath, result.NDVI.Image) })
	g.Go(func() error { return writeStats(csvPath, result) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []string{lstPath, ndviPath, csvPath}, nil
}

func writeImage(path, encoded string) error {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("failed to decode image for %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

func writeStats(path string, result *delivery.RegionAnalysis) error {
	rows := []StatRow{
		{
			Layer:        "lst",
			SceneDate:    result.SceneDate,
			Min:          result.LST.Statistics.Min,
			Max:          result.LST.Statistics.Max,
			Mean:         result.LST.Statistics.Mean,
			Median:       result.LST.Statistics.Median,
			Std:          result.LST.Statistics.Std,
			P25:          result.LST.Statistics.P25,
			P75:          result.LST.Statistics.P75,
			Count:        result.LST.Statistics.Count,
			Correlation:  result.Correlation,
			UHIMagnitude: result.UHIMagnitude,
		},
		{
			Layer:        "ndvi",
			SceneDate:    result.SceneDate,
			Min:          result.NDVI.Statistics.Min,
			Max:          result.NDVI.Statistics.Max,
			Mean:         result.NDVI.Statistics.Mean,
			Median:       result.NDVI.Statistics.Median,
			Std:          result.NDVI.Statistics.Std,
			P25:          result.NDVI.Statistics.P25,
			P75:          result.NDVI.Statistics.P75,
			Count:        result.NDVI.Statistics.Count,
			Correlation:  result.Correlation,
			UHIMagnitude: result.UHIMagnitude,
		},
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create stats CSV: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write stats CSV: %w", err)
	}
	return nil
}
