package analysis

import (
	"github.com/urban-heat/uhi-monitor-api/internal/raster"
	"github.com/urban-heat/uhi-monitor-api/internal/render"
	"github.com/urban-heat/uhi-monitor-api/internal/stats"
)

// Result bundles everything derived from a single scene: summaries and
// rendered images for both rasters, their correlation, and the urban heat
// island magnitude (temperature spread across the region).
type Result struct {
	LSTStats     stats.Summary
	NDVIStats    stats.Summary
	LSTImage     *render.RenderedImage
	NDVIImage    *render.RenderedImage
	Correlation  float64
	UHIMagnitude float64
}

// Analyze derives temperature and vegetation index rasters from the scene,
// then computes their summaries, rendered images and correlation. Any
// failure aborts the whole analysis; there are no partial results. The
// function is stateless and safe to call from concurrent requests.
func Analyze(scene *raster.Scene) (*Result, error) {
	lst, err := raster.DeriveTemperature(scene)
	if err != nil {
		return nil, err
	}
	ndvi, err := raster.DeriveVegetationIndex(scene)
	if err != nil {
		return nil, err
	}

	lstStats := stats.Summarize(lst)
	ndviStats := stats.Summarize(ndvi)

	lstImage, err := render.Render(lst, render.Thermal, nil)
	if err != nil {
		return nil, err
	}
	ndviImage, err := render.Render(ndvi, render.Vegetation, render.VegetationRange)
	if err != nil {
		return nil, err
	}

	correlation, err := stats.Correlate(lst, ndvi)
	if err != nil {
		return nil, err
	}

	return &Result{
		LSTStats:     lstStats,
		NDVIStats:    ndviStats,
		LSTImage:     lstImage,
		NDVIImage:    ndviImage,
		Correlation:  correlation,
		UHIMagnitude: lstStats.Max - lstStats.Min,
	}, nil
}
