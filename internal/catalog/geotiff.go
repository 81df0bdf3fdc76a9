package catalog

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/urban-heat/uhi-monitor-api/internal/utils"
)

var registerDrivers sync.Once

// readGeoTIFF reads the first band of a GeoTIFF into a row-major grid and
// derives per-axis coordinate vectors from its geotransform. Scenes arrive
// already warped to EPSG:4326, so the transform is expected to be north-up.
func readGeoTIFF(path string) ([][]float64, []float64, []float64, error) {
	var (
		data          []float64
		width, height int
		geoTransform  [6]float64
		err           error
	)

	// GDAL handles are not goroutine safe; band downloads run in parallel.
	utils.ExecuteWithMutex(func() {
		registerDrivers.Do(godal.RegisterAll)

		var dataset *godal.Dataset
		dataset, err = godal.Open(path)
		if err != nil {
			err = fmt.Errorf("failed to open GeoTIFF: %w", err)
			return
		}
		defer dataset.Close()

		width = dataset.Structure().SizeX
		height = dataset.Structure().SizeY

		geoTransform, err = dataset.GeoTransform()
		if err != nil {
			err = fmt.Errorf("failed to get geotransform: %w", err)
			return
		}

		bands := dataset.Bands()
		if len(bands) == 0 {
			err = fmt.Errorf("GeoTIFF has no raster bands")
			return
		}

		data = make([]float64, width*height)
		if readErr := bands[0].Read(0, 0, data, width, height); readErr != nil {
			err = fmt.Errorf("failed to read raster data: %w", readErr)
		}
	})
	if err != nil {
		return nil, nil, nil, err
	}

	grid := make([][]float64, height)
	for y := range grid {
		grid[y] = data[y*width : (y+1)*width]
	}

	lats, lons := geoTransformVectors(geoTransform, width, height)
	return grid, lats, lons, nil
}

// geoTransformVectors converts a GDAL geotransform to pixel-center
// coordinate vectors: one latitude per row, one longitude per column.
func geoTransformVectors(gt [6]float64, width, height int) ([]float64, []float64) {
	lats := make([]float64, height)
	for y := range lats {
		lats[y] = gt[3] + (float64(y)+0.5)*gt[5]
	}
	lons := make([]float64, width)
	for x := range lons {
		lons[x] = gt[0] + (float64(x)+0.5)*gt[1]
	}
	return lats, lons
}
