package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-heat/uhi-monitor-api/internal/raster"
)

func fullScene(t *testing.T) *raster.Scene {
	t.Helper()
	scene, err := raster.NewScene(map[string][][]float64{
		raster.BandThermal: {{45000, 46000}, {47000, 48000}},
		raster.BandNIR:     {{20000, 18000}, {16000, 14000}},
		raster.BandRed:     {{8000, 9000}, {10000, 11000}},
	}, []float64{33.4, 33.5}, []float64{-112.1, -112.0})
	require.NoError(t, err)
	return scene
}

func TestAnalyze(t *testing.T) {
	result, err := Analyze(fullScene(t))
	require.NoError(t, err)

	assert.Equal(t, 4, result.LSTStats.Count)
	assert.Equal(t, 4, result.NDVIStats.Count)

	require.NotNil(t, result.LSTImage)
	require.NotNil(t, result.NDVIImage)
	assert.Equal(t, [2][2]float64{{33.4, -112.1}, {33.5, -112.0}}, result.LSTImage.Bounds)
	assert.Equal(t, result.LSTImage.Bounds, result.NDVIImage.Bounds)

	assert.InDelta(t, result.LSTStats.Max-result.LSTStats.Min, result.UHIMagnitude, 1e-9)
	assert.GreaterOrEqual(t, result.Correlation, -1.0)
	assert.LessOrEqual(t, result.Correlation, 1.0)

	// Thermal DNs rise while NDVI falls across this scene, so the
	// correlation must be strongly negative.
	assert.Less(t, result.Correlation, -0.9)
}

func TestAnalyzeMissingThermalBand(t *testing.T) {
	scene, err := raster.NewScene(map[string][][]float64{
		raster.BandNIR: {{20000, 18000}},
		raster.BandRed: {{8000, 9000}},
	}, []float64{33.4}, []float64{-112.1, -112.0})
	require.NoError(t, err)

	result, err := Analyze(scene)
	require.Error(t, err)
	assert.Nil(t, result)

	var bandErr *raster.MissingBandError
	require.True(t, errors.As(err, &bandErr))
	assert.Equal(t, raster.BandThermal, bandErr.Band)
}

func TestAnalyzeMissingNIRBand(t *testing.T) {
	scene, err := raster.NewScene(map[string][][]float64{
		raster.BandThermal: {{45000, 46000}},
		raster.BandRed:     {{8000, 9000}},
	}, []float64{33.4}, []float64{-112.1, -112.0})
	require.NoError(t, err)

	_, err = Analyze(scene)
	var bandErr *raster.MissingBandError
	require.True(t, errors.As(err, &bandErr))
	assert.Equal(t, raster.BandNIR, bandErr.Band)
}
