package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-heat/uhi-monitor-api/internal/raster"
)

func decodeImage(t *testing.T, encoded string) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestRenderBounds(t *testing.T) {
	r := &raster.DerivedRaster{
		Data: [][]float64{{1, 2}, {3, 4}},
		Lats: []float64{10, 11},
		Lons: []float64{20, 21},
	}

	img, err := Render(r, Thermal, nil)
	require.NoError(t, err)
	assert.Equal(t, [2][2]float64{{10, 20}, {11, 21}}, img.Bounds)
}

func TestRenderBoundsDescendingLatitudes(t *testing.T) {
	// Imagery rows usually run north to south; bounds still come out
	// min-first.
	r := &raster.DerivedRaster{
		Data: [][]float64{{1, 2}, {3, 4}},
		Lats: []float64{11, 10},
		Lons: []float64{20, 21},
	}

	img, err := Render(r, Thermal, nil)
	require.NoError(t, err)
	assert.Equal(t, [2][2]float64{{10, 20}, {11, 21}}, img.Bounds)
}

func TestRenderMissingCoordinates(t *testing.T) {
	r := &raster.DerivedRaster{Data: [][]float64{{1, 2}, {3, 4}}}

	_, err := Render(r, Thermal, nil)
	require.Error(t, err)

	var coordErr *raster.MissingCoordinatesError
	assert.True(t, errors.As(err, &coordErr))
}

func TestRenderProducesDecodablePNG(t *testing.T) {
	r := &raster.DerivedRaster{
		Data: [][]float64{{20, 25}, {30, 35}},
		Lats: []float64{10, 11},
		Lons: []float64{20, 21},
	}

	rendered, err := Render(r, Thermal, nil)
	require.NoError(t, err)

	img := decodeImage(t, rendered.ImageBase64)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 1024, img.Bounds().Dy())

	// Center of a fully valid raster must be opaque.
	_, _, _, a := img.At(512, 512).RGBA()
	assert.NotZero(t, a)
}

func TestRenderMissingCellsTransparent(t *testing.T) {
	r := &raster.DerivedRaster{
		Data: [][]float64{
			{math.NaN(), math.NaN()},
			{math.NaN(), math.NaN()},
		},
		Lats: []float64{10, 11},
		Lons: []float64{20, 21},
	}

	rendered, err := Render(r, Vegetation, VegetationRange)
	require.NoError(t, err)

	img := decodeImage(t, rendered.ImageBase64)
	for _, p := range [][2]int{{0, 0}, {512, 512}, {1023, 1023}} {
		_, _, _, a := img.At(p[0], p[1]).RGBA()
		assert.Zero(t, a)
	}
}

func TestRenderRectangularAspect(t *testing.T) {
	r := &raster.DerivedRaster{
		Data: [][]float64{{1, 2, 3, 4}},
		Lats: []float64{10},
		Lons: []float64{20, 21, 22, 23},
	}

	rendered, err := Render(r, Thermal, nil)
	require.NoError(t, err)

	img := decodeImage(t, rendered.ImageBase64)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestColorScaleEndpoints(t *testing.T) {
	low := Thermal.At(0)
	high := Thermal.At(1)
	assert.NotEqual(t, low, high)

	// Clamped outside [0, 1].
	assert.Equal(t, low, Thermal.At(-2))
	assert.Equal(t, high, Thermal.At(3))

	// Vegetation ramp ends green-dominant.
	top := Vegetation.At(1)
	assert.Greater(t, top.G, top.R)
	assert.Greater(t, top.G, top.B)
}

func TestSampleBilinear(t *testing.T) {
	grid := [][]float64{{0, 2}, {4, 6}}

	assert.InDelta(t, 0.0, sampleBilinear(grid, 0, 0), 1e-9)
	assert.InDelta(t, 3.0, sampleBilinear(grid, 0.5, 0.5), 1e-9)
	assert.InDelta(t, 1.0, sampleBilinear(grid, 0, 0.5), 1e-9)

	// A missing corner drops out with weights renormalized.
	withHole := [][]float64{{0, math.NaN()}, {4, 6}}
	v := sampleBilinear(withHole, 0.5, 0.5)
	assert.InDelta(t, (0+4+6)/3.0, v, 1e-9)

	// Fully missing neighborhood stays missing.
	allNaN := [][]float64{{math.NaN(), math.NaN()}, {math.NaN(), math.NaN()}}
	assert.True(t, math.IsNaN(sampleBilinear(allNaN, 0.5, 0.5)))
}
