package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/urban-heat/uhi-monitor-api/internal/raster"
	"github.com/urban-heat/uhi-monitor-api/internal/stats"
)

// longEdge is the pixel length of the rendered image's longer side.
const longEdge = 1024

// Display stretch percentiles used when no fixed range is supplied.
const (
	stretchLow  = 2
	stretchHigh = 98
)

// ValueRange fixes the color stretch instead of deriving it from the data.
type ValueRange struct {
	Min float64
	Max float64
}

// VegetationRange is the fixed display stretch for vegetation index rasters.
var VegetationRange = &ValueRange{Min: -0.2, Max: 0.8}

// RenderedImage is a base64 PNG with its geographic bounding rectangle as
// [[minLat, minLon], [maxLat, maxLon]].
type RenderedImage struct {
	ImageBase64 string        `json:"image"`
	Bounds      [2][2]float64 `json:"bounds"`
}

// Render draws the raster onto a fresh surface with the given color scale.
// When rng is nil the stretch is the 2nd/98th percentile of valid values.
// Missing cells stay fully transparent.
func Render(r *raster.DerivedRaster, scale ColorScale, rng *ValueRange) (*RenderedImage, error) {
	if len(r.Lats) == 0 || len(r.Lons) == 0 {
		return nil, &raster.MissingCoordinatesError{}
	}

	bounds := geographicBounds(r.Lats, r.Lons)

	vmin, vmax := stretchRange(r, rng)
	span := vmax - vmin
	if span <= 0 {
		span = 1
	}

	rows, cols := r.Shape()
	outW, outH := outputSize(rows, cols)

	// Every call gets its own context so concurrent renders cannot share
	// drawing state.
	dc := gg.NewContext(outW, outH)
	for y := 0; y < outH; y++ {
		sy := (float64(y)+0.5)*float64(rows)/float64(outH) - 0.5
		for x := 0; x < outW; x++ {
			sx := (float64(x)+0.5)*float64(cols)/float64(outW) - 0.5
			v := sampleBilinear(r.Data, sy, sx)
			if math.IsNaN(v) {
				continue
			}
			c := scale.At((v - vmin) / span)
			dc.SetRGB(c.R, c.G, c.B)
			dc.SetPixel(x, y)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return &RenderedImage{
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Bounds:      bounds,
	}, nil
}

func geographicBounds(lats, lons []float64) [2][2]float64 {
	minLat, maxLat := lats[0], lats[0]
	for _, lat := range lats {
		minLat = math.Min(minLat, lat)
		maxLat = math.Max(maxLat, lat)
	}
	minLon, maxLon := lons[0], lons[0]
	for _, lon := range lons {
		minLon = math.Min(minLon, lon)
		maxLon = math.Max(maxLon, lon)
	}
	return [2][2]float64{{minLat, minLon}, {maxLat, maxLon}}
}

func stretchRange(r *raster.DerivedRaster, rng *ValueRange) (float64, float64) {
	if rng != nil {
		return rng.Min, rng.Max
	}
	values := r.ValidValues()
	return stats.Percentile(values, stretchLow), stats.Percentile(values, stretchHigh)
}

func outputSize(rows, cols int) (int, int) {
	longest := rows
	if cols > longest {
		longest = cols
	}
	scale := float64(longEdge) / float64(longest)
	w := int(math.Round(float64(cols) * scale))
	h := int(math.Round(float64(rows) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// sampleBilinear interpolates the grid at fractional position (sy, sx).
// Missing neighbors drop out of the blend with weights renormalized over the
// remainder; a fully missing neighborhood yields NaN.
func sampleBilinear(data [][]float64, sy, sx float64) float64 {
	rows, cols := len(data), len(data[0])

	sy = math.Max(0, math.Min(sy, float64(rows-1)))
	sx = math.Max(0, math.Min(sx, float64(cols-1)))

	y0 := int(math.Floor(sy))
	x0 := int(math.Floor(sx))
	y1 := y0 + 1
	x1 := x0 + 1
	if y1 > rows-1 {
		y1 = rows - 1
	}
	if x1 > cols-1 {
		x1 = cols - 1
	}

	fy := sy - float64(y0)
	fx := sx - float64(x0)

	corners := [4]float64{data[y0][x0], data[y0][x1], data[y1][x0], data[y1][x1]}
	weights := [4]float64{
		(1 - fy) * (1 - fx),
		(1 - fy) * fx,
		fy * (1 - fx),
		fy * fx,
	}

	var sum, wsum float64
	for i, v := range corners {
		if math.IsNaN(v) || weights[i] == 0 {
			continue
		}
		sum += v * weights[i]
		wsum += weights[i]
	}
	if wsum == 0 {
		return math.NaN()
	}
	return sum / wsum
}
