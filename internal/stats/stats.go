package stats

import (
	"math"
	"sort"

	"github.com/urban-heat/uhi-monitor-api/internal/raster"
)

// Summary describes the distribution of a raster's valid cells. An
// all-missing raster yields the zero value with Count 0, which is how
// consumers tell an empty raster from a populated zero-valued one.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	Count  int     `json:"count"`
}

// Summarize computes the distribution of a raster's valid cells.
func Summarize(r *raster.DerivedRaster) Summary {
	values := r.ValidValues()
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var sumSq float64
	for _, v := range sorted {
		d := v - mean
		sumSq += d * d
	}

	return Summary{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		Median: percentileSorted(sorted, 50),
		Std:    math.Sqrt(sumSq / float64(len(sorted))),
		P25:    percentileSorted(sorted, 25),
		P75:    percentileSorted(sorted, 75),
		Count:  len(sorted),
	}
}

// Correlate computes the Pearson correlation coefficient over cells valid
// in both rasters. Fewer than two surviving pairs yields 0.0; differing
// shapes are a caller error.
func Correlate(a, b *raster.DerivedRaster) (float64, error) {
	rowsA, colsA := a.Shape()
	rowsB, colsB := b.Shape()
	if rowsA != rowsB || colsA != colsB {
		return 0, &raster.ShapeMismatchError{
			RowsA: rowsA, ColsA: colsA, RowsB: rowsB, ColsB: colsB,
		}
	}

	var x, y []float64
	for i, rowA := range a.Data {
		rowB := b.Data[i]
		for j, va := range rowA {
			vb := rowB[j]
			if math.IsNaN(va) || math.IsNaN(vb) {
				continue
			}
			x = append(x, va)
			y = append(y, vb)
		}
	}

	if len(x) < 2 {
		return 0.0, nil
	}

	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(len(x))
	meanY /= float64(len(y))

	var sumXY, sumX2, sumY2 float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sumXY += dx * dy
		sumX2 += dx * dx
		sumY2 += dy * dy
	}

	// Constant inputs have no defined correlation.
	if sumX2 == 0 || sumY2 == 0 {
		return 0.0, nil
	}

	return sumXY / math.Sqrt(sumX2*sumY2), nil
}

// Percentile computes the p-th percentile (0-100) with linear interpolation
// between closest ranks. An empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	index := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
