package raster

import (
	"fmt"
	"math"
)

// Landsat Collection 2 Level 2 asset keys, as delivered by the catalog.
const (
	BandThermal = "lwir11"
	BandNIR     = "nir08"
	BandRed     = "red"
)

// Scene is a collection of equally shaped bands over one pixel grid.
// Lats holds one latitude per row, Lons one longitude per column, both
// in EPSG:4326.
type Scene struct {
	Bands map[string][][]float64
	Lats  []float64
	Lons  []float64
}

// NewScene validates that every band shares one shape and that the
// coordinate vectors match the grid axes.
func NewScene(bands map[string][][]float64, lats, lons []float64) (*Scene, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("scene has no bands")
	}

	rows, cols := -1, -1
	for name, band := range bands {
		r, c := gridShape(band)
		if rows == -1 {
			rows, cols = r, c
			continue
		}
		if r != rows || c != cols {
			return nil, fmt.Errorf("band %q: %w", name, &ShapeMismatchError{
				RowsA: rows, ColsA: cols, RowsB: r, ColsB: c,
			})
		}
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("scene bands are empty")
	}
	if len(lats) != rows {
		return nil, fmt.Errorf("latitude vector length %d does not match %d rows", len(lats), rows)
	}
	if len(lons) != cols {
		return nil, fmt.Errorf("longitude vector length %d does not match %d columns", len(lons), cols)
	}

	return &Scene{Bands: bands, Lats: lats, Lons: lons}, nil
}

// Band returns the named band or a MissingBandError.
func (s *Scene) Band(name string) ([][]float64, error) {
	band, ok := s.Bands[name]
	if !ok {
		return nil, &MissingBandError{Band: name}
	}
	return band, nil
}

// Shape returns the scene's grid dimensions as (rows, cols).
func (s *Scene) Shape() (int, int) {
	for _, band := range s.Bands {
		return gridShape(band)
	}
	return 0, 0
}

// DerivedRaster is a single grid computed from a Scene. Missing cells are
// marked with NaN. The coordinate vectors are shared with the source scene
// and must not be mutated.
type DerivedRaster struct {
	Data [][]float64
	Lats []float64
	Lons []float64
}

func (r *DerivedRaster) Shape() (int, int) {
	return gridShape(r.Data)
}

// ValidValues flattens the raster, dropping missing cells.
func (r *DerivedRaster) ValidValues() []float64 {
	values := make([]float64, 0, len(r.Data)*len(r.Lons))
	for _, row := range r.Data {
		for _, v := range row {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	return values
}

func gridShape(grid [][]float64) (int, int) {
	if len(grid) == 0 {
		return 0, 0
	}
	return len(grid), len(grid[0])
}
