package raster

import "fmt"

// MissingBandError reports a required band absent from an input scene.
type MissingBandError struct {
	Band string
}

func (e *MissingBandError) Error() string {
	return fmt.Sprintf("scene is missing required band %q", e.Band)
}

// MissingCoordinatesError reports a raster carrying no usable coordinate
// vectors. Rendering without real bounds would silently misplace the image,
// so this is fatal rather than falling back to a unit box.
type MissingCoordinatesError struct{}

func (e *MissingCoordinatesError) Error() string {
	return "raster has no usable coordinate vectors"
}

// ShapeMismatchError reports two grids compared with differing shapes.
type ShapeMismatchError struct {
	RowsA, ColsA int
	RowsB, ColsB int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("grid shapes differ: %dx%d vs %dx%d", e.RowsA, e.ColsA, e.RowsB, e.ColsB)
}
