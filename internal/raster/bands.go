package raster

import "math"

// Landsat Collection 2 Level 2 calibration constants.
const (
	thermalScale      = 0.003418
	thermalOffset     = 149.0
	kelvinZeroCelsius = 273.15

	reflectanceScale  = 0.0000275
	reflectanceOffset = -0.2

	// ndviEpsilon keeps the normalized-difference denominator away from zero.
	ndviEpsilon = 1e-6

	// DN 0 converts to roughly -124 C, far below any measured surface
	// temperature, so everything at or under this threshold is no-data.
	minPlausibleCelsius = -100.0
)

// DeriveTemperature converts the thermal band's digital numbers to surface
// temperature in Celsius. Cells at or below the plausibility threshold are
// marked missing.
func DeriveTemperature(s *Scene) (*DerivedRaster, error) {
	thermal, err := s.Band(BandThermal)
	if err != nil {
		return nil, err
	}

	data := make([][]float64, len(thermal))
	for y, row := range thermal {
		out := make([]float64, len(row))
		for x, dn := range row {
			kelvin := dn*thermalScale + thermalOffset
			celsius := kelvin - kelvinZeroCelsius
			if celsius <= minPlausibleCelsius {
				celsius = math.NaN()
			}
			out[x] = celsius
		}
		data[y] = out
	}

	return &DerivedRaster{Data: data, Lats: s.Lats, Lons: s.Lons}, nil
}

// DeriveVegetationIndex computes NDVI from the near-infrared and red bands
// after converting digital numbers to surface reflectance. Results outside
// the open interval (-1, 1) indicate degenerate denominators or invalid
// reflectance and are marked missing, not clamped.
func DeriveVegetationIndex(s *Scene) (*DerivedRaster, error) {
	nirBand, err := s.Band(BandNIR)
	if err != nil {
		return nil, err
	}
	redBand, err := s.Band(BandRed)
	if err != nil {
		return nil, err
	}

	data := make([][]float64, len(nirBand))
	for y, nirRow := range nirBand {
		out := make([]float64, len(nirRow))
		for x, nirDN := range nirRow {
			nir := nirDN*reflectanceScale + reflectanceOffset
			red := redBand[y][x]*reflectanceScale + reflectanceOffset
			ndvi := (nir - red) / (nir + red + ndviEpsilon)
			if ndvi <= -1.0 || ndvi >= 1.0 {
				ndvi = math.NaN()
			}
			out[x] = ndvi
		}
		data[y] = out
	}

	return &DerivedRaster{Data: data, Lats: s.Lats, Lons: s.Lons}, nil
}
