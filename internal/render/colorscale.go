package render

import "github.com/lucasb-eyer/go-colorful"

// ColorScale maps a normalized value in [0, 1] onto a color ramp. Stops are
// evenly spaced and blended in Lab space so the ramp stays perceptually
// ordered.
type ColorScale struct {
	Name  string
	stops []colorful.Color
}

func mustHex(stops ...string) []colorful.Color {
	colors := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			panic(err)
		}
		colors[i] = c
	}
	return colors
}

// Thermal runs cool blue through yellow to hot red, matching the RdYlBu
// ramp reversed.
var Thermal = ColorScale{
	Name:  "thermal",
	stops: mustHex("#313695", "#74add1", "#fee090", "#f46d43", "#a50026"),
}

// Vegetation runs bare-soil red through yellow to dense-canopy green,
// matching the RdYlGn ramp.
var Vegetation = ColorScale{
	Name:  "vegetation",
	stops: mustHex("#a50026", "#f46d43", "#ffffbf", "#66bd63", "#006837"),
}

// At returns the ramp color for t in [0, 1]; t is clamped.
func (cs ColorScale) At(t float64) colorful.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	segments := float64(len(cs.stops) - 1)
	pos := t * segments
	i := int(pos)
	if i >= len(cs.stops)-1 {
		return cs.stops[len(cs.stops)-1]
	}
	return cs.stops[i].BlendLab(cs.stops[i+1], pos-float64(i)).Clamped()
}
