package dxf

import (
	"github.com/lucasb-eyer/go-colorful"
)

// aciPalette holds the standard AutoCAD Color Index entries 1-9.
var aciPalette = []struct {
	index int
	color colorful.Color
}{
	{1, colorful.Color{R: 1, G: 0, B: 0}},
	{2, colorful.Color{R: 1, G: 1, B: 0}},
	{3, colorful.Color{R: 0, G: 1, B: 0}},
	{4, colorful.Color{R: 0, G: 1, B: 1}},
	{5, colorful.Color{R: 0, G: 0, B: 1}},
	{6, colorful.Color{R: 1, G: 0, B: 1}},
	{7, colorful.Color{R: 1, G: 1, B: 1}},
	{8, colorful.Color{R: 128.0 / 255, G: 128.0 / 255, B: 128.0 / 255}},
	{9, colorful.Color{R: 192.0 / 255, G: 192.0 / 255, B: 192.0 / 255}},
}

// colorByLayer is ACI 256, "use the layer's colour".
const colorByLayer = 256

// ColorIndex maps a "#RRGGBB" colour to the perceptually nearest ACI entry.
// Empty or malformed colours map to BYLAYER.
func ColorIndex(hex string) int {
	if hex == "" {
		return colorByLayer
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorByLayer
	}

	best := colorByLayer
	bestDist := 0.0
	for _, entry := range aciPalette {
		d := c.DistanceCIEDE2000(entry.color)
		if best == colorByLayer || d < bestDist {
			best = entry.index
			bestDist = d
		}
	}
	return best
}
