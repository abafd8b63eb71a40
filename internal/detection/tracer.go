package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
	"github.com/ironsheep/ga-vector-mcp/internal/regions"
)

// Tracer extracts geometry from a raster image.
type Tracer interface {
	// Contours returns the outer boundaries found in img, named
	// "<prefix>_contour_<i>" in discovery order.
	Contours(img image.Image, prefix string) []geometry.Contour

	// Candidates returns page regions that may each hold one drawing view.
	Candidates(img image.Image) []geometry.Candidate
}

// Options tunes edge detection and candidate discovery.
type Options struct {
	// CannyLow and CannyHigh are hysteresis thresholds on a 0-255 scale.
	CannyLow  float64
	CannyHigh float64

	// MinComponentPixels drops edge components smaller than this many pixels.
	MinComponentPixels int

	// MergeRadius is the dilation radius used to fuse the strokes of one view
	// into a single blob. Zero derives it from the page size.
	MergeRadius float64

	// InkLevel is the luminance (0-255) below which a pixel counts as ink.
	InkLevel uint8

	// Filter drops candidates that are too small for a drawing view.
	Filter regions.Thresholds
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		CannyLow:           50,
		CannyHigh:          150,
		MinComponentPixels: 10,
		InkLevel:           128,
		Filter:             regions.DefaultThresholds(),
	}
}

// mergeRadius picks a dilation radius of 1% of the shorter page side,
// at least 2 pixels.
func (o Options) mergeRadius(width, height int) float64 {
	if o.MergeRadius > 0 {
		return o.MergeRadius
	}
	r := float64(min(width, height)) / 100
	return max(r, 2)
}

// ContourID formats the identifier of the i-th contour of a view.
func ContourID(prefix string, i int) string {
	return fmt.Sprintf("%s_contour_%d", prefix, i)
}
