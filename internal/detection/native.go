package detection

import (
	"image"
	"log/slog"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
	"github.com/ironsheep/ga-vector-mcp/internal/regions"
)

// candidateMaxSide caps the working resolution of region discovery.
const candidateMaxSide = 800

// NativeTracer implements Tracer in pure Go.
type NativeTracer struct {
	opts Options
}

// NewNativeTracer creates a tracer. Zero thresholds take the defaults.
func NewNativeTracer(opts Options) *NativeTracer {
	d := DefaultOptions()
	if opts.CannyLow <= 0 && opts.CannyHigh <= 0 {
		opts.CannyLow, opts.CannyHigh = d.CannyLow, d.CannyHigh
	}
	if opts.InkLevel == 0 {
		opts.InkLevel = d.InkLevel
	}
	if opts.Filter == (regions.Thresholds{}) {
		opts.Filter = d.Filter
	}
	return &NativeTracer{opts: opts}
}

// Contours traces the outer boundary of every Canny edge component.
func (t *NativeTracer) Contours(img image.Image, prefix string) []geometry.Contour {
	edges := EdgeMap(img, t.opts.CannyLow, t.opts.CannyHigh)
	contours := TraceContours(edges, prefix, t.opts.MinComponentPixels)
	slog.Debug("Traced contours", "view", prefix, "count", len(contours),
		"width", edges.Rect.Dx(), "height", edges.Rect.Dy())
	return contours
}

// Candidates finds page regions by dilating the ink mask until the strokes of
// each drawing view fuse, then boxing every blob.
//
// The mask is reduced to at most candidateMaxSide pixels on its long side
// before dilation; boxes are scaled back to page coordinates.
func (t *NativeTracer) Candidates(img image.Image) []geometry.Candidate {
	b := img.Bounds()
	pageW, pageH := b.Dx(), b.Dy()
	if pageW == 0 || pageH == 0 {
		return []geometry.Candidate{}
	}

	ink := Binarize(img, t.opts.InkLevel)

	scale := math.Min(1, float64(candidateMaxSide)/float64(max(pageW, pageH)))
	workW := max(1, int(math.Round(float64(pageW)*scale)))
	workH := max(1, int(math.Round(float64(pageH)*scale)))
	var work image.Image = ink
	if workW != pageW || workH != pageH {
		// Box averaging keeps any ink in a cell above zero.
		work = imaging.Resize(ink, workW, workH, imaging.Box)
	}

	radius := t.opts.mergeRadius(workW, workH)
	merged := effect.Dilate(work, radius)

	mask := image.NewGray(image.Rect(0, 0, workW, workH))
	mb := merged.Bounds()
	for y := 0; y < workH; y++ {
		for x := 0; x < workW; x++ {
			if merged.RGBAAt(mb.Min.X+x, mb.Min.Y+y).R > 0 {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}

	boxes := componentBoxes(mask)
	sx := float64(pageW) / float64(workW)
	sy := float64(pageH) / float64(workH)
	for i, box := range boxes {
		boxes[i] = scaleBox(box, sx, sy, float64(pageW), float64(pageH))
	}

	cands := boxesToCandidates(boxes, pageW, pageH, t.opts.Filter)
	slog.Debug("Found region candidates", "blobs", len(boxes), "kept", len(cands),
		"merge_radius", radius, "work_width", workW, "work_height", workH)
	return cands
}

// scaleBox maps a box from working resolution to the page, clipped to the
// page bounds.
func scaleBox(box geometry.BoundingBox, sx, sy, pageW, pageH float64) geometry.BoundingBox {
	x0 := math.Max(0, math.Floor(box.X*sx))
	y0 := math.Max(0, math.Floor(box.Y*sy))
	x1 := math.Min(pageW, math.Ceil((box.X+box.W)*sx))
	y1 := math.Min(pageH, math.Ceil((box.Y+box.H)*sy))
	return geometry.BoundingBox{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// boxesToCandidates numbers boxes in discovery order and drops those too
// small to be a view.
func boxesToCandidates(boxes []geometry.BoundingBox, pageW, pageH int, f regions.Thresholds) []geometry.Candidate {
	cands := make([]geometry.Candidate, len(boxes))
	for i, box := range boxes {
		cands[i] = geometry.Candidate{Index: i, Box: box, Area: box.Area()}
	}
	return regions.FilterCandidates(cands, float64(pageW), float64(pageH), f)
}
