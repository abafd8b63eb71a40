//go:build opencv

package detection

import (
	"image"
	"log/slog"

	"github.com/anthonynsimon/bild/effect"
	"gocv.io/x/gocv"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
)

// OpenCVTracer implements Tracer with OpenCV through gocv.
//
// Every Mat and PointsVector is released with defer, including on early
// returns.
type OpenCVTracer struct {
	opts Options
}

// NewOpenCVTracer creates an OpenCV-backed tracer.
func NewOpenCVTracer(opts Options) *OpenCVTracer {
	return &OpenCVTracer{opts: NewNativeTracer(opts).opts}
}

// Contours runs gray -> 5x5 Gaussian -> Canny -> external contours with
// simple chain approximation.
func (t *OpenCVTracer) Contours(img image.Image, prefix string) []geometry.Contour {
	gray, err := gocv.ImageGrayToMatGray(effect.Grayscale(img))
	if err != nil {
		slog.Warn("Failed to convert image for OpenCV", "error", err)
		return []geometry.Contour{}
	}
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, float32(t.opts.CannyLow), float32(t.opts.CannyHigh))

	found := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]geometry.Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		pts := found.At(i).ToPoints()
		c := geometry.Contour{
			ID:     ContourID(prefix, i),
			Points: make([]geometry.Point, len(pts)),
		}
		for j, p := range pts {
			c.Points[j] = geometry.Point{X: float64(p.X), Y: float64(p.Y)}
		}
		contours = append(contours, c)
	}
	slog.Debug("Traced contours with OpenCV", "view", prefix, "count", len(contours))
	return contours
}

// Candidates thresholds and dilates the ink, then boxes each external blob.
func (t *OpenCVTracer) Candidates(img image.Image) []geometry.Candidate {
	b := img.Bounds()
	ink, err := gocv.ImageGrayToMatGray(Binarize(img, t.opts.InkLevel))
	if err != nil {
		slog.Warn("Failed to convert image for OpenCV", "error", err)
		return []geometry.Candidate{}
	}
	defer ink.Close()

	r := int(t.opts.mergeRadius(b.Dx(), b.Dy()))
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 2*r + 1, Y: 2*r + 1})
	defer kernel.Close()

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Dilate(ink, &merged, kernel)

	found := gocv.FindContours(merged, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	boxes := make([]geometry.BoundingBox, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		rect := gocv.BoundingRect(found.At(i))
		boxes = append(boxes, geometry.BoundingBox{
			X: float64(rect.Min.X),
			Y: float64(rect.Min.Y),
			W: float64(rect.Dx()),
			H: float64(rect.Dy()),
		})
	}
	return boxesToCandidates(boxes, b.Dx(), b.Dy(), t.opts.Filter)
}
