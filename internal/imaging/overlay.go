package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
)

// fallbackStroke is used for polylines without a parseable colour.
var fallbackStroke = color.NRGBA{R: 255, G: 0, B: 0, A: 255}

// OverlayOptions controls RenderOverlay.
type OverlayOptions struct {
	// ShowLabels prints each polyline's layer next to its first vertex.
	ShowLabels bool

	// Thickness is the stroke width in pixels; values below 1 mean 1.
	Thickness int

	// MaxSide limits the encoded PNG size; 0 keeps the source size.
	MaxSide int
}

// RenderOverlay draws polylines over a faded grayscale copy of img in their
// role colours and returns the result as a base64 PNG.
//
// Polyline coordinates are in img's pixel space (origin top-left).
func RenderOverlay(img image.Image, polylines []geometry.Polyline, opts OverlayOptions) (*EncodedImage, error) {
	canvas := Overlay(img, polylines, opts)
	return EncodePNG(canvas, opts.MaxSide)
}

// Overlay is RenderOverlay without the PNG encoding.
func Overlay(img image.Image, polylines []geometry.Polyline, opts OverlayOptions) *image.NRGBA {
	base := imaging.AdjustContrast(imaging.Grayscale(img), -40)
	canvas := image.NewNRGBA(base.Bounds())
	draw.Draw(canvas, canvas.Bounds(), base, base.Bounds().Min, draw.Src)

	thickness := max(opts.Thickness, 1)
	for _, pl := range polylines {
		stroke := strokeColor(pl.Color)
		for i := 1; i < len(pl.Points); i++ {
			drawLine(canvas, pl.Points[i-1], pl.Points[i], thickness, stroke)
		}
		if len(pl.Points) == 1 {
			drawLine(canvas, pl.Points[0], pl.Points[0], thickness, stroke)
		}
	}

	if opts.ShowLabels {
		for _, pl := range polylines {
			if len(pl.Points) == 0 || pl.Layer == "" {
				continue
			}
			p := pl.Points[0]
			drawLabel(canvas, int(p.X)+3, int(p.Y)-3, pl.Layer, strokeColor(pl.Color))
		}
	}
	return canvas
}

// strokeColor parses "#RRGGBB" into an opaque colour.
func strokeColor(hex string) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallbackStroke
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// drawLine rasterizes a segment with Bresenham's algorithm, stamping a
// thickness x thickness square at every step.
func drawLine(img *image.NRGBA, a, b geometry.Point, thickness int, c color.NRGBA) {
	x0, y0 := int(a.X+0.5), int(a.Y+0.5)
	x1, y1 := int(b.X+0.5), int(b.Y+0.5)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	half := thickness / 2

	for {
		for oy := -half; oy < thickness-half; oy++ {
			for ox := -half; ox < thickness-half; ox++ {
				px, py := x0+ox, y0+oy
				if (image.Point{X: px, Y: py}).In(img.Rect) {
					img.SetNRGBA(px, py, c)
				}
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// drawLabel writes text with its baseline at (x, y) on a translucent white
// plate so it stays readable over line work.
func drawLabel(img *image.NRGBA, x, y int, text string, fg color.NRGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()

	plate := image.Rect(x-1, y-ascent-1, x+width+1, y+descent+1).Intersect(img.Rect)
	draw.Draw(img, plate, image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 200}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
