package geometry

import "math"

// Point is a 2D coordinate in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BoundingBox is an axis-aligned box in pixel space.
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns W × H.
func (b BoundingBox) Area() float64 {
	return b.W * b.H
}

// Aspect returns W / H with the height clamped to a minimum of 1 so that
// degenerate boxes never divide by zero.
func (b BoundingBox) Aspect() float64 {
	return b.W / math.Max(b.H, 1)
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Contains reports whether p lies inside the box (edges inclusive).
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Candidate is a region found on a full page that may hold one drawing view.
//
// Index is the discovery order assigned by the tracer. It identifies the
// candidate and breaks ties when candidates are sorted by area.
type Candidate struct {
	Index int         `json:"index"`
	Box   BoundingBox `json:"box"`
	Area  float64     `json:"area"`
}

// Contour is an ordered boundary trace. Order defines traversal direction.
// There is no closed flag; closure is inferred from endpoint proximity when
// the contour is serialized.
type Contour struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
}

// Polyline is a simplified contour ready for serialization.
//
// Layer and Color are carried over from the contour's classification and may
// be empty when the polyline was produced without one.
type Polyline struct {
	SourceID string  `json:"source_id"`
	Layer    string  `json:"layer,omitempty"`
	Color    string  `json:"color,omitempty"`
	Points   []Point `json:"points"`
}

// Extent holds the min/max coordinates of a point set.
type Extent struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// ExtentOf computes the axis-aligned extent of points. ok is false for an
// empty slice.
func ExtentOf(points []Point) (e Extent, ok bool) {
	if len(points) == 0 {
		return Extent{}, false
	}
	e = Extent{
		MinX: points[0].X, MaxX: points[0].X,
		MinY: points[0].Y, MaxY: points[0].Y,
	}
	for _, p := range points[1:] {
		e.MinX = math.Min(e.MinX, p.X)
		e.MaxX = math.Max(e.MaxX, p.X)
		e.MinY = math.Min(e.MinY, p.Y)
		e.MaxY = math.Max(e.MaxY, p.Y)
	}
	return e, true
}

// Box converts the extent to a BoundingBox.
func (e Extent) Box() BoundingBox {
	return BoundingBox{X: e.MinX, Y: e.MinY, W: e.MaxX - e.MinX, H: e.MaxY - e.MinY}
}

// ClampedSize returns width and height with each clamped to a minimum of 1.
func (e Extent) ClampedSize() (w, h float64) {
	return math.Max(e.MaxX-e.MinX, 1), math.Max(e.MaxY-e.MinY, 1)
}
