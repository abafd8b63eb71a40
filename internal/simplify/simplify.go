// Package simplify reduces dense contour traces to sparse polylines with the
// Ramer–Douglas–Peucker algorithm.
//
// The implementation is iterative: pending spans live on an explicit stack
// instead of the call stack, so a near-collinear trace with tens of thousands
// of points cannot exhaust goroutine stack. All distance comparisons are done
// on squared distances.
package simplify

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
)

// DefaultTolerance is the pixel tolerance used when callers do not supply one.
const DefaultTolerance = 2.0

// span is a pending [lo, hi] index range whose interior is still undecided.
type span struct {
	lo, hi int
}

// Simplify returns the subsequence of points retained by Ramer–Douglas–Peucker
// at the given pixel tolerance.
//
// The first and last points are always kept. Inputs with fewer than three
// points are returned as an unchanged copy. A negative tolerance is treated as
// zero, which removes only points lying exactly on their chord.
//
// When several interior points share the maximum distance, the one with the
// lowest index splits the span, so output is deterministic.
func Simplify(points []geometry.Point, tolerance float64) []geometry.Point {
	n := len(points)
	if n < 3 {
		out := make([]geometry.Point, n)
		copy(out, points)
		return out
	}
	if tolerance < 0 {
		tolerance = 0
	}
	tol2 := tolerance * tolerance

	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true

	stack := []span{{lo: 0, hi: n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.hi-s.lo < 2 {
			continue
		}

		a := vec(points[s.lo])
		b := vec(points[s.hi])

		maxDist := -1.0
		index := -1
		for i := s.lo + 1; i < s.hi; i++ {
			d := SegmentDistance2(vec(points[i]), a, b)
			if d > maxDist {
				maxDist = d
				index = i
			}
		}

		if maxDist > tol2 {
			keep[index] = true
			// Push the right half first so the left half is processed first;
			// order does not affect the result, only traversal.
			stack = append(stack, span{lo: index, hi: s.hi}, span{lo: s.lo, hi: index})
		}
	}

	out := make([]geometry.Point, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

// SegmentDistance2 returns the squared distance from p to the segment a-b.
//
// When the projection of p falls outside the segment the distance to the
// nearer endpoint is returned. A zero-length segment degrades to the distance
// to a.
func SegmentDistance2(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	ap := r2.Sub(p, a)

	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return r2.Norm2(ap)
	}

	t := r2.Dot(ap, ab) / l2
	switch {
	case t <= 0:
		return r2.Norm2(ap)
	case t >= 1:
		return r2.Norm2(r2.Sub(p, b))
	}

	proj := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm2(r2.Sub(p, proj))
}

// Polyline simplifies a contour into a polyline carrying the contour's ID.
// ok is false when fewer than two points remain, in which case the contour
// produces no polyline.
func Polyline(c geometry.Contour, tolerance float64) (geometry.Polyline, bool) {
	pts := Simplify(c.Points, tolerance)
	if len(pts) < 2 {
		return geometry.Polyline{}, false
	}
	return geometry.Polyline{SourceID: c.ID, Points: pts}, true
}

func vec(p geometry.Point) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}
