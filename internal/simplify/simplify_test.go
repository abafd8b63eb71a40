package simplify

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
)

func pts(coords ...float64) []geometry.Point {
	out := make([]geometry.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, geometry.Pt(coords[i], coords[i+1]))
	}
	return out
}

func equalPoints(a, b []geometry.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isSubsequence reports whether sub appears in full in order.
func isSubsequence(sub, full []geometry.Point) bool {
	j := 0
	for i := 0; i < len(full) && j < len(sub); i++ {
		if full[i] == sub[j] {
			j++
		}
	}
	return j == len(sub)
}

func TestSimplify_ShortInputsCopied(t *testing.T) {
	tests := []struct {
		name string
		in   []geometry.Point
	}{
		{"nil", nil},
		{"one point", pts(1, 1)},
		{"two points", pts(0, 0, 100, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, tol := range []float64{0, 1, 1000} {
				got := Simplify(tt.in, tol)
				if !equalPoints(got, tt.in) {
					t.Errorf("tol=%v: got %v, want %v", tol, got, tt.in)
				}
			}
		})
	}
}

func TestSimplify_ReturnsCopy(t *testing.T) {
	in := pts(0, 0, 5, 5)
	out := Simplify(in, 1)
	out[0] = geometry.Pt(99, 99)
	if in[0] != geometry.Pt(0, 0) {
		t.Error("Simplify must not alias its input")
	}
}

func TestSimplify_CollinearDropped(t *testing.T) {
	in := pts(0, 0, 1, 0, 2, 0, 3, 0, 4, 0)
	got := Simplify(in, 0)
	want := pts(0, 0, 4, 0)
	if !equalPoints(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSimplify_Tolerance(t *testing.T) {
	// Peak of height 2 between two endpoints on the x axis.
	in := pts(0, 0, 5, 2, 10, 0)

	if got := Simplify(in, 3); !equalPoints(got, pts(0, 0, 10, 0)) {
		t.Errorf("tol 3: got %v", got)
	}
	if got := Simplify(in, 1); !equalPoints(got, in) {
		t.Errorf("tol 1: got %v", got)
	}
	// Exactly at tolerance is not "exceeding" it.
	if got := Simplify(in, 2); !equalPoints(got, pts(0, 0, 10, 0)) {
		t.Errorf("tol 2: got %v", got)
	}
}

func TestSimplify_NegativeToleranceIsZero(t *testing.T) {
	in := pts(0, 0, 1, 0.001, 2, 0)
	got := Simplify(in, -5)
	if !equalPoints(got, in) {
		t.Errorf("got %v, want all points kept", got)
	}
}

func TestSimplify_ClosedSquare(t *testing.T) {
	in := pts(0, 0, 5, 0, 10, 0, 10, 5, 10, 10, 5, 10, 0, 10, 0, 5, 0, 0)
	got := Simplify(in, 0.5)
	want := pts(0, 0, 10, 0, 10, 10, 0, 10, 0, 0)
	if !equalPoints(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSimplify_TieBreakLowestIndex(t *testing.T) {
	// Points 1, 2 and 3 are all 5 away from the chord; index 1 must split.
	// The remaining span [1,4] has nothing beyond 4.9.
	in := pts(0, 0, 2, 5, 5, 5, 8, 5, 10, 0)
	got := Simplify(in, 4.9)
	if !equalPoints(got, pts(0, 0, 2, 5, 10, 0)) {
		t.Errorf("expected lowest-index split at (2,5), got %v", got)
	}
	again := Simplify(in, 4.9)
	if !equalPoints(got, again) {
		t.Error("Simplify is not deterministic")
	}
}

func TestSimplify_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(60)
		in := make([]geometry.Point, n)
		for i := range in {
			in[i] = geometry.Pt(float64(rng.Intn(200)), float64(rng.Intn(200)))
		}
		tol := rng.Float64() * 20

		out := Simplify(in, tol)

		if len(out) > len(in) {
			t.Fatalf("trial %d: output longer than input", trial)
		}
		if !isSubsequence(out, in) {
			t.Fatalf("trial %d: output is not a subsequence of input", trial)
		}
		if n > 0 {
			if out[0] != in[0] || out[len(out)-1] != in[n-1] {
				t.Fatalf("trial %d: endpoints not preserved", trial)
			}
		}
	}
}

func TestSimplify_RemovedPointsWithinTolerance(t *testing.T) {
	// A sampled sine wave; every dropped point must be near the chord of its
	// surrounding retained neighbours.
	in := make([]geometry.Point, 0, 400)
	for i := 0; i < 400; i++ {
		x := float64(i)
		in = append(in, geometry.Pt(x, 20*math.Sin(x/25)))
	}
	const tol = 1.5
	out := Simplify(in, tol)

	j := 0
	for i := range in {
		if j < len(out)-1 && in[i] == out[j+1] {
			j++
			continue
		}
		if in[i] == out[j] {
			continue
		}
		d2 := SegmentDistance2(vec(in[i]), vec(out[j]), vec(out[j+1]))
		if d2 > tol*tol+1e-9 {
			t.Fatalf("point %d at distance %v exceeds tolerance", i, math.Sqrt(d2))
		}
	}
}

func TestSimplify_Idempotent(t *testing.T) {
	in := make([]geometry.Point, 0, 200)
	for i := 0; i < 200; i++ {
		x := float64(i)
		in = append(in, geometry.Pt(x, 10*math.Sin(x/15)+float64(i%7)*0.1))
	}
	once := Simplify(in, 1)
	twice := Simplify(once, 1)
	if !equalPoints(once, twice) {
		t.Errorf("second pass changed output: %d -> %d points", len(once), len(twice))
	}
}

func TestSimplify_LongConvexTrace(t *testing.T) {
	n := 20000
	in := make([]geometry.Point, n)
	for i := range in {
		x := float64(i)
		in[i] = geometry.Pt(x, x*x*1e-4)
	}
	out := Simplify(in, 0.25)
	if len(out) < 3 || len(out) > n {
		t.Fatalf("unexpected output length %d", len(out))
	}
	if out[0] != in[0] || out[len(out)-1] != in[n-1] {
		t.Error("endpoints not preserved")
	}
}

func TestSegmentDistance2(t *testing.T) {
	a := r2.Vec{X: 0, Y: 0}
	b := r2.Vec{X: 10, Y: 0}

	tests := []struct {
		name string
		p    r2.Vec
		want float64
	}{
		{"above middle", r2.Vec{X: 5, Y: 3}, 9},
		{"on segment", r2.Vec{X: 7, Y: 0}, 0},
		{"before start", r2.Vec{X: -3, Y: 4}, 25},
		{"past end", r2.Vec{X: 13, Y: 4}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentDistance2(tt.p, a, b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	// Degenerate segment.
	if got := SegmentDistance2(r2.Vec{X: 3, Y: 4}, a, a); got != 25 {
		t.Errorf("degenerate segment: got %v, want 25", got)
	}
}

func TestPolyline(t *testing.T) {
	c := geometry.Contour{ID: "side_contour_3", Points: pts(0, 0, 1, 0, 2, 0)}
	pl, ok := Polyline(c, 1)
	if !ok {
		t.Fatal("expected a polyline")
	}
	if pl.SourceID != "side_contour_3" || len(pl.Points) != 2 {
		t.Errorf("got %+v", pl)
	}

	if _, ok := Polyline(geometry.Contour{ID: "x", Points: pts(1, 1)}, 1); ok {
		t.Error("single-point contour should not produce a polyline")
	}
}
