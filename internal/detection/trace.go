package detection

import (
	"image"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
)

// moore lists the 8 neighbours clockwise (y down), starting west.
var moore = [8]image.Point{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

func mooreIndex(d image.Point) int {
	for i, m := range moore {
		if m == d {
			return i
		}
	}
	return 0
}

// labelMap assigns an 8-connected component id (1-based) to every set pixel
// of a binary mask.
type labelMap struct {
	width, height int
	labels        []int32
	// sizes[id] is the pixel count of component id.
	sizes []int
	// starts[id] is the first pixel of component id in raster order.
	starts []image.Point
}

func (m *labelMap) at(x, y int) int32 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.labels[y*m.width+x]
}

// labelComponents groups set pixels (value > 0) into 8-connected components
// using an iterative flood fill. Components are numbered in raster order.
func labelComponents(mask *image.Gray) *labelMap {
	b := mask.Bounds()
	width, height := b.Dx(), b.Dy()
	m := &labelMap{
		width:  width,
		height: height,
		labels: make([]int32, width*height),
		sizes:  []int{0},
		starts: []image.Point{{}},
	}

	set := func(x, y int) bool {
		return mask.Pix[mask.PixOffset(b.Min.X+x, b.Min.Y+y)] > 0
	}

	var stack []image.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !set(x, y) || m.labels[y*width+x] != 0 {
				continue
			}

			id := int32(len(m.sizes))
			size := 0
			m.labels[y*width+x] = id
			stack = append(stack[:0], image.Point{X: x, Y: y})
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				size++
				for _, d := range moore {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					if m.labels[ny*width+nx] != 0 || !set(nx, ny) {
						continue
					}
					m.labels[ny*width+nx] = id
					stack = append(stack, image.Point{X: nx, Y: ny})
				}
			}
			m.sizes = append(m.sizes, size)
			m.starts = append(m.starts, image.Point{X: x, Y: y})
		}
	}
	return m
}

// outermost reports, per component id, whether the component is reachable
// from the image border without crossing another component. Components
// sitting inside the hole of another one are nested and report false.
func (m *labelMap) outermost() []bool {
	out := make([]bool, len(m.sizes))
	outside := make([]bool, m.width*m.height)

	var stack []int
	push := func(x, y int) {
		i := y*m.width + x
		if m.labels[i] != 0 {
			out[m.labels[i]] = true
			return
		}
		if !outside[i] {
			outside[i] = true
			stack = append(stack, i)
		}
	}

	for x := 0; x < m.width; x++ {
		push(x, 0)
		push(x, m.height-1)
	}
	for y := 0; y < m.height; y++ {
		push(0, y)
		push(m.width-1, y)
	}

	// Background is 4-connected, the dual of 8-connected foreground.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%m.width, i/m.width
		if x > 0 {
			push(x-1, y)
		}
		if x < m.width-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < m.height-1 {
			push(x, y+1)
		}
	}
	return out
}

// traceBoundary walks the outer boundary of component id clockwise with
// Moore-neighbour tracing, starting at the component's first raster pixel.
// Closed boundaries end on the start pixel.
func (m *labelMap) traceBoundary(id int32) []image.Point {
	start := m.starts[id]
	boundary := []image.Point{start}

	// The raster-order start pixel always has background to its west.
	cur := start
	back := 0
	limit := 4*m.sizes[id] + 8

	for len(boundary) < limit {
		next, nextBack, ok := m.step(id, cur, back)
		if !ok {
			break
		}
		if cur == start && len(boundary) > 1 && next == boundary[1] {
			break
		}
		cur, back = next, nextBack
		boundary = append(boundary, cur)
	}
	return boundary
}

// step finds the next boundary pixel clockwise from the backtrack direction.
func (m *labelMap) step(id int32, cur image.Point, back int) (image.Point, int, bool) {
	for i := 1; i <= 8; i++ {
		d := (back + i) % 8
		n := cur.Add(moore[d])
		if m.at(n.X, n.Y) != id {
			continue
		}
		prev := cur.Add(moore[(d+7)%8])
		return n, mooreIndex(prev.Sub(n)), true
	}
	return cur, back, false
}

// compress drops every interior point that continues the straight step of
// its predecessor, leaving only the endpoints of horizontal, vertical and
// diagonal runs.
func compress(pts []image.Point) []image.Point {
	if len(pts) < 3 {
		return append([]image.Point(nil), pts...)
	}
	out := []image.Point{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		if pts[i].Sub(pts[i-1]) != pts[i+1].Sub(pts[i]) {
			out = append(out, pts[i])
		}
	}
	return append(out, pts[len(pts)-1])
}

// TraceContours returns the compressed outer boundary of every outermost
// 8-connected component in mask with at least minPixels pixels.
func TraceContours(mask *image.Gray, prefix string, minPixels int) []geometry.Contour {
	m := labelComponents(mask)
	outer := m.outermost()

	contours := make([]geometry.Contour, 0)
	for id := 1; id < len(m.sizes); id++ {
		if !outer[id] || m.sizes[id] < minPixels {
			continue
		}
		pts := compress(m.traceBoundary(int32(id)))
		c := geometry.Contour{
			ID:     ContourID(prefix, len(contours)),
			Points: make([]geometry.Point, len(pts)),
		}
		for i, p := range pts {
			c.Points[i] = geometry.Point{X: float64(p.X), Y: float64(p.Y)}
		}
		contours = append(contours, c)
	}
	return contours
}

// componentBoxes returns the bounding box of every component in raster
// discovery order, with width and height counted in whole pixels.
func componentBoxes(mask *image.Gray) []geometry.BoundingBox {
	m := labelComponents(mask)
	n := len(m.sizes)
	minX := make([]int, n)
	minY := make([]int, n)
	maxX := make([]int, n)
	maxY := make([]int, n)
	for id := 1; id < n; id++ {
		minX[id], minY[id] = m.width, m.height
		maxX[id], maxY[id] = -1, -1
	}

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			id := m.labels[y*m.width+x]
			if id == 0 {
				continue
			}
			minX[id] = min(minX[id], x)
			minY[id] = min(minY[id], y)
			maxX[id] = max(maxX[id], x)
			maxY[id] = max(maxY[id], y)
		}
	}

	boxes := make([]geometry.BoundingBox, 0, n-1)
	for id := 1; id < n; id++ {
		boxes = append(boxes, geometry.BoundingBox{
			X: float64(minX[id]),
			Y: float64(minY[id]),
			W: float64(maxX[id] - minX[id] + 1),
			H: float64(maxY[id] - minY[id] + 1),
		})
	}
	return boxes
}
