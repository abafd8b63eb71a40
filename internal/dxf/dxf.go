package dxf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
)

const (
	// DefaultScale maps one pixel to one drawing unit.
	DefaultScale = 1.0
	// DefaultCloseTolerance is the endpoint distance, in scaled units, below
	// which a polyline is flagged closed.
	DefaultCloseTolerance = 1.5

	acadVersion = "AC1015"
	newline     = "\r\n"
)

// Options controls the coordinate transform and entity attributes.
type Options struct {
	// CanvasHeight is the pixel height of the image the polylines were
	// traced from.
	CanvasHeight float64 `json:"canvas_height"`
	// Scale multiplies every coordinate after the flip. Non-positive values
	// fall back to DefaultScale.
	Scale float64 `json:"scale,omitempty"`
	// CloseTolerance is compared against the first/last vertex distance.
	// Non-positive values fall back to DefaultCloseTolerance.
	CloseTolerance float64 `json:"close_tolerance,omitempty"`
	// EmitLayers adds group 8 (layer) and group 62 (colour index) to every
	// entity. Off by default so the baseline layout is unchanged.
	EmitLayers bool `json:"emit_layers,omitempty"`
}

func (o Options) normalized() Options {
	if o.Scale <= 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		o.Scale = DefaultScale
	}
	if o.CloseTolerance <= 0 || math.IsNaN(o.CloseTolerance) {
		o.CloseTolerance = DefaultCloseTolerance
	}
	return o
}

// Entity is one LWPOLYLINE with vertices already flipped and scaled.
type Entity struct {
	SourceID string           `json:"source_id,omitempty"`
	Vertices []geometry.Point `json:"vertices"`
	Closed   bool             `json:"closed"`
	Layer    string           `json:"layer,omitempty"`
	Color    string           `json:"color,omitempty"`
}

// Document is an ordered list of entities plus serialization settings.
type Document struct {
	Entities   []Entity
	emitLayers bool
}

// NewDocument transforms polylines into entities. Polylines with fewer than
// two points are skipped.
func NewDocument(polylines []geometry.Polyline, opts Options) *Document {
	opts = opts.normalized()

	doc := &Document{
		Entities:   make([]Entity, 0, len(polylines)),
		emitLayers: opts.EmitLayers,
	}
	for _, pl := range polylines {
		if len(pl.Points) < 2 {
			continue
		}
		verts := make([]geometry.Point, len(pl.Points))
		for i, p := range pl.Points {
			verts[i] = geometry.Point{
				X: p.X * opts.Scale,
				Y: (opts.CanvasHeight - p.Y) * opts.Scale,
			}
		}
		doc.Entities = append(doc.Entities, Entity{
			SourceID: pl.SourceID,
			Vertices: verts,
			Closed:   verts[0].Distance(verts[len(verts)-1]) < opts.CloseTolerance,
			Layer:    pl.Layer,
			Color:    pl.Color,
		})
	}
	return doc
}

// WriteTo writes the document in DXF ASCII form.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	rw := recordWriter{w: bw}

	rw.pair(0, "SECTION")
	rw.pair(2, "HEADER")
	rw.pair(9, "$ACADVER")
	rw.pair(1, acadVersion)
	rw.pair(0, "ENDSEC")

	rw.pair(0, "SECTION")
	rw.pair(2, "TABLES")
	rw.pair(0, "ENDSEC")

	rw.pair(0, "SECTION")
	rw.pair(2, "ENTITIES")
	for _, e := range d.Entities {
		d.writeEntity(&rw, e)
	}
	rw.pair(0, "ENDSEC")
	rw.pair(0, "EOF")

	if rw.err != nil {
		return cw.n, fmt.Errorf("failed to write DXF: %w", rw.err)
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("failed to write DXF: %w", err)
	}
	return cw.n, nil
}

func (d *Document) writeEntity(rw *recordWriter, e Entity) {
	rw.pair(0, "LWPOLYLINE")
	if d.emitLayers {
		layer := e.Layer
		if layer == "" {
			layer = "0"
		}
		rw.pair(8, layer)
		rw.pair(62, strconv.Itoa(ColorIndex(e.Color)))
	}
	rw.pair(90, strconv.Itoa(len(e.Vertices)))
	flag := 0
	if e.Closed {
		flag = 1
	}
	rw.pair(70, strconv.Itoa(flag))
	for _, v := range e.Vertices {
		rw.pair(10, formatCoord(v.X))
		rw.pair(20, formatCoord(v.Y))
	}
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}

// Serialize is NewDocument followed by Bytes.
func Serialize(polylines []geometry.Polyline, opts Options) []byte {
	return NewDocument(polylines, opts).Bytes()
}

// formatCoord prints v with six decimals, folding negative zero to zero.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	if s == "-0.000000" {
		return "0.000000"
	}
	return s
}

// recordWriter emits group-code/value pairs and keeps the first error.
type recordWriter struct {
	w   *bufio.Writer
	err error
}

func (r *recordWriter) pair(code int, value string) {
	if r.err != nil {
		return
	}
	_, r.err = r.w.WriteString(strconv.Itoa(code) + newline + value + newline)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
