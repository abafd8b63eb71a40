package dxf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
)

func lines(b []byte) []string {
	s := strings.TrimSuffix(string(b), "\r\n")
	return strings.Split(s, "\r\n")
}

func square() geometry.Polyline {
	return geometry.Polyline{
		SourceID: "top_contour_0",
		Layer:    "DECK_SHAPE",
		Color:    "#00FFFF",
		Points: []geometry.Point{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
		},
	}
}

var emptyDocument = []string{
	"0", "SECTION",
	"2", "HEADER",
	"9", "$ACADVER",
	"1", "AC1015",
	"0", "ENDSEC",
	"0", "SECTION",
	"2", "TABLES",
	"0", "ENDSEC",
	"0", "SECTION",
	"2", "ENTITIES",
	"0", "ENDSEC",
	"0", "EOF",
}

func TestSerialize_Empty(t *testing.T) {
	got := Serialize(nil, Options{CanvasHeight: 100})

	want := strings.Join(emptyDocument, "\r\n") + "\r\n"
	if string(got) != want {
		t.Errorf("empty document mismatch:\ngot  %q\nwant %q", got, want)
	}

	again := Serialize([]geometry.Polyline{}, Options{CanvasHeight: 100})
	if !bytes.Equal(got, again) {
		t.Error("empty document is not byte-stable")
	}
}

func TestSerialize_ClosedSquare(t *testing.T) {
	got := lines(Serialize([]geometry.Polyline{square()}, Options{CanvasHeight: 10, Scale: 1}))

	want := append([]string{}, emptyDocument[:20]...)
	want = append(want,
		"0", "LWPOLYLINE",
		"90", "5",
		"70", "1",
		"10", "0.000000", "20", "10.000000",
		"10", "10.000000", "20", "10.000000",
		"10", "10.000000", "20", "0.000000",
		"10", "0.000000", "20", "0.000000",
		"10", "0.000000", "20", "10.000000",
		"0", "ENDSEC",
		"0", "EOF",
	)

	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), strings.Join(got, "|"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewDocument_TransformAndClosure(t *testing.T) {
	open := geometry.Polyline{SourceID: "a", Points: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}
	nearlyClosed := geometry.Polyline{SourceID: "b", Points: []geometry.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 1, Y: 0}}}

	doc := NewDocument([]geometry.Polyline{open, nearlyClosed}, Options{CanvasHeight: 20, Scale: 2})
	if len(doc.Entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(doc.Entities))
	}

	e := doc.Entities[0]
	if e.Closed {
		t.Error("open line flagged closed")
	}
	if e.Vertices[1] != (geometry.Point{X: 20, Y: 40}) {
		t.Errorf("transform: got %+v, want {20 40}", e.Vertices[1])
	}

	// Endpoints are 1px apart before scaling, 2 units after: not closed at 1.5.
	if doc.Entities[1].Closed {
		t.Error("closure must be measured on scaled vertices")
	}

	doc = NewDocument([]geometry.Polyline{nearlyClosed}, Options{CanvasHeight: 20, Scale: 1})
	if !doc.Entities[0].Closed {
		t.Error("endpoints 1 unit apart should be closed")
	}
}

func TestNewDocument_SkipsShortPolylines(t *testing.T) {
	polys := []geometry.Polyline{
		{SourceID: "empty"},
		{SourceID: "dot", Points: []geometry.Point{{X: 1, Y: 1}}},
		square(),
	}
	doc := NewDocument(polys, Options{CanvasHeight: 10})
	if len(doc.Entities) != 1 || doc.Entities[0].SourceID != "top_contour_0" {
		t.Errorf("got %+v, want only the square", doc.Entities)
	}
}

func TestOptions_InvalidFallsBack(t *testing.T) {
	base := Serialize([]geometry.Polyline{square()}, Options{CanvasHeight: 10, Scale: 1, CloseTolerance: 1.5})

	for _, opts := range []Options{
		{CanvasHeight: 10, Scale: 0},
		{CanvasHeight: 10, Scale: -3, CloseTolerance: -1},
	} {
		if got := Serialize([]geometry.Polyline{square()}, opts); !bytes.Equal(got, base) {
			t.Errorf("Options %+v: output differs from defaults", opts)
		}
	}
}

func TestSerialize_ByteStable(t *testing.T) {
	polys := []geometry.Polyline{
		square(),
		{SourceID: "x", Points: []geometry.Point{{X: 1.25, Y: 3.5}, {X: 7.125, Y: 9}}},
	}
	first := Serialize(polys, Options{CanvasHeight: 10})
	for i := 0; i < 10; i++ {
		if !bytes.Equal(first, Serialize(polys, Options{CanvasHeight: 10})) {
			t.Fatal("output changed between runs")
		}
	}
}

func TestSerialize_NoNegativeZero(t *testing.T) {
	// y == canvasHeight flips to exactly zero; a negative scale product must
	// never print as -0.000000.
	poly := geometry.Polyline{Points: []geometry.Point{{X: 0, Y: 10}, {X: -0.0000001, Y: 10}}}
	out := string(Serialize([]geometry.Polyline{poly}, Options{CanvasHeight: 10}))
	if strings.Contains(out, "-0.000000") {
		t.Errorf("negative zero in output:\n%s", out)
	}
}

func TestSerialize_EmitLayers(t *testing.T) {
	got := lines(Serialize([]geometry.Polyline{square()}, Options{CanvasHeight: 10, EmitLayers: true}))

	// Entity starts right after "2 ENTITIES".
	entity := got[20:28]
	want := []string{"0", "LWPOLYLINE", "8", "DECK_SHAPE", "62", "4", "90", "5"}
	for i := range want {
		if entity[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", 20+i, entity[i], want[i])
		}
	}
}

func TestWriteTo_ReportsBytes(t *testing.T) {
	doc := NewDocument([]geometry.Polyline{square()}, Options{CanvasHeight: 10})
	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d, buffer holds %d", n, buf.Len())
	}
	if !bytes.Equal(buf.Bytes(), doc.Bytes()) {
		t.Error("WriteTo and Bytes disagree")
	}
}

func TestColorIndex(t *testing.T) {
	tests := []struct {
		hex  string
		want int
	}{
		{"#FF0000", 1},
		{"#FFFF00", 2},
		{"#00FF00", 3},
		{"#00FFFF", 4},
		{"#0000FF", 5},
		{"#FF00FF", 6},
		{"#FFFFFF", 7},
		{"#EE1111", 1},
		{"", 256},
		{"not-a-colour", 256},
	}
	for _, tt := range tests {
		if got := ColorIndex(tt.hex); got != tt.want {
			t.Errorf("ColorIndex(%q) = %d, want %d", tt.hex, got, tt.want)
		}
	}
}
