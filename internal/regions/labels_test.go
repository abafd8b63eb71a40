package regions

import (
	"testing"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
	"github.com/ironsheep/ga-vector-mcp/internal/view"
)

func label(text string, x, y, w, h float64) Label {
	return Label{Text: text, Box: geometry.BoundingBox{X: x, Y: y, W: w, H: h}}
}

func TestAssignByLabels(t *testing.T) {
	tokens := []Label{
		label("General", 0, 0, 80, 20),
		label("profile", 100, 300, 60, 12),
		label("PROFILE:", 100, 500, 120, 24), // larger, wins
		label("Plan", 100, 700, 50, 12),
		label("body", 900, 100, 40, 12),
		label("  ", 0, 0, 10, 10),
	}

	got := AssignByLabels(tokens, DefaultKeywords())

	if len(got) != 3 {
		t.Fatalf("got %d labels, want 3: %v", len(got), got)
	}
	if got[view.Side].Text != "PROFILE:" {
		t.Errorf("side: got %q", got[view.Side].Text)
	}
	if got[view.Top].Text != "Plan" {
		t.Errorf("top: got %q", got[view.Top].Text)
	}
	if got[view.Body].Text != "body" {
		t.Errorf("body: got %q", got[view.Body].Text)
	}
}

func TestAssignByLabels_TieKeepsFirst(t *testing.T) {
	tokens := []Label{
		label("PLAN", 0, 0, 50, 10),
		label("TOP", 300, 0, 50, 10),
	}
	got := AssignByLabels(tokens, DefaultKeywords())
	if got[view.Top].Text != "PLAN" {
		t.Errorf("tie: got %q, want first token", got[view.Top].Text)
	}
}

func TestAssignByLabels_NoMatches(t *testing.T) {
	got := AssignByLabels([]Label{label("HULL", 0, 0, 10, 10)}, DefaultKeywords())
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestAnchorLabels(t *testing.T) {
	cands := []geometry.Candidate{
		box(0, 0, 0, 1000, 250),     // side-shaped, top of page
		box(1, 0, 300, 1000, 500),   // top-shaped
		box(2, 1100, 0, 300, 300),   // body-shaped
	}

	// A caption placed inside the second box claims it for side even though
	// its shape says top.
	labels := LabelAssignment{view.Side: label("PROFILE", 400, 500, 100, 20)}

	got := AnchorLabels(labels, cands, DefaultThresholds())

	if got[view.Side].Index != 1 {
		t.Errorf("side: got %d, want 1", got[view.Side].Index)
	}
	// Remaining boxes go through the shape rules: box 0 (aspect 4) cannot be
	// side any more and is not top-shaped, box 2 is body.
	if got[view.Body].Index != 2 {
		t.Errorf("body: got %d, want 2", got[view.Body].Index)
	}
	if got[view.Top].Index != 0 {
		t.Errorf("top fallback: got %d, want 0", got[view.Top].Index)
	}
}

func TestAnchorLabels_NearestWhenOutside(t *testing.T) {
	cands := []geometry.Candidate{
		box(0, 0, 0, 100, 100),
		box(1, 500, 0, 100, 100),
	}
	// Caption below the second box.
	labels := LabelAssignment{view.Body: label("BODY", 530, 120, 40, 10)}

	got := AnchorLabels(labels, cands, DefaultThresholds())
	if got[view.Body].Index != 1 {
		t.Errorf("body: got %d, want nearest candidate 1", got[view.Body].Index)
	}
}

func TestAnchorLabels_Empty(t *testing.T) {
	got := AnchorLabels(LabelAssignment{view.Top: label("PLAN", 0, 0, 1, 1)}, nil, DefaultThresholds())
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
