package regions

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
	"github.com/ironsheep/ga-vector-mcp/internal/view"
)

// Label is a recognized word with its location on the page.
type Label struct {
	Text string               `json:"text"`
	Box  geometry.BoundingBox `json:"box"`
}

// KeywordTable lists, per view, the uppercase caption words that name it.
type KeywordTable map[view.View][]string

// DefaultKeywords returns the caption words found on typical GA sheets.
func DefaultKeywords() KeywordTable {
	return KeywordTable{
		view.Side: {"PROFILE", "ELEVATION", "SIDE", "INBOARD"},
		view.Top:  {"PLAN", "TOP"},
		view.Body: {"BODY", "SECTION", "SECTIONS", "MIDSHIP"},
	}
}

// LabelAssignment maps a view to the caption chosen for it.
type LabelAssignment map[view.View]Label

// lookup returns the view whose keyword list contains word, checking views in
// page order so a word listed twice resolves the same way every time.
func (kw KeywordTable) lookup(word string) (view.View, bool) {
	for _, v := range view.PageViews {
		for _, k := range kw[v] {
			if k == word {
				return v, true
			}
		}
	}
	return view.Unknown, false
}

// AssignByLabels matches OCR tokens against the keyword table and keeps, per
// view, the matching token with the largest box. Ties keep the earlier token.
func AssignByLabels(tokens []Label, kw KeywordTable) LabelAssignment {
	upper := cases.Upper(language.Und)
	out := make(LabelAssignment)

	for _, tok := range tokens {
		word := strings.Trim(upper.String(strings.TrimSpace(tok.Text)), ".,:;-_()[]'\"")
		if word == "" {
			continue
		}
		v, ok := kw.lookup(word)
		if !ok {
			continue
		}
		if cur, seen := out[v]; seen && cur.Box.Area() >= tok.Box.Area() {
			continue
		}
		out[v] = tok
	}
	return out
}

// AnchorLabels resolves each caption to the region it names.
//
// For every labelled view, in page order, the largest unused candidate whose
// box contains the caption centre is chosen; when none contains it, the
// candidate with the nearest centre is used. Views without a caption are then
// filled by the aspect rules of Assign from the candidates that remain.
func AnchorLabels(labels LabelAssignment, candidates []geometry.Candidate, t Thresholds) ViewAssignment {
	out := make(ViewAssignment, len(view.PageViews))
	if len(candidates) == 0 {
		return out
	}

	sorted := sortByArea(candidates)
	consumed := make([]bool, len(sorted))

	for _, v := range view.PageViews {
		lbl, ok := labels[v]
		if !ok {
			continue
		}
		if i := anchor(lbl.Box.Center(), sorted, consumed); i >= 0 {
			out[v] = sorted[i]
			consumed[i] = true
		}
	}

	assignSorted(out, sorted, consumed, t)
	return out
}

// anchor returns the index of the best unused candidate for a caption centred
// at p, or -1 when every candidate is used.
func anchor(p geometry.Point, sorted []geometry.Candidate, consumed []bool) int {
	for i, c := range sorted {
		if !consumed[i] && c.Box.Contains(p) {
			return i
		}
	}

	best := -1
	bestDist := math.Inf(1)
	for i, c := range sorted {
		if consumed[i] {
			continue
		}
		if d := c.Box.Center().Distance(p); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
