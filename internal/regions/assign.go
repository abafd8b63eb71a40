package regions

import (
	"sort"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
	"github.com/ironsheep/ga-vector-mcp/internal/view"
)

// Thresholds holds the aspect-ratio rules used by Assign and the size filter
// applied to raw candidates.
type Thresholds struct {
	// SideMinAspect is the minimum w/h for a side elevation.
	SideMinAspect float64 `json:"side_min_aspect"`
	// TopMinAspect is the minimum w/h for a plan view (exclusive upper bound
	// is SideMinAspect).
	TopMinAspect float64 `json:"top_min_aspect"`
	// BodyMinAspect and BodyMaxAspect bound the body plan, inclusive.
	BodyMinAspect float64 `json:"body_min_aspect"`
	BodyMaxAspect float64 `json:"body_max_aspect"`

	// MinAreaFraction drops candidates smaller than this share of the page.
	MinAreaFraction float64 `json:"min_area_fraction"`
	// MinSideFraction drops candidates narrower or shorter than this share of
	// the page width or height.
	MinSideFraction float64 `json:"min_side_fraction"`
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SideMinAspect:   3.5,
		TopMinAspect:    1.6,
		BodyMinAspect:   0.6,
		BodyMaxAspect:   1.6,
		MinAreaFraction: 0.0005,
		MinSideFraction: 0.05,
	}
}

// ViewAssignment maps a view to the candidate chosen for it. A view that is
// absent from the map is unavailable downstream.
type ViewAssignment map[view.View]geometry.Candidate

// Get returns the candidate assigned to v.
func (a ViewAssignment) Get(v view.View) (geometry.Candidate, bool) {
	c, ok := a[v]
	return c, ok
}

// Views returns the assigned views in page fallback order (side, top, body).
func (a ViewAssignment) Views() []view.View {
	out := make([]view.View, 0, len(a))
	for _, v := range view.PageViews {
		if _, ok := a[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Assign chooses at most one candidate per page view.
//
// Candidates are considered largest first (stable, so equal areas keep
// discovery order). Each candidate fills the first still-empty slot whose
// rule it satisfies, checked in the order side, top, body. Views left empty
// after that pass take the largest remaining candidates regardless of shape:
// side first, then top, then body.
//
// An empty candidate list yields an empty assignment.
func Assign(candidates []geometry.Candidate, t Thresholds) ViewAssignment {
	out := make(ViewAssignment, len(view.PageViews))
	if len(candidates) == 0 {
		return out
	}

	sorted := sortByArea(candidates)
	assignSorted(out, sorted, make([]bool, len(sorted)), t)
	return out
}

// sortByArea returns a copy of candidates ordered by area, largest first.
// Equal areas keep discovery order.
func sortByArea(candidates []geometry.Candidate) []geometry.Candidate {
	sorted := make([]geometry.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area > sorted[j].Area
	})
	return sorted
}

// assignSorted fills the empty slots of out from sorted, skipping entries
// already marked consumed: first by aspect rule, then by size.
func assignSorted(out ViewAssignment, sorted []geometry.Candidate, consumed []bool, t Thresholds) {
	for i, c := range sorted {
		if consumed[i] {
			continue
		}
		v, ok := t.match(c.Box.Aspect(), out)
		if !ok {
			continue
		}
		out[v] = c
		consumed[i] = true
	}

	next := 0
	for _, v := range view.PageViews {
		if _, filled := out[v]; filled {
			continue
		}
		for next < len(sorted) && consumed[next] {
			next++
		}
		if next == len(sorted) {
			return
		}
		out[v] = sorted[next]
		consumed[next] = true
	}
}

// match returns the first unfilled view whose aspect rule accepts aspect.
func (t Thresholds) match(aspect float64, filled ViewAssignment) (view.View, bool) {
	if _, ok := filled[view.Side]; !ok && aspect >= t.SideMinAspect {
		return view.Side, true
	}
	if _, ok := filled[view.Top]; !ok && aspect >= t.TopMinAspect && aspect < t.SideMinAspect {
		return view.Top, true
	}
	if _, ok := filled[view.Body]; !ok && aspect >= t.BodyMinAspect && aspect <= t.BodyMaxAspect {
		return view.Body, true
	}
	return view.Unknown, false
}

// FilterCandidates removes candidates that are too small to be a view on a
// page of the given size. Order is preserved.
func FilterCandidates(candidates []geometry.Candidate, pageW, pageH float64, t Thresholds) []geometry.Candidate {
	minArea := t.MinAreaFraction * pageW * pageH
	minW := t.MinSideFraction * pageW
	minH := t.MinSideFraction * pageH

	out := make([]geometry.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Area < minArea || c.Box.W < minW || c.Box.H < minH {
			continue
		}
		out = append(out, c)
	}
	return out
}
