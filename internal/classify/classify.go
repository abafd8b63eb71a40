// Package classify assigns a semantic role, CAD layer and display colour to
// every traced contour of one drawing view.
//
// Rules are evaluated per view from the contour's bounding box alone, so
// classification is pure, deterministic and independent per contour:
//
//	Top      aspect > 3                               PLAN_OUTLINE  PLAN_OUTLINE  #FF0000
//	         otherwise                                DECK_SHAPE    DECK_SHAPE    #00FFFF
//	Side     h < 10% canvas height                    SHEER         SHEER         #FF0000
//	         w > 50% canvas width and minY below mid  KEEL          KEEL          #0000FF
//	         otherwise                                WATERLINE     WL            #00FFFF
//	Body     aspect < 0.5                             STATION       ST            #FF00FF
//	         otherwise                                BUTTOCK       BT            #FFFF00
//
// Profile uses the Body rules. Contours of an unknown view, and contours
// without points, stay UNASSIGNED with empty layer and colour.
package classify

import (
	"log/slog"

	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
	"github.com/ironsheep/ga-vector-mcp/internal/view"
)

// Role is the semantic meaning of a traced curve.
type Role string

const (
	Unassigned  Role = "UNASSIGNED"
	PlanOutline Role = "PLAN_OUTLINE"
	DeckShape   Role = "DECK_SHAPE"
	Sheer       Role = "SHEER"
	Keel        Role = "KEEL"
	Waterline   Role = "WATERLINE"
	Station     Role = "STATION"
	Buttock     Role = "BUTTOCK"
)

// Style is the layer name and hex colour attached to a role.
type Style struct {
	Layer string `json:"layer"`
	Color string `json:"color"`
}

var styles = map[Role]Style{
	PlanOutline: {Layer: "PLAN_OUTLINE", Color: "#FF0000"},
	DeckShape:   {Layer: "DECK_SHAPE", Color: "#00FFFF"},
	Sheer:       {Layer: "SHEER", Color: "#FF0000"},
	Keel:        {Layer: "KEEL", Color: "#0000FF"},
	Waterline:   {Layer: "WL", Color: "#00FFFF"},
	Station:     {Layer: "ST", Color: "#FF00FF"},
	Buttock:     {Layer: "BT", Color: "#FFFF00"},
}

// StyleOf returns the layer and colour for r. Unassigned has neither.
func StyleOf(r Role) Style {
	return styles[r]
}

// Rules holds the thresholds of the per-view rule table.
type Rules struct {
	// PlanOutlineMinAspect: top-view contours wider than this ratio are the
	// plan outline.
	PlanOutlineMinAspect float64 `json:"plan_outline_min_aspect"`
	// SheerMaxHeightFraction: side-view contours shorter than this share of
	// the canvas height are the sheer line.
	SheerMaxHeightFraction float64 `json:"sheer_max_height_fraction"`
	// KeelMinWidthFraction and KeelMinTopFraction: side-view contours wider
	// than the first share of the canvas and starting below the second share
	// of its height are the keel.
	KeelMinWidthFraction float64 `json:"keel_min_width_fraction"`
	KeelMinTopFraction   float64 `json:"keel_min_top_fraction"`
	// StationMaxAspect: body-plan contours narrower than this ratio are
	// stations.
	StationMaxAspect float64 `json:"station_max_aspect"`
}

// DefaultRules returns the tuned thresholds.
func DefaultRules() Rules {
	return Rules{
		PlanOutlineMinAspect:   3,
		SheerMaxHeightFraction: 0.10,
		KeelMinWidthFraction:   0.50,
		KeelMinTopFraction:     0.50,
		StationMaxAspect:       0.5,
	}
}

// Classified is a contour with its role, layer and colour.
type Classified struct {
	geometry.Contour
	Role  Role   `json:"role"`
	Layer string `json:"layer"`
	Color string `json:"color"`
}

// Classify labels every contour of one view traced from a canvasW x canvasH
// image. The output has the same length and order as contours.
func Classify(v view.View, contours []geometry.Contour, canvasW, canvasH float64, r Rules) []Classified {
	if v == view.Unknown && len(contours) > 0 {
		slog.Warn("Unrecognized view; contours left unassigned.", "contours", len(contours))
	}

	out := make([]Classified, len(contours))
	for i, c := range contours {
		out[i] = One(v, c, canvasW, canvasH, r)
	}
	return out
}

// One classifies a single contour.
func One(v view.View, c geometry.Contour, canvasW, canvasH float64, r Rules) Classified {
	role := r.roleOf(v, c.Points, canvasW, canvasH)
	s := StyleOf(role)
	return Classified{Contour: c, Role: role, Layer: s.Layer, Color: s.Color}
}

func (r Rules) roleOf(v view.View, pts []geometry.Point, canvasW, canvasH float64) Role {
	ext, ok := geometry.ExtentOf(pts)
	if !ok {
		return Unassigned
	}
	w, h := ext.ClampedSize()
	aspect := w / h

	switch v {
	case view.Top:
		if aspect > r.PlanOutlineMinAspect {
			return PlanOutline
		}
		return DeckShape

	case view.Side:
		switch {
		case h < r.SheerMaxHeightFraction*canvasH:
			return Sheer
		case w > r.KeelMinWidthFraction*canvasW && ext.MinY > r.KeelMinTopFraction*canvasH:
			return Keel
		default:
			return Waterline
		}

	case view.Profile, view.Body:
		if aspect < r.StationMaxAspect {
			return Station
		}
		return Buttock

	default:
		return Unassigned
	}
}

// Summary counts contours per role.
func Summary(cs []Classified) map[Role]int {
	out := make(map[Role]int)
	for _, c := range cs {
		out[c.Role]++
	}
	return out
}
