// Package view enumerates the drawing views of a General Arrangement plan.
//
// A GA drawing shows the vessel from three directions: the plan (top) view,
// the side elevation and the body plan of transverse sections. The body plan
// is also called the profile view by the upload forms this tool grew out of,
// so Profile and Body select the same classification rules.
package view

import (
	"fmt"
	"strings"
)

// View is a closed enumeration of drawing views.
type View int

const (
	// Unknown is any view name the tool does not recognize.
	Unknown View = iota
	// Top is the plan view seen from above.
	Top
	// Side is the side elevation.
	Side
	// Profile is the body plan as named by per-view uploads.
	Profile
	// Body is the body plan of transverse sections.
	Body
)

// All lists the recognized views in their canonical processing order.
var All = []View{Top, Side, Profile, Body}

// PageViews lists the slots a full-page region assignment fills, in fallback
// priority order.
var PageViews = []View{Side, Top, Body}

func (v View) String() string {
	switch v {
	case Top:
		return "top"
	case Side:
		return "side"
	case Profile:
		return "profile"
	case Body:
		return "body"
	default:
		return "unknown"
	}
}

// Parse maps a view name to a View. Matching is case-insensitive and
// surrounding whitespace is ignored. "plan" is accepted for Top.
func Parse(name string) View {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "top", "plan":
		return Top
	case "side":
		return Side
	case "profile":
		return Profile
	case "body":
		return Body
	default:
		return Unknown
	}
}

// IsBodyPlan reports whether v shows transverse sections.
func (v View) IsBodyPlan() bool {
	return v == Profile || v == Body
}

// MarshalText implements encoding.TextMarshaler so views can be map keys in
// JSON results.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *View) UnmarshalText(text []byte) error {
	parsed := Parse(string(text))
	if parsed == Unknown {
		return fmt.Errorf("unknown view: %q", string(text))
	}
	*v = parsed
	return nil
}
