// Package geometry defines the value types shared by every stage of the
// drawing vectorizer: points, bounding boxes, traced contours, region
// candidates and simplified polylines.
//
// # Coordinate System
//
// All coordinates are in image (page or canvas) pixel space:
//   - Origin (0, 0) at the top-left corner
//   - X increases rightward
//   - Y increases downward
//
// The vertical flip to a bottom-left origin happens only when polylines are
// written to a DXF document (see package dxf).
//
// # Immutability
//
// Points, boxes and candidates are plain values. Contours and polylines hold
// slices; functions in this module never mutate a slice they were handed and
// always return fresh slices, so results can be shared between goroutines
// without copying.
package geometry
