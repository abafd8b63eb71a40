// Package dxf serializes simplified polylines into an ASCII DXF document.
//
// Output is byte-stable: entity order equals input order, numbers use fixed
// six-decimal formatting, records are CRLF terminated and no timestamps or
// handles are written. Every group code and every value sits on its own line.
//
// Coordinates are flipped against the source canvas height so the image's
// top-left origin maps to the drawing's bottom-left origin, then scaled:
//
//	(x, y) -> (x*scale, (canvasHeight-y)*scale)
//
// An entity is closed when its first and last transformed vertices are
// closer than Options.CloseTolerance. The closing vertex is kept as-is; the
// closed flag is carried by group 70.
package dxf
