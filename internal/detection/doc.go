// Package detection turns raster drawings into geometry: page-level region
// candidates and per-view boundary contours.
//
// Two Tracer implementations exist. NativeTracer is pure Go and is always
// available. OpenCVTracer wraps gocv and is compiled only with the opencv
// build tag:
//
//	go build -tags opencv ./...
//
// Both follow the same pipeline:
//
//  1. Grayscale, then a 5x5 Gaussian blur
//  2. Canny edges with hysteresis (default thresholds 50/150)
//  3. Outermost boundary of every connected edge component
//  4. Straight horizontal, vertical and diagonal runs compressed to their
//     endpoints
//
// Contours are numbered in discovery order and named "<view>_contour_<i>".
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
package detection
