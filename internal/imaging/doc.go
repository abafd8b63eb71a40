// Package imaging loads drawing rasters and renders visual feedback for the
// vectorizer.
//
// Supported inputs are PNG, JPEG, GIF and TIFF images plus scanned PDFs. For
// a PDF the largest raster embedded on page 1 is used; later pages are
// ignored.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (X, Y) is inclusive and (X+W, Y+H) is exclusive
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Crop and overlay functions
// never mutate their input and return new images.
package imaging
