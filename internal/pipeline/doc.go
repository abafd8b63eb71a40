// Package pipeline runs the vectorizer end to end and returns a caller-owned
// Result.
//
// Per view, every contour is classified and simplified independently on a
// bounded worker pool. Results are written into pre-sized slices by contour
// index, so output order always equals discovery order no matter how the
// workers are scheduled.
//
// Page mode adds region discovery in front: candidates from the tracer are
// assigned to views (by caption words when available, otherwise by shape),
// each view is cropped and then processed like a single-view image.
package pipeline
