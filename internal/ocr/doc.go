// Package ocr reads the printed view captions of a drawing ("PROFILE",
// "PLAN", "BODY PLAN", ...) with Tesseract through gosseract.
//
// Only word-level text and boxes are needed: the caption words are matched
// against a keyword table elsewhere to decide which page region holds which
// view.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// A non-default tessdata directory can be passed as tessdataPrefix.
package ocr
