// Package ocr locates instruction text with Tesseract.
//
// The structure detector only needs to know WHERE the instruction text sits, not
// what it says. Tesseract runs over the top of a screenshot and the word boxes it
// reports are merged into a single full-width instruction band.
//
// # Build Tags
//
// The Tesseract backend (github.com/otiai10/gosseract/v2) needs cgo and the
// Tesseract libraries, so it is compiled only with the ocr build tag. Without it
// Tesseract.Words returns ErrUnavailable and the detector keeps its brightness
// profile estimate.
//
// # Prerequisites
//
// With the ocr tag, Tesseract and the language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The default language is English ("eng"). Set TessdataPrefix to use language
// data outside the system location.
package ocr
