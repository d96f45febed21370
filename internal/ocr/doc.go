// Package ocr checks generated datasets with the Tesseract OCR engine.
//
// Verify reads the labels manifest written by a synth batch, runs Tesseract
// on every listed image and compares the recognized string with the label.
// The comparison ignores whitespace, since Tesseract adds line breaks and the
// generated strings never contain spaces.
//
// # Prerequisites
//
// Tesseract is reached through gosseract/v2 and needs cgo plus the native
// library and language data:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-jpn
//   - macOS: brew install tesseract tesseract-lang
//
// Binaries built with CGO_ENABLED=0 still compile; ExtractText and Verify
// then return ErrUnavailable.
//
// # Languages
//
// The language argument is a Tesseract code such as "eng" or "jpn". Use a
// "+" list ("eng+jpn") for mixed alphabets.
package ocr
