// Package typeset loads fonts, measures text and finds the largest font size
// that fits a canvas.
//
// # Fonts
//
// LoadFont parses a font file once. TrueType collections are accepted; a face
// other than the first is selected with a "#N" suffix on the path, e.g.
// "/usr/share/fonts/noto/NotoSansCJK-Regular.ttc#1". The references
// "builtin:goregular" and "builtin:gomono" select the Go fonts bundled with
// golang.org/x/image.
//
// Faces are created lazily per integer size and cached on the Font, so the
// probes of a size search and the final render share faces. Font is safe for
// concurrent use; Close releases every cached face.
//
// # Measurement
//
// Measure returns the pixel width and height of a single line of text at a
// given size. The width is the summed glyph advance (with kerning). The height
// is the face's ascent plus descent, so it does not depend on which glyphs are
// in the string. Hinting is disabled to keep both values monotone in the size;
// FitSize relies on that.
//
// # Size Fitting
//
// FitSize binary-searches sizes 1..1000 for the largest size whose measured
// width and height are both strictly below 90% of the canvas. When not even
// size 1 fits, it returns an *InfeasibleFontSizeError.
package typeset
