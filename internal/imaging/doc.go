// Package imaging provides the raster side of text image synthesis: canvas
// creation, centered text compositing, optional augmentation, encoding to
// disk, and read-back inspection of generated files.
//
// # Canvases and Color Modes
//
// A canvas is either full RGB (*image.RGBA) or single-channel grayscale
// (*image.Gray), chosen by ColorMode. Channels reports 3 or 1 accordingly;
// alpha is never counted because canvases are always opaque.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Text is placed with its
// line box (ascent plus descent) at ((W-w)/2, (H-h)/2), using integer
// division, so an odd leftover pixel goes to the right/bottom margin.
//
// # Colors
//
// Color holds 8-bit RGB. ParseColor accepts "#RRGGBB", "R,G,B" or a single
// gray level "0"-"255". In Gray mode a color is reduced to its luma. When no
// color is given, ResolveStyle applies the defaults: a random RGB foreground
// on white in RGB mode, black on white in Gray mode.
//
// # Output
//
// Save encodes through github.com/disintegration/imaging, so the file format
// is chosen by name: jpg/jpeg, png, gif, tif/tiff and bmp. Unsupported formats
// and I/O failures are reported as ErrImageWrite.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The drawing functions are stateless
// apart from the caller-supplied random source and the destination image.
package imaging
