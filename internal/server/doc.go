// Package server exposes dataset generation as MCP (Model Context Protocol)
// tools.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0, one message per line, over any
// io.Reader/io.Writer pair (stdin/stdout in the binary):
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Dataset generation:
//   - charset_build: Alphabet size and preview for a set of character classes
//   - text_sample: Random strings from an alphabet
//   - font_fit_size: Largest font size that fits a canvas
//   - text_image_generate: Write a batch of images
//
// Inspection:
//   - image_info: Dimensions, format, channels
//   - image_sample_color: Color at a pixel
//   - image_dominant_colors: Most frequent colors
//   - dataset_verify_ocr: Read a batch back with Tesseract
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server. Files
// written by text_image_generate are evicted so later inspection sees the
// new content.
//
// # Error Handling
//
// Tool failures are JSON-RPC errors with code -32000 and the Go error string
// in data. Malformed lines get -32700, unknown methods -32601.
package server
