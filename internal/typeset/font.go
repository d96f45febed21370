package typeset

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ErrFontLoad is returned when a font file cannot be read or parsed.
var ErrFontLoad = errors.New("font load failed")

// BuiltinPrefix marks a font reference that resolves to an embedded font.
const BuiltinPrefix = "builtin:"

// DPI used for all faces; at 72 DPI one point equals one pixel.
const DPI = 72

var builtinFonts = map[string][]byte{
	"goregular": goregular.TTF,
	"gomono":    gomono.TTF,
}

// Font is a parsed font with a cache of faces keyed by integer size.
type Font struct {
	ref    string
	parsed *opentype.Font

	mu    sync.RWMutex
	faces map[int]font.Face
}

// LoadFont reads and parses the font named by ref.
//
// ref is a file path, optionally followed by "#N" to pick the N-th face of a
// collection, or "builtin:<name>" for an embedded font. Any failure wraps
// ErrFontLoad.
func LoadFont(ref string) (*Font, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: no font path given", ErrFontLoad)
	}

	path, index := splitFaceIndex(ref)

	var data []byte
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		data, ok = builtinFonts[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown builtin font %q", ErrFontLoad, name)
		}
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFontLoad, err)
		}
	}

	return parseFont(ref, data, index)
}

// ParseFont parses font data that is already in memory.
func ParseFont(name string, data []byte) (*Font, error) {
	return parseFont(name, data, 0)
}

func parseFont(ref string, data []byte, index int) (*Font, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrFontLoad, ref, err)
	}
	if index < 0 || index >= coll.NumFonts() {
		return nil, fmt.Errorf("%w: %s has %d faces, index %d out of range", ErrFontLoad, ref, coll.NumFonts(), index)
	}
	parsed, err := coll.Font(index)
	if err != nil {
		return nil, fmt.Errorf("%w: face %d of %s: %w", ErrFontLoad, index, ref, err)
	}

	return &Font{
		ref:    ref,
		parsed: parsed,
		faces:  make(map[int]font.Face),
	}, nil
}

// splitFaceIndex separates a trailing "#N" collection index from ref.
func splitFaceIndex(ref string) (string, int) {
	i := strings.LastIndexByte(ref, '#')
	if i < 0 {
		return ref, 0
	}
	n, err := strconv.Atoi(ref[i+1:])
	if err != nil {
		return ref, 0
	}
	return ref[:i], n
}

// Ref returns the reference the font was loaded from.
func (f *Font) Ref() string { return f.ref }

// Name returns the full font name from the name table, or the reference when
// the table has no usable entry.
func (f *Font) Name() string {
	var buf sfnt.Buffer
	name, err := f.parsed.Name(&buf, sfnt.NameIDFull)
	if err != nil || name == "" {
		return f.ref
	}
	return name
}

// Face returns the face for the given pixel size, creating and caching it on
// first use.
func (f *Font) Face(size int) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %d", size)
	}

	f.mu.RLock()
	face, ok := f.faces[size]
	f.mu.RUnlock()
	if ok {
		return face, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face at %dpx: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// Measure returns the rendered width and height of text at size, in pixels.
func (f *Font) Measure(text string, size int) (int, int, error) {
	face, err := f.Face(size)
	if err != nil {
		return 0, 0, err
	}
	w, h := MeasureFace(face, text)
	return w, h, nil
}

// MeasureFace returns the width and height of text rendered with face.
func MeasureFace(face font.Face, text string) (int, int) {
	m := face.Metrics()
	width := font.MeasureString(face, text).Ceil()
	height := (m.Ascent + m.Descent).Ceil()
	return width, height
}

// CachedSizes returns how many faces are currently cached.
func (f *Font) CachedSizes() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.faces)
}

// Close releases all cached faces. The Font remains usable; faces are
// recreated on demand.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for size, face := range f.faces {
		if err := face.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close face %dpx: %w", size, err))
		}
	}
	f.faces = make(map[int]font.Face)
	return errors.Join(errs...)
}
