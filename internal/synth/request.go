package synth

import (
	"errors"
	"fmt"

	"github.com/ironsheep/textart-gen/internal/charset"
	"github.com/ironsheep/textart-gen/internal/imaging"
	"github.com/ironsheep/textart-gen/internal/typeset"
)

// Errors surfaced by Generate. The ones defined elsewhere are re-exported so
// callers only need this package for errors.Is checks.
var (
	ErrUnknownFilenameMode = errors.New("unknown filename mode")
	ErrInvalidRequest      = errors.New("invalid request")

	ErrEmptyAlphabet      = charset.ErrEmptyAlphabet
	ErrInfeasibleFontSize = typeset.ErrInfeasibleFontSize
	ErrFontLoad           = typeset.ErrFontLoad
	ErrImageWrite         = imaging.ErrImageWrite
)

// FilenameMode controls how output files are named.
type FilenameMode string

const (
	FilenameNumbered FilenameMode = "numbered"
	FilenameText     FilenameMode = "text"
)

// Request holds the parameters of one batch.
type Request struct {
	Width  int
	Height int

	// FontPath is a font file, optionally with a "#N" collection index, or a
	// "builtin:" reference.
	FontPath string

	Count      int
	TextLength int

	Mode       imaging.ColorMode
	FontColor  *imaging.Color // nil: random (RGB) or black (Gray)
	Background *imaging.Color // nil: white

	OutputDir    string
	FilenameMode FilenameMode
	Format       string

	// LabelsFile, when set, receives one "<file name>\t<text>" line per
	// image file left on disk. A file overwritten within the batch keeps a
	// single line with its latest text. Relative paths are resolved against
	// OutputDir. The manifest is written when the batch ends, including when
	// it stops early.
	LabelsFile string

	// BlurRadius applies a gaussian blur after rendering when positive.
	BlurRadius float64

	// ContinueOnWriteError records failed image writes in the report instead
	// of aborting the batch. Labels are only written once all images are
	// done, so a manifest failure is returned together with the full report.
	ContinueOnWriteError bool
}

// DefaultRequest returns a request with the stock settings: ten 3-character
// color images, numbered, saved as jpg under "data". Width, Height and
// FontPath have no default.
func DefaultRequest() Request {
	return Request{
		Count:        10,
		TextLength:   3,
		Mode:         imaging.RGB,
		OutputDir:    "data",
		FilenameMode: FilenameNumbered,
		Format:       "jpg",
	}
}

// Validate checks everything that can be checked without touching the disk.
func (r Request) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d must be positive", ErrInvalidRequest, r.Width, r.Height)
	}
	if r.Count < 0 {
		return fmt.Errorf("%w: image count %d is negative", ErrInvalidRequest, r.Count)
	}
	if r.TextLength < 0 {
		return fmt.Errorf("%w: text length %d is negative", ErrInvalidRequest, r.TextLength)
	}
	if r.Mode != imaging.RGB && r.Mode != imaging.Gray {
		return fmt.Errorf("%w: unknown color mode %q", ErrInvalidRequest, r.Mode)
	}
	if r.OutputDir == "" {
		return fmt.Errorf("%w: output directory is empty", ErrInvalidRequest)
	}
	switch r.FilenameMode {
	case FilenameNumbered, FilenameText:
	default:
		return fmt.Errorf("%w: %q (valid: %s, %s)", ErrUnknownFilenameMode, r.FilenameMode, FilenameNumbered, FilenameText)
	}
	if _, err := imaging.FormatFromName(r.Format); err != nil {
		return err
	}
	return nil
}
