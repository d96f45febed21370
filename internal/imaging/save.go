package imaging

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrImageWrite is returned when an image cannot be encoded or written.
var ErrImageWrite = errors.New("image write failed")

// DefaultJPEGQuality is used for jpg/jpeg output.
const DefaultJPEGQuality = 75

// FormatFromName maps a file extension such as "jpg", ".PNG" or "tiff" to an
// encoder format.
func FormatFromName(name string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(name, "."))
	if err != nil {
		return -1, fmt.Errorf("%w: unsupported format %q", ErrImageWrite, name)
	}
	return f, nil
}

// Save encodes img in the named format and writes it to path, replacing any
// existing file. The file is closed on every return path.
func Save(img image.Image, path, format string) (err error) {
	f, err := FormatFromName(format)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImageWrite, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrImageWrite, path, cerr)
		}
	}()

	if err := imaging.Encode(out, img, f, imaging.JPEGQuality(DefaultJPEGQuality)); err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrImageWrite, path, err)
	}
	return nil
}
