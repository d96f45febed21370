package synth

import (
	"strconv"
	"strings"
	"unicode"
)

// SanitizeFilename replaces every rune that is not a Unicode letter or number
// with '_'.
func SanitizeFilename(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return '_'
	}, text)
}

// FileName returns the name of the index-th image (1-based) for the given
// mode. The mode must already be validated.
func FileName(mode FilenameMode, index int, text, format string) string {
	ext := "." + strings.TrimPrefix(format, ".")
	if mode == FilenameText {
		return SanitizeFilename(text) + ext
	}
	return "text_image_" + strconv.Itoa(index) + ext
}
