//go:build !cgo

package ocr

import "context"

// Word is one recognized word with its box in image coordinates.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
}

// Result holds the text recognized in one image.
type Result struct {
	FullText string `json:"full_text"`
	Words    []Word `json:"words"`
}

// ExtractText always fails without cgo.
func ExtractText(path, language string) (*Result, error) {
	return nil, ErrUnavailable
}

// Verify always fails without cgo.
func Verify(ctx context.Context, labelsFile, language string) (*Report, error) {
	return nil, ErrUnavailable
}
