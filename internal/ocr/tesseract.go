//go:build cgo

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/textart-gen/internal/synth"
)

// Word is one recognized word with its box in image coordinates.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0..1
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

// ExtractText runs Tesseract on the image at path.
//
// Word boxes are best effort: if Tesseract cannot produce them the text is
// still returned with an empty Words slice.
func ExtractText(path, language string) (*Result, error) {
	if language == "" {
		language = DefaultLanguage
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("set language %q: %w", language, err)
	}
	// generated images hold exactly one line
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return nil, fmt.Errorf("set page segmentation: %w", err)
	}
	if err := client.SetImage(path); err != nil {
		return nil, fmt.Errorf("set image %s: %w", path, err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize %s: %w", path, err)
	}

	result := &Result{FullText: text, Words: []Word{}}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return result, nil
	}
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		result.Words = append(result.Words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			X1:         box.Box.Min.X,
			Y1:         box.Box.Min.Y,
			X2:         box.Box.Max.X,
			Y2:         box.Box.Max.Y,
		})
	}
	return result, nil
}

// Tesseract is a Recognizer backed by ExtractText.
type Tesseract struct {
	Language string
}

// Recognize implements Recognizer.
func (t Tesseract) Recognize(path string) (string, error) {
	res, err := ExtractText(path, t.Language)
	if err != nil {
		return "", err
	}
	return res.FullText, nil
}

// Verify checks every image listed in the labels manifest.
func Verify(ctx context.Context, labelsFile, language string) (*Report, error) {
	labels, err := synth.ReadLabels(labelsFile)
	if err != nil {
		return nil, err
	}
	return VerifyLabels(ctx, Tesseract{Language: language}, labels)
}
