package ocr

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/ironsheep/textart-gen/internal/synth"
)

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("ocr: tesseract support not compiled in (requires cgo)")

// DefaultLanguage is used when no language is given.
const DefaultLanguage = "eng"

// Recognizer turns an image file into text.
type Recognizer interface {
	Recognize(path string) (string, error)
}

// Match is the verification outcome for one image.
type Match struct {
	Path  string `json:"path"`
	Want  string `json:"want"`
	Got   string `json:"got"`
	Match bool   `json:"match"`
	Error string `json:"error,omitempty"`
}

// Report summarizes a verification run.
type Report struct {
	Total    int     `json:"total"`
	Matched  int     `json:"matched"`
	Errors   int     `json:"errors"`
	Accuracy float64 `json:"accuracy"` // Matched / Total, 0 for an empty manifest
	Results  []Match `json:"results"`
}

// Normalize drops all whitespace from s.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// VerifyLabels runs rec over every labeled image. A recognition error is
// recorded against its image and does not stop the run; a cancelled context
// does.
func VerifyLabels(ctx context.Context, rec Recognizer, labels []synth.Label) (*Report, error) {
	report := &Report{Results: make([]Match, 0, len(labels))}

	for _, l := range labels {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		m := Match{Path: l.Path, Want: l.Text}
		got, err := rec.Recognize(l.Path)
		if err != nil {
			m.Error = err.Error()
			report.Errors++
		} else {
			m.Got = Normalize(got)
			m.Match = m.Got == Normalize(l.Text)
		}
		if m.Match {
			report.Matched++
		}
		report.Results = append(report.Results, m)
	}

	report.Total = len(report.Results)
	if report.Total > 0 {
		report.Accuracy = float64(report.Matched) / float64(report.Total)
	}
	return report, nil
}
