package typeset

import (
	"errors"
	"fmt"
)

// Search bounds and fill ratio for FitSize.
const (
	MinFontSize = 1
	MaxFontSize = 1000
	FillRatio   = 0.9
)

// ErrInfeasibleFontSize is matched by every *InfeasibleFontSizeError.
var ErrInfeasibleFontSize = errors.New("no font size fits the canvas")

// InfeasibleFontSizeError reports text that does not fit the canvas at any
// size in [MinFontSize, MaxFontSize].
type InfeasibleFontSizeError struct {
	Text         string
	CanvasWidth  int
	CanvasHeight int
	SearchResult int
}

func (e *InfeasibleFontSizeError) Error() string {
	return fmt.Sprintf("no font size fits %q in %dx%d canvas (search ended at %d)",
		e.Text, e.CanvasWidth, e.CanvasHeight, e.SearchResult)
}

// Is makes errors.Is(err, ErrInfeasibleFontSize) succeed.
func (e *InfeasibleFontSizeError) Is(target error) bool {
	return target == ErrInfeasibleFontSize
}

// Measurer measures a line of text at an integer font size. Both returned
// dimensions must be non-decreasing as size grows.
type Measurer interface {
	Measure(text string, size int) (width, height int, err error)
}

// Fits reports whether a w x h text box is strictly inside FillRatio of the
// canvas on both axes.
func Fits(w, h, canvasW, canvasH int) bool {
	return float64(w) < float64(canvasW)*FillRatio && float64(h) < float64(canvasH)*FillRatio
}

// FitSize returns the largest font size in [MinFontSize, MaxFontSize] at which
// text fits the canvas according to Fits.
//
// The search is a plain binary search: a feasible midpoint raises the lower
// bound, an infeasible one lowers the upper bound, and the final upper bound
// is the answer. A non-positive answer means nothing fits and is reported as
// an *InfeasibleFontSizeError rather than returned.
func FitSize(m Measurer, text string, canvasW, canvasH int) (int, error) {
	lower, upper := MinFontSize, MaxFontSize

	for lower <= upper {
		mid := (lower + upper) / 2
		w, h, err := m.Measure(text, mid)
		if err != nil {
			return 0, fmt.Errorf("measure at %d: %w", mid, err)
		}
		if Fits(w, h, canvasW, canvasH) {
			lower = mid + 1
		} else {
			upper = mid - 1
		}
	}

	if upper < MinFontSize {
		return 0, &InfeasibleFontSizeError{
			Text:         text,
			CanvasWidth:  canvasW,
			CanvasHeight: canvasH,
			SearchResult: upper,
		}
	}
	return upper, nil
}
