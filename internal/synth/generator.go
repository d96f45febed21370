package synth

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/ironsheep/textart-gen/internal/charset"
	"github.com/ironsheep/textart-gen/internal/imaging"
	"github.com/ironsheep/textart-gen/internal/typeset"
)

// Generator renders random text images from a fixed alphabet.
//
// A Generator is not safe for concurrent use: the random source is shared by
// every call.
type Generator struct {
	alphabet charset.Alphabet
	rng      *rand.Rand
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for per-sample and per-batch messages.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a Generator over alphabet. rng drives both text sampling and
// random font colors; a nil rng is seeded from the runtime.
func New(alphabet charset.Alphabet, rng *rand.Rand, opts ...Option) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g := &Generator{
		alphabet: alphabet,
		rng:      rng,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromOptions builds the alphabet from opts and returns a Generator over it.
func NewFromOptions(opts charset.Options, rng *rand.Rand, genOpts ...Option) *Generator {
	return New(charset.Build(opts), rng, genOpts...)
}

// Alphabet returns the generator's alphabet.
func (g *Generator) Alphabet() charset.Alphabet { return g.alphabet }

// SampleText draws a random string of length characters.
func (g *Generator) SampleText(length int) (string, error) {
	return charset.Sample(g.rng, g.alphabet, length)
}

// Sample describes one written image.
type Sample struct {
	Index    int           `json:"index"` // 1-based position in the batch
	Text     string        `json:"text"`
	FontSize int           `json:"font_size"`
	Path     string        `json:"path"`
	Style    imaging.Style `json:"style"`
}

// Failure describes a sample that was skipped.
type Failure struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// Report summarizes a batch.
type Report struct {
	OutputDir  string    `json:"output_dir"`
	LabelsPath string    `json:"labels_path,omitempty"`
	Written    []Sample  `json:"written"`
	Failures   []Failure `json:"failures"`
}

func (r *Report) fail(index int, text string, err error) {
	r.Failures = append(r.Failures, Failure{Index: index, Text: text, Message: err.Error(), Err: err})
}

// Render fits text to the request's canvas and draws it. It returns the
// raster, the chosen font size and the resolved colors.
func (g *Generator) Render(f *typeset.Font, text string, req Request) (image.Image, int, imaging.Style, error) {
	style := imaging.ResolveStyle(req.Mode, req.FontColor, req.Background, g.rng)

	size, err := typeset.FitSize(f, text, req.Width, req.Height)
	if err != nil {
		return nil, 0, style, err
	}

	face, err := f.Face(size)
	if err != nil {
		return nil, 0, style, err
	}

	img, err := imaging.RenderText(face, text, req.Width, req.Height, style)
	if err != nil {
		return nil, 0, style, err
	}
	return imaging.Blur(img, req.BlurRadius), size, style, nil
}

// Generate runs one batch and writes req.Count images.
//
// The returned Report is non-nil whenever any image may have been written,
// including when a later error aborts the batch.
func (g *Generator) Generate(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Count > 0 && req.TextLength > 0 && g.alphabet.Empty() {
		return nil, fmt.Errorf("cannot generate %d-character text: %w", req.TextLength, ErrEmptyAlphabet)
	}

	f, err := typeset.LoadFont(req.FontPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	report := &Report{
		OutputDir: req.OutputDir,
		Written:   []Sample{},
		Failures:  []Failure{},
	}

	var labels *labelWriter
	if req.LabelsFile != "" {
		report.LabelsPath = labelsPath(req)
		labels, err = createLabels(report.LabelsPath)
		if err != nil {
			return nil, err
		}
		defer labels.Close()
	}

	g.logger.Info("starting batch",
		"count", req.Count, "length", req.TextLength, "size", fmt.Sprintf("%dx%d", req.Width, req.Height),
		"font", f.Name(), "mode", req.Mode, "dir", req.OutputDir)

	for i := 1; i <= req.Count; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		text, err := g.SampleText(req.TextLength)
		if err != nil {
			return report, err
		}

		img, size, style, err := g.Render(f, text, req)
		if errors.Is(err, ErrInfeasibleFontSize) {
			g.logger.Warn("skipping sample", "index", i, "text", text, "error", err)
			report.fail(i, text, err)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("sample %d: %w", i, err)
		}

		name := FileName(req.FilenameMode, i, text, req.Format)
		path := filepath.Join(req.OutputDir, name)
		if err := imaging.Save(img, path, req.Format); err != nil {
			if !req.ContinueOnWriteError {
				return report, fmt.Errorf("sample %d: %w", i, err)
			}
			g.logger.Warn("write failed", "index", i, "path", path, "error", err)
			report.fail(i, text, err)
			continue
		}

		if labels != nil {
			labels.Add(path, text)
		}

		g.logger.Debug("wrote sample", "index", i, "text", text, "font_size", size, "path", path)
		report.Written = append(report.Written, Sample{
			Index:    i,
			Text:     text,
			FontSize: size,
			Path:     path,
			Style:    style,
		})
	}

	if labels != nil {
		if err := labels.Close(); err != nil {
			return report, err
		}
	}

	g.logger.Info("batch complete",
		"written", len(report.Written), "failed", len(report.Failures), "dir", req.OutputDir)
	return report, nil
}
