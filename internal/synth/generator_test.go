package synth

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/textart-gen/internal/charset"
	"github.com/ironsheep/textart-gen/internal/imaging"
)

const testFont = "builtin:goregular"

func newTestGenerator(a charset.Alphabet) *Generator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(a, rand.New(rand.NewPCG(11, 22)), WithLogger(logger))
}

func newTestRequest(t *testing.T) Request {
	t.Helper()
	req := DefaultRequest()
	req.Width, req.Height = 160, 64
	req.FontPath = testFont
	req.Count = 5
	req.OutputDir = filepath.Join(t.TempDir(), "out")
	req.Format = "png"
	return req
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestGenerate_Numbered(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.Options{Alphabet: true, Digits: true}))
	req := newTestRequest(t)

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"text_image_1.png", "text_image_2.png", "text_image_3.png",
		"text_image_4.png", "text_image_5.png",
	}, listDir(t, req.OutputDir))

	require.Len(t, report.Written, 5)
	assert.Empty(t, report.Failures)
	for i, s := range report.Written {
		assert.Equal(t, i+1, s.Index)
		assert.Equal(t, 3, utf8.RuneCountInString(s.Text))
		assert.Positive(t, s.FontSize)
		assert.Equal(t, imaging.White, s.Style.Background)
		assert.FileExists(t, s.Path)
	}
}

func TestGenerate_RerunOverwrites(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.DefaultOptions()))
	req := newTestRequest(t)

	_, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, listDir(t, req.OutputDir), 5)
}

func TestGenerate_TextMode(t *testing.T) {
	g := newTestGenerator(charset.FromString("a b"))
	req := newTestRequest(t)
	req.FilenameMode = FilenameText
	req.Count = 20
	req.TextLength = 2

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, report.Written, 20)

	files := listDir(t, req.OutputDir)
	for _, s := range report.Written {
		want := SanitizeFilename(s.Text) + ".png"
		assert.Equal(t, want, filepath.Base(s.Path))
		assert.Contains(t, files, want)
	}
	// only letters a/b and '_' can appear, so at most 9 distinct names
	assert.LessOrEqual(t, len(files), 9)
}

func TestGenerate_ColorModes(t *testing.T) {
	cache := imaging.NewImageCache()

	for _, tt := range []struct {
		mode         imaging.ColorMode
		wantChannels int
	}{
		{imaging.RGB, 3},
		{imaging.Gray, 1},
	} {
		t.Run(string(tt.mode), func(t *testing.T) {
			g := newTestGenerator(charset.Build(charset.Options{Digits: true}))
			req := newTestRequest(t)
			req.Count = 2
			req.Mode = tt.mode

			report, err := g.Generate(context.Background(), req)
			require.NoError(t, err)

			for _, s := range report.Written {
				info, err := imaging.LoadImageInfo(cache, s.Path)
				require.NoError(t, err)
				assert.Equal(t, tt.wantChannels, info.Channels)
				assert.Equal(t, 160, info.Width)
				assert.Equal(t, 64, info.Height)
			}
		})
	}
}

func TestGenerate_GrayDefaultsAndExplicitColors(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.Options{Alphabet: true}))
	req := newTestRequest(t)
	req.Count = 1
	req.Mode = imaging.Gray

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, imaging.Black, report.Written[0].Style.Foreground)
	assert.Equal(t, imaging.White, report.Written[0].Style.Background)

	fg, bg := imaging.Color{R: 255, G: 255, B: 0}, imaging.Color{R: 0, G: 0, B: 128}
	req.Mode = imaging.RGB
	req.FontColor, req.Background = &fg, &bg
	report, err = g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, fg, report.Written[0].Style.Foreground)
	assert.Equal(t, bg, report.Written[0].Style.Background)

	img, err := imaging.NewImageCache().Load(report.Written[0].Path)
	require.NoError(t, err)
	corner, err := imaging.SampleColor(img, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, bg, corner.RGB)
}

func TestGenerate_TextFitsCanvas(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.Options{Alphabet: true, Digits: true}))
	req := newTestRequest(t)
	req.Mode = imaging.Gray
	req.TextLength = 6

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	cache := imaging.NewImageCache()
	for _, s := range report.Written {
		img, err := cache.Load(s.Path)
		require.NoError(t, err)
		ink, ok := imaging.InkBounds(img, imaging.White, 0)
		require.True(t, ok, "no text in %s", s.Path)
		// glyph ink stays inside the advance box give or take a pixel of overhang
		assert.LessOrEqual(t, ink.Dx(), 144+2)
		assert.LessOrEqual(t, ink.Dy(), 58)
	}
}

func TestGenerate_ZeroLengthText(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.Options{}))
	req := newTestRequest(t)
	req.TextLength = 0
	req.Count = 2
	req.Mode = imaging.Gray

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, report.Written, 2)
	for _, s := range report.Written {
		assert.Equal(t, "", s.Text)
		img, err := imaging.NewImageCache().Load(s.Path)
		require.NoError(t, err)
		_, ok := imaging.InkBounds(img, imaging.White, 0)
		assert.False(t, ok)
	}
}

func TestGenerate_ZeroCount(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.Options{}))
	req := newTestRequest(t)
	req.Count = 0

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, report.Written)
	assert.DirExists(t, req.OutputDir)
	assert.Empty(t, listDir(t, req.OutputDir))
}

func TestGenerate_FailFast(t *testing.T) {
	tests := []struct {
		name     string
		alphabet charset.Alphabet
		mutate   func(*Request)
		wantErr  error
	}{
		{
			name:     "empty alphabet",
			alphabet: charset.Build(charset.Options{}),
			mutate:   func(*Request) {},
			wantErr:  ErrEmptyAlphabet,
		},
		{
			name:     "unknown filename mode",
			alphabet: charset.Build(charset.DefaultOptions()),
			mutate:   func(r *Request) { r.FilenameMode = "hashed" },
			wantErr:  ErrUnknownFilenameMode,
		},
		{
			name:     "unsupported format",
			alphabet: charset.Build(charset.DefaultOptions()),
			mutate:   func(r *Request) { r.Format = "webp" },
			wantErr:  ErrImageWrite,
		},
		{
			name:     "missing font",
			alphabet: charset.Build(charset.DefaultOptions()),
			mutate:   func(r *Request) { r.FontPath = filepath.Join(r.OutputDir, "..", "nope.ttf") },
			wantErr:  ErrFontLoad,
		},
		{
			name:     "zero width",
			alphabet: charset.Build(charset.DefaultOptions()),
			mutate:   func(r *Request) { r.Width = 0 },
			wantErr:  ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(tt.alphabet)
			req := newTestRequest(t)
			tt.mutate(&req)

			report, err := g.Generate(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, report)
			assert.NoDirExists(t, req.OutputDir)
		})
	}
}

func TestGenerate_InfeasibleSamplesAreReported(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.DefaultOptions()))
	req := newTestRequest(t)
	req.Width, req.Height = 2, 2
	req.Count = 3

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, report.Written)
	require.Len(t, report.Failures, 3)
	for i, f := range report.Failures {
		assert.Equal(t, i+1, f.Index)
		assert.ErrorIs(t, f.Err, ErrInfeasibleFontSize)
		assert.NotEmpty(t, f.Message)
	}
	assert.Empty(t, listDir(t, req.OutputDir))
}

func TestGenerate_WriteErrors(t *testing.T) {
	setup := func(t *testing.T) (*Generator, Request) {
		g := newTestGenerator(charset.FromString("a"))
		req := newTestRequest(t)
		req.FilenameMode = FilenameText
		req.TextLength = 1
		req.Count = 2
		// a directory where the image file should go makes the write fail
		require.NoError(t, os.MkdirAll(filepath.Join(req.OutputDir, "a.png"), 0o755))
		return g, req
	}

	t.Run("abort", func(t *testing.T) {
		g, req := setup(t)
		report, err := g.Generate(context.Background(), req)
		require.ErrorIs(t, err, ErrImageWrite)
		require.NotNil(t, report)
		assert.Empty(t, report.Written)
	})

	t.Run("continue", func(t *testing.T) {
		g, req := setup(t)
		req.ContinueOnWriteError = true
		report, err := g.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, report.Failures, 2)
		for _, f := range report.Failures {
			assert.ErrorIs(t, f.Err, ErrImageWrite)
		}
	})
}

func TestGenerate_Labels(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.Options{Katakana: true, Digits: true}))
	req := newTestRequest(t)
	req.Count = 4
	req.LabelsFile = "labels.tsv"

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(req.OutputDir, "labels.tsv"), report.LabelsPath)

	labels, err := ReadLabels(report.LabelsPath)
	require.NoError(t, err)
	require.Len(t, labels, 4)
	for i, l := range labels {
		assert.Equal(t, report.Written[i].Path, l.Path)
		assert.Equal(t, report.Written[i].Text, l.Text)
	}
}

func TestGenerate_LabelsTextModeRepeats(t *testing.T) {
	g := newTestGenerator(charset.FromString("ab"))
	req := newTestRequest(t)
	req.FilenameMode = FilenameText
	req.Count = 12
	req.TextLength = 1
	req.LabelsFile = "labels.tsv"

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, report.Written, 12)

	latest := map[string]string{}
	for _, s := range report.Written {
		latest[s.Path] = s.Text
	}

	labels, err := ReadLabels(report.LabelsPath)
	require.NoError(t, err)
	assert.Len(t, labels, len(latest))
	assert.Len(t, listDir(t, req.OutputDir), len(latest)+1)
	for _, l := range labels {
		assert.Equal(t, latest[l.Path], l.Text)
		assert.Equal(t, l.Text+".png", filepath.Base(l.Path))
	}
}

func TestGenerate_LabelsWithWriteErrors(t *testing.T) {
	setup := func(t *testing.T) (*Generator, Request) {
		g := newTestGenerator(charset.Build(charset.Options{Digits: true}))
		req := newTestRequest(t)
		req.Count = 3
		req.LabelsFile = "labels.tsv"
		require.NoError(t, os.MkdirAll(filepath.Join(req.OutputDir, "text_image_2.png"), 0o755))
		return g, req
	}

	t.Run("continue", func(t *testing.T) {
		g, req := setup(t)
		req.ContinueOnWriteError = true

		report, err := g.Generate(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, report.Written, 2)
		require.Len(t, report.Failures, 1)
		assert.Equal(t, 2, report.Failures[0].Index)

		labels, err := ReadLabels(report.LabelsPath)
		require.NoError(t, err)
		require.Len(t, labels, 2)
		assert.Equal(t, filepath.Join(req.OutputDir, "text_image_1.png"), labels[0].Path)
		assert.Equal(t, filepath.Join(req.OutputDir, "text_image_3.png"), labels[1].Path)
	})

	t.Run("abort keeps written rows", func(t *testing.T) {
		g, req := setup(t)

		report, err := g.Generate(context.Background(), req)
		require.ErrorIs(t, err, ErrImageWrite)
		require.Len(t, report.Written, 1)

		labels, err := ReadLabels(report.LabelsPath)
		require.NoError(t, err)
		require.Len(t, labels, 1)
		assert.Equal(t, report.Written[0].Text, labels[0].Text)
	})
}

func TestGenerate_Blur(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.DefaultOptions()))
	req := newTestRequest(t)
	req.Count = 1
	req.Mode = imaging.Gray
	req.BlurRadius = 1.5

	report, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	info, err := imaging.LoadImageInfo(imaging.NewImageCache(), report.Written[0].Path)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Channels)
}

func TestGenerate_Cancelled(t *testing.T) {
	g := newTestGenerator(charset.Build(charset.DefaultOptions()))
	req := newTestRequest(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := g.Generate(ctx, req)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Written)
}

func TestGenerate_SeedReproducible(t *testing.T) {
	a := charset.Build(charset.Options{Alphabet: true})
	texts := func() []string {
		g := newTestGenerator(a)
		req := newTestRequest(t)
		report, err := g.Generate(context.Background(), req)
		require.NoError(t, err)
		out := make([]string, 0, len(report.Written))
		for _, s := range report.Written {
			out = append(out, s.Text+s.Style.Foreground.Hex())
		}
		return out
	}
	assert.Equal(t, texts(), texts())
}
