package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/textart-gen/internal/imaging"
	"github.com/ironsheep/textart-gen/internal/synth"
)

func call(t *testing.T, s *Server, name string, args interface{}) (interface{}, error) {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return s.executeTool(context.Background(), name, raw)
}

func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "fill.png")
	require.NoError(t, imaging.Save(img, path, "png"))
	return path
}

func TestCharsetBuild(t *testing.T) {
	s := newTestServer()

	res, err := call(t, s, "charset_build", map[string]interface{}{"charset": "digits,hiragana", "preview": 12})
	require.NoError(t, err)
	r := res.(*charsetBuildResult)
	assert.Equal(t, 10+86, r.Size)
	assert.Equal(t, "0123456789ぁあ", r.Preview)
	assert.True(t, r.Options.Digits)
	assert.True(t, r.Options.Hiragana)
	assert.False(t, r.Options.Alphabet)

	res, err = s.executeTool(context.Background(), "charset_build", nil)
	require.NoError(t, err)
	assert.Equal(t, 52, res.(*charsetBuildResult).Size)

	_, err = call(t, s, "charset_build", map[string]interface{}{"charset": "cyrillic"})
	assert.ErrorContains(t, err, "unknown character set")

	_, err = call(t, s, "charset_build", map[string]interface{}{"preview": -1})
	assert.ErrorContains(t, err, "preview")
}

func TestTextSample(t *testing.T) {
	s := newTestServer()
	args := map[string]interface{}{"charset": "katakana", "length": 5, "count": 3, "seed": 42}

	first, err := call(t, s, "text_sample", args)
	require.NoError(t, err)
	second, err := call(t, s, "text_sample", args)
	require.NoError(t, err)

	texts := first.(*textSampleResult).Texts
	require.Len(t, texts, 3)
	assert.Equal(t, texts, second.(*textSampleResult).Texts)
	for _, text := range texts {
		assert.Len(t, []rune(text), 5)
	}

	_, err = call(t, s, "text_sample", map[string]interface{}{"count": -1})
	assert.Error(t, err)
}

func TestTextSample_EmptyAlphabet(t *testing.T) {
	s := newTestServer()
	_, err := call(t, s, "text_sample", map[string]interface{}{"charset": ",", "length": 2})
	assert.ErrorIs(t, err, synth.ErrEmptyAlphabet)
}

func TestFontFitSize(t *testing.T) {
	s := newTestServer()

	res, err := call(t, s, "font_fit_size", map[string]interface{}{"text": "Hello", "width": 300, "height": 100})
	require.NoError(t, err)
	r := res.(*fontFitSizeResult)
	assert.Positive(t, r.FontSize)
	assert.Less(t, float64(r.Width), 0.9*300)
	assert.Less(t, float64(r.Height), 0.9*100)
	assert.NotEmpty(t, r.FontName)

	_, err = call(t, s, "font_fit_size", map[string]interface{}{"text": "Hello", "width": 2, "height": 2})
	assert.ErrorIs(t, err, synth.ErrInfeasibleFontSize)

	_, err = call(t, s, "font_fit_size", map[string]interface{}{"font": "/no/such.ttf", "text": "x", "width": 9, "height": 9})
	assert.ErrorIs(t, err, synth.ErrFontLoad)
}

func TestTextImageGenerate(t *testing.T) {
	s := newTestServer()
	dir := filepath.Join(t.TempDir(), "batch")

	res, err := call(t, s, "text_image_generate", map[string]interface{}{
		"charset":     "alphabet",
		"seed":        3,
		"width":       120,
		"height":      48,
		"count":       3,
		"length":      2,
		"mode":        "gray",
		"output_dir":  dir,
		"format":      "png",
		"labels_file": "labels.tsv",
	})
	require.NoError(t, err)

	report := res.(*synth.Report)
	require.Len(t, report.Written, 3)
	assert.Empty(t, report.Failures)
	assert.FileExists(t, filepath.Join(dir, "text_image_3.png"))
	assert.FileExists(t, filepath.Join(dir, "labels.tsv"))

	info, err := call(t, s, "image_info", map[string]interface{}{"path": report.Written[0].Path})
	require.NoError(t, err)
	assert.Equal(t, 1, info.(*imaging.ImageInfo).Channels)
	assert.Equal(t, 120, info.(*imaging.ImageInfo).Width)
}

func TestTextImageGenerate_Errors(t *testing.T) {
	s := newTestServer()
	dir := filepath.Join(t.TempDir(), "batch")

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr error
	}{
		{"filename mode", map[string]interface{}{"width": 50, "height": 50, "output_dir": dir, "filename_mode": "uuid"}, synth.ErrUnknownFilenameMode},
		{"size", map[string]interface{}{"width": 0, "height": 50, "output_dir": dir}, synth.ErrInvalidRequest},
		{"font", map[string]interface{}{"width": 50, "height": 50, "output_dir": dir, "font": "/no/such.otf"}, synth.ErrFontLoad},
		{"empty alphabet", map[string]interface{}{"width": 50, "height": 50, "output_dir": dir, "charset": ","}, synth.ErrEmptyAlphabet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, s, "text_image_generate", tt.args)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := call(t, s, "text_image_generate", map[string]interface{}{"width": 50, "height": 50, "output_dir": dir, "font_color": "#zz"})
	assert.ErrorContains(t, err, "font_color")
	assert.NoDirExists(t, dir)
}

func TestTextImageGenerate_EvictsCache(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()
	args := map[string]interface{}{
		"charset":    "digits",
		"width":      40,
		"height":     20,
		"count":      1,
		"output_dir": dir,
		"format":     "png",
		"background": "#000000",
		"font_color": "#ffffff",
	}

	_, err := call(t, s, "text_image_generate", args)
	require.NoError(t, err)
	path := filepath.Join(dir, "text_image_1.png")
	c, err := call(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 0, "y": 0})
	require.NoError(t, err)
	assert.Equal(t, "#000000", c.(*imaging.ColorResult).Hex)

	args["background"] = "#ffffff"
	args["font_color"] = "#000000"
	_, err = call(t, s, "text_image_generate", args)
	require.NoError(t, err)
	c, err = call(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 0, "y": 0})
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", c.(*imaging.ColorResult).Hex)
}

func TestTextImageGenerate_AbortEvictsWrittenFiles(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()
	args := map[string]interface{}{
		"charset":    "digits",
		"width":      40,
		"height":     20,
		"count":      3,
		"output_dir": dir,
		"format":     "png",
		"background": "#000000",
		"font_color": "#ffffff",
	}

	_, err := call(t, s, "text_image_generate", args)
	require.NoError(t, err)
	first := filepath.Join(dir, "text_image_1.png")
	c, err := call(t, s, "image_sample_color", map[string]interface{}{"path": first, "x": 0, "y": 0})
	require.NoError(t, err)
	assert.Equal(t, "#000000", c.(*imaging.ColorResult).Hex)

	// a directory in place of the second image aborts the next batch there
	second := filepath.Join(dir, "text_image_2.png")
	require.NoError(t, os.Remove(second))
	require.NoError(t, os.Mkdir(second, 0o755))

	args["background"] = "#ffffff"
	args["font_color"] = "#000000"
	_, err = call(t, s, "text_image_generate", args)
	require.ErrorIs(t, err, synth.ErrImageWrite)

	var be *batchError
	require.ErrorAs(t, err, &be)
	require.Len(t, be.report.Written, 1)
	assert.Equal(t, first, be.report.Written[0].Path)

	c, err = call(t, s, "image_sample_color", map[string]interface{}{"path": first, "x": 0, "y": 0})
	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", c.(*imaging.ColorResult).Hex)
}

func TestImageInspection(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 30, 20, color.RGBA{255, 0, 0, 255})

	info, err := call(t, s, "image_info", map[string]interface{}{"path": path})
	require.NoError(t, err)
	ii := info.(*imaging.ImageInfo)
	assert.Equal(t, 30, ii.Width)
	assert.Equal(t, 20, ii.Height)
	assert.Equal(t, "png", ii.Format)

	c, err := call(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 5, "y": 5})
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", c.(*imaging.ColorResult).Hex)

	_, err = call(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 50, "y": 5})
	assert.Error(t, err)

	dom, err := call(t, s, "image_dominant_colors", map[string]interface{}{"path": path})
	require.NoError(t, err)
	assert.NotEmpty(t, dom.(*imaging.DominantColorsResult).Colors)

	_, err = call(t, s, "image_info", map[string]interface{}{"path": filepath.Join(t.TempDir(), "gone.png")})
	assert.Error(t, err)
}

func TestDatasetVerifyOCR_Errors(t *testing.T) {
	s := newTestServer()

	_, err := call(t, s, "dataset_verify_ocr", map[string]interface{}{})
	assert.ErrorContains(t, err, "labels_file")

	missing := filepath.Join(t.TempDir(), "labels.tsv")
	_, err = call(t, s, "dataset_verify_ocr", map[string]interface{}{"labels_file": missing})
	assert.Error(t, err)
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))
}
