package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ironsheep/textart-gen/internal/charset"
	"github.com/ironsheep/textart-gen/internal/imaging"
	"github.com/ironsheep/textart-gen/internal/ocr"
	"github.com/ironsheep/textart-gen/internal/synth"
	"github.com/ironsheep/textart-gen/internal/typeset"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "text_image_generate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// A batch that stopped part way also carries its partial report in the
// error data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		resp := s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
		var be *batchError
		if errors.As(err, &be) {
			resp.Error.Data = map[string]interface{}{"error": err.Error(), "report": be.report}
		}
		return resp
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Dataset generation
	case "charset_build":
		return s.handleCharsetBuild(args)
	case "text_sample":
		return s.handleTextSample(args)
	case "font_fit_size":
		return s.handleFontFitSize(args)
	case "text_image_generate":
		return s.handleTextImageGenerate(ctx, args)

	// Inspection
	case "image_info":
		return s.handleImageInfo(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "dataset_verify_ocr":
		return s.handleDatasetVerifyOCR(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// newRand returns a generator seeded from seed, or from the runtime when nil.
func newRand(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, *seed))
}

func parseCharset(s string) (charset.Options, error) {
	if s == "" {
		return charset.DefaultOptions(), nil
	}
	return charset.ParseOptions(s)
}

// === Dataset Generation Handlers ===

type charsetBuildArgs struct {
	Charset string `json:"charset"`
	Preview int    `json:"preview"`
}

type charsetBuildResult struct {
	Options charset.Options `json:"options"`
	Size    int             `json:"size"`
	Preview string          `json:"preview"`
}

func (s *Server) handleCharsetBuild(args json.RawMessage) (interface{}, error) {
	var a charsetBuildArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Preview < 0 {
		return nil, fmt.Errorf("preview must be non-negative, got %d", a.Preview)
	}
	if a.Preview == 0 {
		a.Preview = 40
	}

	opts, err := parseCharset(a.Charset)
	if err != nil {
		return nil, err
	}
	alphabet := charset.Build(opts)

	runes := alphabet.Runes()
	if len(runes) > a.Preview {
		runes = runes[:a.Preview]
	}
	return &charsetBuildResult{Options: opts, Size: alphabet.Len(), Preview: string(runes)}, nil
}

type textSampleArgs struct {
	Charset string  `json:"charset"`
	Length  int     `json:"length"`
	Count   int     `json:"count"`
	Seed    *uint64 `json:"seed,omitempty"`
}

type textSampleResult struct {
	Texts []string `json:"texts"`
}

func (s *Server) handleTextSample(args json.RawMessage) (interface{}, error) {
	a := textSampleArgs{Length: 3, Count: 1}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", a.Count)
	}

	opts, err := parseCharset(a.Charset)
	if err != nil {
		return nil, err
	}
	alphabet := charset.Build(opts)
	rng := newRand(a.Seed)

	texts := make([]string, 0, a.Count)
	for i := 0; i < a.Count; i++ {
		text, err := charset.Sample(rng, alphabet, a.Length)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return &textSampleResult{Texts: texts}, nil
}

type fontFitSizeArgs struct {
	Font   string `json:"font"`
	Text   string `json:"text"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type fontFitSizeResult struct {
	FontName string `json:"font_name"`
	FontSize int    `json:"font_size"`
	Width    int    `json:"text_width"`
	Height   int    `json:"text_height"`
}

func (s *Server) handleFontFitSize(args json.RawMessage) (interface{}, error) {
	var a fontFitSizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Font == "" {
		a.Font = typeset.BuiltinPrefix + "goregular"
	}

	f, err := typeset.LoadFont(a.Font)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	size, err := typeset.FitSize(f, a.Text, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	w, h, err := f.Measure(a.Text, size)
	if err != nil {
		return nil, err
	}
	return &fontFitSizeResult{FontName: f.Name(), FontSize: size, Width: w, Height: h}, nil
}

type textImageGenerateArgs struct {
	Charset              string  `json:"charset"`
	Seed                 *uint64 `json:"seed,omitempty"`
	Width                int     `json:"width"`
	Height               int     `json:"height"`
	Font                 string  `json:"font"`
	Count                *int    `json:"count,omitempty"`
	Length               *int    `json:"length,omitempty"`
	Mode                 string  `json:"mode"`
	FontColor            string  `json:"font_color"`
	Background           string  `json:"background"`
	OutputDir            string  `json:"output_dir"`
	FilenameMode         string  `json:"filename_mode"`
	Format               string  `json:"format"`
	LabelsFile           string  `json:"labels_file"`
	Blur                 float64 `json:"blur"`
	ContinueOnWriteError bool    `json:"continue_on_write_error"`
}

// request turns tool arguments into a batch request, keeping defaults for
// anything left out.
func (a textImageGenerateArgs) request() (synth.Request, error) {
	req := synth.DefaultRequest()
	req.Width, req.Height = a.Width, a.Height
	req.FontPath = a.Font
	if req.FontPath == "" {
		req.FontPath = typeset.BuiltinPrefix + "goregular"
	}
	if a.Count != nil {
		req.Count = *a.Count
	}
	if a.Length != nil {
		req.TextLength = *a.Length
	}
	if a.Mode != "" {
		req.Mode = imaging.ColorMode(a.Mode)
	}
	if a.FontColor != "" {
		c, err := imaging.ParseColor(a.FontColor)
		if err != nil {
			return req, fmt.Errorf("font_color: %w", err)
		}
		req.FontColor = &c
	}
	if a.Background != "" {
		c, err := imaging.ParseColor(a.Background)
		if err != nil {
			return req, fmt.Errorf("background: %w", err)
		}
		req.Background = &c
	}
	if a.OutputDir != "" {
		req.OutputDir = a.OutputDir
	}
	if a.FilenameMode != "" {
		req.FilenameMode = synth.FilenameMode(a.FilenameMode)
	}
	if a.Format != "" {
		req.Format = a.Format
	}
	req.LabelsFile = a.LabelsFile
	req.BlurRadius = a.Blur
	req.ContinueOnWriteError = a.ContinueOnWriteError
	return req, nil
}

func (s *Server) handleTextImageGenerate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a textImageGenerateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	opts, err := parseCharset(a.Charset)
	if err != nil {
		return nil, err
	}
	req, err := a.request()
	if err != nil {
		return nil, err
	}

	g := synth.NewFromOptions(opts, newRand(a.Seed), synth.WithLogger(s.logger))
	report, err := g.Generate(ctx, req)
	if report != nil {
		// the files on disk were just replaced
		for _, sample := range report.Written {
			s.cache.Evict(sample.Path)
		}
	}
	if err != nil {
		if report != nil {
			return nil, &batchError{report: report, err: err}
		}
		return nil, err
	}
	return report, nil
}

// batchError is a batch failure that happened after images were written.
type batchError struct {
	report *synth.Report
	err    error
}

func (e *batchError) Error() string { return e.err.Error() }

func (e *batchError) Unwrap() error { return e.err }

// === Inspection Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageDominantColorsArgs struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(img, a.Count)
}

type datasetVerifyArgs struct {
	LabelsFile string `json:"labels_file"`
	Language   string `json:"language"`
}

func (s *Server) handleDatasetVerifyOCR(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a datasetVerifyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.LabelsFile == "" {
		return nil, errors.New("labels_file is required")
	}
	return ocr.Verify(ctx, a.LabelsFile, a.Language)
}
