package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

const charsetDescription = "Comma-separated character sets: alphabet, digits, hiragana, katakana, kanji. Default alphabet"

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Dataset Generation
		{
			Name:        "charset_build",
			Description: "Build the alphabet for a set of character classes and report its size and first characters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"charset": stringProp(charsetDescription),
					"preview": intProp("Number of leading characters to return. Default 40"),
				},
			},
		},
		{
			Name:        "text_sample",
			Description: "Draw random strings from an alphabet, uniformly and with replacement.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"charset": stringProp(charsetDescription),
					"length":  intProp("Characters per string. Default 3"),
					"count":   intProp("Number of strings. Default 1"),
					"seed":    intProp("Optional seed for reproducible output"),
				},
			},
		},
		{
			Name:        "font_fit_size",
			Description: "Find the largest font size at which text stays under 90% of the canvas width and height.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"font":   stringProp("Font file path (append #N for a collection face) or builtin:goregular / builtin:gomono. Default builtin:goregular"),
					"text":   stringProp("Text to fit"),
					"width":  intProp("Canvas width in pixels"),
					"height": intProp("Canvas height in pixels"),
				},
				"required": []string{"text", "width", "height"},
			},
		},
		{
			Name:        "text_image_generate",
			Description: "Generate a batch of images, each showing a random string centered at the largest fitting font size, and write them to a directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"charset":     stringProp(charsetDescription),
					"seed":        intProp("Optional seed for reproducible batches"),
					"width":       intProp("Image width in pixels"),
					"height":      intProp("Image height in pixels"),
					"font":        stringProp("Font file path or builtin:<name>. Default builtin:goregular"),
					"count":       intProp("Number of images. Default 10"),
					"length":      intProp("Characters per image. Default 3"),
					"font_color":  stringProp("Text color as #RRGGBB, r,g,b or a gray level. Default random (rgb) or black (gray)"),
					"background":  stringProp("Background color, same forms as font_color. Default white"),
					"output_dir":  stringProp("Output directory, created if missing. Default data"),
					"labels_file": stringProp("Optional labels manifest name, relative to output_dir unless absolute"),
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rgb", "gray"},
						"description": "Color mode. Default rgb",
					},
					"filename_mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"numbered", "text"},
						"description": "numbered: text_image_<i>.<format>; text: sanitized text. Default numbered",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"jpg", "png", "gif", "bmp", "tiff"},
						"description": "Image format. Default jpg",
					},
					"blur": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian blur radius applied after drawing. Default 0 (none)",
					},
					"continue_on_write_error": map[string]interface{}{
						"type":        "boolean",
						"description": "Record failed writes and keep going instead of aborting",
					},
				},
				"required": []string{"width", "height"},
			},
		},

		// Inspection
		{
			Name:        "image_info",
			Description: "Report an image file's dimensions, format, channel count and size on disk.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": stringProp("Path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": stringProp("Path to the image file"),
					"x":    intProp("X coordinate (0-based, from left)"),
					"y":    intProp("Y coordinate (0-based, from top)"),
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Return the most frequent colors of an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  stringProp("Path to the image file"),
					"count": intProp("Number of colors to return. Default 5"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "dataset_verify_ocr",
			Description: "Run Tesseract over every image in a labels manifest and report how many labels it reads back.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"labels_file": stringProp("Path to a labels manifest written by text_image_generate"),
					"language":    stringProp("Tesseract language code, e.g. eng, jpn or eng+jpn. Default eng"),
				},
				"required": []string{"labels_file"},
			},
		},
	}
}
