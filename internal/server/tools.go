package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Schema fragments shared by several tools.
var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the drawing (PNG, JPEG, GIF, TIFF or PDF; PDF uses the largest image on page 1)",
	}

	viewProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"top", "side", "profile", "body"},
		"description": "Drawing view the image shows. Selects the contour classification rules",
	}

	regionProperty = map[string]interface{}{
		"type":        "object",
		"description": "Optional crop box in page pixels. Omit to use the whole image",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
			"w": map[string]interface{}{"type": "number"},
			"h": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y", "w", "h"},
	}

	pointsProperty = map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "number"},
				"y": map[string]interface{}{"type": "number"},
			},
			"required": []string{"x", "y"},
		},
	}

	toleranceProperty = map[string]interface{}{
		"type":        "number",
		"description": "Simplification tolerance in pixels. Default from GA_MCP_TOLERANCE (2.0)",
	}

	scaleProperty = map[string]interface{}{
		"type":        "number",
		"description": "Drawing units per pixel. Default from GA_MCP_SCALE (1.0)",
	}

	closeToleranceProperty = map[string]interface{}{
		"type":        "number",
		"description": "Endpoint distance in drawing units below which a polyline is written closed. Default 1.5",
	}

	emitLayersProperty = map[string]interface{}{
		"type":        "boolean",
		"description": "Write layer names and colour indices on every entity. Default false",
		"default":     false,
	}

	useOCRProperty = map[string]interface{}{
		"type":        "boolean",
		"description": "Read view captions (PLAN, PROFILE, BODY PLAN, ...) with Tesseract and let them pick view regions before the aspect-ratio rules. Default false",
		"default":     false,
	}

	languageProperty = map[string]interface{}{
		"type":        "string",
		"description": "Tesseract language code. Default from GA_MCP_OCR_LANGUAGE (eng)",
	}

	minConfidenceProperty = map[string]interface{}{
		"type":        "number",
		"description": "Ignore caption words below this OCR confidence (0-1). Default 0.5",
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Drawing input
		{
			Name:        "ga_load",
			Description: "Load a General Arrangement drawing and return its raster size and format. The decoded image is cached for later calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ga_detect_views",
			Description: "Find the drawing views on a full GA sheet. Returns every candidate region and the region chosen for the side, top and body views.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty,
					"use_ocr":        useOCRProperty,
					"language":       languageProperty,
					"min_confidence": minConfidenceProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ga_ocr_labels",
			Description: "Read the words on a drawing with Tesseract and report which of them name a drawing view.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty,
					"region":         regionProperty,
					"language":       languageProperty,
					"min_confidence": minConfidenceProperty,
				},
				"required": []string{"path"},
			},
		},

		// Vectorizing
		{
			Name:        "ga_classify_view",
			Description: "Trace one drawing view, classify every contour (plan outline, deck, sheer, keel, waterline, station, buttock) and return the simplified polylines.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty,
					"view":      viewProperty,
					"region":    regionProperty,
					"tolerance": toleranceProperty,
				},
				"required": []string{"path", "view"},
			},
		},
		{
			Name:        "ga_export_dxf",
			Description: "Vectorize one drawing view and write it as a DXF file of LWPOLYLINE entities with the y axis pointing up.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty,
					"view":   viewProperty,
					"region": regionProperty,
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "DXF file to write. Default <dir>/<name>_<view>.dxf next to the drawing",
					},
					"tolerance":       toleranceProperty,
					"scale":           scaleProperty,
					"close_tolerance": closeToleranceProperty,
					"emit_layers":     emitLayersProperty,
				},
				"required": []string{"path", "view"},
			},
		},
		{
			Name:        "ga_process_page",
			Description: "Run the whole pipeline on a full GA sheet: find the views, vectorize each one and write one DXF file per view.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for the DXF files. Default is the drawing's directory",
					},
					"base_name": map[string]interface{}{
						"type":        "string",
						"description": "File name prefix. Files are named <base_name>_<view>.dxf. Default is the drawing's name",
					},
					"use_ocr":        useOCRProperty,
					"language":       languageProperty,
					"min_confidence": minConfidenceProperty,
					"dry_run": map[string]interface{}{
						"type":        "boolean",
						"description": "Report the results without writing files. Default false",
						"default":     false,
					},
					"tolerance":       toleranceProperty,
					"scale":           scaleProperty,
					"close_tolerance": closeToleranceProperty,
					"emit_layers":     emitLayersProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ga_preview",
			Description: "Render the classified polylines of one view over a faded copy of the drawing and return it as base64-encoded PNG. Use this to check the tracing before exporting.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProperty,
					"view":      viewProperty,
					"region":    regionProperty,
					"tolerance": toleranceProperty,
					"show_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Print each polyline's layer name. Default true",
						"default":     true,
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Stroke width in pixels. Default 2",
						"default":     2,
					},
					"max_side": map[string]interface{}{
						"type":        "integer",
						"description": "Downscale the preview so neither side exceeds this. Default 1600",
						"default":     1600,
					},
				},
				"required": []string{"path", "view"},
			},
		},

		// Stages on caller-supplied geometry
		{
			Name:        "ga_simplify",
			Description: "Simplify a point sequence with Ramer-Douglas-Peucker. The first and last points are always kept.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points":    pointsProperty,
					"tolerance": toleranceProperty,
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "ga_classify_contours",
			Description: "Assign a role, layer and colour to each contour of one view using the per-view rule table.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"view": viewProperty,
					"canvas_width": map[string]interface{}{
						"type":        "number",
						"description": "Width of the image the contours were traced from. Default is the largest x",
					},
					"canvas_height": map[string]interface{}{
						"type":        "number",
						"description": "Height of the image the contours were traced from. Default is the largest y",
					},
					"contours": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"id":     map[string]interface{}{"type": "string"},
								"points": pointsProperty,
							},
							"required": []string{"points"},
						},
					},
				},
				"required": []string{"view", "contours"},
			},
		},
		{
			Name:        "ga_serialize_dxf",
			Description: "Write polylines in pixel coordinates as a DXF document. Returns the text, or writes it to output_path when given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"polylines": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"source_id": map[string]interface{}{"type": "string"},
								"layer":     map[string]interface{}{"type": "string"},
								"color":     map[string]interface{}{"type": "string", "description": "Hex colour such as #00FFFF"},
								"points":    pointsProperty,
							},
							"required": []string{"points"},
						},
					},
					"canvas_height": map[string]interface{}{
						"type":        "number",
						"description": "Pixel height of the source image, used to flip the y axis",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional DXF file to write",
					},
					"scale":           scaleProperty,
					"close_tolerance": closeToleranceProperty,
					"emit_layers":     emitLayersProperty,
				},
				"required": []string{"polylines", "canvas_height"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
