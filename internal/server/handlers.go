package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/ironsheep/ga-vector-mcp/internal/classify"
	"github.com/ironsheep/ga-vector-mcp/internal/dxf"
	"github.com/ironsheep/ga-vector-mcp/internal/geometry"
	"github.com/ironsheep/ga-vector-mcp/internal/imaging"
	"github.com/ironsheep/ga-vector-mcp/internal/ocr"
	"github.com/ironsheep/ga-vector-mcp/internal/pipeline"
	"github.com/ironsheep/ga-vector-mcp/internal/regions"
	"github.com/ironsheep/ga-vector-mcp/internal/simplify"
	"github.com/ironsheep/ga-vector-mcp/internal/view"
)

// defaultMinConfidence is the OCR confidence below which caption words are
// ignored.
const defaultMinConfidence = 0.5

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "ga_load", "ga_export_dxf").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted parameters from the server configuration
//  3. Loads drawings from cache as needed
//  4. Runs the pipeline or one of its stages
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Drawing input
	case "ga_load":
		return s.handleLoad(args)
	case "ga_detect_views":
		return s.handleDetectViews(args)
	case "ga_ocr_labels":
		return s.handleOCRLabels(args)

	// Vectorizing
	case "ga_classify_view":
		return s.handleClassifyView(ctx, args)
	case "ga_export_dxf":
		return s.handleExportDXF(ctx, args)
	case "ga_process_page":
		return s.handleProcessPage(ctx, args)
	case "ga_preview":
		return s.handlePreview(ctx, args)

	// Stages on caller-supplied geometry
	case "ga_simplify":
		return s.handleSimplify(args)
	case "ga_classify_contours":
		return s.handleClassifyContours(args)
	case "ga_serialize_dxf":
		return s.handleSerializeDXF(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared argument handling ===

// vectorArgs are the tuning parameters shared by the vectorizing tools. Zero
// values take the server configuration.
type vectorArgs struct {
	Tolerance      *float64 `json:"tolerance"`
	Scale          float64  `json:"scale"`
	CloseTolerance float64  `json:"close_tolerance"`
	EmitLayers     bool     `json:"emit_layers"`
}

func (a vectorArgs) pipelineOptions(s *Server) pipeline.Options {
	opts := pipeline.NewOptions(s.cfg)
	if a.Tolerance != nil {
		opts.Tolerance = *a.Tolerance
	}
	return opts
}

func (a vectorArgs) dxfOptions(s *Server) dxf.Options {
	opts := dxf.Options{
		Scale:          s.cfg.Scale,
		CloseTolerance: s.cfg.CloseTolerance,
		EmitLayers:     a.EmitLayers,
	}
	if a.Scale > 0 {
		opts.Scale = a.Scale
	}
	if a.CloseTolerance > 0 {
		opts.CloseTolerance = a.CloseTolerance
	}
	return opts
}

// loadRegion loads a drawing and crops it to region when one is given.
func (s *Server) loadRegion(path string, region *geometry.BoundingBox) (image.Image, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if region == nil {
		return img, nil
	}
	return imaging.CropBox(img, *region)
}

// parseView rejects names that do not map to a view.
func parseView(name string) (view.View, error) {
	v := view.Parse(name)
	if v == view.Unknown {
		return v, fmt.Errorf("unknown view %q (expected top, side, profile or body)", name)
	}
	return v, nil
}

// baseName strips the directory and extension from a drawing path.
func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// pageLabels reads caption words from img.
func (s *Server) pageLabels(img image.Image, language string, minConfidence float64) ([]ocr.Token, []regions.Label, error) {
	if language == "" {
		language = s.cfg.OCRLanguage
	}
	if minConfidence <= 0 {
		minConfidence = defaultMinConfidence
	}
	tokens, err := ocr.ExtractWordsFromImage(img, language, s.cfg.TessdataPrefix)
	if err != nil {
		return nil, nil, err
	}
	return tokens, ocr.Labels(tokens, minConfidence), nil
}

// viewSummary is the compact per-view report returned by several tools.
type viewSummary struct {
	View      view.View             `json:"view"`
	Width     int                   `json:"width"`
	Height    int                   `json:"height"`
	Contours  int                   `json:"contours"`
	Polylines int                   `json:"polylines"`
	Roles     map[classify.Role]int `json:"roles"`
}

func summarize(vr *pipeline.ViewResult) viewSummary {
	return viewSummary{
		View:      vr.View,
		Width:     vr.Width,
		Height:    vr.Height,
		Contours:  len(vr.Classified),
		Polylines: len(vr.Polylines),
		Roles:     vr.Summary(),
	}
}

// === Drawing input handlers ===

type loadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type detectViewsArgs struct {
	Path          string  `json:"path"`
	UseOCR        bool    `json:"use_ocr"`
	Language      string  `json:"language"`
	MinConfidence float64 `json:"min_confidence"`
}

type detectViewsResult struct {
	Width      int                     `json:"width"`
	Height     int                     `json:"height"`
	Candidates []geometry.Candidate    `json:"candidates"`
	Assignment regions.ViewAssignment  `json:"assignment"`
	Labels     regions.LabelAssignment `json:"labels,omitempty"`
}

func (s *Server) handleDetectViews(args json.RawMessage) (interface{}, error) {
	var a detectViewsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadRegion(a.Path, nil)
	if err != nil {
		return nil, err
	}

	opts := pipeline.NewOptions(s.cfg)
	b := img.Bounds()
	res := &detectViewsResult{
		Width:      b.Dx(),
		Height:     b.Dy(),
		Candidates: s.tracer.Candidates(img),
	}

	if a.UseOCR {
		_, labels, err := s.pageLabels(img, a.Language, a.MinConfidence)
		if err != nil {
			return nil, err
		}
		res.Labels = regions.AssignByLabels(labels, opts.Keywords)
		res.Assignment = regions.AnchorLabels(res.Labels, res.Candidates, opts.Thresholds)
	} else {
		res.Assignment = regions.Assign(res.Candidates, opts.Thresholds)
	}
	return res, nil
}

type ocrLabelsArgs struct {
	Path          string                `json:"path"`
	Region        *geometry.BoundingBox `json:"region"`
	Language      string                `json:"language"`
	MinConfidence float64               `json:"min_confidence"`
}

type ocrLabelsResult struct {
	Tokens []ocr.Token             `json:"tokens"`
	Views  regions.LabelAssignment `json:"views"`
}

func (s *Server) handleOCRLabels(args json.RawMessage) (interface{}, error) {
	var a ocrLabelsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadRegion(a.Path, a.Region)
	if err != nil {
		return nil, err
	}
	tokens, labels, err := s.pageLabels(img, a.Language, a.MinConfidence)
	if err != nil {
		return nil, err
	}
	return &ocrLabelsResult{
		Tokens: tokens,
		Views:  regions.AssignByLabels(labels, regions.DefaultKeywords()),
	}, nil
}

// === Vectorizing handlers ===

type classifyViewArgs struct {
	Path   string                `json:"path"`
	View   string                `json:"view"`
	Region *geometry.BoundingBox `json:"region"`
	vectorArgs
}

// contourRole is one classified contour without its points.
type contourRole struct {
	ID       string        `json:"id"`
	Role     classify.Role `json:"role"`
	Layer    string        `json:"layer,omitempty"`
	Color    string        `json:"color,omitempty"`
	Vertices int           `json:"vertices"`
}

type classifyViewResult struct {
	viewSummary
	Classified []contourRole       `json:"classified"`
	Polylines  []geometry.Polyline `json:"polylines"`
}

// processView loads, optionally crops, traces and processes one view.
func (s *Server) processView(ctx context.Context, path, name string, region *geometry.BoundingBox, va vectorArgs) (*pipeline.ViewResult, image.Image, error) {
	v, err := parseView(name)
	if err != nil {
		return nil, nil, err
	}
	img, err := s.loadRegion(path, region)
	if err != nil {
		return nil, nil, err
	}
	vr, err := pipeline.ProcessImage(ctx, s.tracer, img, v, va.pipelineOptions(s))
	if err != nil {
		return nil, nil, err
	}
	return vr, img, nil
}

func (s *Server) handleClassifyView(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a classifyViewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	vr, _, err := s.processView(ctx, a.Path, a.View, a.Region, a.vectorArgs)
	if err != nil {
		return nil, err
	}

	roles := make([]contourRole, len(vr.Classified))
	for i, c := range vr.Classified {
		roles[i] = contourRole{ID: c.ID, Role: c.Role, Layer: c.Layer, Color: c.Color, Vertices: len(c.Points)}
	}
	return &classifyViewResult{
		viewSummary: summarize(vr),
		Classified:  roles,
		Polylines:   vr.Polylines,
	}, nil
}

type exportDXFArgs struct {
	Path       string                `json:"path"`
	View       string                `json:"view"`
	Region     *geometry.BoundingBox `json:"region"`
	OutputPath string                `json:"output_path"`
	vectorArgs
}

type exportDXFResult struct {
	OutputPath string      `json:"output_path"`
	Entities   int         `json:"entities"`
	Closed     int         `json:"closed"`
	Bytes      int         `json:"bytes"`
	View       viewSummary `json:"view"`
}

func (s *Server) handleExportDXF(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a exportDXFArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	vr, _, err := s.processView(ctx, a.Path, a.View, a.Region, a.vectorArgs)
	if err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		a.OutputPath = pipeline.DXFPath(filepath.Dir(a.Path), baseName(a.Path), vr.View)
	}

	doc := vr.Document(a.dxfOptions(s))
	data := doc.Bytes()
	if err := pipeline.WriteFile(a.OutputPath, data); err != nil {
		return nil, err
	}

	closed := 0
	for _, e := range doc.Entities {
		if e.Closed {
			closed++
		}
	}
	return &exportDXFResult{
		OutputPath: a.OutputPath,
		Entities:   len(doc.Entities),
		Closed:     closed,
		Bytes:      len(data),
		View:       summarize(vr),
	}, nil
}

type processPageArgs struct {
	Path          string  `json:"path"`
	OutputDir     string  `json:"output_dir"`
	BaseName      string  `json:"base_name"`
	UseOCR        bool    `json:"use_ocr"`
	Language      string  `json:"language"`
	MinConfidence float64 `json:"min_confidence"`
	DryRun        bool    `json:"dry_run"`
	vectorArgs
}

type processPageResult struct {
	Width      int                     `json:"width"`
	Height     int                     `json:"height"`
	Assignment regions.ViewAssignment  `json:"assignment"`
	Labels     regions.LabelAssignment `json:"labels,omitempty"`
	Views      []viewSummary           `json:"views"`
	Files      []string                `json:"files"`
}

func (s *Server) handleProcessPage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a processPageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadRegion(a.Path, nil)
	if err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		a.OutputDir = filepath.Dir(a.Path)
	}
	if a.BaseName == "" {
		a.BaseName = baseName(a.Path)
	}

	var labels []regions.Label
	if a.UseOCR {
		if _, labels, err = s.pageLabels(img, a.Language, a.MinConfidence); err != nil {
			return nil, err
		}
	}

	res, err := pipeline.ProcessPage(ctx, s.tracer, img, labels, a.pipelineOptions(s))
	if err != nil {
		return nil, err
	}

	out := &processPageResult{
		Width:      res.Width,
		Height:     res.Height,
		Assignment: res.Assignment,
		Labels:     res.Labels,
		Views:      make([]viewSummary, 0, len(res.Views)),
		Files:      []string{},
	}
	for _, v := range view.All {
		if vr, ok := res.Views[v]; ok {
			out.Views = append(out.Views, summarize(vr))
		}
	}

	if !a.DryRun {
		files, err := res.WriteDXF(a.OutputDir, a.BaseName, a.dxfOptions(s))
		if err != nil {
			return nil, err
		}
		out.Files = files
	}
	return out, nil
}

type previewArgs struct {
	Path       string                `json:"path"`
	View       string                `json:"view"`
	Region     *geometry.BoundingBox `json:"region"`
	ShowLabels *bool                 `json:"show_labels"`
	Thickness  int                   `json:"thickness"`
	MaxSide    int                   `json:"max_side"`
	vectorArgs
}

type previewResult struct {
	*imaging.EncodedImage
	View viewSummary `json:"view"`
}

func (s *Server) handlePreview(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ShowLabels == nil {
		show := true
		a.ShowLabels = &show
	}
	if a.Thickness == 0 {
		a.Thickness = 2
	}
	if a.MaxSide == 0 {
		a.MaxSide = 1600
	}

	vr, img, err := s.processView(ctx, a.Path, a.View, a.Region, a.vectorArgs)
	if err != nil {
		return nil, err
	}

	enc, err := imaging.RenderOverlay(img, vr.Polylines, imaging.OverlayOptions{
		ShowLabels: *a.ShowLabels,
		Thickness:  a.Thickness,
		MaxSide:    a.MaxSide,
	})
	if err != nil {
		return nil, err
	}
	return &previewResult{EncodedImage: enc, View: summarize(vr)}, nil
}

// === Stage handlers ===

type simplifyArgs struct {
	Points    []geometry.Point `json:"points"`
	Tolerance *float64         `json:"tolerance"`
}

type simplifyResult struct {
	Tolerance   float64          `json:"tolerance"`
	InputCount  int              `json:"input_count"`
	OutputCount int              `json:"output_count"`
	Points      []geometry.Point `json:"points"`
}

func (s *Server) handleSimplify(args json.RawMessage) (interface{}, error) {
	var a simplifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tol := s.cfg.Tolerance
	if a.Tolerance != nil {
		tol = *a.Tolerance
	}
	pts := simplify.Simplify(a.Points, tol)
	return &simplifyResult{
		Tolerance:   tol,
		InputCount:  len(a.Points),
		OutputCount: len(pts),
		Points:      pts,
	}, nil
}

type classifyContoursArgs struct {
	View         string             `json:"view"`
	CanvasWidth  float64            `json:"canvas_width"`
	CanvasHeight float64            `json:"canvas_height"`
	Contours     []geometry.Contour `json:"contours"`
}

type classifyContoursResult struct {
	Classified []classify.Classified `json:"classified"`
	Roles      map[classify.Role]int `json:"roles"`
}

func (s *Server) handleClassifyContours(args json.RawMessage) (interface{}, error) {
	var a classifyContoursArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.CanvasWidth <= 0 || a.CanvasHeight <= 0 {
		w, h := canvasOf(a.Contours)
		if a.CanvasWidth <= 0 {
			a.CanvasWidth = w
		}
		if a.CanvasHeight <= 0 {
			a.CanvasHeight = h
		}
	}

	// Unknown views are allowed here; every contour comes back unassigned.
	cs := classify.Classify(view.Parse(a.View), a.Contours, a.CanvasWidth, a.CanvasHeight, classify.DefaultRules())
	return &classifyContoursResult{Classified: cs, Roles: classify.Summary(cs)}, nil
}

// canvasOf returns the far corner of all contour points, at least 1x1.
func canvasOf(contours []geometry.Contour) (w, h float64) {
	w, h = 1, 1
	for _, c := range contours {
		for _, p := range c.Points {
			w = max(w, p.X)
			h = max(h, p.Y)
		}
	}
	return w, h
}

type serializeDXFArgs struct {
	Polylines    []geometry.Polyline `json:"polylines"`
	CanvasHeight float64             `json:"canvas_height"`
	OutputPath   string              `json:"output_path"`
	vectorArgs
}

type serializeDXFResult struct {
	Entities   int    `json:"entities"`
	Bytes      int    `json:"bytes"`
	OutputPath string `json:"output_path,omitempty"`
	DXF        string `json:"dxf,omitempty"`
}

func (s *Server) handleSerializeDXF(args json.RawMessage) (interface{}, error) {
	var a serializeDXFArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := a.dxfOptions(s)
	opts.CanvasHeight = a.CanvasHeight
	doc := dxf.NewDocument(a.Polylines, opts)
	data := doc.Bytes()

	res := &serializeDXFResult{Entities: len(doc.Entities), Bytes: len(data)}
	if a.OutputPath == "" {
		res.DXF = string(data)
		return res, nil
	}
	if err := pipeline.WriteFile(a.OutputPath, data); err != nil {
		return nil, err
	}
	res.OutputPath = a.OutputPath
	return res, nil
}
