package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/challenge-layout/internal/imaging"
	"github.com/ironsheep/challenge-layout/internal/layout"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "detect_structure").
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

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("Tool execution failed", zap.String("tool", params.Name), zap.Error(err))
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "detect_structure":
		return s.handleDetectStructure(ctx, args)
	case "render_structure_overlay":
		return s.handleRenderOverlay(ctx, args)
	case "crop_cell":
		return s.handleCropCell(ctx, args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "reload_model":
		return s.handleReloadModel()
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return errors.New("missing arguments")
	}
	return json.Unmarshal(args, v)
}

func (s *Server) handleDetectStructure(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.refresh(a.Path)
	return s.detector.DetectStructure(ctx, a.Path)
}

type renderOverlayArgs struct {
	Path         string `json:"path"`
	OutputPath   string `json:"output_path"`
	CombinedPath string `json:"combined_path"`
}

// RenderResult describes the files written by render_structure_overlay.
type RenderResult struct {
	OverlayPath  string `json:"overlay_path"`
	CombinedPath string `json:"combined_path,omitempty"`
	Cells        int    `json:"cells"`
	Balls        int    `json:"balls"`
	TargetBalls  int    `json:"target_balls"`
}

func (s *Server) handleRenderOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a renderOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.refresh(a.Path)
	if a.OutputPath == "" {
		return nil, errors.New("output_path is required")
	}

	structure, err := s.detector.DetectStructure(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	if err := imaging.SaveOverlay(a.Path, structure, a.OutputPath, a.CombinedPath); err != nil {
		return nil, err
	}

	cells := 0
	for _, r := range structure.TileRegions() {
		cells += len(r.Cells)
	}
	return &RenderResult{
		OverlayPath:  a.OutputPath,
		CombinedPath: a.CombinedPath,
		Cells:        cells,
		Balls:        len(structure.Balls),
		TargetBalls:  len(structure.TargetBalls),
	}, nil
}

type cropCellArgs struct {
	Path   string `json:"path"`
	CellID int    `json:"cell_id"`
}

// CellCrop is one tile cell cut out of the screenshot.
type CellCrop struct {
	CellID      int        `json:"cell_id"`
	BBox        layout.Box `json:"bbox"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	ImageBase64 string     `json:"image_base64"`
	MimeType    string     `json:"mime_type"`
}

func (s *Server) handleCropCell(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a cropCellArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.refresh(a.Path)

	structure, err := s.detector.DetectStructure(ctx, a.Path)
	if err != nil {
		return nil, err
	}

	var cell *layout.GridCell
	for _, r := range structure.TileRegions() {
		for i := range r.Cells {
			if r.Cells[i].ID == a.CellID {
				cell = &r.Cells[i]
				break
			}
		}
		if cell != nil {
			break
		}
	}
	if cell == nil {
		return nil, fmt.Errorf("no tile cell with id %d", a.CellID)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	cropped, err := imaging.CropBox(img, cell.BBox)
	if err != nil {
		return nil, err
	}
	data, err := imaging.EncodePNG(cropped)
	if err != nil {
		return nil, err
	}

	return &CellCrop{
		CellID:      cell.ID,
		BBox:        cell.BBox,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.refresh(a.Path)
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleReloadModel() (interface{}, error) {
	s.cache.Clear()
	s.forget()
	if err := s.detector.Reset(); err != nil {
		return nil, err
	}
	return map[string]interface{}{"reloaded": true}, nil
}
