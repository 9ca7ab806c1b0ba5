package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the challenge screenshot",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "detect_structure",
			Description: "Detect the layout of a challenge screenshot: instruction area, body area, " +
				"the tile grid (cells numbered row-major from 1) and ball/target markers. " +
				"All boxes are [x, y, width, height] in image pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "render_structure_overlay",
			Description: "Detect the layout and draw it over the screenshot. Writes the annotated image " +
				"and, optionally, a side-by-side comparison with the original.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the annotated image. Format follows the extension",
					},
					"combined_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path for the side-by-side original/annotated image",
					},
				},
				"required": []string{"path", "output_path"},
			},
		},
		{
			Name:        "crop_cell",
			Description: "Detect the layout and return one tile cell as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"cell_id": map[string]interface{}{
						"type":        "integer",
						"description": "Cell id as reported by detect_structure (1-based, row-major)",
						"minimum":     1,
					},
				},
				"required": []string{"path", "cell_id"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width, height, format and file size of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "reload_model",
			Description: "Drop the cached detector model and cached images so the next call reloads them from disk.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
