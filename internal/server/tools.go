package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available actions
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image acquisition
		{
			Name:        "from_picture",
			Description: "Load an image file as the current picture. Clears the OCR text.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to a BMP, GIF, JPEG, PNG, TIFF or WebP file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "from_clipboard",
			Description: "Use the image on the clipboard as the current picture. Fails with 'not image' if the clipboard holds anything else.",
			InputSchema: noArgs(),
		},

		// Recognition
		{
			Name:        "recognize",
			Description: "Run OCR on the current picture in the selected language and replace the OCR text with the result. The response arrives when recognition finishes; other actions keep working meanwhile.",
			InputSchema: noArgs(),
		},

		// Text
		{
			Name:        "get_text",
			Description: "Return the current OCR text.",
			InputSchema: noArgs(),
		},
		{
			Name:        "set_text",
			Description: "Replace the OCR text (user edit). Rejected while recognition is running.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "New text",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "save_text_as",
			Description: "Write the OCR text to a plain text file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Destination file path",
					},
				},
				"required": []string{"path"},
			},
		},

		// Settings
		{
			Name:        "select_language",
			Description: "Select the trained language model used for recognition (e.g. 'eng', 'eng+deu'). Saved immediately.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Trained data id",
					},
				},
				"required": []string{"language"},
			},
		},
		{
			Name:        "list_languages",
			Description: "List the trained language models found in the tessdata directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Rescan the tessdata directory first. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "select_font",
			Description: "Set the font used to display the OCR text. Saved immediately.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"family": map[string]interface{}{
						"type":        "string",
						"description": "Font family name",
					},
					"size": map[string]interface{}{
						"type":        "number",
						"description": "Size in points",
					},
					"style": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"regular", "bold", "italic", "bold italic"},
						"description": "Font style. Default regular",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Text color as #rrggbb. Default #000000",
					},
				},
				"required": []string{"family", "size"},
			},
		},
		{
			Name:        "resize_window",
			Description: "Record the main window size. Saved immediately.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Height in pixels",
					},
				},
				"required": []string{"width", "height"},
			},
		},

		// Window
		{
			Name:        "state",
			Description: "Return everything needed to draw the window: picture info, text, cursors, read-only and busy flags, language, font, window size.",
			InputSchema: noArgs(),
		},
		{
			Name:        "more_trained_data",
			Description: "Return the download page for more trained language models, optionally opening it in the browser.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"open": map[string]interface{}{
						"type":        "boolean",
						"description": "Open the page in the default browser. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "exit",
			Description: "Close the application once any running recognition has been answered.",
			InputSchema: noArgs(),
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
