package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Region name (see region_list)",
	}
}

// frameSource adds the two ways of passing a frame to props.
func frameSource(props map[string]interface{}) map[string]interface{} {
	props["image_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the frame image, in the capture buffer's native orientation",
	}
	props["image_base64"] = map[string]interface{}{
		"type":        "string",
		"description": "Base64-encoded frame image (a data: URL is accepted). Used when image_path is empty",
	}
	return props
}

func boxProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x":      map[string]interface{}{"type": "number"},
			"y":      map[string]interface{}{"type": "number"},
			"width":  map[string]interface{}{"type": "number"},
			"height": map[string]interface{}{"type": "number"},
			"origin": map[string]interface{}{
				"type": "string",
				"enum": []string{"bottom-left", "top-left"},
			},
		},
		"required": []string{"x", "y", "width", "height"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	orientations := []string{"portrait", "portrait-upside-down", "landscape-left", "landscape-right"}

	return []Tool{
		// Region Operations
		{
			Name:        "region_list",
			Description: "List the regions of interest with their current state.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "region_state",
			Description: "Get a region's rectangle, orientation, reference size, normalized and recognition ROIs, and active transform.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
				},
				"required": []string{"region"},
			},
		},
		{
			Name:        "region_set_rect",
			Description: "Move a region to a rectangle in view points. Negative sizes are standardized.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
					"x":      map[string]interface{}{"type": "number", "description": "Left edge in view points"},
					"y":      map[string]interface{}{"type": "number", "description": "Top edge in view points"},
					"width":  map[string]interface{}{"type": "number"},
					"height": map[string]interface{}{"type": "number"},
				},
				"required": []string{"region", "x", "y", "width", "height"},
			},
		},
		{
			Name:        "region_set_orientation",
			Description: "Set the UI orientation of one region, or of every region when region is omitted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
					"orientation": map[string]interface{}{
						"type": "string",
						"enum": orientations,
					},
				},
				"required": []string{"orientation"},
			},
		},
		{
			Name:        "region_set_reference_size",
			Description: "Set the size of the view the region rectangle is measured in.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
					"width":  map[string]interface{}{"type": "number"},
					"height": map[string]interface{}{"type": "number"},
				},
				"required": []string{"region", "width", "height"},
			},
		},
		{
			Name:        "region_pan",
			Description: "Drag a region. Translations accumulate between begin and end; a change without begin starts a pan.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
					"phase": map[string]interface{}{
						"type":    "string",
						"enum":    []string{"begin", "change", "end"},
						"default": "change",
					},
					"dx": map[string]interface{}{"type": "number", "description": "Horizontal translation in view points"},
					"dy": map[string]interface{}{"type": "number", "description": "Vertical translation in view points"},
				},
				"required": []string{"region"},
			},
		},
		{
			Name:        "region_pinch",
			Description: "Scale a region about its center by an incremental factor.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
					"scale":  map[string]interface{}{"type": "number", "description": "Incremental factor, must be positive"},
				},
				"required": []string{"region", "scale"},
			},
		},
		{
			Name:        "region_reset",
			Description: "Put a region back at its preset rectangle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
				},
				"required": []string{"region"},
			},
		},

		// Frame Operations
		{
			Name:        "frame_log",
			Description: "Log one frame of recognized text lines for a region. Returns the numbers found, the boxes to draw, and any string confirmed on this frame. Log a frame even when nothing was recognized.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
					"observations": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"text":       map[string]interface{}{"type": "string"},
								"box":        boxProperty("Line box relative to the recognition ROI"),
								"confidence": map[string]interface{}{"type": "number"},
								"words": map[string]interface{}{
									"type": "array",
									"items": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"start": map[string]interface{}{"type": "integer", "description": "Byte offset into text"},
											"end":   map[string]interface{}{"type": "integer"},
											"box":   boxProperty("Word box relative to the recognition ROI"),
										},
									},
								},
							},
							"required": []string{"text", "box"},
						},
					},
				},
				"required": []string{"region"},
			},
		},
		{
			Name:        "frame_recognize",
			Description: "Run OCR on a frame for every region and log the results as the next frame.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": frameSource(map[string]interface{}{}),
			},
		},
		{
			Name:        "frame_annotate",
			Description: "Draw region outlines and the boxes from each region's last frame onto a frame. Returns a base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": frameSource(map[string]interface{}{
					"region": regionProperty(),
					"display": map[string]interface{}{
						"type":        "boolean",
						"description": "Rotate the frame to the UI orientation before drawing. All drawn regions must share one orientation",
						"default":     false,
					},
				}),
			},
		},

		// Tracker Operations
		{
			Name:        "tracker_status",
			Description: "Get a region's tracker: frame index, current best string and count, and every tracked string.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
				},
				"required": []string{"region"},
			},
		},
		{
			Name:        "tracker_reset",
			Description: "Forget a string in a region's tracker so it has to be seen again. Defaults to the current best string.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
					"value":  map[string]interface{}{"type": "string"},
				},
				"required": []string{"region"},
			},
		},

		// Transform Operations
		{
			Name:        "transform_map_rect",
			Description: "Map a box relative to a region's recognition ROI into render space, and optionally onto a preview layer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": regionProperty(),
					"box":    boxProperty("Box relative to the recognition ROI (default origin bottom-left)"),
					"layer_width": map[string]interface{}{
						"type":        "number",
						"description": "Preview layer width in points. Layer mapping is skipped when zero",
					},
					"layer_height":   map[string]interface{}{"type": "number"},
					"content_width":  map[string]interface{}{"type": "number", "description": "Capture buffer width"},
					"content_height": map[string]interface{}{"type": "number", "description": "Capture buffer height"},
					"gravity": map[string]interface{}{
						"type":    "string",
						"enum":    []string{"aspect-fill", "aspect-fit", "resize"},
						"default": "aspect-fill",
					},
				},
				"required": []string{"region", "box"},
			},
		},

		// Diagnostics
		{
			Name:        "ocr_info",
			Description: "Report the OCR backend and its availability.",
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
