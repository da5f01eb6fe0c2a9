package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
	"github.com/ironsheep/number-reader-mcp/internal/imaging"
	"github.com/ironsheep/number-reader-mcp/internal/roi"
	"github.com/ironsheep/number-reader-mcp/internal/session"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "region_state", "frame_log").
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
		s.log.Debug("tool failed", "tool", params.Name, "error", err)
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
	if s.session == nil {
		return nil, fmt.Errorf("no session configured")
	}

	switch name {
	// Region Operations
	case "region_list":
		return s.handleRegionList(args)
	case "region_state":
		return s.handleRegionState(args)
	case "region_set_rect":
		return s.handleRegionSetRect(args)
	case "region_set_orientation":
		return s.handleRegionSetOrientation(args)
	case "region_set_reference_size":
		return s.handleRegionSetReferenceSize(args)
	case "region_pan":
		return s.handleRegionPan(args)
	case "region_pinch":
		return s.handleRegionPinch(args)
	case "region_reset":
		return s.handleRegionReset(args)

	// Frame Operations
	case "frame_log":
		return s.handleFrameLog(ctx, args)
	case "frame_recognize":
		return s.handleFrameRecognize(ctx, args)
	case "frame_annotate":
		return s.handleFrameAnnotate(args)

	// Tracker Operations
	case "tracker_status":
		return s.handleTrackerStatus(args)
	case "tracker_reset":
		return s.handleTrackerReset(args)

	// Transform Operations
	case "transform_map_rect":
		return s.handleTransformMapRect(args)

	// Diagnostics
	case "ocr_info":
		if s.info == nil {
			return map[string]interface{}{"available": false}, nil
		}
		return s.info(), nil

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

// === Wire Types ===

// wireBox is a normalized box as clients send it. Origin defaults to
// bottom-left, the convention recognizers report in.
type wireBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Origin string  `json:"origin"`
}

func (b wireBox) rect() (geometry.NormalizedRect, error) {
	r := geometry.NormalizedRect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
	switch b.Origin {
	case "", "bottom-left":
		r.Origin = geometry.OriginBottomLeft
	case "top-left":
		r.Origin = geometry.OriginTopLeft
	default:
		return r, fmt.Errorf("unknown origin: %q", b.Origin)
	}
	return r, nil
}

type wireWord struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Box   wireBox `json:"box"`
}

type wireObservation struct {
	Text       string     `json:"text"`
	Box        wireBox    `json:"box"`
	Words      []wireWord `json:"words"`
	Confidence float64    `json:"confidence"`
}

func (o wireObservation) observation() (session.Observation, error) {
	box, err := o.Box.rect()
	if err != nil {
		return session.Observation{}, err
	}
	out := session.Observation{Text: o.Text, Box: box, Confidence: o.Confidence}
	for _, w := range o.Words {
		if w.Start < 0 || w.End > len(o.Text) || w.Start > w.End {
			return session.Observation{}, fmt.Errorf("word [%d,%d) out of range for %q", w.Start, w.End, o.Text)
		}
		wb, err := w.Box.rect()
		if err != nil {
			return session.Observation{}, err
		}
		out.Words = append(out.Words, session.WordBox{Start: w.Start, End: w.End, Box: wb})
	}
	return out, nil
}

// === Region Operation Handlers ===

type regionArgs struct {
	Region string `json:"region"`
}

type regionSummary struct {
	Name  string    `json:"name"`
	State roi.State `json:"state"`
}

func (s *Server) handleRegionList(_ json.RawMessage) (interface{}, error) {
	names := s.session.Regions()
	regions := make([]regionSummary, 0, len(names))
	for _, name := range names {
		st, err := s.session.RegionState(name)
		if err != nil {
			return nil, err
		}
		regions = append(regions, regionSummary{Name: name, State: st})
	}
	return map[string]interface{}{
		"regions": regions,
		"presets": roi.PresetNames(),
	}, nil
}

func (s *Server) handleRegionState(args json.RawMessage) (interface{}, error) {
	var a regionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.session.RegionState(a.Region)
}

type regionSetRectArgs struct {
	Region string  `json:"region"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleRegionSetRect(args json.RawMessage) (interface{}, error) {
	var a regionSetRectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.session.UpdateROI(a.Region, func(m *roi.Manager) error {
		m.SetRect(geometry.NewRect(a.X, a.Y, a.Width, a.Height))
		return nil
	})
}

type regionSetOrientationArgs struct {
	Region      string `json:"region"`
	Orientation string `json:"orientation"`
}

func (s *Server) handleRegionSetOrientation(args json.RawMessage) (interface{}, error) {
	var a regionSetOrientationArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	o, err := geometry.ParseOrientation(a.Orientation)
	if err != nil {
		return nil, err
	}

	if a.Region != "" {
		return s.session.UpdateROI(a.Region, func(m *roi.Manager) error {
			m.SetOrientation(o)
			return nil
		})
	}

	s.session.SetOrientation(o)
	return s.handleRegionList(nil)
}

type regionSetReferenceSizeArgs struct {
	Region string  `json:"region"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleRegionSetReferenceSize(args json.RawMessage) (interface{}, error) {
	var a regionSetReferenceSizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width < 0 || a.Height < 0 {
		return nil, fmt.Errorf("reference size must not be negative, got %vx%v", a.Width, a.Height)
	}
	return s.session.UpdateROI(a.Region, func(m *roi.Manager) error {
		m.SetReferenceFrameSize(geometry.Size{Width: a.Width, Height: a.Height})
		return nil
	})
}

type regionPanArgs struct {
	Region string  `json:"region"`
	Phase  string  `json:"phase"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

func (s *Server) handleRegionPan(args json.RawMessage) (interface{}, error) {
	var a regionPanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.session.UpdateROI(a.Region, func(m *roi.Manager) error {
		switch a.Phase {
		case "begin":
			m.BeginPan()
		case "change", "":
			m.Pan(a.DX, a.DY)
		case "end":
			m.EndPan()
		default:
			return fmt.Errorf("unknown pan phase: %q", a.Phase)
		}
		return nil
	})
}

type regionPinchArgs struct {
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleRegionPinch(args json.RawMessage) (interface{}, error) {
	var a regionPinchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.session.UpdateROI(a.Region, func(m *roi.Manager) error {
		return m.Pinch(a.Scale)
	})
}

func (s *Server) handleRegionReset(args json.RawMessage) (interface{}, error) {
	var a regionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.session.UpdateROI(a.Region, func(m *roi.Manager) error {
		m.ResetToPreset()
		return nil
	})
}

// === Frame Operation Handlers ===

type frameLogArgs struct {
	Region       string            `json:"region"`
	Observations []wireObservation `json:"observations"`
}

func (s *Server) handleFrameLog(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a frameLogArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	obs := make([]session.Observation, 0, len(a.Observations))
	for i, w := range a.Observations {
		o, err := w.observation()
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		obs = append(obs, o)
	}
	return s.session.LogFrame(ctx, a.Region, obs)
}

type frameArgs struct {
	ImagePath   string `json:"image_path"`
	ImageBase64 string `json:"image_base64"`
}

func (s *Server) loadFrame(a frameArgs) (image.Image, error) {
	switch {
	case a.ImagePath != "":
		return s.frames.Load(a.ImagePath)
	case a.ImageBase64 != "":
		return imaging.DecodeBase64(a.ImageBase64)
	}
	return nil, fmt.Errorf("image_path or image_base64 is required")
}

type frameRecognizeResult struct {
	Frame   imaging.FrameInfo     `json:"frame"`
	Results []session.FrameResult `json:"results"`
	Error   string                `json:"error,omitempty"`
}

func (s *Server) handleFrameRecognize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a frameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, err := s.loadFrame(a)
	if err != nil {
		return nil, err
	}

	results, err := s.session.Recognize(ctx, frame)
	if err != nil && results == nil {
		return nil, err
	}

	out := frameRecognizeResult{Frame: imaging.Info(frame), Results: results}
	// Frames were still logged for every region; report the failure alongside.
	if err != nil {
		out.Error = err.Error()
	}
	return out, nil
}

type frameAnnotateArgs struct {
	frameArgs
	Region  string `json:"region"`
	Display bool   `json:"display"`
}

func (s *Server) handleFrameAnnotate(args json.RawMessage) (interface{}, error) {
	var a frameAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, err := s.loadFrame(a.frameArgs)
	if err != nil {
		return nil, err
	}

	names := s.session.Regions()
	if a.Region != "" {
		names = []string{a.Region}
	}

	var (
		outlines    []imaging.Outline
		orientation = geometry.LandscapeRight
	)
	for i, name := range names {
		st, err := s.session.RegionState(name)
		if err != nil {
			return nil, err
		}
		last, err := s.session.LastFrame(name)
		if err != nil {
			return nil, err
		}
		// One display rotation is applied to the whole frame.
		if a.Display && i > 0 && st.Orientation != orientation {
			return nil, fmt.Errorf("regions %q and %q have different orientations (%s, %s); annotate one region at a time for display",
				names[0], name, orientation, st.Orientation)
		}
		orientation = st.Orientation
		outlines = append(outlines, regionOutlines(name, st, last)...)
	}

	if a.Display {
		// Render space follows the buffer; move the outlines with the pixels.
		undo, ok := geometry.OrientationTransform(orientation).Inverse()
		if !ok {
			return nil, fmt.Errorf("orientation %s is not invertible", orientation)
		}
		for i := range outlines {
			r := undo.ApplyRect(outlines[i].Rect.In(geometry.OriginTopLeft).Rect())
			outlines[i].Rect = geometry.NormalizedRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Origin: geometry.OriginTopLeft}
		}
		frame = imaging.ToDisplay(frame, orientation)
	}

	return imaging.EncodePNG(imaging.Annotate(frame, outlines))
}

// regionOutlines returns the ROI border followed by the boxes of the last
// frame, all in render space.
func regionOutlines(name string, st roi.State, last session.FrameResult) []imaging.Outline {
	border, err := colorful.Hex(st.BorderColor)
	if err != nil {
		border = session.NumberColor
	}
	width := int(st.BorderWidth + 0.5)
	if width < 1 {
		width = 1
	}

	label := name
	if last.Current != "" {
		label = name + ": " + last.Current
	}

	outlines := []imaging.Outline{{
		Rect:  geometry.ProjectBox(geometry.UnitRect(geometry.OriginBottomLeft), st.ActiveTransform),
		Color: border,
		Width: width,
		Label: label,
	}}
	for _, b := range last.Boxes {
		outlines = append(outlines, imaging.Outline{Rect: b.Box, Color: b.Kind.Color(), Width: 2})
	}
	return outlines
}

// === Tracker Operation Handlers ===

func (s *Server) handleTrackerStatus(args json.RawMessage) (interface{}, error) {
	var a regionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.session.TrackerStatus(a.Region)
}

type trackerResetArgs struct {
	Region string `json:"region"`
	Value  string `json:"value"`
}

func (s *Server) handleTrackerReset(args json.RawMessage) (interface{}, error) {
	var a trackerResetArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	value, err := s.session.ResetTracker(a.Region, a.Value)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"region": a.Region,
		"reset":  value,
	}, nil
}

// === Transform Operation Handlers ===

type transformMapRectArgs struct {
	Region        string  `json:"region"`
	Box           wireBox `json:"box"`
	LayerWidth    float64 `json:"layer_width"`
	LayerHeight   float64 `json:"layer_height"`
	ContentWidth  float64 `json:"content_width"`
	ContentHeight float64 `json:"content_height"`
	Gravity       string  `json:"gravity"`
}

type transformMapRectResult struct {
	Render geometry.NormalizedRect `json:"render"`
	Layer  *geometry.Rect          `json:"layer,omitempty"`
}

func (s *Server) handleTransformMapRect(args json.RawMessage) (interface{}, error) {
	var a transformMapRectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	box, err := a.Box.rect()
	if err != nil {
		return nil, err
	}
	st, err := s.session.RegionState(a.Region)
	if err != nil {
		return nil, err
	}

	out := transformMapRectResult{Render: geometry.ProjectBox(box.In(geometry.OriginBottomLeft), st.ActiveTransform)}
	if a.LayerWidth <= 0 || a.LayerHeight <= 0 {
		return out, nil
	}

	gravity, err := geometry.ParseGravity(a.Gravity)
	if err != nil {
		return nil, err
	}
	mapper := geometry.LayerMapper{
		Layer:       geometry.Size{Width: a.LayerWidth, Height: a.LayerHeight},
		Content:     geometry.Size{Width: a.ContentWidth, Height: a.ContentHeight},
		Gravity:     gravity,
		Orientation: st.Orientation,
	}
	layer := mapper.ToLayer(out.Render)
	out.Layer = &layer
	return out, nil
}
