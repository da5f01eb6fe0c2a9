// Package server implements the MCP (Model Context Protocol) server for the
// number reader.
//
// This package provides a JSON-RPC 2.0 server that exposes the regions of a
// session.Session through the MCP protocol: moving and resizing regions,
// logging recognized text frame by frame, running OCR on frames, and
// inspecting the trackers that decide when a number is confirmed.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Confirmed strings are pushed to the client as notifications/message
// notifications, in addition to whatever sinks the session publishes to.
//
// # Available Tools
//
// Region Operations:
//   - region_list: All regions with their state
//   - region_state: One region's rectangle, ROIs, and active transform
//   - region_set_rect: Move a region in view points
//   - region_set_orientation: Change UI orientation
//   - region_set_reference_size: Change the view size rectangles are measured in
//   - region_pan: Drag gesture (begin, change, end)
//   - region_pinch: Scale about the center
//   - region_reset: Back to the preset rectangle
//
// Frame Operations:
//   - frame_log: Log recognized lines for a region
//   - frame_recognize: Run OCR on a frame for every region
//   - frame_annotate: Draw regions and last-frame boxes onto a frame
//
// Tracker Operations:
//   - tracker_status: Frame index, best string, and tracked strings
//   - tracker_reset: Forget a string
//
// Transform Operations:
//   - transform_map_rect: Map a ROI-local box to render space and a preview layer
//
// Diagnostics:
//   - ocr_info: OCR backend availability
//
// # Coordinates
//
// Boxes sent with frame_log and transform_map_rect are relative to the
// region's recognition ROI and default to the bottom-left origin. Boxes
// returned are in render space: top-left origin, relative to the capture
// buffer in its native orientation.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.Options{Session: sess, Logger: log})
//	if err := srv.Run(ctx); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
package server
