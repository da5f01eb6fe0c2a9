package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ironsheep/number-reader-mcp/internal/imaging"
	"github.com/ironsheep/number-reader-mcp/internal/logging"
	"github.com/ironsheep/number-reader-mcp/internal/session"
	"github.com/ironsheep/number-reader-mcp/internal/sink"
)

// Server handles MCP protocol communication
type Server struct {
	session *session.Session
	frames  *imaging.FrameCache
	info    func() interface{}
	log     *logging.Logger
	version string

	outMu sync.Mutex
	out   *json.Encoder
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Options configures a Server.
type Options struct {
	// Session holds the regions the tools operate on. Required.
	Session *session.Session
	// Logger receives diagnostics. stdout carries the protocol, so it must
	// not write there.
	Logger *logging.Logger
	// Version is reported in serverInfo.
	Version string
	// Info, when set, backs the ocr_info tool.
	Info func() interface{}
}

// New creates a new MCP server instance
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Server{
		session: opts.Session,
		frames:  imaging.NewFrameCache(),
		info:    opts.Info,
		log:     opts.Logger,
		version: opts.Version,
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to
// w. Confirmations from the session are sent as notifications while Serve
// runs. It returns when r is exhausted or ctx is done, without waiting
// for a blocked read on r.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	s.out = json.NewEncoder(w)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.forwardConfirmations(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	// The scanner blocks on r, so it runs on its own goroutine and Serve can
	// return on ctx even while the client is idle.
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		// Increase buffer size for large requests; base64 frames are big
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 32*1024*1024)

		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		var line []byte
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return nil
			}
			line = l
		}
		if ctx.Err() != nil {
			return nil
		}
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", "error", err)
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := s.write(resp); err != nil {
				s.log.Error("failed to encode response", "error", err)
			}
		}
	}
}

func (s *Server) write(v interface{}) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return s.out.Encode(v)
}

// forwardConfirmations relays confirmed strings to the client as log
// message notifications. Pending confirmations are flushed when ctx ends.
func (s *Server) forwardConfirmations(ctx context.Context) {
	if s.session == nil {
		return
	}
	confirmations := s.session.Confirmations()
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case c := <-confirmations:
					s.notify(c)
				default:
					return
				}
			}
		case c := <-confirmations:
			s.notify(c)
		}
	}
}

func (s *Server) notify(c sink.Confirmation) {
	n := MCPNotification{
		JSONRPC: "2.0",
		Method:  "notifications/message",
		Params: map[string]interface{}{
			"level":  "info",
			"logger": "number-reader",
			"data":   c,
		},
	}
	if err := s.write(n); err != nil {
		s.log.Error("failed to send confirmation", "region", c.Region, "error", err)
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools":   map[string]interface{}{},
				"logging": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "number-reader-mcp",
				"version": s.version,
			},
		},
	}
}
