package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/browser"

	"github.com/ironsheep/ocrlight/internal/ocr"
	"github.com/ironsheep/ocrlight/internal/surface"
)

// Version is reported in the initialize response.
var Version = "dev"

// Server handles MCP protocol communication and owns the Surface.
type Server struct {
	surface *surface.Surface
	logger  *slog.Logger
	openURL func(url string) error

	encoder *json.Encoder
	pending *pendingRecognition
	quit    bool
}

// pendingRecognition is a recognize call whose response is still owed.
type pendingRecognition struct {
	id      interface{}
	results <-chan ocr.Result
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

// New creates a server driving surf. A nil logger discards log output.
func New(surf *surface.Surface, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		surface: surf,
		logger:  logger,
		openURL: browser.OpenURL,
	}
}

// Run serves requests from stdin, writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
//
// Serve is the only goroutine that touches the Surface. A recognize call does
// not block it: the worker's result is picked up by the same select that
// reads requests, and the deferred response is written then. Serve returns
// when input ends or the exit action is called, after any in-flight
// recognition has been answered.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	s.encoder = json.NewEncoder(w)

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		// Increase buffer size for large requests
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)

		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	in := lines
	for {
		var results <-chan ocr.Result
		if s.pending != nil {
			results = s.pending.results
		}
		if in == nil && results == nil {
			break
		}

		select {
		case line, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			s.handleLine(line)
			if s.quit {
				in = nil
			}
		case res := <-results:
			s.finishRecognition(res)
		}
	}

	select {
	case err := <-scanErr:
		if err != nil {
			return fmt.Errorf("scanner error: %w", err)
		}
	default:
	}
	return nil
}

func (s *Server) handleLine(line []byte) {
	if len(line) == 0 {
		return
	}

	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("failed to parse request", "error", err)
		s.write(s.errorResponse(nil, codeParseError, "Parse error", err.Error()))
		return
	}

	if resp := s.handleRequest(&req); resp != nil {
		s.write(resp)
	}
}

func (s *Server) write(v interface{}) {
	if err := s.encoder.Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) notify(method string, params interface{}) {
	s.write(&MCPNotification{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
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
				Code:    codeMethodNotFound,
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
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "ocrlight",
				"version": Version,
			},
		},
	}
}
