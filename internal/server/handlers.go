package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/ironsheep/ocrlight/internal/apperr"
	"github.com/ironsheep/ocrlight/internal/config"
	"github.com/ironsheep/ocrlight/internal/ocr"
)

// JSON-RPC error codes. The -3200x range carries the OcrLight failure kinds.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
	codeNotAnImage     = -32001
	codeEngineFailure  = -32002
	codeIOFailure      = -32003
	codeBusy           = -32004
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the action to invoke (e.g., "from_picture", "recognize").
	Name string `json:"name"`

	// Arguments contains the action-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// toolCall is what an action handler receives.
type toolCall struct {
	id   interface{}
	args json.RawMessage
}

// action handles one named user action. Returning deferredResult means the
// handler took ownership of the response.
type action func(s *Server, call toolCall) (interface{}, error)

// deferredResult is returned by actions whose response is written later.
type deferredResult struct{}

// actions maps every action name to its handler.
var actions = map[string]action{
	"from_picture":      (*Server).handleFromPicture,
	"from_clipboard":    (*Server).handleFromClipboard,
	"recognize":         (*Server).handleRecognize,
	"get_text":          (*Server).handleGetText,
	"set_text":          (*Server).handleSetText,
	"save_text_as":      (*Server).handleSaveTextAs,
	"select_language":   (*Server).handleSelectLanguage,
	"list_languages":    (*Server).handleListLanguages,
	"select_font":       (*Server).handleSelectFont,
	"resize_window":     (*Server).handleResizeWindow,
	"state":             (*Server).handleState,
	"more_trained_data": (*Server).handleMoreTrainedData,
	"exit":              (*Server).handleExit,
}

// handleToolsCall processes a tools/call request and executes the named action.
//
// The response wraps the action result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Action errors return a JSON-RPC error response whose code identifies the
// failure kind (see errorCode). Recognize returns nil here; its response is
// written by finishRecognition.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, toolCall{id: req.ID, args: params.Arguments})
	if err != nil {
		s.logger.Warn("action failed", "action", params.Name, "error", err)
		return s.errorResponse(req.ID, errorCode(err), "Tool execution failed", err.Error())
	}
	if _, ok := result.(deferredResult); ok {
		return nil
	}

	return s.resultResponse(req.ID, result)
}

// executeTool dispatches to the action handler, converting a panic into an
// error so that one broken action never takes the process down.
func (s *Server) executeTool(name string, call toolCall) (result interface{}, err error) {
	handler, ok := actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tool: %s", apperr.ErrInvalidArgument, name)
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("action panicked", "action", name, "panic", p, "stack", string(debug.Stack()))
			result = nil
			err = fmt.Errorf("internal error in %s: %v", name, p)
		}
	}()

	s.logger.Debug("action", "name", name)
	return handler(s, call)
}

func (s *Server) resultResponse(id interface{}, result interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
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

// errorCode maps a failure kind to its JSON-RPC error code.
func errorCode(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		return codeInvalidParams
	case errors.Is(err, apperr.ErrNotAnImage):
		return codeNotAnImage
	case errors.Is(err, apperr.ErrEngineFailure):
		return codeEngineFailure
	case errors.Is(err, apperr.ErrIO):
		return codeIOFailure
	case errors.Is(err, apperr.ErrBusy), errors.Is(err, apperr.ErrReadOnly):
		return codeBusy
	default:
		return codeToolFailed
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals action arguments; absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidArgument, err)
	}
	return nil
}

// === Image Acquisition Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFromPicture(call toolCall) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(call.args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", apperr.ErrInvalidArgument)
	}
	if _, err := s.surface.LoadFromFile(a.Path); err != nil {
		return nil, err
	}
	return s.surface.State(), nil
}

func (s *Server) handleFromClipboard(call toolCall) (interface{}, error) {
	if _, err := s.surface.LoadFromClipboard(); err != nil {
		return nil, err
	}
	return s.surface.State(), nil
}

// === Recognition Handlers ===

func (s *Server) handleRecognize(call toolCall) (interface{}, error) {
	results, err := s.surface.StartRecognize()
	if err != nil {
		return nil, err
	}

	s.pending = &pendingRecognition{id: call.id, results: results}
	s.notify("notifications/state", s.surface.State())
	return deferredResult{}, nil
}

// finishRecognition applies a worker result and writes the owed response.
func (s *Server) finishRecognition(res ocr.Result) {
	id := s.pending.id
	s.pending = nil

	var resp *MCPResponse
	if err := s.surface.CompleteRecognize(res); err != nil {
		resp = s.errorResponse(id, errorCode(err), "Tool execution failed", err.Error())
	} else {
		resp = s.resultResponse(id, map[string]interface{}{"text": s.surface.Text()})
	}

	s.write(resp)
	s.notify("notifications/state", s.surface.State())
}

// === Text Handlers ===

func (s *Server) handleGetText(call toolCall) (interface{}, error) {
	return map[string]interface{}{"text": s.surface.Text()}, nil
}

type setTextArgs struct {
	Text string `json:"text"`
}

func (s *Server) handleSetText(call toolCall) (interface{}, error) {
	var a setTextArgs
	if err := decodeArgs(call.args, &a); err != nil {
		return nil, err
	}
	if err := s.surface.SetText(a.Text); err != nil {
		return nil, err
	}
	return s.surface.State(), nil
}

func (s *Server) handleSaveTextAs(call toolCall) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(call.args, &a); err != nil {
		return nil, err
	}
	n, err := s.surface.SaveTextAs(a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"path": a.Path, "bytes": n}, nil
}

// === Settings Handlers ===

type selectLanguageArgs struct {
	Language string `json:"language"`
}

func (s *Server) handleSelectLanguage(call toolCall) (interface{}, error) {
	var a selectLanguageArgs
	if err := decodeArgs(call.args, &a); err != nil {
		return nil, err
	}
	if err := s.surface.SelectLanguage(a.Language); err != nil {
		return nil, err
	}
	return s.surface.State(), nil
}

type listLanguagesArgs struct {
	Reload bool `json:"reload"`
}

func (s *Server) handleListLanguages(call toolCall) (interface{}, error) {
	var a listLanguagesArgs
	if err := decodeArgs(call.args, &a); err != nil {
		return nil, err
	}
	if a.Reload {
		if _, err := s.surface.ReloadLanguages(); err != nil {
			return nil, err
		}
	}
	return map[string]interface{}{
		"languages": s.surface.Languages(),
		"selected":  s.surface.Language(),
	}, nil
}

func (s *Server) handleSelectFont(call toolCall) (interface{}, error) {
	var a config.Font
	if err := decodeArgs(call.args, &a); err != nil {
		return nil, err
	}
	if err := s.surface.SelectFont(a); err != nil {
		return nil, err
	}
	return s.surface.State(), nil
}

type resizeWindowArgs struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleResizeWindow(call toolCall) (interface{}, error) {
	var a resizeWindowArgs
	if err := decodeArgs(call.args, &a); err != nil {
		return nil, err
	}
	if err := s.surface.Resize(a.Width, a.Height); err != nil {
		return nil, err
	}
	return s.surface.State(), nil
}

// === Window Handlers ===

func (s *Server) handleState(call toolCall) (interface{}, error) {
	return s.surface.State(), nil
}

type moreTrainedDataArgs struct {
	Open bool `json:"open"`
}

func (s *Server) handleMoreTrainedData(call toolCall) (interface{}, error) {
	var a moreTrainedDataArgs
	if err := decodeArgs(call.args, &a); err != nil {
		return nil, err
	}
	if a.Open {
		if err := s.openURL(ocr.MoreTrainedDataURL); err != nil {
			return nil, fmt.Errorf("open browser: %w", err)
		}
	}
	return map[string]interface{}{"url": ocr.MoreTrainedDataURL}, nil
}

func (s *Server) handleExit(call toolCall) (interface{}, error) {
	s.quit = true
	return map[string]interface{}{}, nil
}
