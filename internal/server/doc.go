// Package server drives an OcrLight surface over the MCP (Model Context
// Protocol) wire format.
//
// A front end (a GUI shell, an editor plugin, any MCP client) plays the part
// of the main window: each menu item or toolbar button becomes a tools/call
// request naming an action, and the window redraws from the state snapshots
// the actions return.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available actions
//   - tools/call: Execute an action with arguments
//   - ping: Health check
//
// # Actions
//
// Image acquisition:
//   - from_picture: Load an image file
//   - from_clipboard: Load the clipboard image
//
// Recognition:
//   - recognize: OCR the current image in the selected language
//
// Text:
//   - get_text, set_text: Read or edit the OCR text
//   - save_text_as: Export the OCR text to a file
//
// Settings:
//   - select_language, list_languages: Trained data selection
//   - select_font: Display font
//   - resize_window: Window size
//
// Window:
//   - state: Full snapshot for redrawing
//   - more_trained_data: Trained data download page
//   - exit: Stop serving
//
// # Recognition Is Asynchronous
//
// The serve loop is the UI thread. recognize dispatches OCR to a worker
// goroutine and returns to reading requests; its response is written when
// the worker finishes, and a notifications/state message is sent when the
// surface becomes busy and again when it is idle. While busy, recognize and
// set_text are rejected with code -32004.
//
// # Error Handling
//
// Action errors are returned as JSON-RPC error responses with:
//   - code: -32602 invalid argument, -32001 not an image, -32002 OCR engine
//     failure, -32003 file I/O failure, -32004 busy/read-only, -32000 other
//   - message: "Tool execution failed"
//   - data: The Go error string
//
// A panic inside an action is recovered, logged and reported as -32000; the
// server keeps running.
package server
