// Package apperr defines the failure kinds shared by every OcrLight component.
//
// Components wrap these sentinels with context using fmt.Errorf and %w; callers
// classify failures with errors.Is. The action server maps each kind to a
// JSON-RPC error code.
package apperr

import "errors"

var (
	// ErrInvalidArgument marks a precondition violation such as a nil image.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotAnImage is returned when the clipboard holds no image data.
	ErrNotAnImage = errors.New("not image")

	// ErrEngineFailure covers every failure inside the OCR engine: missing or
	// corrupt trained data, initialization failure, processing failure.
	ErrEngineFailure = errors.New("ocr engine failure")

	// ErrIO marks file read or write failures.
	ErrIO = errors.New("i/o failure")

	// ErrBusy is returned when a recognition is already in flight.
	ErrBusy = errors.New("recognition already running")

	// ErrReadOnly is returned when the text is edited while it is read-only.
	ErrReadOnly = errors.New("text is read-only")
)
