// Package ocr runs Tesseract on canonical bitmaps off the caller's goroutine.
//
// The package wraps the Tesseract OCR engine (via gosseract/v2). Each
// recognition builds its own gosseract client, uses it once and closes it, so
// no engine state is shared between calls.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// Trained data is read from a tessdata directory (./tessdata by default).
// Each language is a single <id>.traineddata file; the id is what callers pass
// as the language (e.g. "eng", "deu", "chi_sim"). More models are available
// from MoreTrainedDataURL.
//
// # Components
//
//   - Catalog: lists the language ids available in a tessdata directory
//   - Tesseract: the Engine implementation backed by gosseract
//   - Runner: validates a request, dispatches it to a worker goroutine and
//     delivers a single trimmed Result
//
// # Error Handling
//
// Runner.Start rejects a nil bitmap with apperr.ErrInvalidArgument before any
// goroutine is started. Everything that goes wrong inside the worker (unknown
// language, engine init failure, processing failure, even a panic) is
// reported as apperr.ErrEngineFailure.
package ocr
