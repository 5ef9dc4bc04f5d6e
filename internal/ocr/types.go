package ocr

import "image"

// MoreTrainedDataURL is where additional trained language models can be downloaded.
const MoreTrainedDataURL = "https://github.com/tesseract-ocr/tessdata/tree/3.04.00"

// TrainedDataExt is the file extension of a trained language model.
const TrainedDataExt = ".traineddata"

// Request pairs a canonical bitmap with the language to recognize it in.
type Request struct {
	// ID correlates log lines of a single recognition.
	ID string

	// Bitmap is the canonical RGBA copy of the source image.
	Bitmap *image.RGBA

	// Language is a trained data id such as "eng".
	Language string
}

// Result is the outcome of one recognition.
type Result struct {
	// RequestID mirrors Request.ID.
	RequestID string `json:"request_id"`

	// Text is the recognized text without leading or trailing whitespace.
	Text string `json:"text"`

	// Err is non-nil when recognition failed. It always wraps
	// apperr.ErrEngineFailure.
	Err error `json:"-"`
}

// Engine extracts text from a single request.
//
// Implementations are called from a worker goroutine and must not retain the
// request after returning.
type Engine interface {
	Recognize(req Request) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(req Request) (string, error)

// Recognize calls f(req).
func (f EngineFunc) Recognize(req Request) (string, error) {
	return f(req)
}
