package ocr

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/ocrlight/internal/apperr"
)

// Runner dispatches recognitions to background goroutines.
//
// A Runner holds no per-call state; concurrent Start calls are safe as long as
// the Engine is. Limiting recognitions to one at a time is the caller's job.
type Runner struct {
	engine Engine
	logger *slog.Logger
}

// NewRunner creates a Runner that recognizes with engine.
// A nil logger discards log output.
func NewRunner(engine Engine, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{engine: engine, logger: logger}
}

// Start validates the inputs and launches recognition on a new goroutine.
//
// The returned channel receives exactly one Result and is then closed. A nil
// bitmap is rejected with apperr.ErrInvalidArgument and nothing is dispatched.
func (r *Runner) Start(bitmap *image.RGBA, language string) (<-chan Result, error) {
	if bitmap == nil {
		return nil, fmt.Errorf("%w: bitmap is nil", apperr.ErrInvalidArgument)
	}

	req := Request{
		ID:       uuid.NewString(),
		Bitmap:   bitmap,
		Language: language,
	}

	out := make(chan Result, 1)
	r.logger.Debug("recognition dispatched", "request", req.ID, "language", language,
		"width", bitmap.Bounds().Dx(), "height", bitmap.Bounds().Dy())

	go func() {
		defer close(out)
		out <- r.run(req)
	}()

	return out, nil
}

// Recognize runs a recognition and blocks until it finishes.
func (r *Runner) Recognize(bitmap *image.RGBA, language string) (string, error) {
	ch, err := r.Start(bitmap, language)
	if err != nil {
		return "", err
	}
	res := <-ch
	return res.Text, res.Err
}

func (r *Runner) run(req Request) (res Result) {
	res.RequestID = req.ID
	started := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res.Text = ""
			res.Err = fmt.Errorf("%w: engine panic: %v", apperr.ErrEngineFailure, p)
		}
		if res.Err != nil {
			r.logger.Warn("recognition failed", "request", req.ID, "error", res.Err,
				"elapsed", time.Since(started))
			return
		}
		r.logger.Info("recognition completed", "request", req.ID, "chars", len(res.Text),
			"elapsed", time.Since(started))
	}()

	text, err := r.engine.Recognize(req)
	if err != nil {
		if !errors.Is(err, apperr.ErrEngineFailure) {
			err = fmt.Errorf("%w: %w", apperr.ErrEngineFailure, err)
		}
		res.Err = err
		return res
	}

	// Compose accents to NFC, since Tesseract can emit base letter plus combining mark.
	res.Text = norm.NFC.String(strings.TrimSpace(text))
	return res
}
