package ocr

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/ocrlight/internal/apperr"
)

// Tesseract is an Engine backed by a fresh gosseract client per call.
type Tesseract struct {
	// TessdataDir is the directory holding <lang>.traineddata files.
	TessdataDir string

	// PageSegMode overrides Tesseract's page segmentation mode.
	// Zero keeps the library default (PSM_SINGLE_BLOCK).
	PageSegMode gosseract.PageSegMode
}

// NewTesseract creates a Tesseract engine reading models from tessdataDir.
func NewTesseract(tessdataDir string) *Tesseract {
	return &Tesseract{TessdataDir: tessdataDir}
}

// Recognize performs OCR on req.Bitmap using the trained data for req.Language.
//
// The language may combine several models with "+" (e.g. "eng+deu"); every
// part must have a model file in TessdataDir. The check happens before a
// client is created so that a missing model is reported clearly instead of
// as an opaque Tesseract init failure.
//
// # Implementation Details
//
// This function:
//  1. Verifies every requested model exists
//  2. Encodes the bitmap as PNG (gosseract takes encoded bytes)
//  3. Creates a gosseract client pointed at TessdataDir
//  4. Runs recognition and closes the client
//
// The returned text is untrimmed; Runner trims it.
func (t *Tesseract) Recognize(req Request) (string, error) {
	if req.Bitmap == nil {
		return "", fmt.Errorf("%w: bitmap is nil", apperr.ErrInvalidArgument)
	}

	langs, err := ModelPaths(t.TessdataDir, req.Language)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, req.Bitmap); err != nil {
		return "", fmt.Errorf("%w: failed to encode bitmap: %w", apperr.ErrEngineFailure, err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetTessdataPrefix(t.TessdataDir); err != nil {
		return "", fmt.Errorf("%w: failed to set tessdata prefix: %w", apperr.ErrEngineFailure, err)
	}

	if err := client.SetLanguage(langs...); err != nil {
		return "", fmt.Errorf("%w: failed to set language: %w", apperr.ErrEngineFailure, err)
	}

	if t.PageSegMode != 0 {
		if err := client.SetPageSegMode(t.PageSegMode); err != nil {
			return "", fmt.Errorf("%w: failed to set page segmentation mode: %w", apperr.ErrEngineFailure, err)
		}
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: failed to set image: %w", apperr.ErrEngineFailure, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: OCR failed for %s: %w", apperr.ErrEngineFailure, strings.Join(langs, "+"), err)
	}

	return text, nil
}
