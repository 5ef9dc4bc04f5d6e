package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/ocrlight/internal/apperr"
)

// ToCanonicalBitmap renders img onto a freshly allocated RGBA canvas of the
// same pixel dimensions.
//
// The result always has bounds (0,0)-(w,h) regardless of the source's
// bounds, and never aliases the source's pixel buffer. This isolates the OCR
// engine from whichever concrete type the acquisition step produced.
//
// Returns an error wrapping apperr.ErrInvalidArgument when img is nil.
func ToCanonicalBitmap(img image.Image) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image is nil", apperr.ErrInvalidArgument)
	}
	c := clone.AsRGBA(img)
	// Pix offsets are relative to Rect.Min, so moving the rectangle is enough.
	c.Rect = c.Rect.Sub(c.Rect.Min)
	return c, nil
}
