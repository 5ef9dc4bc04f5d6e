package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/ocrlight/internal/apperr"
)

// Info contains metadata about an acquired image.
type Info struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Origin describes where the image came from: "file:<path>" or "clipboard".
	Origin string `json:"origin"`
}

// Open loads and decodes an image file.
//
// Parameters:
//   - path: Absolute or relative file path to the image.
//
// Returns:
//   - image.Image: The decoded image, rotated according to its EXIF
//     orientation tag when one is present.
//   - error: Wraps apperr.ErrIO if the file cannot be read or decoded.
func Open(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: open image %s: %w", apperr.ErrIO, path, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image %s: %w", apperr.ErrIO, path, err)
	}
	return img, nil
}

// Decode decodes an in-memory image payload, typically clipboard content.
//
// An empty payload, or one no registered decoder understands, is reported as
// apperr.ErrNotAnImage.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperr.ErrNotAnImage
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrNotAnImage, err)
	}
	return img, nil
}

// Describe returns the dimensions of img tagged with its origin.
func Describe(img image.Image, origin string) Info {
	bounds := img.Bounds()
	return Info{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Origin: origin,
	}
}
