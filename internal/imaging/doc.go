// Package imaging acquires source images and prepares them for OCR.
//
// Two concerns live here:
//
//   - Acquisition: decoding an image from a file path or from raw clipboard
//     bytes. BMP, GIF, JPEG, PNG, TIFF and WebP are supported, and EXIF
//     orientation is applied so that photographed pages reach the engine
//     upright.
//   - Canonicalization: copying whatever concrete image type the decoder
//     produced (*image.YCbCr, *image.Paletted, *image.NRGBA, ...) into a
//     fresh *image.RGBA whose bounds start at (0,0).
//
// # Error Handling
//
// Failures are wrapped around the sentinels of package apperr:
//   - apperr.ErrIO for files that cannot be opened or decoded
//   - apperr.ErrNotAnImage for clipboard payloads that are not images
//   - apperr.ErrInvalidArgument for a nil image passed to ToCanonicalBitmap
//
// # Thread Safety
//
// All functions are stateless. The returned canonical bitmap shares no
// memory with its source, so it can be handed to another goroutine while the
// caller keeps (or replaces) the original.
package imaging
