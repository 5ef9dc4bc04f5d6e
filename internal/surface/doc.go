// Package surface holds the state of the OcrLight main window without any
// widgets: the current image, the recognized text, cursor and read-only
// affordances, and the persisted settings.
//
// A Surface is owned by a single goroutine (the action loop, playing the part
// of a UI thread) and is not safe for concurrent use. Recognition is split in
// two so that the owner never blocks on OCR:
//
//	ch, err := s.StartRecognize() // marks the surface busy, dispatches work
//	...                           // owner keeps serving other actions
//	err = s.CompleteRecognize(<-ch) // restores affordances, applies text
//
// CompleteRecognize always restores the cursor, read-only flag and busy flag
// to their pre-call values, whether the recognition succeeded or not.
package surface
