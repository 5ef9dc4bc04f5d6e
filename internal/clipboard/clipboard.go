// Package clipboard reads image payloads from the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/ironsheep/ocrlight/internal/apperr"
)

// Source provides the current clipboard content.
type Source interface {
	// HasImage reports whether the clipboard currently holds image data.
	// An error means the clipboard itself could not be read.
	HasImage() (bool, error)

	// ReadImage returns the encoded image payload (PNG for the system
	// clipboard). It fails with apperr.ErrNotAnImage when there is none.
	ReadImage() ([]byte, error)
}

// System is a Source backed by the OS clipboard.
//
// The underlying library needs a one-time initialization (on Linux it opens
// an X11 connection); it happens on first use and its failure is sticky.
type System struct {
	once    sync.Once
	initErr error
	mu      sync.Mutex
}

// NewSystem creates a Source for the OS clipboard.
func NewSystem() *System {
	return &System{}
}

func (s *System) init() error {
	s.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			s.initErr = fmt.Errorf("%w: clipboard unavailable: %w", apperr.ErrIO, err)
		}
	})
	return s.initErr
}

// HasImage reports whether the clipboard holds an image. It fails with
// apperr.ErrIO when the clipboard cannot be initialized.
func (s *System) HasImage() (bool, error) {
	if err := s.init(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(clipboard.Read(clipboard.FmtImage)) > 0, nil
}

// ReadImage returns the clipboard image as PNG bytes.
func (s *System) ReadImage() ([]byte, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, apperr.ErrNotAnImage
	}
	return data, nil
}
