package clipboard

import (
	"sync"

	"github.com/ironsheep/ocrlight/internal/apperr"
)

// Memory is an in-process clipboard for tests.
type Memory struct {
	// Err, when set, is returned by every read, as from a clipboard that
	// failed to initialize.
	Err error

	mu    sync.Mutex
	image []byte
	text  string
}

// SetImage places an encoded image on the clipboard, replacing any text.
func (m *Memory) SetImage(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = append([]byte(nil), data...)
	m.text = ""
}

// SetText places text on the clipboard, replacing any image.
func (m *Memory) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = nil
	m.text = text
}

// Text returns the text last set, or "" when an image replaced it.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// HasImage reports whether an image was set.
func (m *Memory) HasImage() (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.image) > 0, nil
}

// ReadImage returns a copy of the image payload.
func (m *Memory) ReadImage() ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.image) == 0 {
		return nil, apperr.ErrNotAnImage
	}
	return append([]byte(nil), m.image...), nil
}
