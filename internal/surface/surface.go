package surface

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ironsheep/ocrlight/internal/apperr"
	"github.com/ironsheep/ocrlight/internal/clipboard"
	"github.com/ironsheep/ocrlight/internal/config"
	"github.com/ironsheep/ocrlight/internal/imaging"
	"github.com/ironsheep/ocrlight/internal/ocr"
)

// Cursor is the mouse cursor shown over a part of the window.
type Cursor string

const (
	CursorDefault Cursor = "default"
	CursorWait    Cursor = "wait"
	CursorIBeam   Cursor = "ibeam"
)

// Options configures a Surface.
type Options struct {
	Settings    *config.Settings
	Clipboard   clipboard.Source
	Runner      *ocr.Runner
	TessdataDir string
	Logger      *slog.Logger
}

// affordances is the part of the state a recognition temporarily overrides.
type affordances struct {
	cursor     Cursor
	textCursor Cursor
	readOnly   bool
	busy       bool
}

// Surface is the headless main window.
type Surface struct {
	settings    *config.Settings
	clip        clipboard.Source
	runner      *ocr.Runner
	tessdataDir string
	logger      *slog.Logger

	image     image.Image
	info      imaging.Info
	text      string
	languages []string

	affordances
	saved affordances
}

// State is a snapshot of everything a front end needs to draw the window.
type State struct {
	HasImage   bool          `json:"has_image"`
	Image      *imaging.Info `json:"image,omitempty"`
	Text       string        `json:"text"`
	Cursor     Cursor        `json:"cursor"`
	TextCursor Cursor        `json:"text_cursor"`
	ReadOnly   bool          `json:"read_only"`
	Busy       bool          `json:"busy"`
	Language   string        `json:"language"`
	Languages  []string      `json:"languages"`
	Font       config.Font   `json:"font"`
	WindowSize config.Size   `json:"window_size"`
}

// New creates a Surface and scans the language catalog.
// A missing tessdata directory is logged and leaves the catalog empty.
func New(opts Options) *Surface {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}

	s := &Surface{
		settings:    settings,
		clip:        opts.Clipboard,
		runner:      opts.Runner,
		tessdataDir: opts.TessdataDir,
		logger:      logger,
		affordances: affordances{
			cursor:     CursorDefault,
			textCursor: CursorIBeam,
		},
	}

	if _, err := s.ReloadLanguages(); err != nil {
		logger.Warn("language catalog unavailable", "dir", opts.TessdataDir, "error", err)
	}
	return s
}

// LoadFromFile replaces the current image with the decoded file and clears
// the text. On failure the surface is unchanged.
func (s *Surface) LoadFromFile(path string) (imaging.Info, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return imaging.Info{}, err
	}
	s.setImage(img, "file:"+path)
	return s.info, nil
}

// LoadFromClipboard replaces the current image with the clipboard image and
// clears the text. If the clipboard holds anything other than an image the
// surface is unchanged and the error wraps apperr.ErrNotAnImage.
func (s *Surface) LoadFromClipboard() (imaging.Info, error) {
	if s.clip == nil {
		return imaging.Info{}, apperr.ErrNotAnImage
	}
	ok, err := s.clip.HasImage()
	if err != nil {
		return imaging.Info{}, err
	}
	if !ok {
		return imaging.Info{}, apperr.ErrNotAnImage
	}

	data, err := s.clip.ReadImage()
	if err != nil {
		return imaging.Info{}, err
	}

	img, err := imaging.Decode(data)
	if err != nil {
		return imaging.Info{}, err
	}
	s.setImage(img, "clipboard")
	return s.info, nil
}

func (s *Surface) setImage(img image.Image, origin string) {
	s.image = img
	s.info = imaging.Describe(img, origin)
	s.text = ""
	s.logger.Debug("image loaded", "origin", origin, "width", s.info.Width, "height", s.info.Height)
}

// StartRecognize canonicalizes the current image and dispatches recognition
// in the selected language.
//
// While the returned channel is pending the surface shows a wait cursor, the
// text is read-only and further StartRecognize calls fail with
// apperr.ErrBusy. The caller must pass the result to CompleteRecognize.
//
// With no image loaded the call fails with apperr.ErrInvalidArgument and the
// surface is left as it was.
func (s *Surface) StartRecognize() (<-chan ocr.Result, error) {
	if s.busy {
		return nil, apperr.ErrBusy
	}
	if s.runner == nil {
		return nil, fmt.Errorf("%w: no recognition runner", apperr.ErrEngineFailure)
	}

	prev := s.affordances
	s.cursor = CursorWait
	s.textCursor = CursorWait
	s.readOnly = true
	s.busy = true

	bitmap, err := imaging.ToCanonicalBitmap(s.image)
	if err != nil {
		s.affordances = prev
		return nil, err
	}

	ch, err := s.runner.Start(bitmap, s.settings.Language)
	if err != nil {
		s.affordances = prev
		return nil, err
	}

	s.saved = prev
	return ch, nil
}

// CompleteRecognize applies a finished recognition. Affordances are restored
// on exit whatever the outcome; the text is replaced only on success.
func (s *Surface) CompleteRecognize(res ocr.Result) error {
	if !s.busy {
		return fmt.Errorf("%w: no recognition in flight", apperr.ErrInvalidArgument)
	}
	defer func() {
		s.affordances = s.saved
		s.saved = affordances{}
	}()

	if res.Err != nil {
		return res.Err
	}
	s.text = res.Text
	return nil
}

// Recognize runs StartRecognize and CompleteRecognize back to back, blocking
// until the engine finishes. It returns the new text.
func (s *Surface) Recognize() (string, error) {
	ch, err := s.StartRecognize()
	if err != nil {
		return "", err
	}
	if err := s.CompleteRecognize(<-ch); err != nil {
		return "", err
	}
	return s.text, nil
}

// Text returns the displayed text.
func (s *Surface) Text() string {
	return s.text
}

// SetText replaces the text as a user edit would.
func (s *Surface) SetText(text string) error {
	if s.readOnly {
		return apperr.ErrReadOnly
	}
	s.text = text
	return nil
}

// SaveTextAs writes the displayed text to path and returns the byte count.
func (s *Surface) SaveTextAs(path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("%w: empty path", apperr.ErrInvalidArgument)
	}
	if err := os.WriteFile(path, []byte(s.text), 0644); err != nil {
		return 0, fmt.Errorf("%w: save text: %w", apperr.ErrIO, err)
	}
	return len(s.text), nil
}

// SelectLanguage makes id the recognition language and saves the settings.
//
// The id is not checked against the catalog; an id without a model is
// reported by the engine when recognition runs.
//
// Like SelectFont and Resize, the new value is applied before saving and is
// kept in memory even when the save fails.
func (s *Surface) SelectLanguage(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: empty language", apperr.ErrInvalidArgument)
	}
	s.settings.Language = id
	return s.settings.Save()
}

// SelectFont validates and applies the display font and saves the settings.
// A save failure is returned but the font stays applied.
func (s *Surface) SelectFont(f config.Font) error {
	f, err := f.Normalize()
	if err != nil {
		return err
	}
	s.settings.Font = f
	return s.settings.Save()
}

// Resize records the window size and saves the settings.
// A save failure is returned but the size stays applied.
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", apperr.ErrInvalidArgument, width, height)
	}
	s.settings.WindowSize = config.Size{Width: width, Height: height}
	return s.settings.Save()
}

// Languages returns the catalog scanned at startup or by the last reload.
func (s *Surface) Languages() []string {
	return append([]string{}, s.languages...)
}

// Language returns the selected language id.
func (s *Surface) Language() string {
	return s.settings.Language
}

// ReloadLanguages rescans the tessdata directory.
// On failure the catalog becomes empty.
func (s *Surface) ReloadLanguages() ([]string, error) {
	langs, err := ocr.Languages(s.tessdataDir)
	if err != nil {
		s.languages = nil
		return nil, err
	}
	s.languages = langs
	return s.Languages(), nil
}

// Busy reports whether a recognition is in flight.
func (s *Surface) Busy() bool {
	return s.busy
}

// State returns a snapshot of the surface.
func (s *Surface) State() State {
	st := State{
		HasImage:   s.image != nil,
		Text:       s.text,
		Cursor:     s.cursor,
		TextCursor: s.textCursor,
		ReadOnly:   s.readOnly,
		Busy:       s.busy,
		Language:   s.settings.Language,
		Languages:  s.Languages(),
		Font:       s.settings.Font,
		WindowSize: s.settings.WindowSize,
	}
	if s.image != nil {
		info := s.info
		st.Image = &info
	}
	return st
}
