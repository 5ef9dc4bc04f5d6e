// Package config handles OcrLight's persisted settings and its environment.
//
// Settings (window size, selected language, display font) live in a JSON file
// that is loaded at startup and rewritten on every change. Environment knobs
// (tessdata location, settings path, log level) are read from the process
// environment, optionally seeded from a .env file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/ocrlight/internal/apperr"
)

const (
	appName          = "ocrlight"
	settingsFileName = "settings.json"
)

// Font styles accepted by Font.Style.
const (
	StyleRegular    = "regular"
	StyleBold       = "bold"
	StyleItalic     = "italic"
	StyleBoldItalic = "bold italic"
)

// Size is a window size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Font describes how the recognized text is displayed.
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Style  string  `json:"style"`
	Color  string  `json:"color"`
}

// Normalize validates f and returns it with the style lower-cased and the
// color in "#rrggbb" form. An empty style means regular, an empty color black.
func (f Font) Normalize() (Font, error) {
	f.Family = strings.TrimSpace(f.Family)
	if f.Family == "" {
		return Font{}, fmt.Errorf("%w: font family is empty", apperr.ErrInvalidArgument)
	}
	if f.Size <= 0 {
		return Font{}, fmt.Errorf("%w: font size must be positive, got %v", apperr.ErrInvalidArgument, f.Size)
	}

	style := strings.ToLower(strings.Join(strings.Fields(f.Style), " "))
	switch style {
	case "":
		style = StyleRegular
	case StyleRegular, StyleBold, StyleItalic, StyleBoldItalic:
	case "italic bold":
		style = StyleBoldItalic
	default:
		return Font{}, fmt.Errorf("%w: unknown font style %q", apperr.ErrInvalidArgument, f.Style)
	}
	f.Style = style

	if f.Color == "" {
		f.Color = "#000000"
	}
	c, err := colorful.Hex(f.Color)
	if err != nil {
		return Font{}, fmt.Errorf("%w: font color %q: %w", apperr.ErrInvalidArgument, f.Color, err)
	}
	f.Color = c.Hex()

	return f, nil
}

// Settings is the persisted user state.
type Settings struct {
	WindowSize Size   `json:"window_size"`
	Language   string `json:"language"`
	Font       Font   `json:"font"`

	path string
}

// Default returns the settings used on first launch.
func Default() *Settings {
	return &Settings{
		WindowSize: Size{Width: 800, Height: 600},
		Language:   "eng",
		Font: Font{
			Family: "Segoe UI",
			Size:   10,
			Style:  StyleRegular,
			Color:  "#000000",
		},
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, appName, settingsFileName), nil
}

// Load reads settings from path.
// Returns defaults (bound to path) if the file doesn't exist.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s := Default()
			s.path = path
			return s, nil
		}
		return nil, fmt.Errorf("%w: read settings: %w", apperr.ErrIO, err)
	}

	s := Default()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: unmarshal settings: %w", apperr.ErrIO, err)
	}
	s.path = path
	s.applyDefaults()

	return s, nil
}

// Path returns the file the settings are saved to.
func (s *Settings) Path() string {
	return s.path
}

// Save persists the settings to disk.
// Settings that were never bound to a path (e.g. Default()) are not written.
func (s *Settings) Save() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: create settings dir: %w", apperr.ErrIO, err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("%w: write settings: %w", apperr.ErrIO, err)
	}
	return nil
}

// applyDefaults repairs values a hand-edited file may have broken.
func (s *Settings) applyDefaults() {
	def := Default()
	if s.WindowSize.Width <= 0 || s.WindowSize.Height <= 0 {
		s.WindowSize = def.WindowSize
	}
	if f, err := s.Font.Normalize(); err == nil {
		s.Font = f
	} else {
		s.Font = def.Font
	}
}
