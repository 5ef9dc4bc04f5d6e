package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvTessdata = "OCRLIGHT_TESSDATA"
	EnvSettings = "OCRLIGHT_SETTINGS"
	EnvLogLevel = "OCRLIGHT_LOG_LEVEL"
)

// DefaultTessdataDir is used when OCRLIGHT_TESSDATA is unset.
const DefaultTessdataDir = "./tessdata"

// Env holds process-level configuration.
type Env struct {
	TessdataDir  string
	SettingsPath string
	LogLevel     slog.Level
}

// LoadEnv reads the environment, first loading any of files that exist
// (".env" when none are given). Variables already set in the process win
// over values from the files.
func LoadEnv(files ...string) (*Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, err
		}
	}

	env := &Env{
		TessdataDir:  os.Getenv(EnvTessdata),
		SettingsPath: os.Getenv(EnvSettings),
		LogLevel:     ParseLevel(os.Getenv(EnvLogLevel)),
	}
	if env.TessdataDir == "" {
		env.TessdataDir = DefaultTessdataDir
	}
	if env.SettingsPath == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		env.SettingsPath = path
	}
	return env, nil
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
