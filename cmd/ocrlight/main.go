package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/browser"

	"github.com/ironsheep/ocrlight/internal/clipboard"
	"github.com/ironsheep/ocrlight/internal/config"
	"github.com/ironsheep/ocrlight/internal/ocr"
	"github.com/ironsheep/ocrlight/internal/server"
	"github.com/ironsheep/ocrlight/internal/surface"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ocrlight %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("ocrlight - image to text with Tesseract")
			fmt.Println()
			fmt.Println("Usage: ocrlight [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  OCRLIGHT_TESSDATA=./tessdata     Directory holding *.traineddata models")
			fmt.Println("  OCRLIGHT_SETTINGS=<path>         Settings file (default: user config dir)")
			fmt.Println("  OCRLIGHT_LOG_LEVEL=debug         Log level: debug, info, warn, error")
			fmt.Println()
			fmt.Println("Actions are invoked via MCP tools/call over stdin/stdout.")
			return
		}
	}

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocrlight: %v\n", err)
		os.Exit(1)
	}

	// Logging goes to stderr; stdout is for the protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: env.LogLevel}))
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	// browser prints to stdout by default
	browser.Stdout = os.Stderr
	browser.Stderr = os.Stderr

	tessdata := ocr.ResolveTessdataDir(env.TessdataDir)
	logger.Info("tessdata", "dir", tessdata)

	settings, err := config.Load(env.SettingsPath)
	if err != nil {
		logger.Warn("settings unreadable, using defaults", "path", env.SettingsPath, "error", err)
		settings = config.Default()
	}

	surf := surface.New(surface.Options{
		Settings:    settings,
		Clipboard:   clipboard.NewSystem(),
		Runner:      ocr.NewRunner(ocr.NewTesseract(tessdata), logger),
		TessdataDir: tessdata,
		Logger:      logger,
	})

	server.Version = Version
	if err := server.New(surf, logger).Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
