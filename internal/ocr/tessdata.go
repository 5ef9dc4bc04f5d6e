package ocr

import (
	"os"
	"path/filepath"
)

// ResolveTessdataDir picks the tessdata directory to use.
//
// If configured exists it is returned as is. Otherwise, for a relative path,
// the same path next to the executable is tried (symlinks resolved), so that
// a binary launched from another working directory still finds the models it
// ships with. When nothing exists, configured is returned unchanged and the
// failure surfaces later as an empty catalog.
func ResolveTessdataDir(configured string) string {
	if isDir(configured) || filepath.IsAbs(configured) {
		return configured
	}

	exePath, err := os.Executable()
	if err != nil {
		return configured
	}
	exeDir := filepath.Dir(exePath)

	// Resolve symlinks to get actual binary location
	if realExePath, err := filepath.EvalSymlinks(exePath); err == nil {
		exeDir = filepath.Dir(realExePath)
	}

	candidate := filepath.Join(exeDir, configured)
	if isDir(candidate) {
		return candidate
	}
	return configured
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
