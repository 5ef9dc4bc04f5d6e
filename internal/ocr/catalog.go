package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironsheep/ocrlight/internal/apperr"
)

// Languages returns the ids of all trained models in tessdataDir, sorted.
//
// Only regular files directly inside the directory whose name ends in
// TrainedDataExt are considered; subdirectories are not searched.
//
// Returns an error wrapping apperr.ErrIO if the directory cannot be read.
func Languages(tessdataDir string) ([]string, error) {
	entries, err := os.ReadDir(tessdataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read tessdata directory: %w", apperr.ErrIO, err)
	}

	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != TrainedDataExt {
			continue
		}
		id := strings.TrimSuffix(name, TrainedDataExt)
		if id == "" {
			continue
		}
		langs = append(langs, id)
	}

	sort.Strings(langs)
	return langs, nil
}

// ModelPaths splits a language string like "eng+deu" into ids and checks that
// each one has a model file in tessdataDir.
//
// Ids may only contain letters, digits, '_' and '-'; anything else (notably a
// path separator) is rejected. All failures wrap apperr.ErrEngineFailure.
func ModelPaths(tessdataDir, language string) ([]string, error) {
	if language == "" {
		return nil, fmt.Errorf("%w: no language selected", apperr.ErrEngineFailure)
	}

	ids := strings.Split(language, "+")
	for _, id := range ids {
		if !validLanguageID(id) {
			return nil, fmt.Errorf("%w: invalid language id %q", apperr.ErrEngineFailure, id)
		}
		model := filepath.Join(tessdataDir, id+TrainedDataExt)
		info, err := os.Stat(model)
		if err != nil || info.IsDir() {
			return nil, fmt.Errorf("%w: no trained data for %q in %s", apperr.ErrEngineFailure, id, tessdataDir)
		}
	}
	return ids, nil
}

func validLanguageID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
