package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llamachat/internal/common/fsutil"
)

// Model describes one discovered weight file.
type Model struct {
	ID   string
	Path string
}

// LoadDir scans a directory for *.gguf files and builds a registry from
// filenames, sorted by ID for stable default selection. ID is the full
// filename (including extension); Path is the absolute file path.
func LoadDir(dir string) ([]Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		models = append(models, Model{ID: name, Path: filepath.Join(abs, name)})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// DefaultModel returns the first model found in dir, for use when no model
// path was supplied explicitly. ok is false when the directory is missing or
// holds no *.gguf files.
func DefaultModel(dir string) (Model, bool) {
	models, err := LoadDir(dir)
	if err != nil || len(models) == 0 {
		return Model{}, false
	}
	return models[0], true
}
