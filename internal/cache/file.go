package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const sidecarSuffix = "_gcode.gcode"

// FileCache keeps G-code next to each model: <stem>_gcode.gcode for .stl files
// and <name>_gcode.gcode for every other model type
type FileCache struct{}

// NewFileCache creates a sidecar file cache
func NewFileCache() *FileCache {
	return &FileCache{}
}

// SidecarPath returns the G-code path used for a model file. Only the .stl
// extension is dropped, so part.stl and part.3mf in one folder never share a
// sidecar.
func SidecarPath(model string) string {
	name := filepath.Base(model)
	if filepath.Ext(name) == ".stl" {
		name = strings.TrimSuffix(name, ".stl")
	}
	return filepath.Join(filepath.Dir(model), name+sidecarSuffix)
}

// IsSidecar reports whether path is a cached G-code file
func IsSidecar(path string) bool {
	return strings.HasSuffix(path, sidecarSuffix)
}

func (c *FileCache) HasCachedOutput(key Key) (bool, error) {
	info, err := os.Stat(SidecarPath(key.Model))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cannot stat cached output for %s: %w", key, err)
	}
	return !info.IsDir(), nil
}

func (c *FileCache) ReadOutput(key Key) ([]byte, error) {
	data, err := os.ReadFile(SidecarPath(key.Model))
	if err != nil {
		return nil, fmt.Errorf("cannot read cached output for %s: %w", key, err)
	}
	return data, nil
}

func (c *FileCache) WriteOutput(key Key, data []byte) error {
	if err := os.WriteFile(SidecarPath(key.Model), data, 0o644); err != nil {
		return fmt.Errorf("cannot write cached output for %s: %w", key, err)
	}
	return nil
}

func (c *FileCache) Close() error {
	return nil
}
