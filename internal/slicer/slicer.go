package slicer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/philipparndt/platebatch/internal/models"
	log "github.com/sirupsen/logrus"
)

// ErrSliceFailure is returned when the slicer exits with an error or
// produces no G-code
var ErrSliceFailure = errors.New("slicing failed")

// Slicer runs an external PrusaSlicer-compatible command line slicer
type Slicer struct {
	// Path is the slicer executable
	Path string
	// Stdout and Stderr receive the slicer's output
	Stdout io.Writer
	Stderr io.Writer
	// Log receives debug output
	Log *log.Entry
}

// New creates a slicer that passes its output through to the console
func New(path string) *Slicer {
	return &Slicer{
		Path:   path,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log.NewEntry(log.StandardLogger()),
	}
}

// Args returns the command line for slicing model with the profile's settings
func Args(profile models.PrinterProfile, model, output string) []string {
	return []string{"--load", profile.ConfigFile, "--export-gcode", "--output", output, model}
}

// Slice slices one model and returns the generated G-code
func (s *Slicer) Slice(profile models.PrinterProfile, model string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "platebatch")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	output := filepath.Join(tmpDir, "output.gcode")
	cmd := exec.Command(s.Path, Args(profile, model, output)...)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr

	logger := s.Log
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	logger.WithFields(log.Fields{"printer": profile.Key, "model": filepath.Base(model)}).Debug("Slicing")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSliceFailure, filepath.Base(model), err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: no G-code written: %v", ErrSliceFailure, filepath.Base(model), err)
	}
	return data, nil
}
