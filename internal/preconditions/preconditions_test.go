package preconditions

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/philipparndt/platebatch/internal/models"
)

func TestCheckSlicer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not used on windows")
	}
	dir := t.TempDir()

	executable := filepath.Join(dir, "prusa-slicer")
	os.WriteFile(executable, []byte("#!/bin/sh\n"), 0o755)
	plain := filepath.Join(dir, "notes.txt")
	os.WriteFile(plain, []byte("text"), 0o644)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"executable file", executable, false},
		{"not executable", plain, true},
		{"directory", dir, true},
		{"missing file", filepath.Join(dir, "missing"), true},
		{"found in PATH", "sh", false},
		{"not in PATH", "platebatch-no-such-slicer", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSlicer(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckSlicer(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateModelsDir(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "Black"), 0o755)
	os.WriteFile(filepath.Join(dir, "Orange"), []byte{}, 0o644)

	black := models.PrinterProfile{Key: "Black"}
	orange := models.PrinterProfile{Key: "Orange"}
	blue := models.PrinterProfile{Key: "Blue"}

	if err := ValidateModelsDir(dir, []models.PrinterProfile{black}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateModelsDir(dir, []models.PrinterProfile{black, blue}); err == nil {
		t.Error("Expected error for missing printer directory")
	}
	if err := ValidateModelsDir(dir, []models.PrinterProfile{orange}); err == nil {
		t.Error("Expected error when printer path is a file")
	}
	if err := ValidateModelsDir(filepath.Join(dir, "missing"), nil); err == nil {
		t.Error("Expected error for missing models directory")
	}
}

func TestCheckSkipsSlicerWhenNotSlicing(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "Black"), 0o755)

	config := &models.YamlConfig{
		ModelsDir: dir,
		Slicer:    filepath.Join(dir, "missing-slicer"),
		Printers:  []models.PrinterProfile{{Key: "Black"}},
	}

	if err := Check(config, false); err != nil {
		t.Errorf("Check(no slice) error = %v", err)
	}
	if err := Check(config, true); err == nil {
		t.Error("Check(slice) should fail for a missing slicer")
	}
}
