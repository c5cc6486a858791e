package preconditions

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/philipparndt/platebatch/internal/models"
)

type check struct {
	name string
	fn   func() error
}

// Check verifies all preconditions of a batch run are met. The slicer is
// only required when slicing is allowed.
func Check(config *models.YamlConfig, slice bool) error {
	checks := []check{
		{"Models directory", func() error { return ValidateModelsDir(config.ModelsDir, config.Printers) }},
	}
	if slice {
		checks = append(checks, check{"Slicer", func() error { return CheckSlicer(config.Slicer) }})
	}

	for _, c := range checks {
		if err := c.fn(); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}

	return nil
}

// CheckSlicer verifies the slicer can be executed. A bare name is looked up
// in PATH, anything else must be an executable file.
func CheckSlicer(path string) error {
	if path == "" {
		return fmt.Errorf("no slicer configured. Set 'slicer' to the PrusaSlicer executable")
	}

	if filepath.Base(path) == path {
		if _, err := exec.LookPath(path); err != nil {
			return fmt.Errorf("%s not found in PATH. Please install PrusaSlicer from https://www.prusa3d.com/prusaslicer/", path)
		}
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not an executable file", path)
	}
	return nil
}

// ValidateModelsDir checks that the models directory has a folder for every printer
func ValidateModelsDir(dir string, printers []models.PrinterProfile) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot access models directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	for _, printer := range printers {
		printerDir := filepath.Join(dir, printer.Key)
		info, err := os.Stat(printerDir)
		if err != nil {
			return fmt.Errorf("no models directory for printer %s: %w", printer.Key, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is a file, not a directory", printerDir)
		}
	}

	return nil
}
