package inspect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/platebatch/internal/geometry"
	"github.com/philipparndt/platebatch/internal/models"
	"github.com/philipparndt/platebatch/internal/threemf"
	"github.com/philipparndt/platebatch/internal/ui"
)

// BedFit tells whether a footprint fits one printer's bed
type BedFit struct {
	Printer string
	Bed     models.Bed
	Fits    bool
}

// Inspector shows the measurements packing uses for a single model file
type Inspector struct {
	provider *geometry.FootprintProvider
	printers []models.PrinterProfile
}

// NewInspector creates an inspector. printers may be empty when no
// configuration is available.
func NewInspector(padding float64, printers []models.PrinterProfile) *Inspector {
	return &Inspector{
		provider: geometry.NewFootprintProvider(padding),
		printers: printers,
	}
}

// Inspect reads and displays the measurements of a model file
func (i *Inspector) Inspect(filename string) error {
	// Check if file exists
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("file not found: %s", filename)
	}

	ui.PrintHeader(fmt.Sprintf("Inspecting: %s", filename))

	bbox, err := i.provider.BoundingBox(filename)
	if err != nil {
		return err
	}
	dims, err := i.provider.Dimensions(filename)
	if err != nil {
		return err
	}

	ui.PrintKeyValue("Bounding box", fmt.Sprintf("%.2f x %.2f x %.2f mm", bbox.Width(), bbox.Height(), bbox.Depth()))
	ui.PrintKeyValue("Min", fmt.Sprintf("%.2f, %.2f, %.2f", bbox.MinX, bbox.MinY, bbox.MinZ))
	ui.PrintKeyValue("Max", fmt.Sprintf("%.2f, %.2f, %.2f", bbox.MaxX, bbox.MaxY, bbox.MaxZ))
	ui.PrintKeyValue("Padding", fmt.Sprintf("%g mm", i.provider.Padding))
	ui.PrintKeyValue("Footprint", fmt.Sprintf("%s mm (height %.1f mm)", dims.Footprint(), dims.Height))

	if strings.EqualFold(filepath.Ext(filename), ".3mf") {
		archive, err := threemf.NewReader().Read(filename)
		if err != nil {
			return fmt.Errorf("error reading 3MF file: %w", err)
		}
		NewModelPrinter().PrintArchive(archive)
	}

	if len(i.printers) > 0 {
		ui.PrintHeader("Printers:")
		widths := []int{20, 15, 5}
		ui.PrintTableHeader(widths, "Printer", "Bed (mm)", "Fits")
		matches := 0
		for _, fit := range CheckBeds(i.printers, dims.Footprint()) {
			fits := "no"
			if fit.Fits {
				fits = "yes"
				matches++
			}
			ui.PrintTableRow(widths, fit.Printer, fit.Bed.String(), fits)
		}
		if matches == 0 {
			ui.PrintWarning("Model does not fit on any configured bed")
		} else {
			ui.PrintHighlight(fmt.Sprintf("Fits %d of %d printers", matches, len(i.printers)))
		}
	}

	return nil
}

// CheckBeds reports for every printer, in order, whether fp fits its bed
// without rotation
func CheckBeds(printers []models.PrinterProfile, fp models.Footprint) []BedFit {
	fits := make([]BedFit, len(printers))
	for idx, p := range printers {
		fits[idx] = BedFit{Printer: p.Key, Bed: p.Bed, Fits: p.Bed.Fits(fp)}
	}
	return fits
}
