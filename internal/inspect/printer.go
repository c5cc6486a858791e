package inspect

import (
	"fmt"
	"strings"

	"github.com/philipparndt/platebatch/internal/geometry"
	"github.com/philipparndt/platebatch/internal/models"
	"github.com/philipparndt/platebatch/internal/threemf"
	"github.com/philipparndt/platebatch/internal/ui"
)

// ModelPrinter handles printing 3MF archive details
type ModelPrinter struct{}

// NewModelPrinter creates a new ModelPrinter
func NewModelPrinter() *ModelPrinter {
	return &ModelPrinter{}
}

// ParseTransformOffset extracts X, Y, Z offset from a transform matrix string
func ParseTransformOffset(transform string) (x, y, z float64, ok bool) {
	if strings.TrimSpace(transform) == "" {
		return 0, 0, 0, false
	}
	t, err := geometry.ParseTransform(transform)
	if err != nil {
		return 0, 0, 0, false
	}
	x, y, z = t.Translation()
	return x, y, z, true
}

// PrintArchive prints the unit, metadata, build items and objects of an archive
func (p *ModelPrinter) PrintArchive(archive *threemf.Archive) {
	model := archive.Model

	ui.PrintHeader("3MF Model:")
	if model.Unit != "" {
		ui.PrintStep(fmt.Sprintf("Unit: %s", model.Unit))
	}
	for _, meta := range model.Metadata {
		ui.PrintStep(fmt.Sprintf("%s: %s", meta.Name, strings.TrimSpace(meta.Value)))
	}

	ui.PrintHeader("Build Plate Items:")
	if len(model.Build.Items) == 0 {
		ui.PrintStep("No items on build plate")
	}
	for idx, item := range model.Build.Items {
		offsetInfo := ""
		if x, y, z, ok := ParseTransformOffset(item.Transform); ok && (x != 0 || y != 0 || z != 0) {
			offsetInfo = fmt.Sprintf(" [offset: %.2f, %.2f, %.2f]", x, y, z)
		}
		ui.PrintStep(fmt.Sprintf("%d. Object ID %s: %s%s", idx+1, item.ObjectID, objectName(model, item.ObjectID), offsetInfo))
	}

	ui.PrintHeader("Objects:")
	count := p.printObjects(model, 0)
	for _, part := range archive.Parts {
		count += p.printObjects(part, 1)
	}
	if count == 0 {
		ui.PrintStep("No objects found")
	}
}

func (p *ModelPrinter) printObjects(model *models.Model, depth int) int {
	indent := strings.Repeat("  ", depth)
	for _, obj := range model.Resources.Objects {
		name := obj.Name
		if name == "" {
			name = "(unnamed)"
		}

		meshInfo := ""
		if obj.Mesh != nil {
			meshInfo = " [has mesh]"
		}
		ui.PrintStep(fmt.Sprintf("%s• %s (ID: %s)%s", indent, name, obj.ID, meshInfo))
	}
	return len(model.Resources.Objects)
}

// objectName returns the name of an object by ID
func objectName(model *models.Model, objectID string) string {
	for _, obj := range model.Resources.Objects {
		if obj.ID == objectID {
			if obj.Name != "" {
				return obj.Name
			}
			return "(unnamed)"
		}
	}
	return "(not found)"
}
