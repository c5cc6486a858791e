package geometry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/platebatch/internal/models"
	"github.com/philipparndt/platebatch/internal/stl"
	"github.com/philipparndt/platebatch/internal/threemf"
)

// ErrFootprintRead is returned when a model file cannot be turned into a footprint
var ErrFootprintRead = errors.New("cannot read footprint")

// Dimensions is a padded bounding-box extent in mm
type Dimensions struct {
	Length, Width, Height float64
}

// Footprint drops the height, which packing never uses
func (d Dimensions) Footprint() models.Footprint {
	return models.Footprint{Length: d.Length, Width: d.Width}
}

// FootprintProvider measures model files. Padding is added to every dimension
// so neighbouring parts keep a gap on the plate.
type FootprintProvider struct {
	Padding float64

	parser *stl.Parser
	reader *threemf.Reader
}

// NewFootprintProvider creates a provider with the given padding in mm
func NewFootprintProvider(padding float64) *FootprintProvider {
	return &FootprintProvider{
		Padding: padding,
		parser:  stl.NewParser(),
		reader:  threemf.NewReader(),
	}
}

// IsModelFile reports whether path has a supported model extension
func IsModelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl", ".3mf":
		return true
	default:
		return false
	}
}

// BoundingBox loads a .stl or .3mf file and returns its axis-aligned bounding box
func (p *FootprintProvider) BoundingBox(path string) (*BoundingBox, error) {
	var (
		bbox *BoundingBox
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		var mesh *stl.Mesh
		if mesh, err = p.parser.Parse(path); err == nil {
			bbox, err = MeshBoundingBox(mesh)
		}
	case ".3mf":
		var archive *threemf.Archive
		if archive, err = p.reader.Read(path); err == nil {
			bbox, err = archiveBoundingBox(archive)
		}
	default:
		err = fmt.Errorf("unsupported model type %q", filepath.Ext(path))
	}

	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrFootprintRead, filepath.Base(path), err)
	}
	return bbox, nil
}

// Dimensions returns the padded extent of a model file
func (p *FootprintProvider) Dimensions(path string) (Dimensions, error) {
	bbox, err := p.BoundingBox(path)
	if err != nil {
		return Dimensions{}, err
	}
	return Dimensions{
		Length: bbox.Width() + p.Padding,
		Width:  bbox.Height() + p.Padding,
		Height: bbox.Depth() + p.Padding,
	}, nil
}

// Footprint returns the padded plate footprint (X extent by Y extent) of a model file
func (p *FootprintProvider) Footprint(path string) (models.Footprint, error) {
	dims, err := p.Dimensions(path)
	if err != nil {
		return models.Footprint{}, err
	}
	return dims.Footprint(), nil
}

// archiveBoundingBox uses the build items of the root model when they point at
// meshes, and otherwise the union of every mesh stored in the archive.
func archiveBoundingBox(archive *threemf.Archive) (*BoundingBox, error) {
	byID := make(map[string]models.Object)
	for _, obj := range archive.Model.Resources.Objects {
		byID[obj.ID] = obj
	}

	var objects []models.Object
	var transforms []string
	for _, item := range archive.Model.Build.Items {
		if obj, ok := byID[item.ObjectID]; ok && obj.Mesh != nil {
			objects = append(objects, obj)
			transforms = append(transforms, item.Transform)
		}
	}
	if len(objects) > 0 {
		return CalculateCombinedBoundingBox(objects, transforms)
	}

	combined := NewBoundingBox()
	for _, model := range append([]*models.Model{archive.Model}, archive.Parts...) {
		for i := range model.Resources.Objects {
			obj := &model.Resources.Objects[i]
			if obj.Mesh == nil {
				continue
			}
			bbox, err := CalculateBoundingBox(obj, Identity)
			if err != nil {
				return nil, err
			}
			combined.Union(bbox)
		}
	}
	if combined.Empty() {
		return nil, fmt.Errorf("archive contains no meshes")
	}
	return combined, nil
}
