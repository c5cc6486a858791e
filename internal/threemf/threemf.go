package threemf

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/philipparndt/platebatch/internal/models"
)

const mainModelPath = "3D/3dmodel.model"

// Archive is the parsed content of a 3MF file
type Archive struct {
	// Model is the root 3D/3dmodel.model
	Model *models.Model
	// Parts holds every other model file in 3D/, sorted by path
	// (slicers store object meshes in 3D/Objects/*.model)
	Parts []*models.Model
}

// Reader reads 3MF files
type Reader struct{}

// NewReader creates a new 3MF reader
func NewReader() *Reader {
	return &Reader{}
}

// Read reads and parses a 3MF file
func (r *Reader) Read(filename string) (*Archive, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening ZIP: %w", err)
	}
	defer zr.Close()

	archive := &Archive{}
	var partNames []string
	parts := make(map[string]*models.Model)

	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "3D/") || !strings.HasSuffix(f.Name, ".model") {
			continue
		}

		model, err := r.parseModel(f)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", f.Name, err)
		}

		if f.Name == mainModelPath {
			archive.Model = model
			continue
		}
		partNames = append(partNames, f.Name)
		parts[f.Name] = model
	}

	if archive.Model == nil {
		return nil, fmt.Errorf("%s not found in archive", mainModelPath)
	}

	sort.Strings(partNames)
	for _, name := range partNames {
		archive.Parts = append(archive.Parts, parts[name])
	}

	return archive, nil
}

func (r *Reader) parseModel(file *zip.File) (*models.Model, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening model file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("error reading model file: %w", err)
	}

	var model models.Model
	if err := xml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("error parsing XML: %w", err)
	}

	return &model, nil
}
