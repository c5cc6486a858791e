package geometry

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/philipparndt/platebatch/internal/models"
	"github.com/philipparndt/platebatch/internal/stl"
)

// BoundingBox represents a 3D bounding box
type BoundingBox struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// NewBoundingBox returns an empty box that any point will extend
func NewBoundingBox() *BoundingBox {
	return &BoundingBox{
		MinX: math.Inf(1), MinY: math.Inf(1), MinZ: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1), MaxZ: math.Inf(-1),
	}
}

// Width returns the width (X dimension) of the bounding box
func (b *BoundingBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the height (Y dimension) of the bounding box
func (b *BoundingBox) Height() float64 {
	return b.MaxY - b.MinY
}

// Depth returns the depth (Z dimension) of the bounding box
func (b *BoundingBox) Depth() float64 {
	return b.MaxZ - b.MinZ
}

// Empty reports whether no point has been added
func (b *BoundingBox) Empty() bool {
	return b.MinX > b.MaxX
}

// Extend grows the box to include the point
func (b *BoundingBox) Extend(x, y, z float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MinZ = math.Min(b.MinZ, z)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
	b.MaxZ = math.Max(b.MaxZ, z)
}

// Union grows the box to include other
func (b *BoundingBox) Union(other *BoundingBox) {
	if other == nil || other.Empty() {
		return
	}
	b.Extend(other.MinX, other.MinY, other.MinZ)
	b.Extend(other.MaxX, other.MaxY, other.MaxZ)
}

// MeshBoundingBox calculates the bounding box of an STL mesh
func MeshBoundingBox(mesh *stl.Mesh) (*BoundingBox, error) {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("mesh has no triangles")
	}

	bbox := NewBoundingBox()
	for _, tri := range mesh.Triangles {
		for _, v := range []stl.Vector3{tri.V1, tri.V2, tri.V3} {
			bbox.Extend(float64(v.X), float64(v.Y), float64(v.Z))
		}
	}
	return bbox, nil
}

// Vertex represents a 3D vertex for parsing
type Vertex struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
	Z string `xml:"z,attr"`
}

// Vertices represents a collection of vertices
type Vertices struct {
	Vertex []Vertex `xml:"vertex"`
}

// CalculateBoundingBox calculates the bounding box of a 3MF mesh object
// after moving every vertex through t
func CalculateBoundingBox(obj *models.Object, t Transform) (*BoundingBox, error) {
	if obj.Mesh == nil || obj.Mesh.Vertices == nil {
		return nil, fmt.Errorf("object %s has no mesh", obj.ID)
	}

	// Parse the raw vertices content
	var vertices Vertices
	verticesXML := fmt.Sprintf("<vertices>%s</vertices>", obj.Mesh.Vertices.RawContent)
	if err := xml.Unmarshal([]byte(verticesXML), &vertices); err != nil {
		return nil, fmt.Errorf("failed to parse mesh vertices: %w", err)
	}

	if len(vertices.Vertex) == 0 {
		return nil, fmt.Errorf("object %s has no vertices", obj.ID)
	}

	bbox := NewBoundingBox()
	for i, vertex := range vertices.Vertex {
		x, errX := strconv.ParseFloat(vertex.X, 64)
		y, errY := strconv.ParseFloat(vertex.Y, 64)
		z, errZ := strconv.ParseFloat(vertex.Z, 64)
		if errX != nil || errY != nil || errZ != nil {
			return nil, fmt.Errorf("object %s: invalid vertex %d", obj.ID, i)
		}
		bbox.Extend(t.Apply(x, y, z))
	}

	return bbox, nil
}

// CalculateCombinedBoundingBox calculates the bounding box for multiple objects
// taking into account their transforms. Objects without a mesh are skipped.
func CalculateCombinedBoundingBox(objects []models.Object, transforms []string) (*BoundingBox, error) {
	if len(objects) == 0 {
		return nil, fmt.Errorf("no objects provided")
	}

	if len(transforms) != len(objects) {
		return nil, fmt.Errorf("number of transforms must match number of objects")
	}

	combined := NewBoundingBox()
	for i := range objects {
		if objects[i].Mesh == nil {
			continue
		}
		t, err := ParseTransform(transforms[i])
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", objects[i].ID, err)
		}
		bbox, err := CalculateBoundingBox(&objects[i], t)
		if err != nil {
			return nil, err
		}
		combined.Union(bbox)
	}

	if combined.Empty() {
		return nil, fmt.Errorf("no valid objects found")
	}

	return combined, nil
}
