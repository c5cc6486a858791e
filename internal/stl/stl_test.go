package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const asciiCube = `solid cube
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 10 0 0
      vertex 10 20 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 5
      vertex 10 20 5
      vertex 0 20 5
    endloop
  endfacet
endsolid cube
`

func writeBinarySTL(t *testing.T, path string, header string, triangles []Triangle) {
	t.Helper()
	var buf bytes.Buffer
	h := make([]byte, headerSize)
	copy(h, header)
	buf.Write(h)
	binary.Write(&buf, binary.LittleEndian, uint32(len(triangles)))
	for _, tri := range triangles {
		binary.Write(&buf, binary.LittleEndian, tri)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write STL: %v", err)
	}
}

func TestParseASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.stl")
	if err := os.WriteFile(path, []byte(asciiCube), 0o644); err != nil {
		t.Fatalf("Failed to write STL: %v", err)
	}

	mesh, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if mesh.Name != "cube" {
		t.Errorf("Name = %q, want cube", mesh.Name)
	}
	if len(mesh.Triangles) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(mesh.Triangles))
	}
	if mesh.Triangles[0].V3 != (Vector3{10, 20, 0}) {
		t.Errorf("Unexpected vertex: %+v", mesh.Triangles[0].V3)
	}
	if mesh.Triangles[1].Normal != (Vector3{0, 0, 1}) {
		t.Errorf("Unexpected normal: %+v", mesh.Triangles[1].Normal)
	}
}

func TestParseBinary(t *testing.T) {
	triangles := []Triangle{
		{V1: Vector3{-5, -5, 0}, V2: Vector3{5, -5, 0}, V3: Vector3{5, 5, 0}},
		{V1: Vector3{-5, -5, 0}, V2: Vector3{5, 5, 0}, V3: Vector3{-5, 5, 12}},
	}

	tests := []struct {
		name   string
		header string
	}{
		{"plain header", "binary export"},
		{"header starting with solid", "solid exported by a careless tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "part.stl")
			writeBinarySTL(t, path, tt.header, triangles)

			mesh, err := NewParser().Parse(path)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if mesh.Name != "part.stl" {
				t.Errorf("Name = %q, want part.stl", mesh.Name)
			}
			if len(mesh.Triangles) != 2 {
				t.Fatalf("Expected 2 triangles, got %d", len(mesh.Triangles))
			}
			if mesh.Triangles[1].V3 != (Vector3{-5, 5, 12}) {
				t.Errorf("Unexpected vertex: %+v", mesh.Triangles[1].V3)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewParser().Parse(filepath.Join(dir, "missing.stl")); err == nil {
		t.Error("Expected error for missing file")
	}

	truncated := filepath.Join(dir, "truncated.stl")
	writeBinarySTL(t, truncated, "binary", []Triangle{{}, {}})
	data, _ := os.ReadFile(truncated)
	os.WriteFile(truncated, data[:len(data)-10], 0o644)
	if _, err := NewParser().Parse(truncated); err == nil {
		t.Error("Expected error for truncated binary STL")
	}

	broken := filepath.Join(dir, "broken.stl")
	os.WriteFile(broken, []byte("solid x\nfacet normal 0 0 1\nouter loop\nvertex 1 2\nendloop\nendfacet\nendsolid x\n"), 0o644)
	if _, err := NewParser().Parse(broken); err == nil {
		t.Error("Expected error for malformed ASCII STL")
	}
}
