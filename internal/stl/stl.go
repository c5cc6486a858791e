package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	headerSize   = 80
	triangleSize = 50
)

// Vector3 represents a 3D vector
type Vector3 struct {
	X, Y, Z float32
}

// Triangle represents a triangle in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// Mesh represents an STL mesh
type Mesh struct {
	Name      string
	Triangles []Triangle
}

// Parser parses STL files
type Parser struct{}

// NewParser creates a new STL parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads an STL file and returns the mesh data
func (p *Parser) Parse(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat file: %w", err)
	}

	// Read first few bytes to detect format
	header := make([]byte, headerSize+4)
	n, err := io.ReadFull(file, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	header = header[:n]

	// Reset file position
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking: %w", err)
	}

	if isASCII(header, info.Size()) {
		return p.parseASCII(file, filename)
	}
	return p.parseBinary(file, filename)
}

// isASCII checks for the "solid" keyword. Some exporters also start binary
// headers with "solid", so a size that matches the binary layout wins.
func isASCII(header []byte, size int64) bool {
	if !strings.HasPrefix(string(header), "solid") {
		return false
	}
	if len(header) < headerSize+4 {
		return true
	}
	count := binary.LittleEndian.Uint32(header[headerSize:])
	return size != headerSize+4+int64(count)*triangleSize
}

// parseASCII parses an ASCII STL file
func (p *Parser) parseASCII(reader io.Reader, filename string) (*Mesh, error) {
	scanner := bufio.NewScanner(reader)
	mesh := &Mesh{
		Name:      filepath.Base(filename),
		Triangles: []Triangle{},
	}

	var currentTriangle Triangle
	var vertexCount int

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = strings.Join(fields[1:], " ")
			}
		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				fmt.Sscanf(strings.Join(fields[2:], " "), "%f %f %f",
					&currentTriangle.Normal.X, &currentTriangle.Normal.Y, &currentTriangle.Normal.Z)
			}
			vertexCount = 0
		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed vertex line: %q", scanner.Text())
			}
			var v Vector3
			if _, err := fmt.Sscanf(strings.Join(fields[1:4], " "), "%f %f %f", &v.X, &v.Y, &v.Z); err != nil {
				return nil, fmt.Errorf("malformed vertex line %q: %w", scanner.Text(), err)
			}
			switch vertexCount {
			case 0:
				currentTriangle.V1 = v
			case 1:
				currentTriangle.V2 = v
			case 2:
				currentTriangle.V3 = v
			}
			vertexCount++
		case "endfacet":
			if vertexCount != 3 {
				return nil, fmt.Errorf("facet %d has %d vertices", len(mesh.Triangles)+1, vertexCount)
			}
			mesh.Triangles = append(mesh.Triangles, currentTriangle)
			currentTriangle = Triangle{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return mesh, nil
}

// parseBinary parses a binary STL file
func (p *Parser) parseBinary(reader io.Reader, filename string) (*Mesh, error) {
	mesh := &Mesh{
		Name: filepath.Base(filename),
	}
	reader = bufio.NewReader(reader)

	// Read 80-byte header
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	// Read triangle count
	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("error reading triangle count: %w", err)
	}

	// Read triangles: normal, three vertices, attribute byte count
	mesh.Triangles = make([]Triangle, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		if err := binary.Read(reader, binary.LittleEndian, &mesh.Triangles[i]); err != nil {
			return nil, fmt.Errorf("error reading triangle %d: %w", i+1, err)
		}

		var attributeCount uint16
		if err := binary.Read(reader, binary.LittleEndian, &attributeCount); err != nil {
			return nil, fmt.Errorf("error reading attribute count: %w", err)
		}
	}

	return mesh, nil
}
