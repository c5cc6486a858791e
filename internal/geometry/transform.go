package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Transform is a 3MF affine transform "m00 m01 m02 m10 m11 m12 m20 m21 m22 m30 m31 m32".
// A point is a row vector [x y z 1] multiplied by the 4x3 matrix, so the
// last three values are the translation.
type Transform [12]float64

// Identity leaves points unchanged
var Identity = Transform{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}

// ParseTransform parses a 3MF transform attribute. An empty attribute is the identity.
func ParseTransform(s string) (Transform, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Identity, nil
	}
	if len(fields) != 12 {
		return Identity, fmt.Errorf("transform needs 12 values, got %d", len(fields))
	}

	var t Transform
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Identity, fmt.Errorf("invalid transform value %q", f)
		}
		t[i] = v
	}
	return t, nil
}

// NewRotation creates a transform with rotation (degrees) and translation.
// Rotations are applied in the order: Z, Y, X (intrinsic rotations)
func NewRotation(rotX, rotY, rotZ, tx, ty, tz float64) Transform {
	// Convert degrees to radians
	rx := rotX * math.Pi / 180.0
	ry := rotY * math.Pi / 180.0
	rz := rotZ * math.Pi / 180.0

	cosX, sinX := math.Cos(rx), math.Sin(rx)
	cosY, sinY := math.Cos(ry), math.Sin(ry)
	cosZ, sinZ := math.Cos(rz), math.Sin(rz)

	// Combined rotation matrix (Z * Y * X)
	return Transform{
		cosY * cosZ, cosY * sinZ, -sinY,
		sinX*sinY*cosZ - cosX*sinZ, sinX*sinY*sinZ + cosX*cosZ, sinX * cosY,
		cosX*sinY*cosZ + sinX*sinZ, cosX*sinY*sinZ - sinX*cosZ, cosX * cosY,
		tx, ty, tz,
	}
}

// NewTranslation creates a translation-only transform
func NewTranslation(tx, ty, tz float64) Transform {
	t := Identity
	t[9], t[10], t[11] = tx, ty, tz
	return t
}

// Apply transforms a point
func (t Transform) Apply(x, y, z float64) (float64, float64, float64) {
	return x*t[0] + y*t[3] + z*t[6] + t[9],
		x*t[1] + y*t[4] + z*t[7] + t[10],
		x*t[2] + y*t[5] + z*t[8] + t[11]
}

// Translation returns the offset part of the transform
func (t Transform) Translation() (dx, dy, dz float64) {
	return t[9], t[10], t[11]
}

// String formats the transform as a 3MF attribute
func (t Transform) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}
