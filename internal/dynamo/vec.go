package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a 2-D vector in world units (meters, m/s, newtons).
type Vec2 = mgl64.Vec2

// Zero is the zero vector.
var Zero = Vec2{0, 0}

// Magnitude returns the Euclidean norm of v.
func Magnitude(v Vec2) float64 {
	return v.Len()
}

// Normalize returns v scaled to unit length. A zero vector has no
// direction, so it yields ErrZeroVector instead of NaN components.
func Normalize(v Vec2) (Vec2, error) {
	if v.Len() == 0 {
		return Zero, ErrZeroVector
	}
	return v.Normalize(), nil
}

// Orthogonal rotates v by +90 degrees: (x, y) -> (-y, x).
func Orthogonal(v Vec2) Vec2 {
	return Vec2{-v.Y(), v.X()}
}

// IsFinite reports whether both components are neither NaN nor Inf.
func IsFinite(v Vec2) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
