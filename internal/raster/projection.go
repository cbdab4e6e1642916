package raster

import (
	"image"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// fitMargin is the fraction of the half-viewport kept free by FitProjection.
const fitMargin = 0.05

// Projection maps world coordinates (meters) to screen pixels:
// screen = world*Scale + (Width/2, Height/2).
type Projection struct {
	Scale  float64 // pixels per meter
	Width  int
	Height int
}

// NewProjection returns a projection with the given scale and viewport.
func NewProjection(scale float64, width, height int) Projection {
	return Projection{Scale: scale, Width: width, Height: height}
}

// FitProjection picks a scale so that a circle of radius extent around
// the origin fits inside a width x height viewport.
func FitProjection(extent float64, width, height int) Projection {
	if extent <= 0 {
		extent = 1
	}
	half := float64(min(width, height)) / 2
	return Projection{
		Scale:  half * (1 - fitMargin) / extent,
		Width:  width,
		Height: height,
	}
}

// ToScreen converts a world position to a pixel. Fractions are
// truncated toward zero.
func (p Projection) ToScreen(v dynamo.Vec2) image.Point {
	return image.Point{
		X: int(v.X()*p.Scale + float64(p.Width/2)),
		Y: int(v.Y()*p.Scale + float64(p.Height/2)),
	}
}
