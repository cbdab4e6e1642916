package raster

import "image/color"

// FillCircle draws a filled disk of the given radius centered on
// (cx, cy) using the midpoint circle algorithm. Each step emits four
// horizontal spans, one per mirrored pair of octant boundary points, so
// the disk costs O(radius) DrawLine calls instead of O(radius²) pixels.
// A negative radius draws nothing.
func FillCircle(s Surface, cx, cy, radius int, c color.Color) {
	if radius < 0 {
		return
	}
	s.SetDrawColor(c)

	x := radius
	y := 0
	err := 0

	for x >= y {
		s.DrawLine(cx+x, cy+y, cx-x, cy+y)
		s.DrawLine(cx+y, cy+x, cx-y, cy+x)
		s.DrawLine(cx-x, cy-y, cx+x, cy-y)
		s.DrawLine(cx-y, cy-x, cx+y, cy-x)

		y++
		err += 1 + 2*y
		if 2*(err-x)+1 > 0 {
			x--
			err += 1 - 2*x
		}
	}
}
