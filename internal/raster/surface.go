package raster

import "image/color"

// Surface is the drawable target supplied by the platform layer.
type Surface interface {
	// SetDrawColor sets the color used by DrawLine and Clear.
	SetDrawColor(c color.Color)
	// DrawLine draws a segment between two pixels, both inclusive.
	DrawLine(x0, y0, x1, y1 int)
	// Clear fills the whole surface with the current draw color.
	Clear()
	// Present shows the finished frame.
	Present() error
	// Size returns the drawable area in pixels.
	Size() (w, h int)
}
