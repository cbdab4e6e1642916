package raster

import (
	"image"
	"image/color"
)

type segment struct {
	x0, y0, x1, y1 int
	c              color.Color
}

// recorder is a Surface that keeps every segment and the pixel set they
// cover.
type recorder struct {
	w, h     int
	c        color.Color
	segments []segment
	pixels   map[image.Point]color.Color
	clears   int
}

func newRecorder(w, h int) *recorder {
	return &recorder{w: w, h: h, pixels: make(map[image.Point]color.Color)}
}

func (r *recorder) SetDrawColor(c color.Color) { r.c = c }
func (r *recorder) Clear()                     { r.clears++; r.pixels = make(map[image.Point]color.Color) }
func (r *recorder) Present() error             { return nil }
func (r *recorder) Size() (int, int)           { return r.w, r.h }

func (r *recorder) DrawLine(x0, y0, x1, y1 int) {
	r.segments = append(r.segments, segment{x0, y0, x1, y1, r.c})
	BresenhamLine(x0, y0, x1, y1, func(x, y int) {
		r.pixels[image.Point{X: x, Y: y}] = r.c
	})
}
