package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// ImageSurface is an in-memory Surface backed by an RGBA image. It is
// used for headless rendering, snapshots and tests.
type ImageSurface struct {
	img   *image.RGBA
	color color.RGBA
	// Presented counts frames passed to Present.
	Presented int
}

// NewImageSurface allocates a w x h surface, initially transparent black.
func NewImageSurface(w, h int) *ImageSurface {
	return &ImageSurface{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		color: color.RGBA{A: 0xff},
	}
}

func (s *ImageSurface) Image() *image.RGBA { return s.img }

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) SetDrawColor(c color.Color) {
	s.color = color.RGBAModel.Convert(c).(color.RGBA)
}

func (s *ImageSurface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.color), image.Point{}, draw.Src)
}

func (s *ImageSurface) Present() error {
	s.Presented++
	return nil
}

// DrawLine draws a line using Bresenham's algorithm. Pixels outside the
// image are clipped.
func (s *ImageSurface) DrawLine(x0, y0, x1, y1 int) {
	BresenhamLine(x0, y0, x1, y1, func(x, y int) {
		s.img.SetRGBA(x, y, s.color)
	})
}

// BresenhamLine calls plot for every pixel on the segment, endpoints
// included.
func BresenhamLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
