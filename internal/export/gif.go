package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/raster"
)

// GIFRecorder is a drawing surface that keeps every presented frame as
// a paletted image. It doubles as a sim.Platform that closes after
// MaxFrames frames.
type GIFRecorder struct {
	*raster.ImageSurface

	MaxFrames int // 0 records until the caller stops
	Stride    int // keep every Stride-th presented frame
	Delay     int // per-frame delay in 100ths of a second

	presented int
	frames    []*image.Paletted
}

// NewGIFRecorder returns a w x h recorder whose playback runs at fps.
func NewGIFRecorder(w, h, fps int) (*GIFRecorder, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: gif size must be positive, got %dx%d", dynamo.ErrParameterBounds, w, h)
	}
	delay := 2
	if fps > 0 {
		delay = max(1, 100/fps)
	}
	return &GIFRecorder{
		ImageSurface: raster.NewImageSurface(w, h),
		Stride:       1,
		Delay:        delay,
	}, nil
}

// Present snapshots the current image into the frame list.
func (r *GIFRecorder) Present() error {
	if err := r.ImageSurface.Present(); err != nil {
		return err
	}
	r.presented++
	stride := max(1, r.Stride)
	if (r.presented-1)%stride != 0 {
		return nil
	}

	src := r.Image()
	frame := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.Draw(frame, frame.Bounds(), src, image.Point{}, draw.Src)
	r.frames = append(r.frames, frame)
	return nil
}

func (r *GIFRecorder) Surface() raster.Surface { return r }

// ShouldClose reports whether MaxFrames frames have been kept.
func (r *GIFRecorder) ShouldClose() bool {
	return r.MaxFrames > 0 && len(r.frames) >= r.MaxFrames
}

func (r *GIFRecorder) Frames() int { return len(r.frames) }

// Reset drops every recorded frame.
func (r *GIFRecorder) Reset() {
	r.frames = nil
	r.presented = 0
}

// Encode writes the recording as a looping animated GIF.
func (r *GIFRecorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("export: no frames recorded")
	}
	anim := &gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, anim)
}

// Save encodes the recording to path.
func (r *GIFRecorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
