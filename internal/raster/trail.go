package raster

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultTrailLength is the trail capacity used when none is configured.
const DefaultTrailLength = 1000

// Trail is a fixed-capacity ring buffer of screen positions. Once full,
// every Push evicts the oldest point. Iteration order is chronological.
type Trail struct {
	points []image.Point
	start  int
	n      int
}

// NewTrail allocates a trail holding at most capacity points. Capacities
// below one are raised to one.
func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	return &Trail{points: make([]image.Point, capacity)}
}

func (t *Trail) Len() int { return t.n }
func (t *Trail) Cap() int { return len(t.points) }

// Push appends p as the newest point.
func (t *Trail) Push(p image.Point) {
	c := len(t.points)
	if t.n < c {
		t.points[(t.start+t.n)%c] = p
		t.n++
		return
	}
	t.points[t.start] = p
	t.start = (t.start + 1) % c
}

// At returns the i-th point, 0 being the oldest. It panics when i is out
// of range, like a slice index.
func (t *Trail) At(i int) image.Point {
	if i < 0 || i >= t.n {
		panic("raster: trail index out of range")
	}
	return t.points[(t.start+i)%len(t.points)]
}

// Last returns the newest point.
func (t *Trail) Last() (image.Point, bool) {
	if t.n == 0 {
		return image.Point{}, false
	}
	return t.At(t.n - 1), true
}

// Points returns a chronological copy of the stored points.
func (t *Trail) Points() []image.Point {
	out := make([]image.Point, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// Reset empties the trail without releasing its storage.
func (t *Trail) Reset() {
	t.start = 0
	t.n = 0
}

// Draw renders the trail as a polyline from the oldest to the newest
// point. Segment colors are blended from tail (oldest) to head (newest);
// pass the same color twice for a flat trail.
func (t *Trail) Draw(s Surface, head, tail color.Color) {
	if t.n < 2 {
		return
	}

	hc, _ := colorful.MakeColor(head)
	tc, _ := colorful.MakeColor(tail)
	fade := hc != tc
	if !fade {
		s.SetDrawColor(head)
	}

	prev := t.At(0)
	for i := 1; i < t.n; i++ {
		p := t.At(i)
		if fade {
			f := float64(i) / float64(t.n-1)
			s.SetDrawColor(toRGBA(tc.BlendRgb(hc, f)))
		}
		s.DrawLine(prev.X, prev.Y, p.X, p.Y)
		prev = p
	}
}

// AppendAndDraw pushes p and redraws the whole trail.
func (t *Trail) AppendAndDraw(p image.Point, s Surface, head, tail color.Color) {
	t.Push(p)
	t.Draw(s, head, tail)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
