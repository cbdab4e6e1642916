package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitsim/internal/raster"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille-cell drawing surface. Each cell holds 2x4 dots and
// one foreground color, the color of the last dot set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.RGBA

	draw   color.RGBA
	styles map[color.RGBA]lipgloss.Style
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]color.RGBA, h),
		draw:   color.RGBA{0xff, 0xff, 0xff, 0xff},
		styles: make(map[color.RGBA]lipgloss.Style),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.RGBA, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Size is the canvas size in dots.
func (c *Canvas) Size() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) SetDrawColor(col color.Color) {
	c.draw = color.RGBAModel.Convert(col).(color.RGBA)
}

// Set turns on the dot at (x, y) in the current draw color.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][col] = c.draw
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear turns every dot off. A terminal has no background fill, so the
// draw color is not used.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	raster.BresenhamLine(x0, y0, x1, y1, c.Set)
}

// Present is a no-op; the bubbletea view reads the grid directly.
func (c *Canvas) Present() error { return nil }

// String renders the grid without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the grid with each cell in its dot color. Runs of cells
// sharing a color are styled together.
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.sameStyle(row, start, col) {
				continue
			}
			b.WriteString(c.renderRun(row, start, col))
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) sameStyle(row, a, b int) bool {
	ea, eb := c.Grid[row][a] == blank, c.Grid[row][b] == blank
	if ea || eb {
		return ea && eb
	}
	return c.Colors[row][a] == c.Colors[row][b]
}

func (c *Canvas) renderRun(row, start, end int) string {
	text := string(c.Grid[row][start:end])
	if c.Grid[row][start] == blank {
		return text
	}
	return c.style(c.Colors[row][start]).Render(text)
}

func (c *Canvas) style(col color.RGBA) lipgloss.Style {
	st, ok := c.styles[col]
	if !ok {
		st = lipgloss.NewStyle().Foreground(hexColor(col))
		c.styles[col] = st
	}
	return st
}
