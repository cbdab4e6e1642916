// Package gui opens a raylib window that the frame loop draws into.
package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/orbitsim/internal/raster"
)

var colHUD = rl.NewColor(140, 140, 140, 255)

// Window is a raylib window used both as the drawing surface and as the
// platform that decides when the loop stops. Only one may be open.
type Window struct {
	width, height int
	draw          rl.Color
	inFrame       bool

	// HUD, when set, is drawn in the top-left corner of every frame.
	HUD func() string
}

// Open creates the window. raylib paces EndDrawing at fps.
func Open(width, height, fps int, title string) *Window {
	rl.InitWindow(int32(width), int32(height), title)
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
	return &Window{width: width, height: height, draw: rl.White}
}

func (w *Window) Close() { rl.CloseWindow() }

func (w *Window) Surface() raster.Surface { return w }

// ShouldClose reports a close request from the window manager or Escape.
func (w *Window) ShouldClose() bool {
	return rl.WindowShouldClose() || rl.IsKeyPressed(rl.KeyEscape)
}

func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) SetDrawColor(c color.Color) { w.draw = toRL(c) }

// Clear starts a frame if needed and fills it with the draw color.
func (w *Window) Clear() {
	w.begin()
	rl.ClearBackground(w.draw)
}

func (w *Window) DrawLine(x0, y0, x1, y1 int) {
	w.begin()
	if x0 == x1 && y0 == y1 {
		rl.DrawPixel(int32(x0), int32(y0), w.draw)
		return
	}
	rl.DrawLine(int32(x0), int32(y0), int32(x1), int32(y1), w.draw)
}

// Present finishes the frame and swaps buffers.
func (w *Window) Present() error {
	w.begin()
	if w.HUD != nil {
		rl.DrawText(w.HUD(), 10, 10, 20, colHUD)
	}
	rl.EndDrawing()
	w.inFrame = false
	return nil
}

func (w *Window) begin() {
	if !w.inFrame {
		rl.BeginDrawing()
		w.inFrame = true
	}
}

func toRL(c color.Color) rl.Color {
	r, g, b, a := c.RGBA()
	return rl.NewColor(uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
}
