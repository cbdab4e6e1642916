// Package raster turns continuous body positions into pixels.
//
// It owns the world-to-screen [Projection], the midpoint filled-circle
// rasterizer [FillCircle] and the bounded orbit [Trail]. Drawing goes
// through the [Surface] interface so the same code renders into a
// terminal braille canvas, a raylib window, an in-memory image or a GIF
// frame.
package raster
