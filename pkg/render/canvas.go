// Package render draws lit segments onto a surface.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Canvas is an in-memory surface backed by image.RGBA.
type Canvas struct {
	img *image.RGBA
	bg  image.Uniform

	// Fills counts FillRect calls since the last Clear.
	Fills    int
	Presents int
}

func NewCanvas(w, h int, background color.RGBA) *Canvas {
	c := Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), bg: image.Uniform{C: background}}
	c.Clear()
	return &c
}

func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), &c.bg, image.Point{}, draw.Src)
	c.Fills = 0
}

// FillRect paints r with col, r is clipped to the canvas.
func (c *Canvas) FillRect(r image.Rectangle, col color.RGBA) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), &image.Uniform{C: col}, image.Point{}, draw.Src)
	c.Fills++
}

func (c *Canvas) Present() error { c.Presents++; return nil }
func (c *Canvas) Close() error   { return nil }

// Image returns the surface, it changes with every frame.
func (c *Canvas) Image() *image.RGBA { return c.img }
