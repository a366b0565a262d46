package render

import (
	"image"
	"image/color"
	"testing"
)

func TestCanvasFillAndClear(t *testing.T) {
	bg := color.RGBA{A: 0xff}
	red := color.RGBA{R: 0xff, A: 0xff}
	c := NewCanvas(10, 10, bg)

	c.FillRect(image.Rect(8, 8, 14, 14), red)
	if c.Fills != 1 {
		t.Errorf("fills %v", c.Fills)
	}
	img := c.Image()
	if got := img.RGBAAt(9, 9); got != red {
		t.Errorf("inside %v, want %v", got, red)
	}
	if got := img.RGBAAt(7, 7); got != bg {
		t.Errorf("outside %v, want %v", got, bg)
	}

	c.Clear()
	if got := img.RGBAAt(9, 9); got != bg {
		t.Errorf("after clear %v, want %v", got, bg)
	}
	if c.Fills != 0 {
		t.Errorf("fills after clear %v", c.Fills)
	}
}
