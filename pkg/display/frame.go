package display

import (
	"image"

	"golang.org/x/image/draw"
)

// Frame is a grayscale picture with values in [0, 1].
type Frame struct {
	W, H int
	Pix  []float32
}

func NewFrame(w, h int) *Frame { return &Frame{W: w, H: h, Pix: make([]float32, w*h)} }

// Uniform returns a frame filled with v.
func Uniform(w, h int, v float32) *Frame {
	f := NewFrame(w, h)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.W, f.H) }
func (f *Frame) At(x, y int) float32     { return f.Pix[y*f.W+x] }
func (f *Frame) Set(x, y int, v float32) { f.Pix[y*f.W+x] = v }

// Invert flips every value of the frame, v = 1 - v.
func (f *Frame) Invert() {
	for i, v := range f.Pix {
		f.Pix[i] = 1 - v
	}
}

const (
	ScaleNearestNeighbour = iota
	ScaleBilinear
)

// Resize scales src into out, covering all of out.
func Resize(scaleType int, src image.Image, out *image.RGBA) {
	switch scaleType {
	case ScaleBilinear:
		draw.ApproxBiLinear.Scale(out, out.Bounds(), src, src.Bounds(), draw.Src, nil)
	default:
		draw.NearestNeighbor.Scale(out, out.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
}

// Luminance writes the gray level of src into dst. Both must have the same size.
// It uses the same weights as color.GrayModel so that white maps to exactly 1.
func Luminance(src *image.RGBA, dst *Frame) {
	b := src.Bounds()
	for y := 0; y < dst.H; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		out := dst.Pix[y*dst.W : (y+1)*dst.W]
		for x := range out {
			i := x << 2
			r, g, bl := uint32(row[i]), uint32(row[i+1]), uint32(row[i+2])
			yy := (19595*r + 38470*g + 7471*bl + 1<<15) >> 16
			out[x] = float32(yy) / 255
		}
	}
}

// Converter turns decoded pictures of any size into luminance frames of a
// fixed size. Its buffers are reused between calls, so a returned frame is
// only valid until the next Convert.
type Converter struct {
	scaleType int
	scaled    *image.RGBA
	frame     *Frame
}

func NewConverter(w, h int, scaleType int) *Converter {
	return &Converter{
		scaleType: scaleType,
		scaled:    image.NewRGBA(image.Rect(0, 0, w, h)),
		frame:     NewFrame(w, h),
	}
}

// Convert resizes src, converts it to luminance and inverts it when asked.
// Inversion is applied to the whole frame before any sampling.
func (c *Converter) Convert(src image.Image, invert bool) *Frame {
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Bounds().Size() != c.scaled.Bounds().Size() {
		Resize(c.scaleType, src, c.scaled)
		rgba = c.scaled
	}
	Luminance(rgba, c.frame)
	if invert {
		c.frame.Invert()
	}
	return c.frame
}
