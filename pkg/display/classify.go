package display

import (
	"image"
	"strings"
)

// State keeps the on/off bits of segments A..G of one digit, bit n is segment n.
type State uint8

func (s State) On(seg Segment) bool { return s&(1<<seg) != 0 }

// Count returns the number of lit segments.
func (s State) Count() (n int) {
	for ; s != 0; s &= s - 1 {
		n++
	}
	return
}

// String lists lit segments by name and unlit ones as '-', i.e. "AB-D--G".
func (s State) String() string {
	var b strings.Builder
	for seg := A; seg < Segments; seg++ {
		if s.On(seg) {
			b.WriteString(seg.String())
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Mean returns the average value of f inside r clipped to the frame bounds.
// The second value is false when nothing is left after clipping.
func Mean(f *Frame, r image.Rectangle) (float64, bool) {
	r = r.Intersect(f.Bounds())
	if r.Empty() {
		return 0, false
	}
	var sum float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for _, v := range f.Pix[y*f.W+r.Min.X : y*f.W+r.Max.X] {
			sum += float64(v)
		}
	}
	return sum / float64(r.Dx()*r.Dy()), true
}

// Classifier computes segment states for whole frames.
//
// It keeps a summed-area table of the last frame only as scratch space,
// the table is rebuilt from scratch on every call so no state leaks from
// one frame into the next.
type Classifier struct {
	w, h int
	sat  []float64
}

// Classify returns the state of every cell of l for frame f.
// A segment is lit when the mean of its clipped region is >= threshold,
// a region clipped down to nothing is always off.
// The result is written into dst when it has enough capacity.
func (c *Classifier) Classify(f *Frame, l *Layout, threshold float64, dst []State) []State {
	c.build(f)
	if cap(dst) < len(l.Cells) {
		dst = make([]State, len(l.Cells))
	}
	dst = dst[:len(l.Cells)]
	// pixels are float32, a threshold equal to a pixel value must match it
	threshold = float64(float32(threshold))
	bounds := f.Bounds()
	for i := range l.Cells {
		var st State
		for seg, r := range l.Cells[i].Regions {
			r = r.Intersect(bounds)
			if r.Empty() {
				continue
			}
			if c.sum(r)/float64(r.Dx()*r.Dy()) >= threshold {
				st |= 1 << seg
			}
		}
		dst[i] = st
	}
	return dst
}

// Classify is a convenience wrapper for one-off calls.
func Classify(f *Frame, l *Layout, threshold float64) []State {
	var c Classifier
	return c.Classify(f, l, threshold, nil)
}

// build fills the (w+1)x(h+1) summed-area table of f,
// sat[y][x] holds the sum of all values above and to the left of (x, y).
func (c *Classifier) build(f *Frame) {
	c.w, c.h = f.W, f.H
	n := (f.W + 1) * (f.H + 1)
	if cap(c.sat) < n {
		c.sat = make([]float64, n)
	}
	c.sat = c.sat[:n]
	stride := f.W + 1
	for x := 0; x < stride; x++ {
		c.sat[x] = 0
	}
	for y := 1; y <= f.H; y++ {
		row := f.Pix[(y-1)*f.W : y*f.W]
		c.sat[y*stride] = 0
		var acc float64
		for x := 1; x <= f.W; x++ {
			acc += float64(row[x-1])
			c.sat[y*stride+x] = c.sat[(y-1)*stride+x] + acc
		}
	}
}

func (c *Classifier) sum(r image.Rectangle) float64 {
	stride := c.w + 1
	at := func(x, y int) float64 { return c.sat[y*stride+x] }
	return at(r.Max.X, r.Max.Y) - at(r.Min.X, r.Max.Y) - at(r.Max.X, r.Min.Y) + at(r.Min.X, r.Min.Y)
}

// Lit calls fn with the region of every lit segment, cell by cell.
func Lit(l *Layout, states []State, fn func(r image.Rectangle)) {
	for i, st := range states {
		if st == 0 {
			continue
		}
		for seg, r := range l.Cells[i].Regions {
			if st.On(Segment(seg)) {
				fn(r)
			}
		}
	}
}
