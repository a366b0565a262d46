package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/sevenseg/sevenseg/pkg/thread"
	"github.com/veandco/go-sdl2/sdl"
)

// Window shows the segments in an SDL window.
// Draw calls are batched and flushed on Present.
type Window struct {
	w  *sdl.Window
	r  *sdl.Renderer
	bg color.RGBA

	batch []batch
	quit  bool
}

type batch struct {
	col   color.RGBA
	rects []sdl.Rect
}

// NewWindow opens a window with a logical size of w x h pixels.
func NewWindow(title string, w, h int, background color.RGBA) (win *Window, err error) {
	thread.MainMaybe(func() { win, err = newWindow(title, w, h, background) })
	return
}

func newWindow(title string, w, h int, background color.RGBA) (*Window, error) {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}
	sw, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(w), int32(h), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, fmt.Errorf("window: %w", err)
	}
	r, err := sdl.CreateRenderer(sw, -1, sdl.RENDERER_ACCELERATED)
	if err == nil {
		err = r.SetLogicalSize(int32(w), int32(h))
	}
	if err != nil {
		if r != nil {
			_ = r.Destroy()
		}
		err1 := sw.Destroy()
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
		return nil, fmt.Errorf("renderer: %w, destroy err: %v", err, err1)
	}
	return &Window{w: sw, r: r, bg: background}, nil
}

func (w *Window) Clear() { w.batch = w.batch[:0] }

func (w *Window) FillRect(r image.Rectangle, col color.RGBA) {
	rect := sdl.Rect{X: int32(r.Min.X), Y: int32(r.Min.Y), W: int32(r.Dx()), H: int32(r.Dy())}
	if n := len(w.batch); n > 0 && w.batch[n-1].col == col {
		w.batch[n-1].rects = append(w.batch[n-1].rects, rect)
		return
	}
	if n := len(w.batch); n < cap(w.batch) {
		// reuse the rect buffer left over from the previous frame
		w.batch = w.batch[:n+1]
		w.batch[n].col = col
		w.batch[n].rects = append(w.batch[n].rects[:0], rect)
		return
	}
	w.batch = append(w.batch, batch{col: col, rects: []sdl.Rect{rect}})
}

// Present clears the window to the background color, draws the batched
// rectangles and shows the result.
func (w *Window) Present() (err error) {
	thread.MainMaybe(func() { err = w.present() })
	return
}

func (w *Window) present() error {
	if err := w.r.SetDrawColor(w.bg.R, w.bg.G, w.bg.B, w.bg.A); err != nil {
		return err
	}
	if err := w.r.Clear(); err != nil {
		return err
	}
	for _, b := range w.batch {
		if err := w.r.SetDrawColor(b.col.R, b.col.G, b.col.B, b.col.A); err != nil {
			return err
		}
		if err := w.r.FillRects(b.rects); err != nil {
			return err
		}
	}
	w.r.Present()
	return nil
}

// CancelRequested drains pending window events and reports whether
// the user pressed Escape or closed the window.
func (w *Window) CancelRequested() bool {
	thread.MainMaybe(w.poll)
	return w.quit
}

func (w *Window) poll() {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			w.quit = true
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
				w.quit = true
			}
		}
	}
}

func (w *Window) Close() (err error) {
	thread.MainMaybe(func() {
		if err = w.r.Destroy(); err != nil {
			_ = w.w.Destroy()
		} else {
			err = w.w.Destroy()
		}
		sdl.QuitSubSystem(sdl.INIT_VIDEO)
	})
	return
}
