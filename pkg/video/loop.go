// Package video runs the main render loop: read a frame, classify the grid,
// draw the lit segments and keep the pace.
package video

import (
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/sevenseg/sevenseg/pkg/display"
	"github.com/sevenseg/sevenseg/pkg/logger"
	"github.com/sevenseg/sevenseg/pkg/pacer"
	"github.com/sevenseg/sevenseg/pkg/stop"
)

// Renderer is a drawing surface that is cleared before every frame.
type Renderer interface {
	Clear()
	FillRect(r image.Rectangle, c color.RGBA)
	Present() error
	Close() error
}

// KeyPoller tells whether the user asked to quit.
type KeyPoller interface {
	CancelRequested() bool
}

// Observer gets the segment states of every processed frame.
type Observer interface {
	ObserveFrame(states []display.State)
}

type Options struct {
	Resolution image.Point
	Divisions  image.Point
	Threshold  float64
	Invert     bool
	Draw       bool
	Color      color.RGBA
	MaxFPS     float64
	// Report receives the achieved frame rate once a second.
	Report func(fps int)
}

type State int

const (
	Running State = iota
	Stopped
)

type Reason int

const (
	EndOfStream Reason = iota
	ReadFailed
	Cancelled
	// SetupFailed means the loop never ran.
	SetupFailed
)

func (r Reason) String() string {
	switch r {
	case EndOfStream:
		return "end of stream"
	case ReadFailed:
		return "read failed"
	case Cancelled:
		return "cancelled"
	case SetupFailed:
		return "setup failed"
	}
	return "unknown"
}

type Stats struct {
	Frames int
	Reason Reason
	Err    error
}

// Loop is the single-threaded frame pipeline.
type Loop struct {
	opts  Options
	src   Source
	out   Renderer
	keys  KeyPoller
	stop  *stop.Signal
	obs   Observer
	log   *logger.Logger
	pacer *pacer.Pacer

	layout *display.Layout
	conv   *display.Converter
	cls    display.Classifier
	states []display.State
	state  State
}

// NewLoop prepares the grid for a run. The out renderer is used only
// when opts.Draw is set, keys and obs may be nil.
func NewLoop(opts Options, src Source, out Renderer, keys KeyPoller, sig *stop.Signal, log *logger.Logger) (*Loop, error) {
	layout, err := display.NewLayout(opts.Resolution, opts.Divisions)
	if err != nil {
		return nil, err
	}
	if opts.Draw && out == nil {
		return nil, errors.New("drawing is enabled but there is no renderer")
	}
	return &Loop{
		opts:   opts,
		src:    src,
		out:    out,
		keys:   keys,
		stop:   sig,
		log:    log,
		pacer:  pacer.New(opts.MaxFPS, opts.Report),
		layout: layout,
		conv:   display.NewConverter(opts.Resolution.X, opts.Resolution.Y, display.ScaleBilinear),
		states: make([]display.State, layout.Len()),
		state:  Running,
	}, nil
}

// WithObserver sets a per frame observer.
func (l *Loop) WithObserver(o Observer) *Loop { l.obs = o; return l }

// WithPacer replaces the default wall clock pacer.
func (l *Loop) WithPacer(p *pacer.Pacer) *Loop { l.pacer = p; return l }

func (l *Loop) Layout() *display.Layout { return l.layout }

// Run processes frames until the source is over or the user cancels.
// It raises the stop signal once on the way out.
func (l *Loop) Run() (st Stats) {
	defer func() {
		l.state = Stopped
		l.stop.Stop()
		l.log.Info().Int("frames", st.Frames).Msgf("Video stopped: %v", st.Reason)
	}()

	for l.state == Running {
		l.pacer.Begin()

		img, err := l.src.Read()
		if err != nil {
			st.Reason = EndOfStream
			if !errors.Is(err, io.EOF) {
				st.Reason, st.Err = ReadFailed, err
				l.log.Error().Err(err).Msg("frame read")
			}
			return
		}

		frame := l.conv.Convert(img, l.opts.Invert)
		l.states = l.cls.Classify(frame, l.layout, l.opts.Threshold, l.states)
		st.Frames++
		if l.obs != nil {
			l.obs.ObserveFrame(l.states)
		}

		if l.opts.Draw {
			l.draw()
		}

		if l.keys != nil && l.keys.CancelRequested() {
			st.Reason = Cancelled
			return
		}

		l.pacer.End()
	}
	return
}

func (l *Loop) draw() {
	l.out.Clear()
	display.Lit(l.layout, l.states, func(r image.Rectangle) { l.out.FillRect(r, l.opts.Color) })
	if err := l.out.Present(); err != nil {
		l.log.Error().Err(err).Msg("present")
	}
}

// States returns the segment states of the last processed frame.
func (l *Loop) States() []display.State { return l.states }
