package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sevenseg/sevenseg/pkg/audio"
	"github.com/sevenseg/sevenseg/pkg/config"
	"github.com/sevenseg/sevenseg/pkg/logger"
	"github.com/sevenseg/sevenseg/pkg/monitoring"
	xos "github.com/sevenseg/sevenseg/pkg/os"
	"github.com/sevenseg/sevenseg/pkg/render"
	"github.com/sevenseg/sevenseg/pkg/stop"
	"github.com/sevenseg/sevenseg/pkg/thread"
	"github.com/sevenseg/sevenseg/pkg/video"
)

var Version = ""

const tag = "sevenseg"

type player interface{ Run() }

// app is one run of the simulation.
type app struct {
	conf    *config.Config
	log     *logger.Logger
	out     io.Writer
	metrics *monitoring.Metrics

	openVideo  func(path string) (video.Source, error)
	openScreen func(conf *config.Config) (video.Renderer, video.KeyPoller, error)
	newPlayer  func(path string, sig *stop.Signal, log *logger.Logger) player
}

func newApp(conf *config.Config, log *logger.Logger) *app {
	return &app{
		conf:       conf,
		log:        log,
		out:        os.Stdout,
		openVideo:  func(path string) (video.Source, error) { return video.Open(path) },
		openScreen: openScreen,
		newPlayer: func(path string, sig *stop.Signal, log *logger.Logger) player {
			return audio.NewPlayer(path, sig, log)
		},
	}
}

// openScreen returns the window when drawing is on. Ctrl+C cancels in any case.
func openScreen(conf *config.Config) (video.Renderer, video.KeyPoller, error) {
	interrupt := xos.NewInterrupt()
	if !conf.Draw {
		return nil, interrupt, nil
	}
	win, err := render.NewWindow(conf.Title, conf.Resolution.X, conf.Resolution.Y, conf.Background)
	if err != nil {
		return nil, nil, err
	}
	return win, anyKey{win, interrupt}, nil
}

type anyKey []video.KeyPoller

func (k anyKey) CancelRequested() bool {
	for _, p := range k {
		if p.CancelRequested() {
			return true
		}
	}
	return false
}

// run plays the video on the calling goroutine and the audio next to it.
// It always raises the stop signal and waits for the audio before returning.
func (a *app) run() video.Stats {
	var sig stop.Signal
	var wg sync.WaitGroup
	if a.conf.Audio {
		p := a.newPlayer(a.conf.Input, &sig, a.log.Module("audio"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Run()
		}()
	}
	defer wg.Wait()
	defer sig.Stop()

	src, err := a.openVideo(a.conf.Input)
	if err != nil {
		a.log.Error().Err(err).Msg("Cannot open video")
		return video.Stats{Reason: video.ReadFailed, Err: err}
	}
	defer func() {
		if err := src.Close(); err != nil {
			a.log.Warn().Err(err).Msg("video close")
		}
	}()

	screen, keys, err := a.openScreen(a.conf)
	if err != nil {
		a.log.Error().Err(err).Msg("Cannot open window")
		return video.Stats{Reason: video.SetupFailed, Err: err}
	}
	if screen != nil {
		defer func() {
			if err := screen.Close(); err != nil {
				a.log.Warn().Err(err).Msg("window close")
			}
		}()
	}

	loop, err := video.NewLoop(video.Options{
		Resolution: a.conf.Resolution,
		Divisions:  a.conf.Divisions,
		Threshold:  a.conf.Threshold,
		Invert:     a.conf.Invert,
		Draw:       a.conf.Draw,
		Color:      a.conf.Color,
		MaxFPS:     a.conf.MaxFPS,
		Report:     a.report,
	}, src, screen, keys, &sig, a.log.Module("video"))
	if err != nil {
		a.log.Error().Err(err).Msg("Bad grid")
		return video.Stats{Reason: video.SetupFailed, Err: err}
	}
	if a.metrics != nil {
		loop.WithObserver(a.metrics)
	}
	a.log.Debug().Msgf("Grid %vx%v cells of %vx%v px", loop.Layout().Cols, loop.Layout().Rows,
		loop.Layout().CellW, loop.Layout().CellH)

	st := loop.Run()
	_, _ = fmt.Fprintln(a.out)
	return st
}

func (a *app) report(fps int) {
	_, _ = fmt.Fprintf(a.out, "\r\x1b[2KFPS: %d", fps)
	if a.metrics != nil {
		a.metrics.SetFPS(fps)
	}
}

// parseArgs reads the run configuration. Unknown flags are reported to
// stdout, bad values to stderr. It returns false when only usage was asked for.
func parseArgs(args []string, stdout, stderr io.Writer) (*config.Config, bool) {
	parser := config.Parser{
		Out:   logger.NewConsoleWriter(stdout, false, tag, false),
		Warn:  logger.NewConsoleWriter(stderr, false, tag, false),
		Usage: stdout,
	}
	conf, err := parser.Parse(args)
	return conf, !config.IsHelp(err)
}

func run() {
	conf, ok := parseArgs(os.Args[1:], os.Stdout, os.Stderr)
	if !ok {
		return
	}

	log := logger.NewConsole(conf.Debug, tag, false)
	id := uuid.Must(uuid.NewV4())
	log = log.Extend(log.With().Str("run", id.String()[:8]))
	log.Info().Msgf("version: %v", Version)
	log.Debug().Msgf("conf: %+v", *conf)

	a := newApp(conf, log)

	if conf.Monitoring.IsEnabled() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		a.metrics = monitoring.NewMetrics(reg)
		mon := monitoring.New(conf.Monitoring, reg, log.Module("monitoring"))
		if err := mon.Run(); err != nil {
			log.Error().Err(err).Msg("Monitoring is off")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = mon.Shutdown(ctx)
			}()
		}
	}

	st := a.run()
	log.Info().Int("frames", st.Frames).Msgf("Done: %v", st.Reason)
}

func main() {
	thread.MainWrapMaybe(run)
}
