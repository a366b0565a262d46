package audio

import (
	"errors"
	"io"
	"time"

	"github.com/sevenseg/sevenseg/pkg/logger"
	"github.com/sevenseg/sevenseg/pkg/stop"
)

const (
	chunkSize    = 4096
	drainPoll    = 10 * time.Millisecond
	maxDrainWait = 30 * time.Second
	// about how much audio is kept in the device queue ahead of playback
	queueAhead = 2 * time.Second
)

// Player decodes and plays a sound track until the track ends
// or the stop signal goes up.
type Player struct {
	OpenSource func() (Source, error)
	OpenSink   func(want Format) (Sink, error)

	// Poll is the wait between queue checks, MaxDrain bounds the final
	// wait for queued samples to play out.
	Poll     time.Duration
	MaxDrain time.Duration

	stop *stop.Signal
	log  *logger.Logger
}

// NewPlayer plays the file at path with ffmpeg and SDL.
func NewPlayer(path string, sig *stop.Signal, log *logger.Logger) *Player {
	return &Player{
		OpenSource: func() (Source, error) { return OpenFFmpeg(path) },
		OpenSink:   func(want Format) (Sink, error) { return OpenSDL(want) },
		Poll:       drainPoll,
		MaxDrain:   maxDrainWait,
		stop:       sig,
		log:        log,
	}
}

// Run blocks until playback is over. Failing to open the source or
// the device ends playback quietly, only a log line is left behind.
func (p *Player) Run() {
	src, err := p.OpenSource()
	if err != nil {
		p.log.Error().Err(err).Msg("Cannot open audio")
		return
	}
	defer func() {
		if err := src.Close(); err != nil {
			p.log.Warn().Err(err).Msg("audio source close")
		}
	}()

	sink, err := p.OpenSink(src.Format())
	if err != nil {
		p.log.Error().Err(err).Msg("Cannot open audio device")
		return
	}
	defer func() {
		if err := sink.Close(); err != nil {
			p.log.Warn().Err(err).Msg("audio device close")
		}
	}()

	rs := NewResampler(src.Format(), sink.Format())
	p.log.Debug().Msgf("Audio %v -> %v", src.Format(), sink.Format())

	p.play(src, sink, rs)
	p.drain(sink)
}

func (p *Player) play(src Source, sink Sink, rs *Resampler) {
	ahead := uint32(float64(sink.Format().BytesPerSecond()) * queueAhead.Seconds())
	buf := make([]int16, chunkSize*src.Format().Channels)
	for !p.stop.Stopped() {
		n, err := src.Read(buf)
		if n > 0 {
			if qErr := sink.Queue(rs.Resample(buf[:n])); qErr != nil {
				p.log.Error().Err(qErr).Msg("audio queue")
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.log.Error().Err(err).Msg("audio decode")
			}
			return
		}
		// don't run too far ahead of the speakers
		for sink.Queued() > ahead && !p.stop.Stopped() {
			time.Sleep(p.Poll)
		}
	}
}

// drain waits for the queued samples to play out.
func (p *Player) drain(sink Sink) {
	deadline := time.Now().Add(p.MaxDrain)
	for sink.Queued() > 0 && !p.stop.Stopped() && time.Now().Before(deadline) {
		time.Sleep(p.Poll)
	}
}
