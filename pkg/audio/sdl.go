package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// SDLSink plays samples through an SDL audio device queue.
type SDLSink struct {
	dev    sdl.AudioDeviceID
	format Format
	buf    []byte
}

// OpenSDL opens the default playback device, asking for want.
// The device may pick another rate or channel count, see Format.
func OpenSDL(want Format) (*SDLSink, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}
	spec := sdl.AudioSpec{
		Freq:     int32(want.Rate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: uint8(want.Channels),
		Samples:  1024,
	}
	var have sdl.AudioSpec
	dev, err := sdl.OpenAudioDevice("", false, &spec, &have,
		sdl.AUDIO_ALLOW_FREQUENCY_CHANGE|sdl.AUDIO_ALLOW_CHANNELS_CHANGE)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("audio device: %w", err)
	}
	sdl.PauseAudioDevice(dev, false)
	return &SDLSink{dev: dev, format: Format{Rate: int(have.Freq), Channels: int(have.Channels)}}, nil
}

func (s *SDLSink) Format() Format { return s.format }

func (s *SDLSink) Queue(p []int16) error {
	if cap(s.buf) < len(p)*2 {
		s.buf = make([]byte, len(p)*2)
	}
	b := s.buf[:len(p)*2]
	for i, v := range p {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	return sdl.QueueAudio(s.dev, b)
}

func (s *SDLSink) Queued() uint32 { return sdl.GetQueuedAudioSize(s.dev) }

func (s *SDLSink) Close() error {
	sdl.CloseAudioDevice(s.dev)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
