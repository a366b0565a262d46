// Package audio plays the sound track of the input next to the video loop.
// Both sides share nothing but the stop signal.
package audio

import (
	"errors"
	"fmt"
)

var (
	ErrNoAudio  = errors.New("no audio stream")
	ErrNoFFmpeg = errors.New("ffmpeg is not found in PATH")
)

// Format describes interleaved signed 16-bit PCM.
type Format struct {
	Rate     int
	Channels int
}

func (f Format) String() string { return fmt.Sprintf("%vHz/%vch", f.Rate, f.Channels) }

func (f Format) Valid() bool { return f.Rate > 0 && f.Channels > 0 }

// BytesPerSecond of the format when stored as 16-bit samples.
func (f Format) BytesPerSecond() int { return f.Rate * f.Channels * 2 }

// Source decodes samples. Read fills p with interleaved samples and returns
// io.EOF when the stream is exhausted.
type Source interface {
	Format() Format
	Read(p []int16) (int, error)
	Close() error
}

// Sink is a playback device with its own queue.
type Sink interface {
	// Format is what the device actually plays.
	Format() Format
	// Queue adds samples to the device queue without waiting for playback.
	Queue(p []int16) error
	// Queued returns the number of bytes waiting to be played.
	Queued() uint32
	Close() error
}
