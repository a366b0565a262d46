package video

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"

	vidio "github.com/AlexEidt/Vidio"
	xos "github.com/sevenseg/sevenseg/pkg/os"
)

var ErrOpen = errors.New("cannot open video")

// Source yields decoded pictures one by one.
// Read returns io.EOF once the stream is over.
type Source interface {
	Read() (image.Image, error)
	Close() error
}

// FileSource decodes a video file with ffmpeg through Vidio.
// The picture returned by Read is reused for the next frame.
type FileSource struct {
	v   *vidio.Video
	img *image.RGBA
}

func Open(path string) (*FileSource, error) {
	if !xos.Exists(path) {
		return nil, fmt.Errorf("%w %v: %w", ErrOpen, path, fs.ErrNotExist)
	}
	v, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fmt.Errorf("%w %v: %v", ErrOpen, path, err)
	}
	img := image.NewRGBA(image.Rect(0, 0, v.Width(), v.Height()))
	if err := v.SetFrameBuffer(img.Pix); err != nil {
		v.Close()
		return nil, fmt.Errorf("%w %v: %v", ErrOpen, path, err)
	}
	return &FileSource{v: v, img: img}, nil
}

func (s *FileSource) Read() (image.Image, error) {
	if !s.v.Read() {
		return nil, io.EOF
	}
	return s.img, nil
}

// FPS is the native frame rate of the file.
func (s *FileSource) FPS() float64 { return s.v.FPS() }

func (s *FileSource) Size() image.Point { return image.Pt(s.v.Width(), s.v.Height()) }

func (s *FileSource) Close() error {
	s.v.Close()
	return nil
}
