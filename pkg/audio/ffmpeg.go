package audio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpegSource decodes the first audio stream of a file into 16-bit PCM
// with an ffmpeg child process, keeping the stream's own rate and channels.
type FFmpegSource struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	r      *bufio.Reader
	format Format
	raw    []byte
}

// OpenFFmpeg probes path for an audio stream and starts decoding it.
func OpenFFmpeg(path string) (*FFmpegSource, error) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, ErrNoFFmpeg
	}
	format, err := Probe(path)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(ffmpeg, "-nostdin", "-v", "error",
		"-i", path, "-map", "0:a:0", "-vn",
		"-f", "s16le", "-acodec", "pcm_s16le", "-")
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}
	return &FFmpegSource{cmd: cmd, out: out, r: bufio.NewReaderSize(out, 64<<10), format: format}, nil
}

func (s *FFmpegSource) Format() Format { return s.format }

func (s *FFmpegSource) Read(p []int16) (int, error) {
	need := len(p) * 2
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	n, err := io.ReadFull(s.r, s.raw[:need])
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	n /= 2
	for i := 0; i < n; i++ {
		p[i] = int16(binary.LittleEndian.Uint16(s.raw[i*2:]))
	}
	return n, err
}

// Close stops the decoder whether or not it is done.
// Exits caused by the stop itself are not errors.
func (s *FFmpegSource) Close() error {
	_ = s.out.Close()
	if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	err := s.cmd.Wait()
	var exit *exec.ExitError
	if errors.As(err, &exit) && exit.ExitCode() == -1 {
		return nil
	}
	return err
}

// Probe returns the format of the first audio stream of path using ffprobe.
func Probe(path string) (Format, error) {
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return Format{}, ErrNoFFmpeg
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(ffprobe, "-v", "error", "-select_streams", "a:0",
		"-show_entries", "stream=sample_rate,channels",
		"-of", "default=noprint_wrappers=1", path)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		return Format{}, fmt.Errorf("ffprobe %v: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	return parseProbe(stdout.String())
}

// parseProbe reads ffprobe key=value lines.
func parseProbe(s string) (Format, error) {
	var f Format
	for _, line := range strings.Split(s, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		switch k {
		case "sample_rate":
			f.Rate = n
		case "channels":
			f.Channels = n
		}
	}
	if !f.Valid() {
		return f, ErrNoAudio
	}
	return f, nil
}
