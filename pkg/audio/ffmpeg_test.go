package audio

import (
	"errors"
	"testing"
)

func TestParseProbe(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  error
	}{
		{in: "sample_rate=44100\nchannels=2\n", want: Format{Rate: 44100, Channels: 2}},
		{in: "channels=1\r\nsample_rate=48000\r\n", want: Format{Rate: 48000, Channels: 1}},
		{in: "", err: ErrNoAudio},
		{in: "sample_rate=N/A\nchannels=2\n", err: ErrNoAudio},
	}
	for _, tt := range tests {
		got, err := parseProbe(tt.in)
		if !errors.Is(err, tt.err) {
			t.Errorf("%q: err %v, want %v", tt.in, err, tt.err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	f := Format{Rate: 48000, Channels: 2}
	if f.BytesPerSecond() != 192000 {
		t.Errorf("bytes per second %v", f.BytesPerSecond())
	}
	if f.String() != "48000Hz/2ch" {
		t.Errorf("string %v", f)
	}
	if (Format{}).Valid() {
		t.Errorf("zero format is valid")
	}
}
