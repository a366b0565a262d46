package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleModule(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsoleWriter(&buf, false, "sevenseg", true).Module("audio")

	log.Debug().Msg("hidden")
	log.Info().Msg("hello")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message in info level output: %q", out)
	}
	for _, want := range []string{"sevenseg", "audio", "hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q is missing in %q", want, out)
		}
	}
}

func TestNop(t *testing.T) {
	Nop().Error().Msg("nothing")
}
