package config

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/sevenseg/sevenseg/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufs struct{ out, warn, usage bytes.Buffer }

func newParser(b *bufs) *Parser {
	return &Parser{
		Out:   logger.NewConsoleWriter(&b.out, false, "cfg", true),
		Warn:  logger.NewConsoleWriter(&b.warn, false, "cfg", true),
		Usage: &b.usage,
	}
}

func TestParseSize(t *testing.T) {
	v, err := ParseSize("640,360")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(640, 360), v)

	v, err = ParseSize(" 32 , 12 ")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(32, 12), v)

	for _, bad := range []string{"640x360", "640", "", "a,b", "0,10", "-1,5", "1,2,3"} {
		_, err := ParseSize(bad)
		assert.ErrorIs(t, err, ErrSize, bad)
	}
}

func TestParseColor(t *testing.T) {
	v, err := ParseColor("10,20,30")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, v)

	for _, bad := range []string{"10,abc", "10,20", "1,2,3,4", "256,0,0", "-1,0,0"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrColor, bad)
	}
}

func TestParseDefaults(t *testing.T) {
	var b bufs
	conf, err := newParser(&b).Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "BadApple!!.mp4", conf.Input)
	assert.Equal(t, DefaultThreshold, conf.Threshold)
	assert.Equal(t, DefaultMaxFPS, conf.MaxFPS)
	assert.Equal(t, DefaultResolution, conf.Resolution)
	assert.Equal(t, DefaultDivisions, conf.Divisions)
	assert.Equal(t, DefaultColor, conf.Color)
	assert.False(t, conf.Invert)
	assert.False(t, conf.Audio)
	assert.False(t, conf.Draw)
	assert.Empty(t, b.warn.String())
}

func TestParseFlags(t *testing.T) {
	var b bufs
	conf, err := newParser(&b).Parse([]string{
		"-i", "clip.mp4", "--threshold", "0.3", "-f", "60", "-r", "320,180",
		"--dividents", "16,9", "-c", "0,255,0", "-n", "-a", "--draw",
	})
	require.NoError(t, err)

	assert.Equal(t, "clip.mp4", conf.Input)
	assert.Equal(t, 0.3, conf.Threshold)
	assert.Equal(t, 60.0, conf.MaxFPS)
	assert.Equal(t, image.Pt(320, 180), conf.Resolution)
	assert.Equal(t, image.Pt(16, 9), conf.Divisions)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, conf.Color)
	assert.True(t, conf.Invert)
	assert.True(t, conf.Audio)
	assert.True(t, conf.Draw)
}

func TestParseLegacyFlags(t *testing.T) {
	var b bufs
	conf, err := newParser(&b).Parse([]string{"-th", "0.7", "-fps", "24", "-res", "200,100", "-div", "4,2", "-inv"})
	require.NoError(t, err)

	assert.Equal(t, 0.7, conf.Threshold)
	assert.Equal(t, 24.0, conf.MaxFPS)
	assert.Equal(t, image.Pt(200, 100), conf.Resolution)
	assert.Equal(t, image.Pt(4, 2), conf.Divisions)
	assert.True(t, conf.Invert)
}

func TestParseMalformedFallsBack(t *testing.T) {
	var b bufs
	conf, err := newParser(&b).Parse([]string{
		"-c", "10,abc", "-r", "640x360", "-t", "half", "-f", "-5", "-g", "0,3",
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultColor, conf.Color)
	assert.Equal(t, DefaultResolution, conf.Resolution)
	assert.Equal(t, DefaultThreshold, conf.Threshold)
	assert.Equal(t, DefaultMaxFPS, conf.MaxFPS)
	assert.Equal(t, DefaultDivisions, conf.Divisions)

	w := b.warn.String()
	for _, name := range []string{"color", "resolution", "threshold", "fpscap", "divisions"} {
		assert.Contains(t, w, "Failed to parse "+name)
	}
	assert.Empty(t, b.out.String())
}

func TestParseUnknownFlags(t *testing.T) {
	var b bufs
	conf, err := newParser(&b).Parse([]string{"--bogus", "-x", "-t", "-0.5", "-a"})
	require.NoError(t, err)

	assert.Contains(t, b.out.String(), "Unknown flag: --bogus")
	assert.Contains(t, b.out.String(), "Unknown flag: -x")
	assert.NotContains(t, b.out.String(), "-0.5")
	assert.Equal(t, -0.5, conf.Threshold)
	assert.True(t, conf.Audio)
}

func TestParseHelp(t *testing.T) {
	var b bufs
	_, err := newParser(&b).Parse([]string{"--help"})
	assert.True(t, IsHelp(err))
	assert.Contains(t, b.usage.String(), "--threshold")
	assert.Contains(t, b.usage.String(), "--resolution")
}

func TestParseConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sevenseg.yaml")
	data := "input: file.mp4\nthreshold: 0.25\nresolution: \"320,180\"\ncolor: \"1,2,3\"\ndraw: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	var b bufs
	conf, err := newParser(&b).Parse([]string{"--conf", path, "-t", "0.75"})
	require.NoError(t, err)

	assert.Equal(t, "file.mp4", conf.Input)
	assert.Equal(t, 0.75, conf.Threshold, "flags override the file")
	assert.Equal(t, image.Pt(320, 180), conf.Resolution)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, conf.Color)
	assert.True(t, conf.Draw)
	assert.Equal(t, DefaultDivisions, conf.Divisions, "defaults fill the rest")
}

func TestParseMissingConfigFile(t *testing.T) {
	var b bufs
	conf, err := newParser(&b).Parse([]string{"--conf", filepath.Join(t.TempDir(), "nope.yaml")})
	require.NoError(t, err)
	assert.Equal(t, DefaultResolution, conf.Resolution)
	assert.Contains(t, b.warn.String(), "Failed to load config file")
}

func TestDefaultsEnableMetrics(t *testing.T) {
	f, err := LoadFile("")
	require.NoError(t, err)
	assert.True(t, f.Monitoring.MetricEnabled)
	assert.False(t, f.Monitoring.ProfilingEnabled)

	path := filepath.Join(t.TempDir(), "sevenseg.yaml")
	data := "monitoring:\n  port: 9000\n  metric_enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	f, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, f.Monitoring.Port)
	assert.False(t, f.Monitoring.MetricEnabled)
}

func TestParseNonFiniteFallsBack(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		var b bufs
		conf, err := newParser(&b).Parse([]string{"-f", v, "-t", v})
		require.NoError(t, err)

		assert.Equal(t, DefaultMaxFPS, conf.MaxFPS, v)
		assert.Equal(t, DefaultThreshold, conf.Threshold, v)
		assert.Contains(t, b.warn.String(), "Failed to parse fpscap", v)
		assert.Contains(t, b.warn.String(), "Failed to parse threshold", v)
	}
}

func TestParseHelpWithBadArgs(t *testing.T) {
	var b bufs
	conf, err := newParser(&b).Parse([]string{"-h", "--bogus", "-c", "10,abc"})

	assert.True(t, IsHelp(err))
	require.NotNil(t, conf)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, conf.Color)
	assert.Contains(t, b.out.String(), "Unknown flag: --bogus")
	assert.Contains(t, b.warn.String(), "Failed to parse color")
	assert.Contains(t, b.usage.String(), "--color")
}
