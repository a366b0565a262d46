// Package config builds the immutable run configuration from
// built-in defaults, an optional file and command line flags.
package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/sevenseg/sevenseg/pkg/logger"
)

// Config is created once at startup and never changed during a run.
type Config struct {
	Input      string
	Threshold  float64
	MaxFPS     float64
	Resolution image.Point
	Divisions  image.Point
	Color      color.RGBA
	Background color.RGBA
	Invert     bool
	Audio      bool
	Draw       bool
	Title      string
	Debug      bool
	Monitoring Monitoring
}

// Documented defaults, used whenever a value can't be parsed.
var (
	DefaultThreshold  = 0.5
	DefaultMaxFPS     = 30.0
	DefaultResolution = image.Pt(640, 360)
	DefaultDivisions  = image.Pt(32, 12)
	DefaultColor      = color.RGBA{R: 255, A: 255}
	DefaultBackground = color.RGBA{A: 255}
)

var (
	ErrSize  = errors.New("expected two positive integers as w,h")
	ErrColor = errors.New("expected three integers in 0..255 as r,g,b")
	ErrFloat = errors.New("expected a finite number")
	ErrFPS   = errors.New("fps cap must be positive")
)

// ParseSize parses "w,h" where both parts are positive integers.
func ParseSize(s string) (image.Point, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("%w: %q", ErrSize, s)
	}
	w, err1 := strconv.Atoi(strings.TrimSpace(a))
	h, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return image.Point{}, fmt.Errorf("%w: %q", ErrSize, s)
	}
	return image.Pt(w, h), nil
}

// ParseColor parses "r,g,b" with channels in 0..255.
func ParseColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrColor, s)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(v) {
		return 0, fmt.Errorf("%w: %q", ErrFloat, s)
	}
	return v, nil
}

// FromFile converts file values, falling back to the documented defaults
// (with a warning) for anything malformed.
func FromFile(f *File, warn *logger.Logger) *Config {
	c := Config{
		Input:     f.Input,
		Threshold: f.Threshold,
		MaxFPS:    f.FPSCap,
		Invert:    f.Invert,
		Audio:     f.Audio,
		Draw:      f.Draw,
		Title:     f.Title,
		Debug:     f.Debug,

		Monitoring: f.Monitoring,
	}
	if !finite(c.Threshold) {
		warnFallback(warn, "threshold", strconv.FormatFloat(c.Threshold, 'g', -1, 64), ErrFloat, DefaultThreshold)
		c.Threshold = DefaultThreshold
	}
	if c.MaxFPS <= 0 || !finite(c.MaxFPS) {
		warnFallback(warn, "fpscap", strconv.FormatFloat(c.MaxFPS, 'g', -1, 64), ErrFPS, DefaultMaxFPS)
		c.MaxFPS = DefaultMaxFPS
	}
	c.Resolution = sizeOr(f.Resolution, "resolution", DefaultResolution, warn)
	c.Divisions = sizeOr(f.Divisions, "divisions", DefaultDivisions, warn)
	c.Color = colorOr(f.Color, "color", DefaultColor, warn)
	c.Background = colorOr(f.Background, "background", DefaultBackground, warn)
	return &c
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func sizeOr(s, name string, def image.Point, warn *logger.Logger) image.Point {
	v, err := ParseSize(s)
	if err != nil {
		warnFallback(warn, name, s, err, fmt.Sprintf("%d,%d", def.X, def.Y))
		return def
	}
	return v
}

func colorOr(s, name string, def color.RGBA, warn *logger.Logger) color.RGBA {
	v, err := ParseColor(s)
	if err != nil {
		warnFallback(warn, name, s, err, fmt.Sprintf("%d,%d,%d", def.R, def.G, def.B))
		return def
	}
	return v
}

func warnFallback(warn *logger.Logger, name, value string, err error, def any) {
	warn.Warn().Err(err).Str("flag", name).Str("value", value).Msgf("Failed to parse %s, using %v", name, def)
}
