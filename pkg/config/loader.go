package config

import (
	"path/filepath"

	"github.com/kkyr/fig"
)

// File mirrors the configuration file layout.
// Defaults live in the struct tags and are applied by fig even when
// no file is used. fig has no bool defaults, those are preset in LoadFile.
type File struct {
	Input      string  `fig:"input" default:"BadApple!!.mp4"`
	Threshold  float64 `fig:"threshold" default:"0.5"`
	FPSCap     float64 `fig:"fpscap" default:"30"`
	Resolution string  `fig:"resolution" default:"640,360"`
	Divisions  string  `fig:"divisions" default:"32,12"`
	Color      string  `fig:"color" default:"255,0,0"`
	Background string  `fig:"background" default:"0,0,0"`
	Invert     bool    `fig:"invert"`
	Audio      bool    `fig:"audio"`
	Draw       bool    `fig:"draw"`
	Title      string  `fig:"title" default:"7seg_binary"`
	Debug      bool    `fig:"debug"`
	Monitoring Monitoring
}

type Monitoring struct {
	Port             int    `fig:"port"`
	URLPrefix        string `fig:"urlprefix"`
	MetricEnabled    bool   `fig:"metric_enabled"`
	ProfilingEnabled bool   `fig:"profiling_enabled"`
}

func (c *Monitoring) IsEnabled() bool {
	return c.Port > 0 && (c.MetricEnabled || c.ProfilingEnabled)
}

// LoadFile reads the configuration file at path into a File.
// With an empty path only the defaults are set.
func LoadFile(path string) (*File, error) {
	var f File
	f.Monitoring.MetricEnabled = true
	opts := []fig.Option{fig.IgnoreFile()}
	if path != "" {
		opts = []fig.Option{fig.File(filepath.Base(path)), fig.Dirs(filepath.Dir(path))}
	}
	if err := fig.Load(&f, opts...); err != nil {
		return nil, err
	}
	return &f, nil
}

// Defaults returns the built-in configuration file values.
func Defaults() *File {
	f, err := LoadFile("")
	if err != nil {
		// the tags are static, this only breaks on a bad edit
		panic(err)
	}
	return f
}
