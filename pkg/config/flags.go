package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sevenseg/sevenseg/pkg/logger"
	"github.com/spf13/pflag"
)

// ErrHelp is returned by Parse when usage was requested.
var ErrHelp = pflag.ErrHelp

// legacy single dash multi-letter flags still accepted for old scripts
var legacy = map[string]string{
	"-th":  "--threshold",
	"-fps": "--fpscap",
	"-res": "--resolution",
	"-div": "--divisions",
	"-inv": "--invert",
}

// Parser turns command line arguments into a Config.
// Unknown flags are reported to Out, malformed values to Warn,
// neither stops the parsing.
type Parser struct {
	Out   *logger.Logger
	Warn  *logger.Logger
	Usage io.Writer
}

// Parse builds the configuration for args (without the program name).
// It returns ErrHelp together with the config when -h/--help is given.
func (p *Parser) Parse(args []string) (*Config, error) {
	args = rewriteLegacy(args)

	file := Defaults()
	if path := confPath(args); path != "" {
		f, err := LoadFile(path)
		if err != nil {
			p.Warn.Warn().Err(err).Str("path", path).Msg("Failed to load config file, using defaults")
		} else {
			file = f
		}
	}
	conf := FromFile(file, p.Warn)

	fs := pflag.NewFlagSet("sevenseg", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetNormalizeFunc(normalize)
	var help bool
	var confFile string
	conf.WithFlags(fs, p.Warn)
	fs.StringVar(&confFile, "conf", "", "Set custom configuration file path")
	fs.BoolVarP(&help, "help", "h", false, "Show this message")

	p.reportUnknown(fs, args)

	if err := fs.Parse(args); err != nil {
		p.Warn.Warn().Err(err).Msg("Failed to parse arguments")
	}
	for _, a := range fs.Args() {
		p.Out.Info().Msgf("Unknown flag: %s", a)
	}
	if help {
		if p.Usage != nil {
			PrintUsage(p.Usage, fs)
		}
		return conf, ErrHelp
	}
	return conf, nil
}

// WithFlags binds flags to c, using its current values as defaults.
func (c *Config) WithFlags(fs *pflag.FlagSet, warn *logger.Logger) *Config {
	fs.StringVarP(&c.Input, "input", "i", c.Input, "Input video file")
	fs.VarP(&floatValue{p: &c.Threshold, def: DefaultThreshold, log: warn, name: "threshold"},
		"threshold", "t", "Segment luminance threshold in 0..1")
	fs.VarP(&floatValue{p: &c.MaxFPS, def: DefaultMaxFPS, log: warn, name: "fpscap", positive: true},
		"fpscap", "f", "Frame rate cap")
	fs.VarP(&sizeValue{p: &c.Resolution, def: DefaultResolution, log: warn, name: "resolution"},
		"resolution", "r", "Display resolution as w,h")
	fs.VarP(&sizeValue{p: &c.Divisions, def: DefaultDivisions, log: warn, name: "divisions"},
		"divisions", "g", "Number of displays per axis as nx,ny")
	fs.VarP(&colorValue{p: &c.Color, def: DefaultColor, log: warn, name: "color"},
		"color", "c", "Segment color as r,g,b")
	fs.Var(&colorValue{p: &c.Background, def: DefaultBackground, log: warn, name: "background"},
		"background", "Background color as r,g,b")
	fs.BoolVarP(&c.Invert, "invert", "n", c.Invert, "Invert the gray scale video")
	fs.BoolVarP(&c.Audio, "audio", "a", c.Audio, "Play audio")
	fs.BoolVarP(&c.Draw, "draw", "d", c.Draw, "Show the simulation")
	fs.StringVar(&c.Title, "title", c.Title, "Window title")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Verbose logs")
	fs.IntVar(&c.Monitoring.Port, "monitoring.port", c.Monitoring.Port, "Monitoring server port, 0 disables it")
	return c
}

// PrintUsage writes the help text.
func PrintUsage(w io.Writer, fs *pflag.FlagSet) {
	_, _ = fmt.Fprintf(w, "Seven-segment video simulation.\n\nUsage: sevenseg [flags]\n\nFlags:\n%s", fs.FlagUsages())
}

func normalize(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "dividents" {
		name = "divisions"
	}
	return pflag.NormalizedName(name)
}

func rewriteLegacy(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "--" {
			copy(out[i:], args[i:])
			break
		}
		if long, ok := legacy[a]; ok {
			a = long
		}
		out[i] = a
	}
	return out
}

// confPath finds the --conf value before the real parse,
// since the file provides the flag defaults.
func confPath(args []string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		if v, ok := strings.CutPrefix(a, "--conf="); ok {
			return filepath.Clean(v)
		}
		if a == "--conf" && i+1 < len(args) {
			return filepath.Clean(args[i+1])
		}
	}
	return ""
}

// reportUnknown logs every flag the set doesn't know about.
func (p *Parser) reportUnknown(fs *pflag.FlagSet, args []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return
		}
		if len(a) < 2 || a[0] != '-' {
			continue
		}
		var f *pflag.Flag
		hasValue := strings.Contains(a, "=")
		if strings.HasPrefix(a, "--") {
			name, _, _ := strings.Cut(a[2:], "=")
			f = fs.Lookup(name)
		} else {
			f = fs.ShorthandLookup(a[1:2])
			hasValue = hasValue || len(a) > 2
		}
		if f == nil {
			p.Out.Info().Msgf("Unknown flag: %s", a)
			continue
		}
		if !hasValue && f.NoOptDefVal == "" {
			i++ // skip the value
		}
	}
}

// Flag values that never fail: a bad input is logged and replaced
// with the documented default.

type floatValue struct {
	p        *float64
	def      float64
	positive bool
	name     string
	log      *logger.Logger
}

func (v *floatValue) Set(s string) error {
	f, err := parseFloat(s)
	if err == nil && v.positive && f <= 0 {
		err = fmt.Errorf("%w: %q", ErrFPS, s)
	}
	if err != nil {
		warnFallback(v.log, v.name, s, err, v.def)
		f = v.def
	}
	*v.p = f
	return nil
}

func (v *floatValue) String() string {
	if v.p == nil {
		return ""
	}
	return strconv.FormatFloat(*v.p, 'g', -1, 64)
}

func (v *floatValue) Type() string { return "float" }

type sizeValue struct {
	p    *image.Point
	def  image.Point
	name string
	log  *logger.Logger
}

func (v *sizeValue) Set(s string) error {
	*v.p = sizeOr(s, v.name, v.def, v.log)
	return nil
}

func (v *sizeValue) String() string {
	if v.p == nil {
		return ""
	}
	return fmt.Sprintf("%d,%d", v.p.X, v.p.Y)
}

func (v *sizeValue) Type() string { return "w,h" }

type colorValue struct {
	p    *color.RGBA
	def  color.RGBA
	name string
	log  *logger.Logger
}

func (v *colorValue) Set(s string) error {
	*v.p = colorOr(s, v.name, v.def, v.log)
	return nil
}

func (v *colorValue) String() string {
	if v.p == nil {
		return ""
	}
	return fmt.Sprintf("%d,%d,%d", v.p.R, v.p.G, v.p.B)
}

func (v *colorValue) Type() string { return "r,g,b" }

// IsHelp tells if err means usage was printed.
func IsHelp(err error) bool { return errors.Is(err, ErrHelp) }
