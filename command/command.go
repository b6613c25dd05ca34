// Package command parses the lenscal command line into exactly one action.
package command

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"lenscal/calibration"
	"lenscal/imageset"
	"lenscal/pipeline"
)

// Kind is the action selected by the arguments
type Kind int

const (
	// Help prints usage; every invalid invocation ends up here
	Help Kind = iota
	// Acquire captures images into a directory and calibrates from them
	Acquire
	// Preview shows the undistorted live stream
	Preview
)

func (k Kind) String() string {
	switch k {
	case Acquire:
		return "acquire"
	case Preview:
		return "preview"
	default:
		return "help"
	}
}

// Options is the go-flags description of the command line
type Options struct {
	Calibrate int  `short:"c" value-name:"CAMERA" description:"Grab calibration images from camera #CAMERA into a subdirectory, then calibrate"`
	Test      int  `short:"t" value-name:"CAMERA" description:"Show the undistorted live stream of camera #CAMERA"`
	Delete    bool `short:"d" description:"Delete the existing images in the subdirectory first (with -c)"`

	Pattern         string        `long:"pattern" value-name:"COLSxROWS" default:"13x8" description:"Interior corners of the chessboard"`
	SquareSize      float64       `long:"square-size" default:"1" description:"Chessboard square edge length in world units"`
	CalibrationFile string        `long:"calibration-file" value-name:"PATH" default:"calibration.xml" description:"Calibration to write (-c) or read (-t); .xml or .yml/.yaml"`
	NoReview        bool          `long:"no-review" description:"Do not stop on each detected chessboard during calibration"`
	LexicalOrder    bool          `long:"lexical-order" description:"Process images in filename order instead of capture order"`
	KeyDelay        time.Duration `long:"key-delay" default:"5ms" description:"Keypress poll timeout of the live windows"`
	StatusOverlay   bool          `long:"status-overlay" description:"Show counters, key hints and FPS on the live windows"`
	TerminalOverlay bool          `long:"terminal-overlay" description:"Show recent log messages on the live windows"`
	Verbose         bool          `short:"v" long:"verbose" description:"Verbose diagnostic logging"`
	LogFile         string        `long:"log-file" value-name:"PATH" description:"Also write JSON logs to a rotated file"`
}

// Display holds the window overlay switches
type Display struct {
	StatusOverlay   bool
	TerminalOverlay bool
}

// Logging holds the diagnostic logging switches
type Logging struct {
	Verbose bool
	LogFile string
}

// Command is a parsed invocation
type Command struct {
	Kind   Kind
	Camera int
	// Dir is the absolute images directory of an Acquire command
	Dir    string
	Delete bool
	// Reason says why Help was selected, empty for an explicit or bare invocation
	Reason string

	Settings pipeline.Settings
	Display  Display
	Logging  Logging
}

func newParser(opts *Options, app string) *flags.Parser {
	p := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	p.Name = app
	p.Usage = "-c CAMERA DIR [-d] | -t CAMERA"
	return p
}

// Parse turns args (without the program name) into a Command. Relative paths
// resolve against wd. Parse never fails: invalid input yields a Help command
// carrying the reason.
func Parse(args []string, wd string) *Command {
	if len(args) == 0 {
		return &Command{Kind: Help}
	}

	var opts Options
	parser := newParser(&opts, "lenscal")
	rest, err := parser.ParseArgs(args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return &Command{Kind: Help}
		}
		return help(err.Error())
	}

	calibrate := parser.FindOptionByShortName('c').IsSet()
	test := parser.FindOptionByShortName('t').IsSet()

	cmd := &Command{
		Display: Display{StatusOverlay: opts.StatusOverlay, TerminalOverlay: opts.TerminalOverlay},
		Logging: Logging{Verbose: opts.Verbose, LogFile: resolve(wd, opts.LogFile)},
	}

	switch {
	case calibrate && test:
		return help("-c and -t cannot be combined")
	case calibrate:
		if len(rest) != 1 {
			return help("-c needs exactly one images subdirectory")
		}
		cmd.Kind = Acquire
		cmd.Camera = opts.Calibrate
		cmd.Dir = resolve(wd, rest[0])
		cmd.Delete = opts.Delete
	case test:
		if len(rest) != 0 {
			return help(fmt.Sprintf("unexpected arguments %q", rest))
		}
		if opts.Delete {
			return help("-d only applies to -c")
		}
		cmd.Kind = Preview
		cmd.Camera = opts.Test
	default:
		return help("one of -c or -t is required")
	}

	settings, err := buildSettings(&opts, wd)
	if err != nil {
		return help(err.Error())
	}
	cmd.Settings = settings
	return cmd
}

func buildSettings(opts *Options, wd string) (pipeline.Settings, error) {
	s := pipeline.DefaultSettings()

	pattern, err := calibration.ParsePatternSize(opts.Pattern)
	if err != nil {
		return s, err
	}
	if opts.SquareSize <= 0 {
		return s, errors.Errorf("square size must be positive, got %g", opts.SquareSize)
	}
	if opts.KeyDelay < time.Millisecond {
		return s, errors.Errorf("key delay must be at least 1ms, got %s", opts.KeyDelay)
	}

	s.Pattern = pattern
	s.SquareSize = opts.SquareSize
	s.CalibrationFile = resolve(wd, opts.CalibrationFile)
	s.Review = !opts.NoReview
	s.KeyDelay = opts.KeyDelay
	if opts.LexicalOrder {
		s.Order = imageset.OrderLexical
	}
	return s, nil
}

func help(reason string) *Command {
	return &Command{Kind: Help, Reason: reason}
}

func resolve(wd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(wd, path)
}

// Usage renders the help text for app
func Usage(app string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Usage:\n")
	fmt.Fprintf(&buf, "  %s -c [#camera] [some-path] -d\n", app)
	fmt.Fprintf(&buf, "  %s -t [#camera]\n\n", app)
	fmt.Fprintf(&buf, "  -c  grab images (RETURN) until ESC, then calibrate and save the result\n")
	fmt.Fprintf(&buf, "  -t  live view through the saved calibration (ESC quits)\n\n")

	var opts Options
	newParser(&opts, app).WriteHelp(&buf)
	return buf.String()
}
