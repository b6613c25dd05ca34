package command

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lenscal/calibration"
	"lenscal/imageset"
)

const wd = "/work"

func TestParseAcquire(t *testing.T) {
	cmd := Parse([]string{"-c", "0", "imgs"}, wd)
	require.Equal(t, Acquire, cmd.Kind, cmd.Reason)
	assert.Equal(t, 0, cmd.Camera)
	assert.Equal(t, filepath.Join(wd, "imgs"), cmd.Dir)
	assert.False(t, cmd.Delete)

	s := cmd.Settings
	assert.Equal(t, calibration.DefaultPattern, s.Pattern)
	assert.Equal(t, 1.0, s.SquareSize)
	assert.Equal(t, filepath.Join(wd, "calibration.xml"), s.CalibrationFile)
	assert.True(t, s.Review)
	assert.Equal(t, imageset.OrderSequence, s.Order)
	assert.Equal(t, 5*time.Millisecond, s.KeyDelay)
}

func TestParseAcquireWithDeleteAfterDirectory(t *testing.T) {
	cmd := Parse([]string{"-c", "2", "imgs", "-d"}, wd)
	require.Equal(t, Acquire, cmd.Kind, cmd.Reason)
	assert.Equal(t, 2, cmd.Camera)
	assert.True(t, cmd.Delete)

	cmd = Parse([]string{"-d", "-c", "1", "/abs/imgs"}, wd)
	require.Equal(t, Acquire, cmd.Kind, cmd.Reason)
	assert.Equal(t, "/abs/imgs", cmd.Dir)
	assert.True(t, cmd.Delete)
}

func TestParsePreview(t *testing.T) {
	cmd := Parse([]string{"-t", "1"}, wd)
	require.Equal(t, Preview, cmd.Kind, cmd.Reason)
	assert.Equal(t, 1, cmd.Camera)
	assert.Empty(t, cmd.Dir)
}

func TestParseLongOptions(t *testing.T) {
	cmd := Parse([]string{
		"-c", "0", "imgs",
		"--pattern", "9x6",
		"--square-size", "24.5",
		"--calibration-file", "cam.yml",
		"--no-review",
		"--lexical-order",
		"--key-delay", "20ms",
		"--status-overlay",
		"--terminal-overlay",
		"-v",
		"--log-file", "logs/lenscal.log",
	}, wd)
	require.Equal(t, Acquire, cmd.Kind, cmd.Reason)

	s := cmd.Settings
	assert.Equal(t, calibration.PatternSize{Cols: 9, Rows: 6}, s.Pattern)
	assert.Equal(t, 24.5, s.SquareSize)
	assert.Equal(t, filepath.Join(wd, "cam.yml"), s.CalibrationFile)
	assert.False(t, s.Review)
	assert.Equal(t, imageset.OrderLexical, s.Order)
	assert.Equal(t, 20*time.Millisecond, s.KeyDelay)

	assert.Equal(t, Display{StatusOverlay: true, TerminalOverlay: true}, cmd.Display)
	assert.True(t, cmd.Logging.Verbose)
	assert.Equal(t, filepath.Join(wd, "logs/lenscal.log"), cmd.Logging.LogFile)
}

func TestParseFallsBackToHelp(t *testing.T) {
	cases := map[string][]string{
		"no arguments":       {},
		"explicit help":      {"-h"},
		"missing directory":  {"-c", "0"},
		"two directories":    {"-c", "0", "a", "b"},
		"both actions":       {"-c", "0", "imgs", "-t", "1"},
		"delete with test":   {"-t", "0", "-d"},
		"test with dir":      {"-t", "0", "imgs"},
		"non-numeric camera": {"-c", "zero", "imgs"},
		"unknown flag":       {"-x"},
		"delete only":        {"-d"},
		"bad pattern":        {"-t", "0", "--pattern", "13by8"},
		"tiny pattern":       {"-t", "0", "--pattern", "1x8"},
		"zero square":        {"-t", "0", "--square-size", "0"},
		"zero key delay":     {"-t", "0", "--key-delay", "0s"},
		"positional only":    {"imgs"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := Parse(args, wd)
			assert.Equal(t, Help, cmd.Kind)
		})
	}
}

func TestHelpReasons(t *testing.T) {
	assert.Empty(t, Parse(nil, wd).Reason)
	assert.Empty(t, Parse([]string{"-h"}, wd).Reason)
	assert.Contains(t, Parse([]string{"-c", "0"}, wd).Reason, "exactly one")
	assert.Contains(t, Parse([]string{"-c", "0", "i", "-t", "0"}, wd).Reason, "cannot be combined")
	assert.Contains(t, Parse([]string{"-t", "0", "-d"}, wd).Reason, "-d")
	assert.NotEmpty(t, Parse([]string{"-x"}, wd).Reason)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "help", Help.String())
	assert.Equal(t, "acquire", Acquire.String())
	assert.Equal(t, "preview", Preview.String())
}

func TestUsage(t *testing.T) {
	out := Usage("lenscal")
	assert.Contains(t, out, "lenscal -c [#camera] [some-path] -d")
	assert.Contains(t, out, "lenscal -t [#camera]")
	assert.Contains(t, out, "--pattern")
	assert.Contains(t, out, "--calibration-file")
	assert.Contains(t, out, "--no-review")
}
