package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"lenscal/logging"
)

func TestHistoryKeepsMostRecentOldestFirst(t *testing.T) {
	h := logging.NewHistory(3)
	assert.Empty(t, h.Recent(0))

	h.Add("one")
	h.Add("two")
	require.Equal(t, 2, h.Len())
	got := h.Recent(0)
	require.Len(t, got, 2)
	assert.True(t, strings.HasSuffix(got[0], "one"))
	assert.True(t, strings.HasSuffix(got[1], "two"))

	h.Add("three")
	h.Add("four")
	got = h.Recent(0)
	require.Len(t, got, 3)
	assert.True(t, strings.HasSuffix(got[0], "two"))
	assert.True(t, strings.HasSuffix(got[2], "four"))

	got = h.Recent(2)
	require.Len(t, got, 2)
	assert.True(t, strings.HasSuffix(got[0], "three"))
	assert.Equal(t, 3, h.Len())
}

func TestLoggerWritesConsoleAndHistory(t *testing.T) {
	var out bytes.Buffer
	l, err := logging.New(logging.Config{Output: &out, HistoryLines: 5})
	require.NoError(t, err)

	l.Debug("CAMERA", "opened device 0")
	l.Verbose("CORNERS", "hidden unless verbose")
	require.NoError(t, l.Close())

	assert.Contains(t, out.String(), "opened device 0")
	assert.Contains(t, out.String(), "CAMERA")
	assert.NotContains(t, out.String(), "hidden unless verbose")

	recent := l.History().Recent(0)
	require.Len(t, recent, 1)
	assert.Contains(t, recent[0], "[CAMERA] opened device 0")
}

func TestLoggerVerboseAndFile(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "lenscal.log")
	l, err := logging.New(logging.Config{Output: &out, Verbose: true, LogFile: path})
	require.NoError(t, err)

	l.Verbose("CORNERS", "refined 104 corners")
	require.NoError(t, l.Close())

	assert.Contains(t, out.String(), "refined 104 corners")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"component":"CORNERS"`)
}

func TestNopLogger(t *testing.T) {
	l := logging.NewNop()
	l.Debug("X", "kept in history")
	assert.Equal(t, 1, l.History().Len())
	assert.NoError(t, l.Close())
}

func TestConsole(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	c := logging.NewConsole(&out)

	c.Success("Image grabbed #%d", 3)
	c.Warn("No corners found in image: %s", "a.png")
	c.Fail("Reason: %s", "boom")
	c.Matrix("Camera Matrix", mat.NewDense(2, 2, []float64{1, 0, 0, 2.5}))
	c.Block("Rotation Vector", "[1, 2, 3]\n")

	s := out.String()
	assert.Contains(t, s, "✅ Image grabbed #3\n")
	assert.Contains(t, s, "No corners found in image: a.png")
	assert.Contains(t, s, "❌ Reason: boom")
	assert.Contains(t, s, "Camera Matrix:\n")
	assert.Contains(t, s, "2.5")
	assert.Contains(t, s, "Rotation Vector:\n[1, 2, 3]\n\n")
}
