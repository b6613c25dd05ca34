package overlay

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

type lines []string

func (l lines) Recent(n int) []string {
	if n > 0 && len(l) > n {
		return l[len(l)-n:]
	}
	return l
}

func TestPanelsStayInsideTheFrame(t *testing.T) {
	frame := image.Pt(640, 480)

	status := StatusRect(frame, 3)
	assert.Equal(t, 470, status.Max.Y)
	assert.Equal(t, 10, status.Min.X)
	assert.True(t, status.In(image.Rectangle{Max: frame}))

	term := TerminalRect(frame, 20)
	assert.Equal(t, image.Pt(10, 10), term.Min)
	assert.True(t, term.In(image.Rectangle{Max: frame}))

	small := TerminalRect(image.Pt(100, 50), 20)
	assert.True(t, small.In(image.Rect(0, 0, 100, 50)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	long := strings.Repeat("x", 20)
	assert.Equal(t, strings.Repeat("x", 7)+"...", Truncate(long, 10))
	assert.Equal(t, long, Truncate(long, 3))
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewRenderer(Options{}, nil).Enabled())
	assert.True(t, NewRenderer(Options{Status: true}, nil).Enabled())
	assert.False(t, NewRenderer(Options{Terminal: true}, nil).Enabled())
	assert.True(t, NewRenderer(Options{Terminal: true}, lines{"a"}).Enabled())
}

func TestDrawPaintsStatusPanel(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 240, 400, gocv.MatTypeCV8UC3)
	defer img.Close()

	r := NewRenderer(Options{Status: true, Terminal: true, TerminalLines: 3}, lines{"one", "two"})
	r.Draw(&img, []string{"Calibration Image", "Captured: 2"})

	rect := StatusRect(image.Pt(400, 240), 2)
	inside := img.GetVecbAt(rect.Max.Y-2, rect.Max.X-2)
	assert.Equal(t, uint8(0), inside[0])

	outside := img.GetVecbAt(120, 390)
	assert.Equal(t, uint8(255), outside[0])
}
