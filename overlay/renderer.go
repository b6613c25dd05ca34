// Package overlay draws the heads-up panels on live windows.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// HistorySource supplies the recent log lines for the terminal panel
type HistorySource interface {
	Recent(n int) []string
}

// Options selects the panels to draw
type Options struct {
	// Status draws the title, counters, key hints and FPS in the lower-left
	Status bool
	// Terminal draws recent log lines in the upper-left
	Terminal bool
	// TerminalLines caps the terminal panel (default 20)
	TerminalLines int
}

const (
	margin           = 10
	statusWidth      = 320
	statusLineStep   = 18
	terminalWidth    = 560
	terminalLineStep = 14
	maxLineLen       = 80
)

// Renderer draws the enabled panels onto frames
type Renderer struct {
	opts    Options
	history HistorySource

	textColor  color.RGBA
	panelColor color.RGBA
	titleColor color.RGBA
	dimColor   color.RGBA
}

// NewRenderer creates a renderer; history may be nil when the terminal panel is off
func NewRenderer(opts Options, history HistorySource) *Renderer {
	if opts.TerminalLines <= 0 {
		opts.TerminalLines = 20
	}
	return &Renderer{
		opts:       opts,
		history:    history,
		textColor:  color.RGBA{255, 255, 255, 255},
		panelColor: color.RGBA{0, 0, 0, 200},
		titleColor: color.RGBA{0, 255, 0, 255},
		dimColor:   color.RGBA{128, 128, 128, 255},
	}
}

// Enabled reports whether any panel would be drawn
func (r *Renderer) Enabled() bool {
	return r.opts.Status || (r.opts.Terminal && r.history != nil)
}

// Draw paints the panels into img. The first hud line is the title.
func (r *Renderer) Draw(img *gocv.Mat, hud []string) {
	size := image.Pt(img.Cols(), img.Rows())
	if r.opts.Status && len(hud) > 0 {
		r.drawStatus(img, size, hud)
	}
	if r.opts.Terminal && r.history != nil {
		r.drawTerminal(img, size)
	}
}

func (r *Renderer) drawStatus(img *gocv.Mat, size image.Point, hud []string) {
	rect := StatusRect(size, len(hud))
	gocv.Rectangle(img, rect, r.panelColor, -1)

	for i, line := range hud {
		c := r.textColor
		scale := 0.5
		if i == 0 {
			c = r.titleColor
			scale = 0.6
		}
		pt := image.Pt(rect.Min.X+margin, rect.Min.Y+margin+(i+1)*statusLineStep-4)
		gocv.PutText(img, Truncate(line, maxLineLen), pt, gocv.FontHersheySimplex, scale, c, 1)
	}
}

func (r *Renderer) drawTerminal(img *gocv.Mat, size image.Point) {
	lines := r.history.Recent(r.opts.TerminalLines)
	rect := TerminalRect(size, r.opts.TerminalLines)
	gocv.Rectangle(img, rect, color.RGBA{0, 0, 0, 180}, -1)

	y := rect.Min.Y + margin + 4
	if len(lines) == 0 {
		gocv.PutText(img, "No log messages yet...", image.Pt(rect.Min.X+margin, y),
			gocv.FontHersheySimplex, 0.4, r.dimColor, 1)
		return
	}
	for _, line := range lines {
		gocv.PutText(img, Truncate(line, maxLineLen+30), image.Pt(rect.Min.X+margin, y),
			gocv.FontHersheySimplex, 0.35, r.textColor, 1)
		y += terminalLineStep
	}
}

// StatusRect is the lower-left status panel for n lines, clipped to the frame
func StatusRect(frame image.Point, n int) image.Rectangle {
	h := 2*margin + n*statusLineStep
	rect := image.Rect(margin, frame.Y-margin-h, margin+statusWidth, frame.Y-margin)
	return rect.Intersect(image.Rectangle{Max: frame})
}

// TerminalRect is the upper-left terminal panel for n lines, clipped to the frame
func TerminalRect(frame image.Point, n int) image.Rectangle {
	h := 2*margin + n*terminalLineStep
	rect := image.Rect(margin, margin, margin+terminalWidth, margin+h)
	return rect.Intersect(image.Rectangle{Max: frame})
}

// Truncate shortens s to max bytes, marking the cut with "..."
func Truncate(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
