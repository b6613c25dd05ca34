package vision

import (
	"time"

	"gocv.io/x/gocv"

	"lenscal/overlay"
	"lenscal/pipeline"
)

// Window is a HighGUI window that renders the HUD on a copy of each frame
type Window struct {
	window   *gocv.Window
	renderer *overlay.Renderer
}

// NewWindow opens a window titled title
func NewWindow(title string, renderer *overlay.Renderer) *Window {
	return &Window{window: gocv.NewWindow(title), renderer: renderer}
}

// Show displays frame; hud lines are drawn only when an overlay is enabled
func (w *Window) Show(frame pipeline.Frame, hud ...string) {
	m, err := matOf(frame)
	if err != nil {
		debugMsg("WINDOW", err.Error())
		return
	}
	if w.renderer == nil || !w.renderer.Enabled() {
		w.window.IMShow(m)
		return
	}

	annotated := m.Clone()
	defer annotated.Close()
	w.renderer.Draw(&annotated, hud)
	w.window.IMShow(annotated)
}

// WaitKey polls for a key; delay <= 0 blocks
func (w *Window) WaitKey(delay time.Duration) int {
	key := w.window.WaitKey(waitMillis(delay))
	if key < 0 {
		return pipeline.KeyNone
	}
	return key & 0xff
}

// Close destroys the window
func (w *Window) Close() error {
	return w.window.Close()
}

func waitMillis(delay time.Duration) int {
	if delay <= 0 {
		return 0
	}
	ms := int(delay / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	return ms
}
