package pipeline

import "time"

// FrameStats tracks the display rate of a live loop, refreshed once per second
type FrameStats struct {
	frames      int
	total       int
	windowStart time.Time
	fps         float64
	now         func() time.Time
}

// NewFrameStats starts measuring now
func NewFrameStats() *FrameStats {
	return newFrameStats(time.Now)
}

func newFrameStats(now func() time.Time) *FrameStats {
	return &FrameStats{windowStart: now(), now: now}
}

// Tick counts one frame and returns the current rate
func (s *FrameStats) Tick() float64 {
	s.frames++
	s.total++
	if elapsed := s.now().Sub(s.windowStart); elapsed >= time.Second {
		s.fps = float64(s.frames) / elapsed.Seconds()
		s.frames = 0
		s.windowStart = s.now()
	}
	return s.fps
}

// FPS returns the rate measured over the last full window
func (s *FrameStats) FPS() float64 {
	return s.fps
}

// Frames returns how many frames were counted in total
func (s *FrameStats) Frames() int {
	return s.total
}
