package logging

import (
	"fmt"
	"sync"
	"time"
)

// History is a circular buffer of the most recent log lines, read back oldest first.
// The terminal overlay draws it on live windows.
type History struct {
	lines    []string
	maxLines int
	index    int
	full     bool
	mutex    sync.RWMutex
	now      func() time.Time
}

// NewHistory creates a circular buffer holding up to maxLines lines
func NewHistory(maxLines int) *History {
	if maxLines < 1 {
		maxLines = 1
	}
	return &History{
		lines:    make([]string, maxLines),
		maxLines: maxLines,
		now:      time.Now,
	}
}

// Add stores a new line stamped with the current time
func (h *History) Add(line string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.lines[h.index] = fmt.Sprintf("[%s] %s", h.now().Format("15:04:05.000"), line)
	h.index = (h.index + 1) % h.maxLines
	if h.index == 0 {
		h.full = true
	}
}

// Recent returns up to the last n lines (n <= 0 means all), oldest first
func (h *History) Recent(n int) []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var result []string
	if h.full {
		result = make([]string, 0, h.maxLines)
		for i := 0; i < h.maxLines; i++ {
			result = append(result, h.lines[(h.index+i)%h.maxLines])
		}
	} else {
		result = append([]string(nil), h.lines[:h.index]...)
	}

	if n > 0 && len(result) > n {
		result = result[len(result)-n:]
	}
	return result
}

// Len returns how many lines are held
func (h *History) Len() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if h.full {
		return h.maxLines
	}
	return h.index
}
