// Package navigation records the route changes requested by pages.
package navigation

import "sync"

// History is a navigator backed by an in-memory stack of paths.
type History struct {
	mu       sync.Mutex
	stack    []string
	onChange func(path string)
}

func NewHistory(start string, onChange func(path string)) *History {
	return &History{stack: []string{start}, onChange: onChange}
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	if len(h.stack) > 0 && h.stack[len(h.stack)-1] == path {
		h.mu.Unlock()
		return
	}
	h.stack = append(h.stack, path)
	h.mu.Unlock()

	if h.onChange != nil {
		h.onChange(path)
	}
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) == 0 {
		return ""
	}
	return h.stack[len(h.stack)-1]
}

// Back pops the current path. The first path is never popped.
func (h *History) Back() string {
	h.mu.Lock()
	if len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
	path := h.stack[len(h.stack)-1]
	h.mu.Unlock()

	if h.onChange != nil {
		h.onChange(path)
	}
	return path
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}
