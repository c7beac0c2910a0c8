package scene

import (
	"image"
	"sync"
)

// RenderedScene is an already-rasterized preview frame. Dispose drops the
// pixel data so a dead scene cannot pin a large frame in memory.
type RenderedScene struct {
	mu  sync.Mutex
	img image.Image
}

// NewRenderedScene wraps a finished frame.
func NewRenderedScene(img image.Image) *RenderedScene {
	return &RenderedScene{img: img}
}

// Image returns the frame, or nil after Dispose.
func (s *RenderedScene) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Dispose releases the frame. Safe to call more than once.
func (s *RenderedScene) Dispose() {
	s.mu.Lock()
	s.img = nil
	s.mu.Unlock()
}
