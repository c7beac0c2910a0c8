package preview

import (
	"context"
	"sync"
)

// Handle binds one slot to one in-flight or loaded scene. Handles are owned
// by the manager's live set; once a handle is disposed its load outcome is
// discarded.
type Handle struct {
	slotID     string
	generation uint64

	mu       sync.Mutex
	disposed bool
	scene    Scene
	cancel   context.CancelFunc
}

func newHandle(slotID string, generation uint64, cancel context.CancelFunc) *Handle {
	return &Handle{
		slotID:     slotID,
		generation: generation,
		cancel:     cancel,
	}
}

// SlotID returns the slot this handle belongs to.
func (h *Handle) SlotID() string {
	return h.slotID
}

// Generation returns the slot generation the handle was created in.
func (h *Handle) Generation() uint64 {
	return h.generation
}

// Scene returns the adopted scene, or nil while pending or after dispose.
func (h *Handle) Scene() Scene {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scene
}

// Disposed reports whether Dispose has been called.
func (h *Handle) Disposed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disposed
}

// Dispose cancels the in-flight load and releases the scene. Idempotent and
// safe to call while the load is still pending; the late resolution is then
// rejected by adopt.
func (h *Handle) Dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	scene := h.scene
	h.scene = nil
	cancel := h.cancel
	h.cancel = nil
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if scene != nil {
		scene.Dispose()
	}
}

// adopt stores the load result. It reports false if the handle was disposed
// first; the caller then still owns the scene and must dispose it.
func (h *Handle) adopt(scene Scene) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return false
	}
	h.scene = scene
	return true
}
