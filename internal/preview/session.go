package preview

import (
	"log"
	"sync"
)

// DefaultMargin is the visibility margin in pixels applied around the
// viewport on every side.
const DefaultMargin float32 = 400

// SessionConfig parameterizes a Session.
type SessionConfig struct {
	// Cap bounds the live set; DefaultCap when <= 0.
	Cap int

	// Margin expands the viewport for visibility checks; DefaultMargin
	// when negative.
	Margin float32

	// Loader acquires scenes for admitted slots. Required.
	Loader SceneLoader

	// Schedule runs coalesced pump passes; defaults to a goroutine per pass.
	Schedule Schedule

	// OnState receives display state transitions.
	OnState StateCallback
}

// Session binds one admission controller to one visibility tracker and
// rotates both through slot generations. Rebuild installs a new gallery
// view; the previous generation's tracker is disconnected and its handles
// are disposed before the new one observes anything, so callbacks from a
// torn-down view can never touch fresh state.
type Session struct {
	mu      sync.Mutex
	margin  float32
	manager *Manager
	tracker *Tracker
	gen     uint64
}

// NewSession creates a session with no slots; call Rebuild to install a
// gallery view.
func NewSession(cfg SessionConfig) *Session {
	margin := cfg.Margin
	if margin < 0 {
		margin = DefaultMargin
	}
	return &Session{
		margin: margin,
		manager: NewManager(ManagerConfig{
			Cap:      cfg.Cap,
			Loader:   cfg.Loader,
			Schedule: cfg.Schedule,
			OnState:  cfg.OnState,
		}),
	}
}

// Manager exposes the underlying admission controller.
func (s *Session) Manager() *Manager {
	return s.manager
}

// Rebuild replaces the current generation with the given slots. Old handles
// are disposed, failure flags cleared, and a fresh tracker installed; slot
// bounds and the viewport must be supplied again by the caller.
func (s *Session) Rebuild(slots []Slot) {
	s.mu.Lock()
	old := s.tracker
	s.mu.Unlock()
	if old != nil {
		old.DisconnectAll()
	}

	gen := s.manager.Reset(slots)
	tracker := NewTracker(s.margin,
		func(slotID string) { s.manager.SlotEntered(gen, slotID) },
		func(slotID string) { s.manager.SlotLeft(gen, slotID) },
	)
	for _, slot := range slots {
		tracker.Observe(slot.ID, Rect{})
	}

	s.mu.Lock()
	s.tracker = tracker
	s.gen = gen
	s.mu.Unlock()

	log.Printf("preview: session rebuilt, %d slots, generation %d", len(slots), gen)
}

// SetViewport feeds the current viewport to the tracker, firing enter and
// leave callbacks for slots whose visibility changed.
func (s *Session) SetViewport(viewport Rect) {
	s.mu.Lock()
	tracker := s.tracker
	s.mu.Unlock()
	if tracker == nil {
		return
	}
	tracker.SetViewport(viewport)
}

// SetSlotBounds updates one slot's bounds, re-evaluating its visibility.
func (s *Session) SetSlotBounds(slotID string, bounds Rect) {
	s.mu.Lock()
	tracker := s.tracker
	s.mu.Unlock()
	if tracker == nil {
		return
	}
	tracker.UpdateBounds(slotID, bounds)
}

// Retry clears the slot's failure flag and requests a pump.
func (s *Session) Retry(slotID string) {
	s.manager.Retry(slotID)
}

// SceneFor returns the slot's loaded scene, or nil.
func (s *Session) SceneFor(slotID string) Scene {
	return s.manager.SceneFor(slotID)
}

// Teardown disconnects the tracker and disposes every live handle. The
// session can be rebuilt afterwards.
func (s *Session) Teardown() {
	s.mu.Lock()
	old := s.tracker
	s.tracker = nil
	s.mu.Unlock()
	if old != nil {
		old.DisconnectAll()
	}
	s.manager.Reset(nil)
	log.Printf("preview: session torn down")
}
