package preview

import (
	"context"
	"log"
	"sync"

	"github.com/meshvault/mesh-gallery/internal/model"
)

// DefaultCap is the canonical bound on simultaneously live scene handles.
const DefaultCap = 12

// Slot describes one grid position of the current generation.
type Slot struct {
	ID      string
	Locator string // resource URL the scene loader fetches
}

// ManagerConfig parameterizes a Manager. One parameterized controller serves
// every gallery view.
type ManagerConfig struct {
	// Cap bounds the live set; DefaultCap when <= 0.
	Cap int

	// Loader acquires scenes for admitted slots. Required.
	Loader SceneLoader

	// Schedule runs coalesced pump passes; defaults to a goroutine per pass.
	Schedule Schedule

	// OnState receives display state transitions.
	OnState StateCallback
}

// Manager is the admission controller: it owns the live resource set, admits
// visible slots up to the cap, evicts non-visible entries under capacity
// pressure, and keeps sticky failure flags that only a manual retry clears.
//
// All state is serialized under one mutex. A pump pass is one synchronous
// critical section that only starts asynchronous loads; completions re-enter
// under the same mutex and are discarded when stale (disposed handle,
// replaced handle, or older generation). Handle disposal and state
// notifications are deferred until the lock is released.
type Manager struct {
	mu sync.Mutex

	cap      int
	loader   SceneLoader
	schedule Schedule
	onState  StateCallback

	generation uint64
	locators   map[string]string

	// visible set in insertion order; mutated only by tracker callbacks
	visibleOrder []string
	visible      map[string]struct{}

	// live resource set in insertion order; at most one handle per slot
	liveOrder []string
	live      map[string]*Handle

	// sticky failure flags, cleared only by Retry or Reset
	failed map[string]struct{}

	pumpQueued bool

	notifying      bool
	pendingNotify  []stateChange
	pendingDispose []*Handle
}

type stateChange struct {
	slotID string
	state  model.PreviewState
	scene  Scene
}

// NewManager creates an admission controller with no slots; call Reset to
// install a generation.
func NewManager(cfg ManagerConfig) *Manager {
	capacity := cfg.Cap
	if capacity <= 0 {
		capacity = DefaultCap
	}
	schedule := cfg.Schedule
	if schedule == nil {
		schedule = func(fn func()) { go fn() }
	}
	return &Manager{
		cap:      capacity,
		loader:   cfg.Loader,
		schedule: schedule,
		onState:  cfg.OnState,
		locators: make(map[string]string),
		visible:  make(map[string]struct{}),
		live:     make(map[string]*Handle),
		failed:   make(map[string]struct{}),
	}
}

// Cap returns the live-set bound.
func (m *Manager) Cap() int {
	return m.cap
}

// Generation returns the current slot generation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// LiveCount returns the size of the live resource set.
func (m *Manager) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// VisibleCount returns the size of the visible set.
func (m *Manager) VisibleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visible)
}

// IsLive reports whether the slot currently holds a handle.
func (m *Manager) IsLive(slotID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.live[slotID]
	return ok
}

// IsFailed reports whether the slot's sticky failure flag is set.
func (m *Manager) IsFailed(slotID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.failed[slotID]
	return ok
}

// SceneFor returns the slot's loaded scene, or nil while idle, loading, or
// failed.
func (m *Manager) SceneFor(slotID string) Scene {
	m.mu.Lock()
	h, ok := m.live[slotID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return h.Scene()
}

// Reset installs a new slot generation: every live handle of the previous
// generation is disposed, visibility and failure state are cleared, and the
// generation counter advances so stale completions are discarded. Returns
// the new generation.
func (m *Manager) Reset(slots []Slot) uint64 {
	m.mu.Lock()
	dropped := len(m.live)
	for _, slotID := range m.liveOrder {
		m.pendingDispose = append(m.pendingDispose, m.live[slotID])
	}
	m.live = make(map[string]*Handle)
	m.liveOrder = nil
	m.visible = make(map[string]struct{})
	m.visibleOrder = nil
	m.failed = make(map[string]struct{})
	m.locators = make(map[string]string, len(slots))
	for _, slot := range slots {
		m.locators[slot.ID] = slot.Locator
	}
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	log.Printf("preview: generation %d installed, %d slots, %d handles disposed", gen, len(slots), dropped)
	m.settle(false)
	return gen
}

// SlotEntered is the tracker's enter callback for the given generation. The
// slot joins the visible set in insertion order and a pump is requested.
func (m *Manager) SlotEntered(gen uint64, slotID string) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	if _, known := m.locators[slotID]; !known {
		m.mu.Unlock()
		return
	}
	if _, ok := m.visible[slotID]; ok {
		m.mu.Unlock()
		return
	}
	m.visible[slotID] = struct{}{}
	m.visibleOrder = append(m.visibleOrder, slotID)
	scheduled := m.queuePumpLocked()
	m.mu.Unlock()

	m.settle(scheduled)
}

// SlotLeft is the tracker's leave callback. Leaving evicts the slot's live
// handle immediately, cancelling a pending load, and resets the display
// state to idle (failed when the failure flag is set). Freed capacity is
// reused by the next pump.
func (m *Manager) SlotLeft(gen uint64, slotID string) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	if _, ok := m.visible[slotID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.visible, slotID)
	m.visibleOrder = removeString(m.visibleOrder, slotID)

	evicted := false
	if h, ok := m.live[slotID]; ok {
		m.removeLiveLocked(slotID)
		m.pendingDispose = append(m.pendingDispose, h)
		evicted = true
	}
	state := model.PreviewStateIdle
	if _, bad := m.failed[slotID]; bad {
		state = model.PreviewStateFailed
	}
	m.queueStateLocked(slotID, state, nil)
	scheduled := m.queuePumpLocked()
	m.mu.Unlock()

	if evicted {
		log.Printf("preview: evicted %s on leave", slotID)
	}
	m.settle(scheduled)
}

// Retry clears the slot's failure flag, tears down any stale handle, and
// requests a pump. This is the only path that makes a failed slot eligible
// again.
func (m *Manager) Retry(slotID string) {
	m.mu.Lock()
	if _, known := m.locators[slotID]; !known {
		m.mu.Unlock()
		return
	}
	delete(m.failed, slotID)
	if h, ok := m.live[slotID]; ok {
		m.removeLiveLocked(slotID)
		m.pendingDispose = append(m.pendingDispose, h)
	}
	m.queueStateLocked(slotID, model.PreviewStateIdle, nil)
	scheduled := m.queuePumpLocked()
	m.mu.Unlock()

	log.Printf("preview: manual retry for %s", slotID)
	m.settle(scheduled)
}

// RequestPump schedules one coalesced pump pass. Requests made while a pass
// is already queued are no-ops.
func (m *Manager) RequestPump() {
	m.mu.Lock()
	scheduled := m.queuePumpLocked()
	m.mu.Unlock()

	m.settle(scheduled)
}

func (m *Manager) queuePumpLocked() bool {
	if m.pumpQueued {
		return false
	}
	m.pumpQueued = true
	return true
}

// runPump executes one pump pass. Always entered through Schedule.
func (m *Manager) runPump() {
	m.mu.Lock()
	m.pumpQueued = false
	m.pumpLocked()
	m.mu.Unlock()

	m.settle(false)
}

// pumpLocked fills free capacity with visible, non-failed, non-live slots in
// visibility order, evicting one non-visible live entry per admission once
// at the cap. Runs to completion without blocking: loads are started, never
// awaited, so every decision is made against one consistent snapshot.
func (m *Manager) pumpLocked() {
	if len(m.live) >= m.cap {
		return
	}
	admitted := 0
	for _, slotID := range m.visibleOrder {
		if _, ok := m.live[slotID]; ok {
			continue
		}
		if _, ok := m.failed[slotID]; ok {
			continue
		}
		if len(m.live) >= m.cap {
			if !m.evictOneLocked() {
				break
			}
		}
		m.admitLocked(slotID)
		admitted++
	}
	if admitted > 0 {
		log.Printf("preview: pump admitted %d, live %d/%d", admitted, len(m.live), m.cap)
	}
}

// evictOneLocked disposes the first live entry whose slot is not visible.
// Returns false when every live entry is visible and admission must stop.
func (m *Manager) evictOneLocked() bool {
	for _, slotID := range m.liveOrder {
		if _, vis := m.visible[slotID]; vis {
			continue
		}
		h := m.live[slotID]
		m.removeLiveLocked(slotID)
		m.pendingDispose = append(m.pendingDispose, h)
		m.queueStateLocked(slotID, model.PreviewStateIdle, nil)
		log.Printf("preview: evicted %s for capacity", slotID)
		return true
	}
	return false
}

// admitLocked promotes a slot into the live set and starts its load.
func (m *Manager) admitLocked(slotID string) {
	ctx, cancel := context.WithCancel(context.Background())
	h := newHandle(slotID, m.generation, cancel)
	m.live[slotID] = h
	m.liveOrder = append(m.liveOrder, slotID)
	m.queueStateLocked(slotID, model.PreviewStateLoading, nil)
	go m.load(ctx, h, m.locators[slotID])
}

func (m *Manager) load(ctx context.Context, h *Handle, url string) {
	scene, err := m.loader.Load(ctx, url)
	m.finishLoad(h, scene, err)
}

// finishLoad applies a load outcome. Outcomes for disposed handles, replaced
// handles, or previous generations are discarded; the orphaned scene is
// disposed here since no handle owns it.
func (m *Manager) finishLoad(h *Handle, scene Scene, err error) {
	m.mu.Lock()
	slotID := h.SlotID()
	if h.Generation() != m.generation || h.Disposed() || m.live[slotID] != h {
		m.mu.Unlock()
		if scene != nil {
			scene.Dispose()
		}
		return
	}

	if err != nil {
		m.removeLiveLocked(slotID)
		m.failed[slotID] = struct{}{}
		m.pendingDispose = append(m.pendingDispose, h)
		m.queueStateLocked(slotID, model.PreviewStateFailed, nil)
		scheduled := m.queuePumpLocked()
		m.mu.Unlock()

		log.Printf("preview: load failed for %s: %v", slotID, err)
		m.settle(scheduled)
		return
	}

	if !h.adopt(scene) {
		m.mu.Unlock()
		scene.Dispose()
		return
	}
	m.queueStateLocked(slotID, model.PreviewStateReady, scene)
	scheduled := m.queuePumpLocked()
	m.mu.Unlock()

	m.settle(scheduled)
}

func (m *Manager) removeLiveLocked(slotID string) {
	delete(m.live, slotID)
	m.liveOrder = removeString(m.liveOrder, slotID)
}

func (m *Manager) queueStateLocked(slotID string, state model.PreviewState, scene Scene) {
	if m.onState == nil {
		return
	}
	m.pendingNotify = append(m.pendingNotify, stateChange{slotID: slotID, state: state, scene: scene})
}

// settle runs the deferred effects of a state change after the manager lock
// is released: queued disposals, queued notifications, then the scheduled
// pump pass.
func (m *Manager) settle(pumpScheduled bool) {
	m.mu.Lock()
	doomed := m.pendingDispose
	m.pendingDispose = nil
	m.mu.Unlock()

	for _, h := range doomed {
		h.Dispose()
	}
	m.drainNotifies()
	if pumpScheduled {
		m.schedule(m.runPump)
	}
}

// drainNotifies delivers queued transitions in order. A single drainer runs
// at a time, so per-slot ordering is preserved across goroutines.
func (m *Manager) drainNotifies() {
	if m.onState == nil {
		return
	}
	m.mu.Lock()
	if m.notifying {
		m.mu.Unlock()
		return
	}
	m.notifying = true
	for len(m.pendingNotify) > 0 {
		batch := m.pendingNotify
		m.pendingNotify = nil
		m.mu.Unlock()
		for _, ch := range batch {
			m.onState(ch.slotID, ch.state, ch.scene)
		}
		m.mu.Lock()
	}
	m.notifying = false
	m.mu.Unlock()
}

// removeString removes the first occurrence of s, preserving order.
func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
