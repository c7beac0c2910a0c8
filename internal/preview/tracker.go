package preview

import "sync"

// Rect is an axis-aligned region in the same coordinate space as the
// viewport fed to SetViewport.
type Rect struct {
	X, Y, W, H float32
}

// Empty reports whether the rect covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Expand grows the rect by margin on every side.
func (r Rect) Expand(margin float32) Rect {
	return Rect{X: r.X - margin, Y: r.Y - margin, W: r.W + 2*margin, H: r.H + 2*margin}
}

// Tracker watches slot bounds against a moving viewport and reports
// enter/leave transitions. The tracked region is the viewport expanded by a
// pre-load margin, so slots begin loading shortly before they scroll into
// view. Events for one slot strictly alternate; there is no ordering
// guarantee across different slots. Callbacks fire outside the tracker
// lock, leaves before enters.
type Tracker struct {
	mu sync.Mutex

	margin      float32
	viewport    Rect
	hasViewport bool

	order  []string // observation order, drives emission order
	bounds map[string]Rect
	inside map[string]bool

	onEnter func(slotID string)
	onLeave func(slotID string)

	disconnected bool
}

// NewTracker creates a tracker with the given pre-load margin in pixels.
func NewTracker(margin float32, onEnter, onLeave func(slotID string)) *Tracker {
	return &Tracker{
		margin:  margin,
		bounds:  make(map[string]Rect),
		inside:  make(map[string]bool),
		onEnter: onEnter,
		onLeave: onLeave,
	}
}

// Observe begins monitoring a slot at the given bounds. If the slot already
// intersects the tracked region, the enter event fires immediately. No
// events fire until a viewport has been set.
func (t *Tracker) Observe(slotID string, bounds Rect) {
	t.mu.Lock()
	if t.disconnected {
		t.mu.Unlock()
		return
	}
	if _, known := t.bounds[slotID]; !known {
		t.order = append(t.order, slotID)
	}
	t.bounds[slotID] = bounds
	entered, left := t.recomputeOneLocked(slotID)
	t.mu.Unlock()

	t.emit(entered, left)
}

// UpdateBounds moves a monitored slot. Slots never observed are ignored.
func (t *Tracker) UpdateBounds(slotID string, bounds Rect) {
	t.mu.Lock()
	if t.disconnected {
		t.mu.Unlock()
		return
	}
	if _, known := t.bounds[slotID]; !known {
		t.mu.Unlock()
		return
	}
	t.bounds[slotID] = bounds
	entered, left := t.recomputeOneLocked(slotID)
	t.mu.Unlock()

	t.emit(entered, left)
}

// SetViewport moves the viewport and re-evaluates every monitored slot.
func (t *Tracker) SetViewport(v Rect) {
	t.mu.Lock()
	if t.disconnected {
		t.mu.Unlock()
		return
	}
	t.viewport = v
	t.hasViewport = true
	entered, left := t.recomputeAllLocked()
	t.mu.Unlock()

	t.emit(entered, left)
}

// DisconnectAll stops monitoring; no further events fire.
func (t *Tracker) DisconnectAll() {
	t.mu.Lock()
	t.disconnected = true
	t.bounds = make(map[string]Rect)
	t.inside = make(map[string]bool)
	t.order = nil
	t.mu.Unlock()
}

// InsideCount returns how many slots currently intersect the tracked region.
func (t *Tracker) InsideCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, in := range t.inside {
		if in {
			n++
		}
	}
	return n
}

func (t *Tracker) recomputeOneLocked(slotID string) (entered, left []string) {
	if !t.hasViewport {
		return nil, nil
	}
	region := t.viewport.Expand(t.margin)
	now := t.bounds[slotID].Intersects(region)
	was := t.inside[slotID]
	if now == was {
		return nil, nil
	}
	t.inside[slotID] = now
	if now {
		return []string{slotID}, nil
	}
	return nil, []string{slotID}
}

func (t *Tracker) recomputeAllLocked() (entered, left []string) {
	if !t.hasViewport {
		return nil, nil
	}
	region := t.viewport.Expand(t.margin)
	for _, slotID := range t.order {
		now := t.bounds[slotID].Intersects(region)
		was := t.inside[slotID]
		if now == was {
			continue
		}
		t.inside[slotID] = now
		if now {
			entered = append(entered, slotID)
		} else {
			left = append(left, slotID)
		}
	}
	return entered, left
}

func (t *Tracker) emit(entered, left []string) {
	for _, slotID := range left {
		if t.onLeave != nil {
			t.onLeave(slotID)
		}
	}
	for _, slotID := range entered {
		if t.onEnter != nil {
			t.onEnter(slotID)
		}
	}
}
