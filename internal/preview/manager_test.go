package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshvault/mesh-gallery/internal/model"
)

type fakeScene struct {
	mu       sync.Mutex
	disposed int
}

func (s *fakeScene) Image() image.Image { return nil }

func (s *fakeScene) Dispose() {
	s.mu.Lock()
	s.disposed++
	s.mu.Unlock()
}

func (s *fakeScene) disposeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

type loadResult struct {
	scene Scene
	err   error
}

// fakeLoader blocks every load until the test delivers an outcome, so tests
// control completion order exactly. With ignoreCtx set it sits through
// cancellation, imitating a loader that resolves after its handle is gone.
type fakeLoader struct {
	mu        sync.Mutex
	ignoreCtx bool
	started   []string
	cancelled int
	pending   map[string]chan loadResult
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{pending: make(map[string]chan loadResult)}
}

func (l *fakeLoader) chanFor(url string) chan loadResult {
	c, ok := l.pending[url]
	if !ok {
		c = make(chan loadResult, 1)
		l.pending[url] = c
	}
	return c
}

func (l *fakeLoader) Load(ctx context.Context, url string) (Scene, error) {
	l.mu.Lock()
	l.started = append(l.started, url)
	c := l.chanFor(url)
	ignore := l.ignoreCtx
	l.mu.Unlock()

	if ignore {
		res := <-c
		return res.scene, res.err
	}
	select {
	case <-ctx.Done():
		l.mu.Lock()
		l.cancelled++
		l.mu.Unlock()
		return nil, ctx.Err()
	case res := <-c:
		return res.scene, res.err
	}
}

func (l *fakeLoader) succeed(url string) *fakeScene {
	scene := &fakeScene{}
	l.mu.Lock()
	c := l.chanFor(url)
	l.mu.Unlock()
	c <- loadResult{scene: scene}
	return scene
}

func (l *fakeLoader) fail(url string, err error) {
	l.mu.Lock()
	c := l.chanFor(url)
	l.mu.Unlock()
	c <- loadResult{err: err}
}

func (l *fakeLoader) startedURLs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.started...)
}

func (l *fakeLoader) startCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.started)
}

func (l *fakeLoader) cancelCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancelled
}

// autoLoader resolves every load immediately with a fresh scene.
type autoLoader struct {
	mu     sync.Mutex
	scenes []*fakeScene
}

func (l *autoLoader) Load(ctx context.Context, url string) (Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scene := &fakeScene{}
	l.mu.Lock()
	l.scenes = append(l.scenes, scene)
	l.mu.Unlock()
	return scene, nil
}

func (l *autoLoader) undisposedScenes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, s := range l.scenes {
		if s.disposeCount() == 0 {
			n++
		}
	}
	return n
}

type stateEvent struct {
	slotID string
	state  model.PreviewState
	scene  Scene
}

type stateRecorder struct {
	mu     sync.Mutex
	events []stateEvent
}

func (r *stateRecorder) record(slotID string, state model.PreviewState, scene Scene) {
	r.mu.Lock()
	r.events = append(r.events, stateEvent{slotID: slotID, state: state, scene: scene})
	r.mu.Unlock()
}

func (r *stateRecorder) statesFor(slotID string) []model.PreviewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PreviewState
	for _, ev := range r.events {
		if ev.slotID == slotID {
			out = append(out, ev.state)
		}
	}
	return out
}

func (r *stateRecorder) lastState(slotID string) model.PreviewState {
	states := r.statesFor(slotID)
	if len(states) == 0 {
		return model.PreviewStateIdle
	}
	return states[len(states)-1]
}

// manualScheduler queues scheduled passes so tests decide when pumps run.
type manualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func (s *manualScheduler) schedule(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

func (s *manualScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *manualScheduler) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		fn()
	}
}

func locatorFor(slotID string) string {
	return "asset://" + slotID
}

func slotIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("slot-%02d", i))
	}
	return ids
}

func makeSlots(n int) []Slot {
	slots := make([]Slot, 0, n)
	for _, id := range slotIDs(n) {
		slots = append(slots, Slot{ID: id, Locator: locatorFor(id)})
	}
	return slots
}

type managerFixture struct {
	manager  *Manager
	loader   *fakeLoader
	sched    *manualScheduler
	recorder *stateRecorder
	gen      uint64
}

func newManagerFixture(capacity, slotCount int) *managerFixture {
	f := &managerFixture{
		loader:   newFakeLoader(),
		sched:    &manualScheduler{},
		recorder: &stateRecorder{},
	}
	f.manager = NewManager(ManagerConfig{
		Cap:      capacity,
		Loader:   f.loader,
		Schedule: f.sched.schedule,
		OnState:  f.recorder.record,
	})
	f.gen = f.manager.Reset(makeSlots(slotCount))
	return f
}

func (f *managerFixture) enter(ids ...string) {
	for _, id := range ids {
		f.manager.SlotEntered(f.gen, id)
	}
}

func (f *managerFixture) leave(ids ...string) {
	for _, id := range ids {
		f.manager.SlotLeft(f.gen, id)
	}
}

func (f *managerFixture) waitStarts(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return f.loader.startCount() >= n },
		2*time.Second, 5*time.Millisecond, "expected %d load starts", n)
	require.Equal(t, n, f.loader.startCount())
}

func (f *managerFixture) waitState(t *testing.T, slotID string, want model.PreviewState) {
	t.Helper()
	require.Eventually(t, func() bool { return f.recorder.lastState(slotID) == want },
		2*time.Second, 5*time.Millisecond, "slot %s never reached %s", slotID, want)
}

func TestPumpAdmitsVisibleInOrder(t *testing.T) {
	f := newManagerFixture(12, 6)
	f.enter(slotIDs(6)...)
	f.sched.drain()

	f.waitStarts(t, 6)
	wantOrder := make([]string, 0, 6)
	for _, id := range slotIDs(6) {
		wantOrder = append(wantOrder, locatorFor(id))
	}
	assert.Equal(t, wantOrder, f.loader.startedURLs(), "admission must follow visibility insertion order")

	for _, id := range slotIDs(6) {
		f.waitState(t, id, model.PreviewStateLoading)
		assert.Nil(t, f.manager.SceneFor(id), "no scene before the load resolves")
	}

	scenes := make(map[string]*fakeScene, 6)
	for _, id := range slotIDs(6) {
		scenes[id] = f.loader.succeed(locatorFor(id))
	}
	for _, id := range slotIDs(6) {
		f.waitState(t, id, model.PreviewStateReady)
		assert.Same(t, scenes[id], f.manager.SceneFor(id))
	}
	assert.Equal(t, 6, f.manager.LiveCount())
}

func TestPumpStopsAtCap(t *testing.T) {
	f := newManagerFixture(4, 8)
	f.enter(slotIDs(8)...)
	f.sched.drain()

	f.waitStarts(t, 4)
	assert.Equal(t, 4, f.manager.LiveCount())
	assert.Never(t, func() bool { return f.loader.startCount() > 4 },
		300*time.Millisecond, 20*time.Millisecond, "no admissions past the cap while every live entry is visible")
	assert.Empty(t, f.recorder.statesFor("slot-05"), "queued slots stay idle")
}

func TestLeaveFreesCapacity(t *testing.T) {
	f := newManagerFixture(4, 8)
	f.enter(slotIDs(4)...)
	f.sched.drain()
	f.waitStarts(t, 4)

	scenes := make(map[string]*fakeScene, 4)
	for _, id := range slotIDs(4) {
		scenes[id] = f.loader.succeed(locatorFor(id))
		f.waitState(t, id, model.PreviewStateReady)
	}

	f.leave("slot-01", "slot-02")
	assert.Equal(t, 1, scenes["slot-01"].disposeCount(), "departed slot disposed immediately")
	assert.Equal(t, 1, scenes["slot-02"].disposeCount())
	assert.Equal(t, model.PreviewStateIdle, f.recorder.lastState("slot-01"))

	f.enter("slot-05", "slot-06")
	f.sched.drain()
	f.waitStarts(t, 6)
	for _, id := range []string{"slot-05", "slot-06"} {
		f.loader.succeed(locatorFor(id))
		f.waitState(t, id, model.PreviewStateReady)
	}

	assert.Equal(t, 4, f.manager.LiveCount())
	assert.False(t, f.manager.IsLive("slot-01"))
	assert.False(t, f.manager.IsLive("slot-02"))
}

func TestLeaveCancelsPendingLoad(t *testing.T) {
	f := newManagerFixture(4, 4)
	f.enter("slot-01")
	f.sched.drain()
	f.waitStarts(t, 1)
	f.waitState(t, "slot-01", model.PreviewStateLoading)

	f.leave("slot-01")

	require.Eventually(t, func() bool { return f.loader.cancelCount() == 1 },
		2*time.Second, 5*time.Millisecond, "pending load must be cancelled on leave")
	assert.Equal(t, model.PreviewStateIdle, f.recorder.lastState("slot-01"))
	assert.Equal(t, 0, f.manager.LiveCount())
	assert.Never(t, func() bool { return f.manager.IsFailed("slot-01") },
		300*time.Millisecond, 20*time.Millisecond, "cancellation must not set the failure flag")
}

func TestLoadFailureIsSticky(t *testing.T) {
	f := newManagerFixture(4, 4)
	f.enter("slot-01", "slot-02")
	f.sched.drain()
	f.waitStarts(t, 2)

	f.loader.fail(locatorFor("slot-01"), errors.New("corrupt mesh"))
	f.waitState(t, "slot-01", model.PreviewStateFailed)
	assert.True(t, f.manager.IsFailed("slot-01"))
	assert.False(t, f.manager.IsLive("slot-01"))

	f.sched.drain()
	f.manager.RequestPump()
	f.sched.drain()
	assert.Never(t, func() bool { return f.loader.startCount() > 2 },
		300*time.Millisecond, 20*time.Millisecond, "flagged slot must not be retried automatically")
}

func TestRetryReloadsFailedSlot(t *testing.T) {
	f := newManagerFixture(4, 4)
	f.enter("slot-01")
	f.sched.drain()
	f.waitStarts(t, 1)
	f.loader.fail(locatorFor("slot-01"), errors.New("fetch timeout"))
	f.waitState(t, "slot-01", model.PreviewStateFailed)

	f.manager.Retry("slot-01")
	f.sched.drain()
	f.waitStarts(t, 2)
	f.loader.succeed(locatorFor("slot-01"))
	f.waitState(t, "slot-01", model.PreviewStateReady)

	assert.Equal(t, []model.PreviewState{
		model.PreviewStateLoading,
		model.PreviewStateFailed,
		model.PreviewStateIdle,
		model.PreviewStateLoading,
		model.PreviewStateReady,
	}, f.recorder.statesFor("slot-01"), "transitions must arrive in order")
}

func TestFailureFlagSurvivesLeaveAndReenter(t *testing.T) {
	f := newManagerFixture(4, 4)
	f.enter("slot-01")
	f.sched.drain()
	f.waitStarts(t, 1)
	f.loader.fail(locatorFor("slot-01"), errors.New("bad payload"))
	f.waitState(t, "slot-01", model.PreviewStateFailed)

	f.leave("slot-01")
	assert.Equal(t, model.PreviewStateFailed, f.recorder.lastState("slot-01"),
		"leave keeps the failed display so the tile still offers retry")
	assert.True(t, f.manager.IsFailed("slot-01"))

	f.enter("slot-01")
	f.sched.drain()
	assert.Never(t, func() bool { return f.loader.startCount() > 1 },
		300*time.Millisecond, 20*time.Millisecond, "re-entering must not clear the failure flag")
}

// TestPumpEvictsNonVisibleAtCap drives the reclaim branch directly: the
// live entry is taken out of the visible set by hand so the pump crosses
// the cap mid-pass and has a non-visible entry to sacrifice.
func TestPumpEvictsNonVisibleAtCap(t *testing.T) {
	f := newManagerFixture(2, 4)
	f.enter("slot-01")
	f.sched.drain()
	f.waitStarts(t, 1)
	s1 := f.loader.succeed(locatorFor("slot-01"))
	f.waitState(t, "slot-01", model.PreviewStateReady)

	f.manager.mu.Lock()
	delete(f.manager.visible, "slot-01")
	f.manager.visibleOrder = removeString(f.manager.visibleOrder, "slot-01")
	f.manager.mu.Unlock()

	f.enter("slot-02", "slot-03")
	f.sched.drain()
	f.waitStarts(t, 3)

	assert.Equal(t, 1, s1.disposeCount(), "non-visible entry evicted for capacity")
	assert.False(t, f.manager.IsLive("slot-01"))
	assert.Equal(t, model.PreviewStateIdle, f.recorder.lastState("slot-01"))
	assert.True(t, f.manager.IsLive("slot-02"))
	assert.True(t, f.manager.IsLive("slot-03"))
	assert.Equal(t, 2, f.manager.LiveCount())
}

// TestPumpAtCapDoesNotEvict pins down the other side: a pass that starts at
// the cap is a no-op even when a non-visible live entry could be reclaimed.
func TestPumpAtCapDoesNotEvict(t *testing.T) {
	f := newManagerFixture(2, 3)
	f.enter("slot-01", "slot-02")
	f.sched.drain()
	f.waitStarts(t, 2)
	s1 := f.loader.succeed(locatorFor("slot-01"))
	f.loader.succeed(locatorFor("slot-02"))
	f.waitState(t, "slot-01", model.PreviewStateReady)
	f.waitState(t, "slot-02", model.PreviewStateReady)

	f.manager.mu.Lock()
	delete(f.manager.visible, "slot-01")
	f.manager.visibleOrder = removeString(f.manager.visibleOrder, "slot-01")
	f.manager.mu.Unlock()

	f.enter("slot-03")
	f.sched.drain()

	assert.Never(t, func() bool { return f.loader.startCount() > 2 },
		300*time.Millisecond, 20*time.Millisecond, "pass starting at the cap admits nothing")
	assert.Equal(t, 0, s1.disposeCount())
	assert.True(t, f.manager.IsLive("slot-01"))
	assert.False(t, f.manager.IsLive("slot-03"))
}

func TestRequestPumpCoalesces(t *testing.T) {
	f := newManagerFixture(4, 4)
	f.manager.RequestPump()
	f.manager.RequestPump()
	f.manager.RequestPump()
	assert.Equal(t, 1, f.sched.pendingCount(), "repeat requests while queued must coalesce")

	f.sched.drain()
	f.manager.RequestPump()
	assert.Equal(t, 1, f.sched.pendingCount(), "flag must rearm once the pass has run")

	f.sched.drain()
	f.enter(slotIDs(3)...)
	assert.Equal(t, 1, f.sched.pendingCount(), "a burst of enters schedules a single pass")
}

func TestCapInvariantUnderChurn(t *testing.T) {
	loader := &autoLoader{}
	recorder := &stateRecorder{}
	sched := &manualScheduler{}
	m := NewManager(ManagerConfig{Cap: 3, Loader: loader, Schedule: sched.schedule, OnState: recorder.record})
	gen := m.Reset(makeSlots(30))

	ids := slotIDs(30)
	const window = 4
	for i := 0; i+window <= len(ids); i++ {
		if i > 0 {
			m.SlotLeft(gen, ids[i-1])
		}
		for _, id := range ids[i : i+window] {
			m.SlotEntered(gen, id)
		}
		sched.drain()
		assert.LessOrEqual(t, m.LiveCount(), m.Cap(), "live set exceeded cap at step %d", i)
	}

	require.Eventually(t, func() bool {
		sched.drain()
		return m.LiveCount() == 3 && loader.undisposedScenes() == 3
	}, 2*time.Second, 10*time.Millisecond, "churn must settle to a full live set with no leaked scenes")
}

func TestResetDisposesEverything(t *testing.T) {
	f := newManagerFixture(4, 4)
	f.enter("slot-01", "slot-02", "slot-03")
	f.sched.drain()
	f.waitStarts(t, 3)
	s1 := f.loader.succeed(locatorFor("slot-01"))
	f.waitState(t, "slot-01", model.PreviewStateReady)
	f.loader.fail(locatorFor("slot-02"), errors.New("no parser"))
	f.waitState(t, "slot-02", model.PreviewStateFailed)

	oldGen := f.gen
	f.gen = f.manager.Reset(makeSlots(2))

	assert.Equal(t, oldGen+1, f.gen)
	assert.Equal(t, 0, f.manager.LiveCount())
	assert.Equal(t, 0, f.manager.VisibleCount())
	assert.Equal(t, 1, s1.disposeCount(), "ready handle disposed with its generation")
	assert.False(t, f.manager.IsFailed("slot-02"), "failure flags reset with the generation")
	require.Eventually(t, func() bool { return f.loader.cancelCount() == 1 },
		2*time.Second, 5*time.Millisecond, "pending load cancelled with its generation")

	f.manager.SlotEntered(oldGen, "slot-01")
	assert.Equal(t, 0, f.manager.VisibleCount(), "callbacks stamped with an old generation are discarded")
}

func TestLateResolutionAfterResetDiscarded(t *testing.T) {
	f := newManagerFixture(4, 4)
	f.loader.ignoreCtx = true
	f.enter("slot-01")
	f.sched.drain()
	f.waitStarts(t, 1)

	f.gen = f.manager.Reset(makeSlots(4))
	late := f.loader.succeed(locatorFor("slot-01"))

	require.Eventually(t, func() bool { return late.disposeCount() == 1 },
		2*time.Second, 5*time.Millisecond, "orphaned scene must be disposed, not leaked")
	assert.False(t, f.manager.IsLive("slot-01"))
	assert.NotEqual(t, model.PreviewStateReady, f.recorder.lastState("slot-01"))
}

func TestCallbackGuards(t *testing.T) {
	t.Run("unknown slot", func(t *testing.T) {
		f := newManagerFixture(4, 2)
		f.manager.SlotEntered(f.gen, "slot-99")
		assert.Equal(t, 0, f.manager.VisibleCount())
		assert.Equal(t, 0, f.sched.pendingCount(), "unknown slots must not schedule a pass")
	})

	t.Run("duplicate enter", func(t *testing.T) {
		f := newManagerFixture(4, 2)
		f.enter("slot-01", "slot-01")
		assert.Equal(t, 1, f.manager.VisibleCount())
		f.sched.drain()
		f.waitStarts(t, 1)
	})

	t.Run("leave without enter", func(t *testing.T) {
		f := newManagerFixture(4, 2)
		f.leave("slot-01")
		assert.Empty(t, f.recorder.statesFor("slot-01"))
		assert.Equal(t, 0, f.sched.pendingCount())
	})

	t.Run("stale generation", func(t *testing.T) {
		f := newManagerFixture(4, 2)
		f.manager.SlotEntered(f.gen+1, "slot-01")
		assert.Equal(t, 0, f.manager.VisibleCount())
	})
}
