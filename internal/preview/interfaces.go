package preview

import (
	"context"
	"image"

	"github.com/meshvault/mesh-gallery/internal/model"
)

// Scene is one loaded renderable preview resource. The handle that adopted a
// scene owns it until the scene is disposed.
type Scene interface {
	// Image returns the rendered preview frame, or nil after Dispose.
	Image() image.Image

	// Dispose releases the resources backing the scene. Safe to call more
	// than once.
	Dispose()
}

// SceneLoader acquires a renderable scene for a locator URL. Load honors
// context cancellation and reports failures as errors; it never panics into
// the caller.
type SceneLoader interface {
	Load(ctx context.Context, url string) (Scene, error)
}

// Schedule queues fn to run on the next frame boundary, after the current
// burst of events has settled. The UI passes fyne.Do; tests pass a manual
// queue.
type Schedule func(fn func())

// StateCallback receives per-slot display state transitions. scene is
// non-nil only for PreviewStateReady. Callbacks run outside the scheduler
// lock in transition order; calling back into the session from a callback
// is safe.
type StateCallback func(slotID string, state model.PreviewState, scene Scene)
