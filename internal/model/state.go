package model

// PreviewState represents the display state of one preview slot
type PreviewState string

const (
	// PreviewStateIdle means the slot holds no resource and no load is running
	PreviewStateIdle PreviewState = "Idle"

	// PreviewStateLoading means an asynchronous load is in flight
	PreviewStateLoading PreviewState = "Loading"

	// PreviewStateReady means the preview resource is loaded and rendered
	PreviewStateReady PreviewState = "Ready"

	// PreviewStateFailed means the last load rejected; sticky until manual retry
	PreviewStateFailed PreviewState = "Failed"
)

// String returns the string representation of PreviewState
func (ps PreviewState) String() string {
	return string(ps)
}

// IsSettled returns true if the slot reached a terminal load outcome
func (ps PreviewState) IsSettled() bool {
	return ps == PreviewStateReady || ps == PreviewStateFailed
}

// CanRetry returns true if the state exposes the manual retry affordance
func (ps PreviewState) CanRetry() bool {
	return ps == PreviewStateFailed
}
