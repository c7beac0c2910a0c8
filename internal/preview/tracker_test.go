package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{
			name: "overlapping",
			a:    Rect{X: 0, Y: 0, W: 100, H: 100},
			b:    Rect{X: 50, Y: 50, W: 100, H: 100},
			want: true,
		},
		{
			name: "contained",
			a:    Rect{X: 0, Y: 0, W: 100, H: 100},
			b:    Rect{X: 25, Y: 25, W: 10, H: 10},
			want: true,
		},
		{
			name: "touching edges only",
			a:    Rect{X: 0, Y: 0, W: 100, H: 100},
			b:    Rect{X: 100, Y: 0, W: 100, H: 100},
			want: false,
		},
		{
			name: "disjoint",
			a:    Rect{X: 0, Y: 0, W: 100, H: 100},
			b:    Rect{X: 500, Y: 500, W: 100, H: 100},
			want: false,
		},
		{
			name: "empty never intersects",
			a:    Rect{X: 0, Y: 0, W: 0, H: 0},
			b:    Rect{X: 0, Y: 0, W: 100, H: 100},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(tt.a))
		})
	}
}

func TestTrackerEnterLeaveOnScroll(t *testing.T) {
	var enters, leaves []string
	tr := NewTracker(0,
		func(id string) { enters = append(enters, id) },
		func(id string) { leaves = append(leaves, id) },
	)

	tr.Observe("a", Rect{X: 0, Y: 0, W: 100, H: 100})
	tr.Observe("b", Rect{X: 0, Y: 200, W: 100, H: 100})
	assert.Empty(t, enters, "no events before a viewport is set")

	tr.SetViewport(Rect{X: 0, Y: 0, W: 300, H: 150})
	assert.Equal(t, []string{"a"}, enters)
	assert.Empty(t, leaves)

	tr.SetViewport(Rect{X: 0, Y: 160, W: 300, H: 150})
	assert.Equal(t, []string{"a", "b"}, enters)
	assert.Equal(t, []string{"a"}, leaves)
	assert.Equal(t, 1, tr.InsideCount())
}

func TestTrackerMarginPreloads(t *testing.T) {
	var enters []string
	tr := NewTracker(50, func(id string) { enters = append(enters, id) }, nil)

	tr.Observe("near", Rect{X: 0, Y: 120, W: 100, H: 100})
	tr.Observe("far", Rect{X: 0, Y: 400, W: 100, H: 100})
	tr.SetViewport(Rect{X: 0, Y: 0, W: 200, H: 100})

	assert.Equal(t, []string{"near"}, enters, "margin pre-loads slots just past the viewport edge")
}

func TestTrackerObserveInsideFiresImmediately(t *testing.T) {
	var enters []string
	tr := NewTracker(0, func(id string) { enters = append(enters, id) }, nil)

	tr.SetViewport(Rect{X: 0, Y: 0, W: 200, H: 200})
	tr.Observe("a", Rect{X: 10, Y: 10, W: 50, H: 50})

	assert.Equal(t, []string{"a"}, enters)
}

func TestTrackerUpdateBounds(t *testing.T) {
	var enters, leaves []string
	tr := NewTracker(0,
		func(id string) { enters = append(enters, id) },
		func(id string) { leaves = append(leaves, id) },
	)

	tr.SetViewport(Rect{X: 0, Y: 0, W: 200, H: 200})
	tr.Observe("a", Rect{X: 0, Y: 500, W: 50, H: 50})
	assert.Empty(t, enters)

	tr.UpdateBounds("a", Rect{X: 0, Y: 100, W: 50, H: 50})
	assert.Equal(t, []string{"a"}, enters)

	tr.UpdateBounds("a", Rect{X: 0, Y: 500, W: 50, H: 50})
	assert.Equal(t, []string{"a"}, leaves)

	tr.UpdateBounds("ghost", Rect{X: 0, Y: 0, W: 50, H: 50})
	assert.Equal(t, []string{"a"}, enters, "unobserved slots are ignored")
}

func TestTrackerLeavesBeforeEnters(t *testing.T) {
	var events []string
	tr := NewTracker(0,
		func(id string) { events = append(events, "enter:"+id) },
		func(id string) { events = append(events, "leave:"+id) },
	)

	tr.Observe("a", Rect{X: 0, Y: 0, W: 100, H: 100})
	tr.Observe("b", Rect{X: 0, Y: 300, W: 100, H: 100})
	tr.SetViewport(Rect{X: 0, Y: 0, W: 200, H: 150})
	tr.SetViewport(Rect{X: 0, Y: 280, W: 200, H: 150})

	assert.Equal(t, []string{"enter:a", "leave:a", "enter:b"}, events,
		"a scroll step frees departed slots before admitting new ones")
}

func TestTrackerDisconnectAll(t *testing.T) {
	var enters []string
	tr := NewTracker(0, func(id string) { enters = append(enters, id) }, nil)

	tr.Observe("a", Rect{X: 0, Y: 0, W: 100, H: 100})
	tr.SetViewport(Rect{X: 0, Y: 0, W: 200, H: 200})
	assert.Len(t, enters, 1)

	tr.DisconnectAll()
	tr.SetViewport(Rect{X: 0, Y: 0, W: 500, H: 500})
	tr.Observe("b", Rect{X: 0, Y: 0, W: 100, H: 100})

	assert.Len(t, enters, 1, "no events after disconnect")
	assert.Equal(t, 0, tr.InsideCount())
}
