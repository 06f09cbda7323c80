package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circuit-sketch/internal/element"
	"circuit-sketch/internal/schematic"
	"circuit-sketch/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

// fixture places R1 at (0,0) and C1 at (100,0), both 50x20.
func fixture(t *testing.T, opts ...Option) (*Controller, schematic.ID, schematic.ID, *int) {
	t.Helper()
	m := schematic.New()
	r := m.AddElementAt(element.Resistor, pt(0, 0))
	c := m.AddElementAt(element.Capacitor, pt(100, 0))

	ctl := New(m, opts...)
	redraws := 0
	ctl.OnRedraw = func() { redraws++ }
	return ctl, r, c, &redraws
}

func TestPressOnEmptySpaceStaysIdle(t *testing.T) {
	ctl, _, _, _ := fixture(t)

	ctl.Press(pt(70, 70))
	assert.Equal(t, Idle, ctl.Mode())

	ctl.ToggleConnectionMode()
	ctl.Press(pt(70, 70))
	assert.Equal(t, Idle, ctl.Mode())
}

func TestDragPreservesGrabPoint(t *testing.T) {
	ctl, r, _, redraws := fixture(t)

	ctl.Press(pt(10, 5))
	require.Equal(t, Dragging, ctl.Mode())
	id, ok := ctl.Item()
	require.True(t, ok)
	assert.Equal(t, r, id)

	ctl.Move(pt(210, 105))
	e, _ := ctl.Model().Element(r)
	assert.Equal(t, pt(200, 100), e.Bounds.TopLeft())
	assert.Equal(t, 1, *redraws)

	ctl.Release(pt(500, 500))
	assert.Equal(t, Idle, ctl.Mode())
	assert.Equal(t, pt(200, 100), e.Bounds.TopLeft())
}

func TestDragMovesConnectionEndpoints(t *testing.T) {
	ctl, r, c, _ := fixture(t)
	require.True(t, ctl.Model().AddConnection(r, c).Mutated())

	ctl.Press(pt(25, 10))
	ctl.Move(pt(35, 40))
	ctl.Release(pt(35, 40))

	conn := ctl.Model().Connections()[0]
	assert.Equal(t, pt(35, 40), conn.StartPoint)
	assert.Equal(t, pt(125, 10), conn.EndPoint)
}

func TestPressWhileBusyIsIgnored(t *testing.T) {
	ctl, r, _, _ := fixture(t)

	ctl.Press(pt(5, 5))
	ctl.Press(pt(110, 5))

	id, _ := ctl.Item()
	assert.Equal(t, r, id)
}

func TestConnectingAddsWireOnRelease(t *testing.T) {
	ctl, r, c, _ := fixture(t)
	var connected [2]schematic.ID
	ctl.OnConnect = func(start, end schematic.ID) { connected = [2]schematic.ID{start, end} }

	assert.True(t, ctl.ToggleConnectionMode())
	ctl.Press(pt(5, 5))
	require.Equal(t, Connecting, ctl.Mode())

	g, ok := ctl.Guide()
	require.True(t, ok)
	assert.Equal(t, pt(25, 10), g.From)
	assert.Equal(t, pt(5, 5), g.To)

	ctl.Move(pt(60, 30))
	g, _ = ctl.Guide()
	assert.Equal(t, pt(60, 30), g.To)

	ctl.Release(pt(120, 10))
	assert.Equal(t, Idle, ctl.Mode())
	_, ok = ctl.Guide()
	assert.False(t, ok)

	conns := ctl.Model().Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, r, conns[0].Start)
	assert.Equal(t, c, conns[0].End)
	assert.Equal(t, [2]schematic.ID{r, c}, connected)
}

func TestConnectingAbandoned(t *testing.T) {
	cases := map[string]geometry.Point2D{
		"empty space":  pt(70, 70),
		"same element":  pt(40, 15),
	}
	for name, release := range cases {
		t.Run(name, func(t *testing.T) {
			ctl, _, _, _ := fixture(t)
			ctl.ToggleConnectionMode()

			ctl.Press(pt(5, 5))
			ctl.Release(release)

			assert.Equal(t, Idle, ctl.Mode())
			assert.Empty(t, ctl.Model().Connections())
		})
	}
}

func TestMoveWhileIdleDoesNothing(t *testing.T) {
	ctl, r, _, redraws := fixture(t)

	ctl.Move(pt(300, 300))
	ctl.Release(pt(300, 300))

	e, _ := ctl.Model().Element(r)
	assert.Equal(t, pt(0, 0), e.Bounds.TopLeft())
	assert.Zero(t, *redraws)
}

func TestToggleDoesNotAffectGestureInProgress(t *testing.T) {
	ctl, _, _, _ := fixture(t)

	ctl.Press(pt(5, 5))
	ctl.ToggleConnectionMode()
	assert.Equal(t, Dragging, ctl.Mode())

	ctl.Release(pt(5, 5))
	assert.Empty(t, ctl.Model().Connections())
}

func TestDragOfRemovedElementResets(t *testing.T) {
	ctl, r, _, _ := fixture(t)

	ctl.Press(pt(5, 5))
	ctl.Model().RemoveElement(r)
	ctl.Move(pt(50, 50))

	assert.Equal(t, Idle, ctl.Mode())
}

func TestCancel(t *testing.T) {
	ctl, _, _, _ := fixture(t)
	ctl.ToggleConnectionMode()
	ctl.Press(pt(5, 5))

	ctl.Cancel()
	assert.Equal(t, Idle, ctl.Mode())
	ctl.Release(pt(110, 5))
	assert.Empty(t, ctl.Model().Connections())
}

func TestDoubleTapWindow(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		second geometry.Point2D
		gap    time.Duration
		want   int
	}{
		{"within window", pt(10, 10), 300 * time.Millisecond, 1},
		{"at window edge", pt(10, 10), 500 * time.Millisecond, 1},
		{"too slow", pt(10, 10), 501 * time.Millisecond, 0},
		{"other element", pt(110, 10), 100 * time.Millisecond, 0},
		{"empty space", pt(70, 70), 100 * time.Millisecond, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctl, _, _, _ := fixture(t)
			activations := 0
			ctl.OnActivate = func(schematic.ID) { activations++ }

			ctl.Tap(pt(5, 5), t0)
			ctl.Tap(tc.second, t0.Add(tc.gap))
			assert.Equal(t, tc.want, activations)
		})
	}
}

func TestTripleTapActivatesOnce(t *testing.T) {
	ctl, _, _, _ := fixture(t)
	activations := 0
	ctl.OnActivate = func(schematic.ID) { activations++ }

	t0 := time.Now()
	ctl.Tap(pt(5, 5), t0)
	ctl.Tap(pt(5, 5), t0.Add(100*time.Millisecond))
	ctl.Tap(pt(5, 5), t0.Add(200*time.Millisecond))

	assert.Equal(t, 1, activations)
}

func TestCustomDoubleTapWindow(t *testing.T) {
	ctl, _, _, _ := fixture(t, WithDoubleTap(100*time.Millisecond))
	activations := 0
	ctl.OnActivate = func(schematic.ID) { activations++ }

	t0 := time.Now()
	ctl.Tap(pt(5, 5), t0)
	ctl.Tap(pt(5, 5), t0.Add(300*time.Millisecond))
	assert.Zero(t, activations)
}

func TestDoubleActivate(t *testing.T) {
	ctl, _, c, _ := fixture(t)
	var got schematic.ID
	ctl.OnActivate = func(id schematic.ID) { got = id }

	ctl.DoubleActivate(pt(70, 70))
	assert.Empty(t, got)

	ctl.DoubleActivate(pt(120, 10))
	assert.Equal(t, c, got)
}
