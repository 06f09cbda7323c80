// Package interaction turns surface-relative pointer events into schematic
// edits: dragging elements, drawing wires and opening the value editor.
package interaction

import (
	"log/slog"
	"time"

	"circuit-sketch/internal/logging"
	"circuit-sketch/internal/schematic"
	"circuit-sketch/pkg/geometry"
)

// DefaultDoubleTap is the window in which two taps on one element count as
// a double activation.
const DefaultDoubleTap = 500 * time.Millisecond

// Mode is the state of the pointer state machine.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Connecting
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Connecting:
		return "connecting"
	default:
		return "unknown"
	}
}

// Guide is the temporary line shown while a wire is being drawn.
type Guide struct {
	From geometry.Point2D
	To   geometry.Point2D
}

// Controller owns the pointer state for one schematic. All methods must be
// called from the UI goroutine.
type Controller struct {
	model *schematic.Model
	log   *slog.Logger

	mode   Mode
	item   schematic.ID
	offset geometry.Point2D
	guide  Guide

	connectionMode bool

	doubleTap time.Duration
	lastTapID schematic.ID
	lastTapAt time.Time

	// OnActivate is called with the element that was double-activated.
	OnActivate func(schematic.ID)
	// OnRedraw is called whenever the drawing is stale.
	OnRedraw func()
	// OnConnect is called after a wire was added.
	OnConnect func(start, end schematic.ID)
}

// Option configures a Controller.
type Option func(*Controller)

// WithDoubleTap overrides DefaultDoubleTap.
func WithDoubleTap(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.doubleTap = d
		}
	}
}

// New creates a controller editing model.
func New(model *schematic.Model, opts ...Option) *Controller {
	c := &Controller{
		model:     model,
		log:       logging.WithComponent("interaction"),
		doubleTap: DefaultDoubleTap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDoubleTap changes the double-tap window.
func (c *Controller) SetDoubleTap(d time.Duration) {
	WithDoubleTap(d)(c)
}

// Model returns the schematic being edited.
func (c *Controller) Model() *schematic.Model {
	return c.model
}

// Mode returns the current state.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Item returns the element being dragged or wired from, if any.
func (c *Controller) Item() (schematic.ID, bool) {
	if c.mode == Idle {
		return "", false
	}
	return c.item, true
}

// ConnectionMode reports whether presses start wires instead of drags.
func (c *Controller) ConnectionMode() bool {
	return c.connectionMode
}

// ToggleConnectionMode flips between wiring and dragging and returns the
// new setting. It does not affect a gesture already in progress.
func (c *Controller) ToggleConnectionMode() bool {
	c.connectionMode = !c.connectionMode
	c.log.Debug("connection mode", slog.Bool("enabled", c.connectionMode))
	return c.connectionMode
}

// Guide returns the wire guide while connecting.
func (c *Controller) Guide() (Guide, bool) {
	if c.mode != Connecting {
		return Guide{}, false
	}
	return c.guide, true
}

// Press starts a drag or a wire on the element under p.
func (c *Controller) Press(p geometry.Point2D) {
	if c.mode != Idle {
		return
	}
	e, ok := c.model.HitTest(p)
	if !ok {
		return
	}

	c.item = e.ID
	if c.connectionMode {
		c.mode = Connecting
		c.guide = Guide{From: e.Center(), To: p}
		c.log.Debug("connect start", slog.String("element", e.Name))
		c.redraw()
		return
	}
	c.mode = Dragging
	c.offset = p.Sub(e.Bounds.TopLeft())
	c.log.Debug("drag start", slog.String("element", e.Name))
}

// Move follows the pointer during a gesture.
func (c *Controller) Move(p geometry.Point2D) {
	switch c.mode {
	case Dragging:
		if !c.model.MoveTo(c.item, p.Sub(c.offset)).Mutated() {
			// element vanished under the drag
			c.reset()
		}
		c.redraw()
	case Connecting:
		c.guide.To = p
		c.redraw()
	}
}

// Release ends the gesture. A wire is added only when released over a
// different element.
func (c *Controller) Release(p geometry.Point2D) {
	switch c.mode {
	case Connecting:
		start := c.item
		if end, ok := c.model.HitTest(p); ok && end.ID != start {
			if c.model.AddConnection(start, end.ID).Mutated() {
				c.log.Debug("connected", slog.String("end", end.Name))
				if c.OnConnect != nil {
					c.OnConnect(start, end.ID)
				}
			}
		} else {
			c.log.Debug("connection abandoned")
		}
		c.reset()
		c.redraw()
	case Dragging:
		c.reset()
	}
}

// Cancel abandons any gesture in progress without mutating the model.
func (c *Controller) Cancel() {
	if c.mode == Idle {
		return
	}
	c.reset()
	c.redraw()
}

// Tap registers a single tap at time at. A second tap on the same element
// within the double-tap window activates it.
func (c *Controller) Tap(p geometry.Point2D, at time.Time) {
	e, ok := c.model.HitTest(p)
	if !ok {
		c.lastTapID = ""
		return
	}

	if e.ID == c.lastTapID {
		if dt := at.Sub(c.lastTapAt); dt >= 0 && dt <= c.doubleTap {
			c.lastTapID = ""
			c.activate(e.ID)
			return
		}
	}
	c.lastTapID = e.ID
	c.lastTapAt = at
}

// DoubleActivate handles a native double click at p.
func (c *Controller) DoubleActivate(p geometry.Point2D) {
	c.lastTapID = ""
	if e, ok := c.model.HitTest(p); ok {
		c.activate(e.ID)
	}
}

func (c *Controller) activate(id schematic.ID) {
	c.log.Debug("activate", slog.String("id", string(id)))
	if c.OnActivate != nil {
		c.OnActivate(id)
	}
}

func (c *Controller) reset() {
	c.mode = Idle
	c.item = ""
	c.offset = geometry.Point2D{}
	c.guide = Guide{}
}

func (c *Controller) redraw() {
	if c.OnRedraw != nil {
		c.OnRedraw()
	}
}
