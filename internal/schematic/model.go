package schematic

import (
	"fmt"

	"circuit-sketch/internal/element"
	"circuit-sketch/pkg/geometry"
)

// Outcome reports what a mutating call did. Callers may ignore it; an
// operation that was not Applied left the model untouched.
type Outcome int

const (
	Applied     Outcome = iota
	Missing             // id not in the model
	Unsupported         // field not carried by the element's variant
	Rejected            // connection endpoints invalid
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Missing:
		return "missing"
	case Unsupported:
		return "unsupported"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Mutated reports whether the model changed.
func (o Outcome) Mutated() bool {
	return o == Applied
}

// Default element footprint on the drawing surface.
const (
	DefaultElementWidth  = 50
	DefaultElementHeight = 20
)

// Placement cascade for elements added without an explicit origin.
const (
	slotColumns = 8
	slotMargin  = 20
	slotStepX   = 70
	slotStepY   = 50
)

// Model is the ordered set of elements and the wires between them.
// It is not safe for concurrent use.
type Model struct {
	elements    []*Element
	connections []*Connection
	created     map[element.Kind]int
	placed      int
	size        geometry.Point2D
	newID       func() ID
}

// Option configures a Model.
type Option func(*Model)

// WithElementSize sets the footprint given to new elements.
func WithElementSize(width, height float64) Option {
	return func(m *Model) {
		if width > 0 && height > 0 {
			m.size = geometry.NewPoint2D(width, height)
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() ID) Option {
	return func(m *Model) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// New creates an empty model.
func New(opts ...Option) *Model {
	m := &Model{
		created: make(map[element.Kind]int),
		size:    geometry.NewPoint2D(DefaultElementWidth, DefaultElementHeight),
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddElement creates an element of the given kind at the next free slot of
// the placement cascade and returns its id.
func (m *Model) AddElement(kind element.Kind) ID {
	n := m.placed
	origin := geometry.NewPoint2D(
		slotMargin+float64(n%slotColumns)*slotStepX,
		slotMargin+float64(n/slotColumns)*slotStepY,
	)
	return m.AddElementAt(kind, origin)
}

// AddElementAt creates an element with its top-left corner at origin.
// Optional fields start empty and the unit starts at the kind's default.
func (m *Model) AddElementAt(kind element.Kind, origin geometry.Point2D) ID {
	spec, _ := element.Lookup(kind)

	m.created[kind]++
	m.placed++

	e := &Element{
		ID:      m.newID(),
		Kind:    kind,
		Name:    fmt.Sprintf("%s%d", spec.Prefix, m.created[kind]),
		Variant: newVariant(spec.Shape),
		Unit:    spec.DefaultUnit(),
		Bounds:  geometry.NewRect(origin.X, origin.Y, m.size.X, m.size.Y),
	}
	m.elements = append(m.elements, e)
	return e.ID
}

// RemoveElement deletes an element together with every connection that
// references it.
func (m *Model) RemoveElement(id ID) Outcome {
	idx := m.index(id)
	if idx < 0 {
		return Missing
	}
	m.elements = append(m.elements[:idx], m.elements[idx+1:]...)

	kept := m.connections[:0]
	for _, c := range m.connections {
		if !c.Touches(id) {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(m.connections); i++ {
		m.connections[i] = nil
	}
	m.connections = kept
	return Applied
}

// UpdateField replaces one string field. The value is stored as given.
func (m *Model) UpdateField(id ID, field Field, value string) Outcome {
	e, ok := m.Element(id)
	if !ok {
		return Missing
	}
	p := e.fieldRef(field)
	if p == nil {
		return Unsupported
	}
	*p = value
	return Applied
}

// SetValue writes value and unit together.
func (m *Model) SetValue(id ID, value, unit string) Outcome {
	e, ok := m.Element(id)
	if !ok {
		return Missing
	}
	if _, isOpAmp := e.Variant.(*OpAmpOutput); isOpAmp {
		return Unsupported
	}
	e.Value = value
	e.Unit = unit
	return Applied
}

// AddConnection wires two distinct existing elements. The endpoints are
// the current element centers.
func (m *Model) AddConnection(start, end ID) Outcome {
	if start == end {
		return Rejected
	}
	a, ok := m.Element(start)
	if !ok {
		return Rejected
	}
	b, ok := m.Element(end)
	if !ok {
		return Rejected
	}
	m.connections = append(m.connections, &Connection{
		ID:         m.newID(),
		Start:      start,
		End:        end,
		StartPoint: a.Center(),
		EndPoint:   b.Center(),
	})
	return Applied
}

// MoveTo places the element's top-left corner at origin and re-anchors
// every connection endpoint on it.
func (m *Model) MoveTo(id ID, origin geometry.Point2D) Outcome {
	e, ok := m.Element(id)
	if !ok {
		return Missing
	}
	e.Bounds = e.Bounds.MoveTo(origin)

	center := e.Center()
	for _, c := range m.connections {
		if c.Start == id {
			c.StartPoint = center
		}
		if c.End == id {
			c.EndPoint = center
		}
	}
	return Applied
}

// HitTest returns the first element in model order whose bounds contain p.
func (m *Model) HitTest(p geometry.Point2D) (*Element, bool) {
	for _, e := range m.elements {
		if e.Bounds.Contains(p) {
			return e, true
		}
	}
	return nil, false
}

// Clear removes everything and restarts naming.
func (m *Model) Clear() {
	m.elements = nil
	m.connections = nil
	m.created = make(map[element.Kind]int)
	m.placed = 0
}

// Element looks up an element by id.
func (m *Model) Element(id ID) (*Element, bool) {
	if idx := m.index(id); idx >= 0 {
		return m.elements[idx], true
	}
	return nil, false
}

// Elements returns the elements in insertion order. The slice is a copy;
// the elements are shared.
func (m *Model) Elements() []*Element {
	out := make([]*Element, len(m.elements))
	copy(out, m.elements)
	return out
}

// Connections returns the wires in creation order.
func (m *Model) Connections() []*Connection {
	out := make([]*Connection, len(m.connections))
	copy(out, m.connections)
	return out
}

// Len returns the number of elements.
func (m *Model) Len() int {
	return len(m.elements)
}

// SetElementSize changes the footprint of elements added from now on.
// Existing elements keep their bounds.
func (m *Model) SetElementSize(width, height float64) {
	WithElementSize(width, height)(m)
}

func (m *Model) index(id ID) int {
	for i, e := range m.elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}
