// Package schematic holds the circuit being edited: placed elements and the
// wires drawn between them.
package schematic

import (
	"github.com/google/uuid"

	"circuit-sketch/internal/element"
	"circuit-sketch/pkg/geometry"
)

// ID identifies an element or connection for its whole lifetime.
type ID string

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Field names an editable string attribute of an element.
type Field int

const (
	FieldPositive Field = iota
	FieldNegative
	FieldControlPositive
	FieldControlNegative
	FieldControlSource
	FieldOutput
	FieldValue
	FieldUnit
)

var fieldLabels = [...]string{
	FieldPositive:        "Positive node",
	FieldNegative:        "Negative node",
	FieldControlPositive: "Control + node",
	FieldControlNegative: "Control - node",
	FieldControlSource:   "Control source",
	FieldOutput:          "Output node",
	FieldValue:           "Value",
	FieldUnit:            "Unit",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldLabels) {
		return "Unknown"
	}
	return fieldLabels[f]
}

// Variant carries the optional fields that depend on the element kind.
// The set of implementations is closed.
type Variant interface {
	Shape() element.Shape
	sealed()
}

// Passive is the variant of two-terminal elements and independent sources.
type Passive struct{}

// VoltageControl is the variant of voltage-controlled sources.
type VoltageControl struct {
	ControlPositive string
	ControlNegative string
}

// CurrentControl is the variant of current-controlled sources. ControlSource
// names the element whose current is sensed.
type CurrentControl struct {
	ControlSource string
}

// OpAmpOutput is the variant of op amps.
type OpAmpOutput struct {
	Output string
}

func (*Passive) Shape() element.Shape        { return element.ShapePassive }
func (*VoltageControl) Shape() element.Shape { return element.ShapeVoltageControlled }
func (*CurrentControl) Shape() element.Shape { return element.ShapeCurrentControlled }
func (*OpAmpOutput) Shape() element.Shape    { return element.ShapeOpAmp }

func (*Passive) sealed()        {}
func (*VoltageControl) sealed() {}
func (*CurrentControl) sealed() {}
func (*OpAmpOutput) sealed()    {}

func newVariant(shape element.Shape) Variant {
	switch shape {
	case element.ShapeVoltageControlled:
		return &VoltageControl{}
	case element.ShapeCurrentControlled:
		return &CurrentControl{}
	case element.ShapeOpAmp:
		return &OpAmpOutput{}
	default:
		return &Passive{}
	}
}

// Element is one placed circuit element.
type Element struct {
	ID       ID
	Kind     element.Kind
	Name     string
	Positive string
	Negative string
	Variant  Variant
	Value    string
	Unit     string
	Bounds   geometry.Rect
}

// Center returns the anchor point used for wire endpoints.
func (e *Element) Center() geometry.Point2D {
	return e.Bounds.Center()
}

// Fields lists the editable fields this element carries, in display order.
func (e *Element) Fields() []Field {
	fields := []Field{FieldPositive, FieldNegative}
	switch e.Variant.(type) {
	case *VoltageControl:
		fields = append(fields, FieldControlPositive, FieldControlNegative)
	case *CurrentControl:
		fields = append(fields, FieldControlSource)
	case *OpAmpOutput:
		return append(fields, FieldOutput)
	}
	return append(fields, FieldValue, FieldUnit)
}

// Field returns the current value of f, or false if the element does not
// carry it.
func (e *Element) Field(f Field) (string, bool) {
	p := e.fieldRef(f)
	if p == nil {
		return "", false
	}
	return *p, true
}

func (e *Element) fieldRef(f Field) *string {
	switch f {
	case FieldPositive:
		return &e.Positive
	case FieldNegative:
		return &e.Negative
	case FieldValue:
		if _, ok := e.Variant.(*OpAmpOutput); ok {
			return nil
		}
		return &e.Value
	case FieldUnit:
		if _, ok := e.Variant.(*OpAmpOutput); ok {
			return nil
		}
		return &e.Unit
	}

	switch v := e.Variant.(type) {
	case *VoltageControl:
		switch f {
		case FieldControlPositive:
			return &v.ControlPositive
		case FieldControlNegative:
			return &v.ControlNegative
		}
	case *CurrentControl:
		if f == FieldControlSource {
			return &v.ControlSource
		}
	case *OpAmpOutput:
		if f == FieldOutput {
			return &v.Output
		}
	}
	return nil
}

// Connection is a wire between the centers of two distinct elements.
type Connection struct {
	ID         ID
	Start      ID
	End        ID
	StartPoint geometry.Point2D
	EndPoint   geometry.Point2D
}

// Touches reports whether the connection references id at either end.
func (c *Connection) Touches(id ID) bool {
	return c.Start == id || c.End == id
}
