// Package netlist compiles a schematic into the line-per-element text format
// understood by the analysis service.
package netlist

import (
	"strings"

	"circuit-sketch/internal/element"
	"circuit-sketch/internal/schematic"
)

// Line renders one element. An element whose kind is not registered, or
// whose variant does not match its kind, renders as an empty line.
func Line(e *schematic.Element) string {
	if e == nil || e.Variant == nil {
		return ""
	}
	spec, ok := element.Lookup(e.Kind)
	if !ok || e.Variant.Shape() != spec.Shape {
		return ""
	}

	fields := []string{e.Name, e.Positive, e.Negative}
	switch v := e.Variant.(type) {
	case *schematic.Passive:
		fields = append(fields, e.Value)
	case *schematic.VoltageControl:
		fields = append(fields, v.ControlPositive, v.ControlNegative, e.Value)
	case *schematic.CurrentControl:
		fields = append(fields, v.ControlSource, e.Value)
	case *schematic.OpAmpOutput:
		fields = append(fields, v.Output)
	default:
		return ""
	}
	return strings.Join(fields, " ")
}

// Compile renders elements in order, one line each, joined by newlines
// with no trailing newline.
func Compile(elements []*schematic.Element) string {
	lines := make([]string, len(elements))
	for i, e := range elements {
		lines[i] = Line(e)
	}
	return strings.Join(lines, "\n")
}

// CompileModel compiles every element of m in insertion order.
func CompileModel(m *schematic.Model) string {
	return Compile(m.Elements())
}
