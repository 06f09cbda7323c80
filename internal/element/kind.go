// Package element defines the closed set of circuit element kinds and the
// registry that drives netlist grammar, value units, and schematic symbols.
package element

import (
	"fmt"
	"strings"
)

// Kind identifies a circuit element type.
type Kind int

const (
	Resistor Kind = iota
	Inductor
	Capacitor
	VoltageSource
	CurrentSource
	VCVS // voltage-controlled voltage source
	VCCS // voltage-controlled current source
	CCVS // current-controlled voltage source
	CCCS // current-controlled current source
	OpAmp
)

func (k Kind) String() string {
	if spec, ok := Lookup(k); ok {
		return spec.DisplayName
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Shape selects the optional fields an element carries and the netlist
// line it compiles to.
type Shape int

const (
	ShapePassive           Shape = iota // name p n value
	ShapeVoltageControlled              // name p n cp cn value
	ShapeCurrentControlled              // name p n vname value
	ShapeOpAmp                          // name p n out
)

func (s Shape) String() string {
	switch s {
	case ShapePassive:
		return "Passive"
	case ShapeVoltageControlled:
		return "VoltageControlled"
	case ShapeCurrentControlled:
		return "CurrentControlled"
	case ShapeOpAmp:
		return "OpAmp"
	default:
		return "Unknown"
	}
}

// ParseKind resolves a kind from its netlist prefix ("R", "e"), display
// name ("Voltage Source") or abbreviation ("VCVS"). Matching ignores case.
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, spec := range registry {
		if strings.EqualFold(s, spec.Prefix) ||
			strings.EqualFold(s, spec.DisplayName) ||
			strings.EqualFold(s, spec.Abbrev) {
			return spec.Kind, true
		}
	}
	return 0, false
}
