package element

import (
	"math"

	"circuit-sketch/pkg/geometry"
)

// Spec is the single table entry for a kind. Compiler, value dialog and
// canvas all read from it, so adding a kind means adding one entry here.
type Spec struct {
	Kind        Kind
	Prefix      string // netlist name prefix
	DisplayName string
	Abbrev      string
	Shape       Shape
	Units       []string // value dialog choices, first is the default
	Symbol      []Stroke // drawn inside the element bounds
}

// DefaultUnit returns the unit preselected for a new element.
func (s Spec) DefaultUnit() string {
	if len(s.Units) == 0 {
		return ""
	}
	return s.Units[0]
}

// HasValue reports whether elements of this kind carry a value field.
func (s Spec) HasValue() bool {
	return s.Shape != ShapeOpAmp
}

// Stroke is one piece of a symbol in unit coordinates, where (0,0) is the
// top-left and (1,1) the bottom-right of the element bounds. Exactly one of
// Polyline or Arc is set.
type Stroke struct {
	Polyline []geometry.Point2D
	Arc      *Arc
}

// Arc is a circular arc. Radius is a fraction of the element height so arcs
// stay round when the bounds are not square. Angles are in radians with y
// pointing down.
type Arc struct {
	Center   geometry.Point2D
	Radius   float64
	From, To float64
}

var registry = [...]Spec{
	Resistor: {
		Kind: Resistor, Prefix: "R", DisplayName: "Resistor", Abbrev: "RES",
		Shape:  ShapePassive,
		Units:  []string{"Ω", "kΩ", "MΩ"},
		Symbol: []Stroke{line(0, 0.5, 0.2, 0, 0.4, 1, 0.6, 0, 0.8, 1, 1, 0, 1, 0.5)},
	},
	Inductor: {
		Kind: Inductor, Prefix: "L", DisplayName: "Inductor", Abbrev: "IND",
		Shape: ShapePassive,
		Units: []string{"µH", "mH", "H"},
		Symbol: []Stroke{
			hump(0.125), hump(0.375), hump(0.625), hump(0.875),
		},
	},
	Capacitor: {
		Kind: Capacitor, Prefix: "C", DisplayName: "Capacitor", Abbrev: "CAP",
		Shape: ShapePassive,
		Units: []string{"pF", "nF", "µF", "mF"},
		Symbol: []Stroke{
			line(0, 0.5, 2.0/3, 0.5),
			line(2.0/3, 0, 2.0/3, 1),
			line(5.0/6, 0, 5.0/6, 1),
			line(5.0/6, 0.5, 1, 0.5),
		},
	},
	VoltageSource: {
		Kind: VoltageSource, Prefix: "V", DisplayName: "Voltage Source", Abbrev: "VSRC",
		Shape: ShapePassive,
		Units: []string{"V"},
		Symbol: []Stroke{
			line(0, 0.5, 0.4, 0.5),
			line(0.4, 0, 0.4, 1),
			line(0.6, 0.25, 0.6, 0.75),
			line(0.6, 0.5, 1, 0.5),
		},
	},
	CurrentSource: {
		Kind: CurrentSource, Prefix: "I", DisplayName: "Current Source", Abbrev: "ISRC",
		Shape: ShapePassive,
		Units: []string{"A", "mA"},
		Symbol: []Stroke{
			line(0, 0.5, 0.32, 0.5),
			circle(0.5, 0.5, 0.45),
			line(0.68, 0.5, 1, 0.5),
			line(0.42, 0.5, 0.58, 0.5),
			line(0.53, 0.3, 0.58, 0.5, 0.53, 0.7),
		},
	},
	VCVS: {
		Kind: VCVS, Prefix: "E", DisplayName: "VCVS", Abbrev: "VCVS",
		Shape:  ShapeVoltageControlled,
		Units:  []string{"V/V"},
		Symbol: diamond(line(0.45, 0.5, 0.55, 0.5), line(0.5, 0.35, 0.5, 0.65)),
	},
	VCCS: {
		Kind: VCCS, Prefix: "G", DisplayName: "VCCS", Abbrev: "VCCS",
		Shape:  ShapeVoltageControlled,
		Units:  []string{"A/V"},
		Symbol: diamond(line(0.42, 0.5, 0.58, 0.5), line(0.53, 0.35, 0.58, 0.5, 0.53, 0.65)),
	},
	CCVS: {
		Kind: CCVS, Prefix: "H", DisplayName: "CCVS", Abbrev: "CCVS",
		Shape:  ShapeCurrentControlled,
		Units:  []string{"V/A"},
		Symbol: diamond(line(0.45, 0.5, 0.55, 0.5), line(0.5, 0.35, 0.5, 0.65)),
	},
	CCCS: {
		Kind: CCCS, Prefix: "F", DisplayName: "CCCS", Abbrev: "CCCS",
		Shape:  ShapeCurrentControlled,
		Units:  []string{"A/A"},
		Symbol: diamond(line(0.42, 0.5, 0.58, 0.5), line(0.53, 0.35, 0.58, 0.5, 0.53, 0.65)),
	},
	OpAmp: {
		Kind: OpAmp, Prefix: "O", DisplayName: "Op Amp", Abbrev: "OPAMP",
		Shape: ShapeOpAmp,
		Symbol: []Stroke{
			line(0.2, 0, 0.2, 1, 0.8, 0.5, 0.2, 0),
			line(0, 0.25, 0.2, 0.25),
			line(0, 0.75, 0.2, 0.75),
			line(0.8, 0.5, 1, 0.5),
		},
	},
}

// Lookup returns the registry entry for a kind.
func Lookup(k Kind) (Spec, bool) {
	if k < 0 || int(k) >= len(registry) {
		return Spec{}, false
	}
	return registry[k], true
}

// All returns every registered kind in declaration order.
func All() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry[:])
	return out
}

func line(coords ...float64) Stroke {
	pts := make([]geometry.Point2D, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, geometry.NewPoint2D(coords[i], coords[i+1]))
	}
	return Stroke{Polyline: pts}
}

// hump is one upper half-circle of an inductor coil.
func hump(cx float64) Stroke {
	return Stroke{Arc: &Arc{Center: geometry.NewPoint2D(cx, 0.5), Radius: 0.3, From: math.Pi, To: 2 * math.Pi}}
}

func circle(cx, cy, r float64) Stroke {
	return Stroke{Arc: &Arc{Center: geometry.NewPoint2D(cx, cy), Radius: r, From: 0, To: 2 * math.Pi}}
}

// diamond is the dependent-source outline with leads, plus an inner mark.
func diamond(marks ...Stroke) []Stroke {
	strokes := []Stroke{
		line(0, 0.5, 0.32, 0.5),
		line(0.32, 0.5, 0.5, 0, 0.68, 0.5, 0.5, 1, 0.32, 0.5),
		line(0.68, 0.5, 1, 0.5),
	}
	return append(strokes, marks...)
}
