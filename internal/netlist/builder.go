package netlist

import "strings"

// DefaultTitle is the title line used when none is given.
const DefaultTitle = "Circuit Analysis"

// EndMarker terminates a framed netlist.
const EndMarker = ".end"

// Builder assembles a framed netlist: a title line, element lines and a
// trailing .end marker.
type Builder struct {
	title string
	lines []string
}

// NewBuilder starts a netlist with the given title.
func NewBuilder(title string) *Builder {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return &Builder{title: title}
}

// AddResistor appends R<name>.
func (b *Builder) AddResistor(name, pos, neg, value string) *Builder {
	return b.add("R", name, pos, neg, value)
}

// AddCapacitor appends C<name>.
func (b *Builder) AddCapacitor(name, pos, neg, value string) *Builder {
	return b.add("C", name, pos, neg, value)
}

// AddInductor appends L<name>.
func (b *Builder) AddInductor(name, pos, neg, value string) *Builder {
	return b.add("L", name, pos, neg, value)
}

// Source shapes the value field of a voltage source line.
type Source interface {
	sourceSpec(value string) string
}

// DC is a constant source; the line carries the bare value.
type DC struct{}

func (DC) sourceSpec(value string) string { return value }

// AC is a small-signal source: "AC <value> <phase>". Phase defaults to 0.
type AC struct {
	Phase string
}

func (s AC) sourceSpec(value string) string {
	return "AC " + value + " " + orZero(s.Phase)
}

// Pulse is a pulse train:
// "PULSE(<v1> <v2> <delay> <rise> <fall> <width> <period>)".
// Empty fields are 0, except V2 which defaults to the source value.
type Pulse struct {
	V1, V2                           string
	Delay, Rise, Fall, Width, Period string
}

func (s Pulse) sourceSpec(value string) string {
	v2 := s.V2
	if v2 == "" {
		v2 = value
	}
	return "PULSE(" + strings.Join([]string{
		orZero(s.V1), orZero(v2), orZero(s.Delay), orZero(s.Rise),
		orZero(s.Fall), orZero(s.Width), orZero(s.Period),
	}, " ") + ")"
}

func orZero(v string) string {
	if strings.TrimSpace(v) == "" {
		return "0"
	}
	return v
}

// AddVoltageSource appends V<name>. Without src it is a DC source; only
// the first src is used.
func (b *Builder) AddVoltageSource(name, pos, neg, value string, src ...Source) *Builder {
	var shape Source = DC{}
	if len(src) > 0 && src[0] != nil {
		shape = src[0]
	}
	return b.add("V", name, pos, neg, shape.sourceSpec(value))
}

// AddCurrentSource appends I<name>.
func (b *Builder) AddCurrentSource(name, pos, neg, value string) *Builder {
	return b.add("I", name, pos, neg, value)
}

// AddLine appends a raw line, for example the output of Compile. Multi-line
// input is split so every line is kept.
func (b *Builder) AddLine(line string) *Builder {
	b.lines = append(b.lines, strings.Split(line, "\n")...)
	return b
}

func (b *Builder) add(prefix, name, pos, neg, value string) *Builder {
	b.lines = append(b.lines, strings.Join([]string{prefix + name, pos, neg, value}, " "))
	return b
}

// Len returns the number of body lines.
func (b *Builder) Len() int {
	return len(b.lines)
}

func (b *Builder) String() string {
	out := make([]string, 0, len(b.lines)+2)
	out = append(out, b.title)
	out = append(out, b.lines...)
	out = append(out, EndMarker)
	return strings.Join(out, "\n")
}

// Frame wraps a compiled body with a title line and .end marker.
func Frame(title, body string) string {
	b := NewBuilder(title)
	if body != "" {
		b.AddLine(body)
	}
	return b.String()
}
