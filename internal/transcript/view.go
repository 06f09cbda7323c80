package transcript

import (
	"fmt"
	"strings"
)

// DefaultStatisticsLimit is how many netlist report lines the view shows.
const DefaultStatisticsLimit = 15

const solutionLabel = "Nodal voltages and current in order: "

// View is a report prepared for display.
type View struct {
	Statistics []string
	Values     []string
	Equations  []string
	Solutions  []string
}

// View applies the display rules: the first limit netlist lines, every
// value, equations as "<eq> = 0" and labelled solutions. A limit below one
// uses DefaultStatisticsLimit.
func (r Report) View(limit int) View {
	if limit < 1 {
		limit = DefaultStatisticsLimit
	}
	stats := r.NetlistReport
	if len(stats) > limit {
		stats = stats[:limit]
	}

	v := View{
		Statistics: append([]string(nil), stats...),
		Values:     append([]string(nil), r.ParsedValues...),
	}
	for _, eq := range r.Equations {
		v.Equations = append(v.Equations, eq+" = 0")
	}
	for _, s := range r.Solutions {
		v.Solutions = append(v.Solutions, solutionLabel+s)
	}
	return v
}

// String renders the view as plain text with a heading per non-empty block.
func (v View) String() string {
	var b strings.Builder
	block := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s:\n", title)
		for _, l := range lines {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}
	block("Circuit Statistics", v.Statistics)
	block("Parsed Element Values", v.Values)
	block("Equations", v.Equations)
	block("Solutions", v.Solutions)
	return b.String()
}
