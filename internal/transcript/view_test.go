package transcript

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewDecorates(t *testing.T) {
	r := Report{
		NetlistReport: []string{"Netlist OK"},
		ParsedValues:  []string{"R1: 100"},
		Equations:     []string{"V1 - 2×V2", "V2^2 + 1"},
		Solutions:     []string{"1.2340"},
	}
	v := r.View(0)

	assert.Equal(t, []string{"Netlist OK"}, v.Statistics)
	assert.Equal(t, []string{"R1: 100"}, v.Values)
	assert.Equal(t, []string{"V1 - 2×V2 = 0", "V2^2 + 1 = 0"}, v.Equations)
	assert.Equal(t, []string{"Nodal voltages and current in order: 1.2340"}, v.Solutions)
}

func TestViewLimitsStatistics(t *testing.T) {
	var lines []string
	for i := 1; i <= 20; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	r := Parse(strings.Join(lines, "\n"))
	assert.Len(t, r.NetlistReport, 20)

	v := r.View(DefaultStatisticsLimit)
	assert.Len(t, v.Statistics, 15)
	assert.Equal(t, "line 15", v.Statistics[14])

	assert.Len(t, r.View(3).Statistics, 3)
	assert.Len(t, r.View(-1).Statistics, 15)
}

func TestViewDoesNotAliasReport(t *testing.T) {
	r := Report{NetlistReport: []string{"a"}}
	v := r.View(0)
	v.Statistics[0] = "changed"

	assert.Equal(t, "a", r.NetlistReport[0])
}

func TestViewString(t *testing.T) {
	v := Report{
		NetlistReport: []string{"ok"},
		Solutions:     []string{"1.0000"},
	}.View(0)

	want := "Circuit Statistics:\n  ok\n\nSolutions:\n  Nodal voltages and current in order: 1.0000\n"
	assert.Equal(t, want, v.String())
	assert.Equal(t, "", View{}.String())
}
