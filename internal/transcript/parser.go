// Package transcript turns the analysis service's free-form output into
// report sections.
package transcript

import (
	"regexp"
	"strings"
)

// Section identifies a part of the report.
type Section int

const (
	NetlistReport Section = iota
	ParsedValues
	Equations
	Solutions
)

func (s Section) String() string {
	switch s {
	case NetlistReport:
		return "netlistReport"
	case ParsedValues:
		return "parsedValues"
	case Equations:
		return "equations"
	case Solutions:
		return "solutions"
	default:
		return "unknown"
	}
}

const (
	valuesMarker    = "Parsed Element Values:"
	equationsPrefix = "[Eq("
	equationsSuffix = ")]"
	equationsSep    = "), Eq("
)

// solutionRe matches a number printed with exactly four decimals.
var solutionRe = regexp.MustCompile(`^-?\d+\.\d{4}\s*$`)

var operatorReplacer = strings.NewReplacer("**", "^", "*", "×")

// Report is a parsed transcript. No section is deduplicated.
type Report struct {
	NetlistReport []string `yaml:"netlistReport"`
	ParsedValues  []string `yaml:"parsedValues"`
	Equations     []string `yaml:"equations"`
	Solutions     []string `yaml:"solutions"`
}

// Parse classifies every line of raw in a single pass. Lines that fit no
// section are dropped; Parse never fails.
func Parse(raw string) Report {
	var r Report
	cursor := NetlistReport

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, valuesMarker):
			cursor = ParsedValues
		case strings.HasPrefix(line, equationsPrefix):
			cursor = Equations
			r.Equations = splitEquations(line)
		case solutionRe.MatchString(trimmed):
			cursor = Solutions
			r.Solutions = append(r.Solutions, trimmed)
		case cursor == ParsedValues && strings.Contains(line, ":"):
			r.ParsedValues = append(r.ParsedValues, trimmed)
		case cursor == NetlistReport && trimmed != "":
			r.NetlistReport = append(r.NetlistReport, trimmed)
		}
	}
	return r
}

// splitEquations unpacks a printed list like [Eq(a), Eq(b)]. Only the first
// prefix and the first suffix are removed.
func splitEquations(line string) []string {
	body := strings.Replace(line, equationsPrefix, "", 1)
	body = strings.Replace(body, equationsSuffix, "", 1)

	parts := strings.Split(body, equationsSep)
	eqs := make([]string, len(parts))
	for i, p := range parts {
		eqs[i] = strings.TrimSpace(operatorReplacer.Replace(p))
	}
	return eqs
}

// Section returns the lines of one section.
func (r Report) Section(s Section) []string {
	switch s {
	case NetlistReport:
		return r.NetlistReport
	case ParsedValues:
		return r.ParsedValues
	case Equations:
		return r.Equations
	case Solutions:
		return r.Solutions
	default:
		return nil
	}
}

// Empty reports whether no line was classified.
func (r Report) Empty() bool {
	return len(r.NetlistReport)+len(r.ParsedValues)+len(r.Equations)+len(r.Solutions) == 0
}
