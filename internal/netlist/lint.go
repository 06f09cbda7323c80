package netlist

import (
	"fmt"
	"strings"
)

// tokenCounts is the number of whitespace-separated fields the solver
// expects per line, keyed by the upper-cased first letter.
var tokenCounts = map[byte]int{
	'R': 4, 'L': 4, 'C': 4, 'V': 4, 'I': 4, 'O': 4,
	'E': 6, 'G': 6,
	'F': 5, 'H': 5,
	'K': 4, // coupled inductors
}

// Issue is a formatting problem found by Lint. Issues are advisory; the
// service may still accept the netlist.
type Issue struct {
	Line int // 1-based
	Text string
	Want int // expected token count, 0 for an unknown prefix
	Got  int
}

func (i Issue) String() string {
	if i.Want == 0 {
		return fmt.Sprintf("line %d: unknown element type %q", i.Line, i.Text)
	}
	return fmt.Sprintf("line %d: %q has %d fields, want %d", i.Line, i.Text, i.Got, i.Want)
}

// Lint checks each element line for the field count its type needs.
// Blank lines and lines starting with '*', ';' or '.' are skipped. When the
// text ends with .end the first line is taken as the title.
func Lint(text string) []Issue {
	lines := strings.Split(text, "\n")
	framed := isFramed(lines)

	var issues []Issue
	for i, raw := range lines {
		if framed && i == 0 {
			continue
		}
		line := strings.TrimSpace(raw)
		if line == "" || strings.ContainsRune("*;.", rune(line[0])) {
			continue
		}

		fields := fieldsOf(line)
		want, ok := wantFields(fields)
		switch {
		case !ok:
			issues = append(issues, Issue{Line: i + 1, Text: line, Got: len(fields)})
		case len(fields) != want:
			issues = append(issues, Issue{Line: i + 1, Text: line, Want: want, Got: len(fields)})
		}
	}
	return issues
}

// wantFields returns the field count for an element line. Independent
// sources may carry a DC or AC keyword before the value.
func wantFields(fields []string) (int, bool) {
	letter := upper(fields[0][0])
	want, ok := tokenCounts[letter]
	if !ok || (letter != 'V' && letter != 'I') || len(fields) < 4 {
		return want, ok
	}
	switch strings.ToUpper(fields[3]) {
	case "DC":
		return 5, true
	case "AC":
		return 6, true
	}
	return want, true
}

// fieldsOf splits a line on whitespace, keeping a parenthesised group such
// as PULSE(0 5 0 0 0 0 0) in one field.
func fieldsOf(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		depth  int
	)
	for _, r := range line {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && (r == ' ' || r == '\t'):
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}

func isFramed(lines []string) bool {
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return i > 0 && strings.EqualFold(s, EndMarker)
		}
	}
	return false
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
