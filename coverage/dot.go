package coverage

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// ToDot Renders the table as a Graphviz digraph. Accept states are drawn as double circles; edges are
// labelled with their character, or [low,high] for ranges. Output order is deterministic.
func (t *TransitionTable) ToDot() string {
	var sb strings.Builder
	sb.WriteString("digraph automaton {\n")
	sb.WriteString("\trankdir = LR;\n")

	states := slices.Sorted(slices.Values(t.order))
	for _, state := range states {
		shape := "circle"
		if t.accept.Test(uint(state)) {
			shape = "doublecircle"
		}
		sb.WriteString(fmt.Sprintf("\t%d [shape=%s, label=%d]\n", state, shape, state))
	}

	for _, origin := range states {
		dests := t.byDest[origin]
		for _, dest := range slices.Sorted(maps.Keys(dests)) {
			for _, tr := range dests[dest] {
				label := printable(tr.Min)
				if tr.Min != tr.Max {
					label = fmt.Sprintf("[%s,%s]", printable(tr.Min), printable(tr.Max))
				}
				sb.WriteString(fmt.Sprintf("\t%d -> %d [label=\"%s\"]\n", origin, dest, label))
			}
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func printable(c int) string {
	if r := rune(c); unicode.IsLetter(r) || unicode.IsDigit(r) {
		return string(r)
	}
	return fmt.Sprintf("\\u%04x", c)
}
