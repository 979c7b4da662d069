package automaton

import (
	"cmp"
	"slices"
	"unicode"
)

// Automata Construction of basic automata.
type Automata struct {
}

var defaultAutomata = &Automata{}

// Range is an inclusive code point interval.
type Range struct {
	Min, Max int
}

// MakeEmpty
// Returns a new (deterministic) automaton with the empty language.
func (*Automata) MakeEmpty() *Automaton {
	a := NewAutomaton()
	a.FinishState()
	return a
}

// MakeEmptyString
// Returns a new (deterministic) automaton that accepts only the empty string.
func (*Automata) MakeEmptyString() *Automaton {
	a := NewAutomaton()
	a.CreateState()
	a.SetAccept(0, true)
	return a
}

// MakeAnyString
// Returns a new (deterministic) automaton that accepts all strings.
func (*Automata) MakeAnyString() (*Automaton, error) {
	a := NewAutomaton()
	s := a.CreateState()
	a.SetAccept(s, true)
	if err := a.AddTransition(s, s, 0, unicode.MaxRune); err != nil {
		return nil, err
	}
	a.FinishState()
	return a, nil
}

// MakeAnyChar
// Returns a new (deterministic) automaton that accepts any single codepoint.
func (r *Automata) MakeAnyChar() (*Automaton, error) {
	return r.MakeCharRange(0, unicode.MaxRune)
}

// MakeChar
// Returns a new (deterministic) automaton that accepts a single codepoint of the given value.
func (r *Automata) MakeChar(c rune) (*Automaton, error) {
	return r.MakeCharRange(c, c)
}

// MakeCharRange
// Returns a new (deterministic) automaton that accepts a single codepoint whose value is in the given
// interval (including both end points).
func (r *Automata) MakeCharRange(min, max rune) (*Automaton, error) {
	if min > max {
		return r.MakeEmpty(), nil
	}
	a := NewAutomaton()
	s1 := a.CreateState()
	s2 := a.CreateState()
	a.SetAccept(s2, true)
	if err := a.AddTransition(s1, s2, int(min), int(max)); err != nil {
		return nil, err
	}
	a.FinishState()
	return a, nil
}

// MakeCharRanges
// Returns a new (deterministic) automaton that accepts a single codepoint contained in any of the given
// ranges. Overlapping and adjacent ranges are merged.
func (r *Automata) MakeCharRanges(ranges []Range) (*Automaton, error) {
	ranges = NormalizeRanges(ranges)
	if len(ranges) == 0 {
		return r.MakeEmpty(), nil
	}
	a := NewAutomaton()
	s1 := a.CreateState()
	s2 := a.CreateState()
	a.SetAccept(s2, true)
	for _, rg := range ranges {
		if err := a.AddTransition(s1, s2, rg.Min, rg.Max); err != nil {
			return nil, err
		}
	}
	a.FinishState()
	return a, nil
}

// MakeString
// Returns a new (deterministic) automaton that accepts the single given string.
func (*Automata) MakeString(s string) (*Automaton, error) {
	a := NewAutomaton()
	lastState := a.CreateState()
	for _, cp := range s {
		state := a.CreateState()
		if err := a.AddTransitionLabel(lastState, state, int(cp)); err != nil {
			return nil, err
		}
		lastState = state
	}
	a.SetAccept(lastState, true)
	a.FinishState()
	return a, nil
}

// NormalizeRanges sorts ranges and merges overlapping or adjacent ones. Empty ranges are dropped.
func NormalizeRanges(ranges []Range) []Range {
	sorted := make([]Range, 0, len(ranges))
	for _, rg := range ranges {
		if rg.Min <= rg.Max {
			sorted = append(sorted, rg)
		}
	}
	slices.SortFunc(sorted, func(x, y Range) int {
		return cmp.Or(cmp.Compare(x.Min, y.Min), cmp.Compare(x.Max, y.Max))
	})

	merged := sorted[:0]
	for _, rg := range sorted {
		if n := len(merged); n > 0 && rg.Min <= merged[n-1].Max+1 {
			merged[n-1].Max = max(merged[n-1].Max, rg.Max)
			continue
		}
		merged = append(merged, rg)
	}
	return merged
}

// ComplementRanges returns the ranges of [0, unicode.MaxRune] not covered by ranges.
func ComplementRanges(ranges []Range) []Range {
	result := make([]Range, 0)
	next := 0
	for _, rg := range NormalizeRanges(ranges) {
		if rg.Min > next {
			result = append(result, Range{Min: next, Max: rg.Min - 1})
		}
		next = rg.Max + 1
	}
	if next <= unicode.MaxRune {
		result = append(result, Range{Min: next, Max: unicode.MaxRune})
	}
	return result
}
