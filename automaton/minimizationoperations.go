package automaton

import (
	"maps"
	"slices"
)

// Minimize
// Minimizes (and determinizes if not already deterministic) the given automaton using Brzozowski's
// algorithm: determinize(reverse(determinize(reverse(a)))). Each determinization starts from the old
// accept states, not from the synthetic initial state of the reversal. The result is the minimal deterministic automaton
// without dead states. The input automaton is never modified.
func Minimize(a *Automaton, determinizeWorkLimit int) (*Automaton, error) {
	if a.GetNumStates() == 0 || (!a.IsAccept(0) && a.GetNumTransitionsWithState(0) == 0) {
		// Fastmatch for common case
		return NewAutomaton(), nil
	}

	d, err := reverseDeterminize(a, determinizeWorkLimit)
	if err != nil {
		return nil, err
	}
	return reverseDeterminize(d, determinizeWorkLimit)
}

func reverseDeterminize(a *Automaton, determinizeWorkLimit int) (*Automaton, error) {
	initialStates := make(map[int]struct{})
	r, err := reverse(a, initialStates)
	if err != nil {
		return nil, err
	}
	return determinizeFrom(r, slices.Sorted(maps.Keys(initialStates)), determinizeWorkLimit)
}
