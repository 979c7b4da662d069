package coverage

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/geange/regexcov/automaton"
)

var (
	ErrNotDeterministic = errors.New("automaton is not deterministic")
	ErrNoSuchEdge       = errors.New("no such edge")
	ErrStateNotFound    = errors.New("state not found")
)

// TransitionTable A read-only view of the states reachable from the initial state of a deterministic
// automaton, with a sparse origin -> destination -> transitions map, the accept set and a single
// character step function. It is safe for concurrent use once built.
type TransitionTable struct {
	initial int

	// states in breadth first discovery order
	order []int

	// leaving transitions of each state, sorted by Min
	outgoing map[int][]automaton.Transition
	byDest   map[int]map[int][]automaton.Transition

	accept *bitset.BitSet

	// live states plus the initial state, the states node coverage is measured against
	countable *bitset.BitSet
}

// NewTransitionTable Builds the table by a breadth first traversal from state 0. The automaton must be
// deterministic; pass it through automaton.Determinize or automaton.Minimize first. An automaton without
// states yields a table holding a single non accepting initial state.
func NewTransitionTable(a *automaton.Automaton) (*TransitionTable, error) {
	if !a.IsDeterministic() {
		return nil, ErrNotDeterministic
	}

	t := &TransitionTable{
		outgoing:  make(map[int][]automaton.Transition),
		byDest:    make(map[int]map[int][]automaton.Transition),
		accept:    bitset.New(uint(max(a.GetNumStates(), 1))),
		countable: bitset.New(uint(max(a.GetNumStates(), 1))),
	}
	t.countable.Set(uint(t.initial))

	if a.GetNumStates() == 0 {
		t.order = []int{t.initial}
		t.byDest[t.initial] = map[int][]automaton.Transition{}
		return t, nil
	}

	t.countable.InPlaceUnion(automaton.LiveStates(a))

	seen := bitset.New(uint(a.GetNumStates()))
	seen.Set(uint(t.initial))
	queue := []int{t.initial}

	tr := automaton.NewTransition()
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		t.order = append(t.order, state)
		if a.IsAccept(state) {
			t.accept.Set(uint(state))
		}

		count := a.InitTransition(state, tr)
		transitions := make([]automaton.Transition, 0, count)
		dests := make(map[int][]automaton.Transition)
		for i := 0; i < count; i++ {
			a.GetNextTransition(tr)
			transitions = append(transitions, *tr)
			dests[tr.Dest] = append(dests[tr.Dest], *tr)
		}

		slices.SortFunc(transitions, func(x, y automaton.Transition) int {
			return x.Min - y.Min
		})
		for i := 1; i < len(transitions); i++ {
			if transitions[i].Min <= transitions[i-1].Max {
				return nil, fmt.Errorf("%w: overlapping ranges leave state %d", ErrNotDeterministic, state)
			}
		}

		t.outgoing[state] = transitions
		t.byDest[state] = dests

		for _, dest := range slices.Sorted(maps.Keys(dests)) {
			if !seen.Test(uint(dest)) {
				seen.Set(uint(dest))
				queue = append(queue, dest)
			}
		}
	}

	return t, nil
}

func (t *TransitionTable) InitialState() StateID {
	return State(t.initial)
}

// States Returns every state in the table, ascending.
func (t *TransitionTable) States() []StateID {
	states := make([]StateID, 0, len(t.order))
	for _, s := range slices.Sorted(slices.Values(t.order)) {
		states = append(states, State(s))
	}
	return states
}

func (t *TransitionTable) NumStates() int {
	return len(t.order)
}

func (t *TransitionTable) contains(id StateID) (int, bool) {
	n, ok := id.Num()
	if !ok {
		return 0, false
	}
	_, ok = t.byDest[n]
	return n, ok
}

func (t *TransitionTable) IsAccept(id StateID) bool {
	n, ok := t.contains(id)
	return ok && t.accept.Test(uint(n))
}

// Successors Returns the distinct destinations of the transitions leaving id, ascending. Failure has none.
func (t *TransitionTable) Successors(id StateID) []StateID {
	n, ok := t.contains(id)
	if !ok {
		return nil
	}
	successors := make([]StateID, 0, len(t.byDest[n]))
	for _, dest := range slices.Sorted(maps.Keys(t.byDest[n])) {
		successors = append(successors, State(dest))
	}
	return successors
}

// TransitionsBetweenStates Returns the transitions leading from origin to dest, sorted by Min.
func (t *TransitionTable) TransitionsBetweenStates(origin, dest StateID) ([]automaton.Transition, error) {
	from, ok := t.contains(origin)
	to, okTo := dest.Num()
	if !ok || !okTo {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoSuchEdge, origin, dest)
	}
	transitions, ok := t.byDest[from][to]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoSuchEdge, origin, dest)
	}
	return slices.Clone(transitions), nil
}

// Step Returns the unique state reached from state on ch, or Failure when no transition accepts ch.
// Failure always steps to itself. Stepping from a state absent from the table is an error.
func (t *TransitionTable) Step(state StateID, ch rune) (StateID, error) {
	if state.IsFailure() {
		return Failure, nil
	}
	n, ok := t.contains(state)
	if !ok {
		return Failure, fmt.Errorf("%w: %s", ErrStateNotFound, state)
	}
	tr, ok := t.transition(n, ch)
	if !ok {
		return Failure, nil
	}
	return State(tr.Dest), nil
}

// transition finds the transition leaving state that accepts ch.
func (t *TransitionTable) transition(state int, ch rune) (automaton.Transition, bool) {
	transitions := t.outgoing[state]
	i, _ := slices.BinarySearchFunc(transitions, int(ch), func(tr automaton.Transition, label int) int {
		switch {
		case tr.Max < label:
			return -1
		case tr.Min > label:
			return 1
		}
		return 0
	})
	if i < len(transitions) && transitions[i].Accepts(int(ch)) {
		return transitions[i], true
	}
	return automaton.Transition{}, false
}

// CountTotalTransitions Number of transitions leaving table states.
func (t *TransitionTable) CountTotalTransitions() int {
	total := 0
	for _, transitions := range t.outgoing {
		total += len(transitions)
	}
	return total
}

// edgesFrom returns one edge per transition leaving id plus its fail edge. Failure only has its self loop.
func (t *TransitionTable) edgesFrom(id StateID) []Edge {
	n, ok := t.contains(id)
	if !ok {
		return []Edge{FailEdge(id)}
	}
	edges := make([]Edge, 0, len(t.outgoing[n])+1)
	for _, tr := range t.outgoing[n] {
		edges = append(edges, Edge{From: id, To: State(tr.Dest), Min: tr.Min, Max: tr.Max})
	}
	return append(edges, FailEdge(id))
}

// PossibleEdgePairs Enumerates every two hop path a scan can record: for each table state, each of its
// edges (fail edge included) followed by each edge leaving the middle state.
func (t *TransitionTable) PossibleEdgePairs() []EdgePair {
	pairs := make([]EdgePair, 0, t.CountPossibleEdgePairs())
	for _, origin := range t.order {
		for _, left := range t.edgesFrom(State(origin)) {
			for _, right := range t.edgesFrom(left.To) {
				pairs = append(pairs, EdgePair{Left: left, Right: right})
			}
		}
	}
	slices.SortFunc(pairs, EdgePair.Compare)
	return pairs
}

// CountPossibleEdgePairs Returns len(PossibleEdgePairs()) without materializing the pairs.
func (t *TransitionTable) CountPossibleEdgePairs() int {
	total := 0
	for _, origin := range t.order {
		for _, tr := range t.outgoing[origin] {
			total += len(t.outgoing[tr.Dest]) + 1
		}
		// fail edge followed by the self loop
		total++
	}
	return total
}

func (t *TransitionTable) countsForNodeCoverage(id StateID) bool {
	if id.IsFailure() {
		return true
	}
	n, ok := t.contains(id)
	return ok && t.countable.Test(uint(n))
}

// numCountableStates Live states plus the initial state.
func (t *TransitionTable) numCountableStates() int {
	return int(t.countable.Count())
}
