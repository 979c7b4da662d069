package automaton

import (
	"cmp"
	"fmt"
	"slices"
	"unicode"

	"github.com/bits-and-blooms/bitset"
)

// Automaton Represents an automaton and all its states and transitions. States are integers and must be
// created using CreateState. Mark a state as an accept state using SetAccept. Add transitions using
// AddTransition. Each state must have all of its transitions added at once; if this is too restrictive
// then use Builder instead. State 0 is always the initial state. Once a state is finished,
// either because you've starting adding transitions to another state or you call FinishState, then that
// states transitions are sorted (first by min, then max, then dest) and reduced (transitions with adjacent
// labels going to the same dest are combined).
type Automaton struct {
	// Current state we are adding transitions to; the caller must add all transitions for this state
	// before moving onto another state.
	curState int

	// Index in the transitions array, where this states leaving transitions are stored, or -1
	// if this state has not added any transitions yet, followed by number of transitions.
	states []int

	isAccept *bitset.BitSet

	// Holds toState, min, max for each transition.
	transitions []int

	// True if no state has two transitions leaving with the same label.
	deterministic bool
}

func NewAutomaton() *Automaton {
	return NewAutomatonV1(2, 2)
}

func NewAutomatonV1(numStates, numTransitions int) *Automaton {
	return &Automaton{
		curState:      -1,
		deterministic: true,
		states:        make([]int, 0, numStates*2),
		isAccept:      bitset.New(uint(numStates)),
		transitions:   make([]int, 0, numTransitions*3),
	}
}

// CreateState Create a new state.
func (a *Automaton) CreateState() int {
	state := len(a.states) / 2
	a.states = append(a.states, -1, 0)
	return state
}

// SetAccept Set or clear this state as an accept state.
func (a *Automaton) SetAccept(state int, accept bool) {
	a.isAccept.SetTo(uint(state), accept)
}

// Returns accept states. If the bit is set then that state is an accept state.
func (a *Automaton) getAcceptStates() *bitset.BitSet {
	return a.isAccept
}

// IsAccept Returns true if this state is an accept state.
func (a *Automaton) IsAccept(state int) bool {
	return a.isAccept.Test(uint(state))
}

// AddTransitionLabel Add a new transition with min = max = label.
func (a *Automaton) AddTransitionLabel(source, dest, label int) error {
	return a.AddTransition(source, dest, label, label)
}

// AddTransition Add a new transition with the specified source, dest, min, max.
func (a *Automaton) AddTransition(source, dest, min, max int) error {
	numStates := a.GetNumStates()
	if source < 0 || source >= numStates {
		return fmt.Errorf("source=%d is out of bounds (numStates=%d)", source, numStates)
	}
	if dest < 0 || dest >= numStates {
		return fmt.Errorf("dest=%d is out of bounds (numStates=%d)", dest, numStates)
	}
	if min > max {
		return fmt.Errorf("min=%d is greater than max=%d", min, max)
	}

	if a.curState != source {
		if a.curState != -1 {
			a.finishCurrentState()
		}

		// Move to next source:
		a.curState = source
		if a.states[2*source] != -1 {
			return fmt.Errorf("from state (%d) already had transitions added", source)
		}
		a.states[2*source] = len(a.transitions)
	}

	a.transitions = append(a.transitions, dest, min, max)

	// Increment transition count for this state
	a.states[2*source+1]++
	return nil
}

// AddEpsilon Add a [virtual] epsilon transition between source and dest. Dest state must already have all
// transitions added because this method simply copies those same transitions over to source.
func (a *Automaton) AddEpsilon(source, dest int) error {
	t := Transition{}
	count := a.InitTransition(dest, &t)

	for i := 0; i < count; i++ {
		a.GetNextTransition(&t)
		if err := a.AddTransition(source, t.Dest, t.Min, t.Max); err != nil {
			return err
		}
	}

	if a.IsAccept(dest) {
		a.SetAccept(source, true)
	}
	return nil
}

// Copy Copies over all states/transitions from other. The states numbers are sequentially assigned (appended).
func (a *Automaton) Copy(other *Automaton) {
	a.FinishState()

	// Bulk copy and then fixup the state pointers:
	stateOffset := a.GetNumStates()
	transitionOffset := len(a.transitions)
	nextState := len(a.states)

	a.states = append(a.states, other.states...)
	for i := nextState; i < len(a.states); i += 2 {
		if a.states[i] != -1 {
			a.states[i] += transitionOffset
		}
	}

	otherNumStates := uint(other.GetNumStates())
	for state, ok := other.isAccept.NextSet(0); ok && state < otherNumStates; state, ok = other.isAccept.NextSet(state + 1) {
		a.SetAccept(stateOffset+int(state), true)
	}

	// Bulk copy and then fixup dest for each transition:
	a.transitions = append(a.transitions, other.transitions...)
	for i := transitionOffset; i < len(a.transitions); i += 3 {
		a.transitions[i] += stateOffset
	}

	if !other.deterministic {
		a.deterministic = false
	}
}

type label struct {
	dest, min, max int
}

// Freezes the last state, sorting and reducing the transitions. The transitions of the current state are always
// the tail of the transitions array.
func (a *Automaton) finishCurrentState() {
	numTransitions := a.states[2*a.curState+1]
	offset := a.states[2*a.curState]

	labels := make([]label, numTransitions)
	for i := range labels {
		labels[i] = label{
			dest: a.transitions[offset+3*i],
			min:  a.transitions[offset+3*i+1],
			max:  a.transitions[offset+3*i+2],
		}
	}

	// Sorts transitions by dest, ascending, then min label ascending, then max label ascending
	slices.SortFunc(labels, func(x, y label) int {
		return cmp.Or(cmp.Compare(x.dest, y.dest), cmp.Compare(x.min, y.min), cmp.Compare(x.max, y.max))
	})

	// Reduce any "adjacent" transitions:
	reduced := labels[:0]
	for _, l := range labels {
		if n := len(reduced); n > 0 && reduced[n-1].dest == l.dest && l.min <= reduced[n-1].max+1 {
			if l.max > reduced[n-1].max {
				reduced[n-1].max = l.max
			}
			continue
		}
		reduced = append(reduced, l)
	}

	// Sort transitions by min/max/dest:
	slices.SortFunc(reduced, func(x, y label) int {
		return cmp.Or(cmp.Compare(x.min, y.min), cmp.Compare(x.max, y.max), cmp.Compare(x.dest, y.dest))
	})

	a.transitions = a.transitions[:offset]
	for _, l := range reduced {
		a.transitions = append(a.transitions, l.dest, l.min, l.max)
	}
	a.states[2*a.curState+1] = len(reduced)

	if a.deterministic && len(reduced) > 1 {
		lastMax := reduced[0].max
		for _, l := range reduced[1:] {
			if l.min <= lastMax {
				a.deterministic = false
				break
			}
			lastMax = l.max
		}
	}
}

// IsDeterministic Returns true if this automaton is deterministic (for ever state there is only one
// transition for each label).
func (a *Automaton) IsDeterministic() bool {
	return a.deterministic
}

// FinishState
// Finishes the current state; call this once you are done adding transitions for a state.
// This is automatically called if you start adding transitions to a new source state,
// but for the last state you add you need to this method yourself.
func (a *Automaton) FinishState() {
	if a.curState != -1 {
		a.finishCurrentState()
		a.curState = -1
	}
}

// GetNumStates How many states this automaton has.
func (a *Automaton) GetNumStates() int {
	return len(a.states) / 2
}

// GetNumTransitions How many transitions this automaton has.
func (a *Automaton) GetNumTransitions() int {
	return len(a.transitions) / 3
}

// GetNumTransitionsWithState How many transitions this state has.
func (a *Automaton) GetNumTransitionsWithState(state int) int {
	return a.states[2*state+1]
}

// InitTransition Initialize the provided Transition to iterate through all transitions leaving the specified
// state. You must call GetNextTransition to get each transition. Returns the number of transitions leaving
// this state.
func (a *Automaton) InitTransition(state int, t *Transition) int {
	t.Source = state
	t.TransitionUpto = a.states[2*state]
	return a.GetNumTransitionsWithState(state)
}

// GetNextTransition Iterate to the next transition after the provided one
func (a *Automaton) GetNextTransition(t *Transition) {
	t.Dest = a.transitions[t.TransitionUpto]
	t.Min = a.transitions[t.TransitionUpto+1]
	t.Max = a.transitions[t.TransitionUpto+2]
	t.TransitionUpto += 3
}

// GetTransition Fill the provided Transition with the index'th transition leaving the specified state.
func (a *Automaton) GetTransition(state, index int, t *Transition) {
	i := a.states[2*state] + 3*index
	t.Source = state
	t.Dest = a.transitions[i]
	t.Min = a.transitions[i+1]
	t.Max = a.transitions[i+2]
}

// GetStartPoints Returns sorted array of all interval start points.
func (a *Automaton) GetStartPoints() []int {
	pointset := map[int]struct{}{0: {}}

	for s := 0; s < len(a.states); s += 2 {
		trans := a.states[s]
		limit := trans + 3*a.states[s+1]
		for ; trans < limit; trans += 3 {
			pointset[a.transitions[trans+1]] = struct{}{}
			if maxTrans := a.transitions[trans+2]; maxTrans < unicode.MaxRune {
				pointset[maxTrans+1] = struct{}{}
			}
		}
	}

	points := make([]int, 0, len(pointset))
	for k := range pointset {
		points = append(points, k)
	}
	slices.Sort(points)
	return points
}

// Step Performs lookup in transitions, assuming determinism.
// Returns the destination state, -1 if no matching outgoing transition.
func (a *Automaton) Step(state, label int) int {
	return a.next(state, 0, label, nil)
}

// Next
// Looks for the next transition that matches the provided label, assuming determinism.
// It keeps the latest reached transition index in transition.TransitionUpto so the next call to this method
// can continue from there instead of restarting from the first transition.
//
// Returns the destination state; or -1 if no matching outgoing transition.
func (a *Automaton) Next(transition *Transition, label int) int {
	return a.next(transition.Source, transition.TransitionUpto, label, transition)
}

func (a *Automaton) next(state, fromTransitionIndex, label int, transition *Transition) int {
	firstTransitionIndex := a.states[2*state]
	numTransitions := a.states[2*state+1]

	// Since transitions are sorted,
	// binary search the transition for which label is within [minLabel, maxLabel].
	low := max(fromTransitionIndex, 0)
	high := numTransitions - 1

	for low <= high {
		mid := (low + high) >> 1
		transitionIndex := firstTransitionIndex + 3*mid
		minLabel := a.transitions[transitionIndex+1]
		if minLabel > label {
			high = mid - 1
			continue
		}
		maxLabel := a.transitions[transitionIndex+2]
		if maxLabel < label {
			low = mid + 1
			continue
		}
		destState := a.transitions[transitionIndex]
		if transition != nil {
			transition.Dest = destState
			transition.Min = minLabel
			transition.Max = maxLabel
			transition.TransitionUpto = mid
		}
		return destState
	}

	if transition != nil {
		transition.Dest = -1
		transition.TransitionUpto = low
	}
	return -1
}

func (a *Automaton) String() string {
	return fmt.Sprintf("Automaton{states=%d, transitions=%d, deterministic=%t}",
		a.GetNumStates(), a.GetNumTransitions(), a.deterministic)
}
