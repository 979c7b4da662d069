package automaton

import (
	"cmp"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// Builder Records new states and transitions and then Finish creates the Automaton. Use this when you
// cannot create the automaton directly because it's too restrictive to have to add all transitions
// leaving each state at once.
type Builder struct {
	nextState int
	isAccept  *bitset.BitSet

	// src, dest, min, max for each transition.
	transitions []builderTransition
}

type builderTransition struct {
	source, dest, min, max int
}

func NewBuilder() *Builder {
	return NewBuilderV1(16, 16)
}

func NewBuilderV1(numStates, numTransitions int) *Builder {
	return &Builder{
		isAccept:    bitset.New(uint(numStates)),
		transitions: make([]builderTransition, 0, numTransitions),
	}
}

// AddTransitionLabel Add a new transition with min = max = label.
func (r *Builder) AddTransitionLabel(source, dest, label int) {
	r.AddTransition(source, dest, label, label)
}

// AddTransition Add a new transition with the specified source, dest, min, max.
func (r *Builder) AddTransition(source, dest, min, max int) {
	r.transitions = append(r.transitions, builderTransition{source: source, dest: dest, min: min, max: max})
}

// AddEpsilon Add a [virtual] epsilon transition between source and dest. Dest state must already have all
// transitions added because this method simply copies those same transitions over to source.
func (r *Builder) AddEpsilon(source, dest int) {
	upto := len(r.transitions)
	for i := 0; i < upto; i++ {
		if t := r.transitions[i]; t.source == dest {
			r.AddTransition(source, t.dest, t.min, t.max)
		}
	}
	if r.IsAccept(dest) {
		r.SetAccept(source, true)
	}
}

// Finish Compiles all added states and transitions into a new Automaton and returns it.
func (r *Builder) Finish() (*Automaton, error) {
	a := NewAutomatonV1(r.nextState, len(r.transitions))
	for state := 0; state < r.nextState; state++ {
		a.CreateState()
		a.SetAccept(state, r.IsAccept(state))
	}

	slices.SortFunc(r.transitions, func(x, y builderTransition) int {
		return cmp.Or(
			cmp.Compare(x.source, y.source),
			cmp.Compare(x.min, y.min),
			cmp.Compare(x.max, y.max),
			cmp.Compare(x.dest, y.dest),
		)
	})

	for _, t := range r.transitions {
		if err := a.AddTransition(t.source, t.dest, t.min, t.max); err != nil {
			return nil, err
		}
	}
	a.FinishState()
	return a, nil
}

// CreateState Create a new state.
func (r *Builder) CreateState() int {
	state := r.nextState
	r.nextState++
	return state
}

// SetAccept Set or clear this state as an accept state.
func (r *Builder) SetAccept(state int, accept bool) {
	r.isAccept.SetTo(uint(state), accept)
}

// IsAccept Returns true if this state is an accept state.
func (r *Builder) IsAccept(state int) bool {
	return r.isAccept.Test(uint(state))
}

// GetNumStates How many states this automaton has.
func (r *Builder) GetNumStates() int {
	return r.nextState
}

// Copy Copies over all states/transitions from other.
func (r *Builder) Copy(other *Automaton) {
	offset := r.GetNumStates()
	numStates := other.GetNumStates()

	t := NewTransition()
	for s := 0; s < numStates; s++ {
		newState := r.CreateState()
		r.SetAccept(newState, other.IsAccept(s))

		count := other.InitTransition(s, t)
		for i := 0; i < count; i++ {
			other.GetNextTransition(t)
			r.AddTransition(newState, t.Dest+offset, t.Min, t.Max)
		}
	}
}
