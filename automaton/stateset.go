package automaton

import "slices"

var _ IntSet = &StateSet{}

// StateSet A thin wrapper of a state -> reference count map, used while sweeping transition boundaries to
// track which NFA states are reachable on the current label interval.
type StateSet struct {
	inner       map[int]int
	hashUpdated bool
	hashCode    uint64
}

func NewStateSet() *StateSet {
	return &StateSet{
		inner: make(map[int]int),
	}
}

func (s *StateSet) Hash() uint64 {
	if s.hashUpdated {
		return s.hashCode
	}
	s.hashCode = hashInts(s.GetArray())
	s.hashUpdated = true
	return s.hashCode
}

func (s *StateSet) Equals(other Hashable) bool {
	iset, ok := other.(IntSet)
	if !ok {
		return false
	}
	if o, ok := iset.(*FrozenIntSet); ok && o == nil {
		return false
	}
	if o, ok := iset.(*StateSet); ok && o == nil {
		return false
	}
	return s.Hash() == iset.Hash() && slices.Equal(s.GetArray(), iset.GetArray())
}

func (s *StateSet) GetArray() []int {
	keys := make([]int, 0, len(s.inner))
	for k := range s.inner {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *StateSet) Size() int {
	return len(s.inner)
}

func (s *StateSet) keyChanged() {
	s.hashUpdated = false
}

// Incr Increments the reference count of state, adding it when absent.
func (s *StateSet) Incr(state int) {
	s.inner[state]++
	if s.inner[state] == 1 {
		s.keyChanged()
	}
}

// Decr Decrements the reference count of state, removing it when the count reaches zero.
func (s *StateSet) Decr(state int) {
	count, ok := s.inner[state]
	if !ok {
		return
	}
	if count == 1 {
		delete(s.inner, state)
		s.keyChanged()
	} else {
		s.inner[state]--
	}
}

// Freeze Create a snapshot of this int set associated with a given state.
func (s *StateSet) Freeze(state int) *FrozenIntSet {
	return NewFrozenIntSet(s.GetArray(), state)
}
