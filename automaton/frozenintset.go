package automaton

import "slices"

// IntSet A set of state numbers usable as a HashMap key during subset construction.
type IntSet interface {
	Hashable

	// GetArray returns the members in ascending order.
	GetArray() []int

	Size() int
}

var _ IntSet = &FrozenIntSet{}

// FrozenIntSet An immutable IntSet, tagged with the determinized state it stands for.
type FrozenIntSet struct {
	values   []int
	state    int
	hashCode uint64
}

// NewFrozenIntSet values must be sorted ascending and free of duplicates.
func NewFrozenIntSet(values []int, state int) *FrozenIntSet {
	return &FrozenIntSet{values: values, state: state, hashCode: hashInts(values)}
}

func (f *FrozenIntSet) Hash() uint64 {
	return f.hashCode
}

func (f *FrozenIntSet) Equals(other Hashable) bool {
	if f == nil {
		switch o := other.(type) {
		case *FrozenIntSet:
			return o == nil
		case *StateSet:
			return o == nil
		default:
			return false
		}
	}

	iset, ok := other.(IntSet)
	if !ok || iset == nil {
		return false
	}
	if o, ok := iset.(*FrozenIntSet); ok && o == nil {
		return false
	}
	if o, ok := iset.(*StateSet); ok && o == nil {
		return false
	}
	return iset.Hash() == f.hashCode && slices.Equal(f.values, iset.GetArray())
}

func (f *FrozenIntSet) GetArray() []int {
	return f.values
}

func (f *FrozenIntSet) Size() int {
	return len(f.values)
}

// State returns the determinized state this set was frozen for.
func (f *FrozenIntSet) State() int {
	return f.state
}

func hashInts(values []int) uint64 {
	h := uint64(len(values))
	for _, v := range values {
		h += uint64(mix(v))
	}
	return h
}
