package coverage

import (
	"cmp"
	"strconv"
)

// StateID Identifies a state of a transition table: either a real automaton state or the synthetic
// Failure state every deterministic automaton implicitly has. The zero value is State(0).
type StateID struct {
	num     int
	failure bool
}

// Failure The single reject state reached when no transition accepts a character. It is never part of
// the automaton's own state set.
var Failure = StateID{num: -1, failure: true}

// State Returns the id of automaton state n.
func State(n int) StateID {
	return StateID{num: n}
}

func (s StateID) IsFailure() bool {
	return s.failure
}

// Num Returns the automaton state number; ok is false for Failure.
func (s StateID) Num() (n int, ok bool) {
	if s.failure {
		return 0, false
	}
	return s.num, true
}

func (s StateID) String() string {
	if s.failure {
		return "F"
	}
	return strconv.Itoa(s.num)
}

// Compare Orders Failure before every real state, real states by number.
func (s StateID) Compare(other StateID) int {
	switch {
	case s.failure && other.failure:
		return 0
	case s.failure:
		return -1
	case other.failure:
		return 1
	}
	return cmp.Compare(s.num, other.num)
}
