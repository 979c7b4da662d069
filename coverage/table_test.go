package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geange/regexcov/automaton"
)

func TestNewTransitionTable(t *testing.T) {
	a := compile(t, `\D.+`)
	table, err := NewTransitionTable(a)
	require.NoError(t, err)

	assert.Equal(t, a.GetNumStates(), table.NumStates())
	assert.Equal(t, a.GetNumTransitions(), table.CountTotalTransitions())
	assert.Equal(t, State(0), table.InitialState())
	assert.Len(t, table.States(), a.GetNumStates())
	assert.Equal(t, table.CountPossibleEdgePairs(), len(table.PossibleEdgePairs()))

	for _, s := range table.States() {
		n, ok := s.Num()
		require.True(t, ok)
		assert.Equal(t, a.IsAccept(n), table.IsAccept(s))
	}
	assert.False(t, table.IsAccept(Failure))
}

func TestNewTransitionTable_LoopToInitial(t *testing.T) {
	for _, tt := range []struct {
		pattern     string
		states      int
		transitions int
	}{
		{"a*", 1, 1},
		{"(ab)*", 2, 2},
		{"[a-z0-9]*A", 2, 3},
	} {
		table, err := NewTransitionTable(compile(t, tt.pattern))
		require.NoError(t, err)
		assert.Equal(t, tt.states, table.NumStates(), tt.pattern)
		assert.Equal(t, tt.transitions, table.CountTotalTransitions(), tt.pattern)
	}

	_, c := newCoverage(t, "a*")
	evaluateAll(c, "", "aaa", "bb")
	// the a loop, the fail edge of state 0 and the failure self loop
	assert.Equal(t, 1.0, c.FullMatchSummary().EdgeCoverage)
	assert.Equal(t, 1.0, c.FullMatchSummary().NodeCoverage)
}

func TestNewTransitionTable_NotDeterministic(t *testing.T) {
	a := automaton.NewAutomaton()
	s0 := a.CreateState()
	s1 := a.CreateState()
	s2 := a.CreateState()
	a.SetAccept(s2, true)
	require.NoError(t, a.AddTransition(s0, s1, 'a', 'c'))
	require.NoError(t, a.AddTransition(s0, s2, 'b', 'b'))
	a.FinishState()
	require.False(t, a.IsDeterministic())

	_, err := NewTransitionTable(a)
	assert.ErrorIs(t, err, ErrNotDeterministic)

	_, err = New(a)
	assert.ErrorIs(t, err, ErrNotDeterministic)
}

func TestNewTransitionTable_Unreachable(t *testing.T) {
	a := automaton.NewAutomaton()
	s0 := a.CreateState()
	s1 := a.CreateState()
	s2 := a.CreateState()
	a.SetAccept(s1, true)
	a.SetAccept(s2, true)
	require.NoError(t, a.AddTransition(s0, s1, 'a', 'a'))
	require.NoError(t, a.AddTransition(s2, s1, 'b', 'b'))
	a.FinishState()

	table, err := NewTransitionTable(a)
	require.NoError(t, err)
	assert.Equal(t, []StateID{State(0), State(1)}, table.States())
	assert.Equal(t, 1, table.CountTotalTransitions())

	_, err = table.Step(State(s2), 'b')
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestTransitionTable_Step(t *testing.T) {
	table, err := NewTransitionTable(compile(t, "ab"))
	require.NoError(t, err)

	afterA, err := table.Step(table.InitialState(), 'a')
	require.NoError(t, err)
	assert.False(t, afterA.IsFailure())
	assert.False(t, table.IsAccept(afterA))

	afterB, err := table.Step(afterA, 'b')
	require.NoError(t, err)
	assert.True(t, table.IsAccept(afterB))

	next, err := table.Step(afterB, 'b')
	require.NoError(t, err)
	assert.Equal(t, Failure, next)

	next, err = table.Step(Failure, 'a')
	require.NoError(t, err)
	assert.Equal(t, Failure, next)

	_, err = table.Step(State(42), 'a')
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestTransitionTable_TransitionsBetweenStates(t *testing.T) {
	table, err := NewTransitionTable(compile(t, "[a-c]|[x-z]"))
	require.NoError(t, err)

	initial := table.InitialState()
	successors := table.Successors(initial)
	require.Len(t, successors, 1)

	transitions, err := table.TransitionsBetweenStates(initial, successors[0])
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, 'a', rune(transitions[0].Min))
	assert.Equal(t, 'c', rune(transitions[0].Max))
	assert.Equal(t, 'x', rune(transitions[1].Min))
	assert.Equal(t, 'z', rune(transitions[1].Max))

	// callers get their own copy
	transitions[0].Min = 0
	again, err := table.TransitionsBetweenStates(initial, successors[0])
	require.NoError(t, err)
	assert.Equal(t, 'a', rune(again[0].Min))

	_, err = table.TransitionsBetweenStates(successors[0], initial)
	assert.ErrorIs(t, err, ErrNoSuchEdge)
	_, err = table.TransitionsBetweenStates(initial, Failure)
	assert.ErrorIs(t, err, ErrNoSuchEdge)
	_, err = table.TransitionsBetweenStates(Failure, initial)
	assert.ErrorIs(t, err, ErrNoSuchEdge)

	assert.Empty(t, table.Successors(successors[0]))
	assert.Nil(t, table.Successors(Failure))
}

func TestTransitionTable_ToDot(t *testing.T) {
	table, err := NewTransitionTable(compile(t, "(a|b)"))
	require.NoError(t, err)
	expected := "digraph automaton {\n" +
		"\trankdir = LR;\n" +
		"\t0 [shape=circle, label=0]\n" +
		"\t1 [shape=doublecircle, label=1]\n" +
		"\t0 -> 1 [label=\"[a,b]\"]\n" +
		"}\n"
	assert.Equal(t, expected, table.ToDot())

	table, err = NewTransitionTable(compile(t, `\t`))
	require.NoError(t, err)
	assert.Contains(t, table.ToDot(), "\t0 -> 1 [label=\"\\u0009\"]\n")
}

func TestStateID(t *testing.T) {
	assert.Equal(t, "F", Failure.String())
	assert.Equal(t, "3", State(3).String())
	assert.True(t, Failure.IsFailure())
	assert.False(t, State(0).IsFailure())
	assert.Equal(t, State(0), StateID{})

	_, ok := Failure.Num()
	assert.False(t, ok)
	n, ok := State(7).Num()
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	assert.Equal(t, -1, Failure.Compare(State(0)))
	assert.Equal(t, 1, State(0).Compare(Failure))
	assert.Equal(t, 0, Failure.Compare(Failure))
	assert.Equal(t, -1, State(1).Compare(State(2)))
}

func TestEdge(t *testing.T) {
	e := Edge{From: State(0), To: State(1), Min: 'a', Max: 'z'}
	assert.Equal(t, 26, e.Width())
	assert.False(t, e.IsFailEdge())
	assert.Equal(t, "0 -[U+0061-U+007A]-> 1", e.String())

	single := Edge{From: State(1), To: State(2), Min: 'b', Max: 'b'}
	assert.Equal(t, "1 -[U+0062]-> 2", single.String())

	assert.True(t, FailEdge(State(2)).IsFailEdge())
	assert.True(t, FailEdge(Failure).IsFailEdge())
	assert.Equal(t, "F -> F", FailEdge(Failure).String())
	assert.Equal(t, FailEdge(State(2)), Edge{From: State(2), To: Failure})

	assert.Negative(t, FailEdge(Failure).Compare(e))
	assert.Negative(t, FailEdge(State(0)).Compare(e))
	assert.Zero(t, e.Compare(e))

	pair := EdgePair{Left: e, Right: FailEdge(State(1))}
	assert.Equal(t, "(0 -[U+0061-U+007A]-> 1, 1 -> F)", pair.String())
}

func TestVisitationInfo_FoldIn(t *testing.T) {
	a01 := Edge{From: State(0), To: State(1), Min: 'a', Max: 'c'}
	fail1 := FailEdge(State(1))

	left := NewVisitationInfo()
	left.AddVisitedNode(State(0))
	left.AddVisitedNode(State(1))
	left.AddVisitedEdge(a01, 'a')
	left.AddVisitedEdgePair(EdgePair{Left: a01, Right: fail1})

	right := NewVisitationInfo()
	right.AddVisitedNode(State(0))
	right.AddVisitedNode(Failure)
	right.AddVisitedEdge(a01, 'b')
	right.AddVisitedEdge(fail1, 'x')

	leftThenRight := left.Clone()
	leftThenRight.FoldIn(right)
	rightThenLeft := right.Clone()
	rightThenLeft.FoldIn(left)
	assert.True(t, leftThenRight.Equal(rightThenLeft))

	assert.Equal(t, []StateID{Failure, State(0), State(1)}, leftThenRight.VisitedNodes())
	assert.Equal(t, []rune{'a', 'b'}, leftThenRight.EdgeChars(a01))
	assert.Equal(t, 1, leftThenRight.NumVisitedEdgePairs())

	// idempotent
	twice := leftThenRight.Clone()
	twice.FoldIn(right)
	twice.FoldIn(twice)
	twice.FoldIn(nil)
	assert.True(t, twice.Equal(leftThenRight))

	// the source stays untouched and unshared
	assert.Equal(t, []rune{'a'}, left.EdgeChars(a01))
	leftThenRight.AddVisitedEdge(a01, 'c')
	assert.Equal(t, []rune{'b'}, right.EdgeChars(a01))

	assert.False(t, left.Equal(right))
	assert.False(t, left.Equal(nil))
	assert.True(t, (*VisitationInfo)(nil).Equal(nil))
}
