package automaton

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// DEFAULT_DETERMINIZE_WORK_LIMIT Default maximum number of DFA states that determinization may create.
const DEFAULT_DETERMINIZE_WORK_LIMIT = 10000

// ErrDFABudgetExceeded Determinization needed more states than the work limit allows.
var ErrDFABudgetExceeded = errors.New("dfa budget exceeded")

// Concatenate Returns an automaton that accepts the concatenation of the languages of the given automata.
// Complexity: linear in total number of states.
func Concatenate(automatons ...*Automaton) (*Automaton, error) {
	result := NewAutomaton()

	// First pass: create all states
	for _, a := range automatons {
		if a.GetNumStates() == 0 {
			result.FinishState()
			return result, nil
		}
		for s := 0; s < a.GetNumStates(); s++ {
			result.CreateState()
		}
	}

	// Second pass: add transitions, carefully linking accept
	// states of A to init state of next A:
	stateOffset := 0
	t := NewTransition()

	for i, a := range automatons {
		numStates := a.GetNumStates()

		var nextA *Automaton
		if i < len(automatons)-1 {
			nextA = automatons[i+1]
		}

		for s := 0; s < numStates; s++ {
			numTransitions := a.InitTransition(s, t)
			for j := 0; j < numTransitions; j++ {
				a.GetNextTransition(t)
				if err := result.AddTransition(stateOffset+s, stateOffset+t.Dest, t.Min, t.Max); err != nil {
					return nil, err
				}
			}

			if !a.IsAccept(s) {
				continue
			}

			followA := nextA
			followOffset := stateOffset
			upto := i + 1
			for {
				if followA == nil {
					result.SetAccept(stateOffset+s, true)
					break
				}

				// Adds a "virtual" epsilon transition:
				numTransitions = followA.InitTransition(0, t)
				for j := 0; j < numTransitions; j++ {
					followA.GetNextTransition(t)
					if err := result.AddTransition(stateOffset+s, followOffset+numStates+t.Dest, t.Min, t.Max); err != nil {
						return nil, err
					}
				}
				if !followA.IsAccept(0) {
					break
				}

				// Keep chaining if followA accepts empty string
				followOffset += followA.GetNumStates()
				followA = nil
				if upto < len(automatons)-1 {
					followA = automatons[upto+1]
				}
				upto++
			}
		}

		stateOffset += numStates
	}

	if result.GetNumStates() == 0 {
		result.CreateState()
	}

	result.FinishState()
	return result, nil
}

// Optional Returns an automaton that accepts the union of the empty string and the language of the given
// automaton. This may create a dead state.
func Optional(a *Automaton) (*Automaton, error) {
	result := NewAutomaton()
	result.CreateState()
	result.SetAccept(0, true)
	if a.GetNumStates() > 0 {
		result.Copy(a)
		if err := result.AddEpsilon(0, 1); err != nil {
			return nil, err
		}
	}
	result.FinishState()
	return result, nil
}

// Repeat Returns an automaton that accepts the Kleene star (zero or more concatenated repetitions) of the
// language of the given automaton. Never modifies the input automaton language.
func Repeat(a *Automaton) (*Automaton, error) {
	if a.GetNumStates() == 0 {
		// Repeating the empty automata will still only accept the empty automata.
		return a, nil
	}

	builder := NewBuilder()
	builder.CreateState()
	builder.SetAccept(0, true)
	builder.Copy(a)

	t := NewTransition()
	count := a.InitTransition(0, t)
	for i := 0; i < count; i++ {
		a.GetNextTransition(t)
		builder.AddTransition(0, t.Dest+1, t.Min, t.Max)
	}

	numStates := a.GetNumStates()
	for s := 0; s < numStates; s++ {
		if !a.IsAccept(s) {
			continue
		}
		count = a.InitTransition(0, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			builder.AddTransition(s+1, t.Dest+1, t.Min, t.Max)
		}
	}

	return builder.Finish()
}

// RepeatCount Returns an automaton that accepts min or more concatenated repetitions of the language of the
// given automaton.
func RepeatCount(a *Automaton, min int) (*Automaton, error) {
	if min == 0 {
		return Repeat(a)
	}

	as := make([]*Automaton, 0, min+1)
	for i := 0; i < min; i++ {
		as = append(as, a)
	}

	ra, err := Repeat(a)
	if err != nil {
		return nil, err
	}
	as = append(as, ra)

	return Concatenate(as...)
}

// RepeatRange Returns an automaton that accepts between min and max (including both) concatenated
// repetitions of the language of the given automaton.
func RepeatRange(a *Automaton, min, max int) (*Automaton, error) {
	if min > max {
		return defaultAutomata.MakeEmpty(), nil
	}

	var b *Automaton
	switch min {
	case 0:
		b = defaultAutomata.MakeEmptyString()
	case 1:
		b = NewAutomaton()
		b.Copy(a)
	default:
		as := make([]*Automaton, 0, min)
		for i := 0; i < min; i++ {
			as = append(as, a)
		}
		var err error
		if b, err = Concatenate(as...); err != nil {
			return nil, err
		}
	}

	prevAcceptStates := acceptStates(b, 0)
	builder := NewBuilder()
	builder.Copy(b)
	for i := min; i < max; i++ {
		numStates := builder.GetNumStates()
		builder.Copy(a)
		for _, s := range prevAcceptStates {
			builder.AddEpsilon(s, numStates)
		}
		prevAcceptStates = acceptStates(a, numStates)
	}

	return builder.Finish()
}

func acceptStates(a *Automaton, offset int) []int {
	numStates := uint(a.GetNumStates())
	result := make([]int, 0)
	for s, ok := a.isAccept.NextSet(0); ok && s < numStates; s, ok = a.isAccept.NextSet(s + 1) {
		result = append(result, offset+int(s))
	}
	return result
}

// Union Returns an automaton that accepts the union of the languages of the given automata.
// Complexity: linear in number of states.
func Union(automatons ...*Automaton) (*Automaton, error) {
	result := NewAutomaton()

	// Create initial state:
	result.CreateState()

	// Copy over all automata
	for _, a := range automatons {
		result.Copy(a)
	}

	// Add epsilon transition from new initial state
	stateOffset := 1
	for _, a := range automatons {
		if a.GetNumStates() == 0 {
			continue
		}
		if err := result.AddEpsilon(0, stateOffset); err != nil {
			return nil, err
		}
		stateOffset += a.GetNumStates()
	}

	result.FinishState()

	return RemoveDeadStates(result)
}

// Determinize Determinizes the given automaton.
// Worst case complexity: exponential in number of states.
//
// workLimit is the maximum number of DFA states the powerset construction may create before giving up
// with ErrDFABudgetExceeded. Use DEFAULT_DETERMINIZE_WORK_LIMIT as a decent default if you don't otherwise
// know what to specify. The input automaton is never modified.
func Determinize(a *Automaton, workLimit int) (*Automaton, error) {
	if a.IsDeterministic() {
		// Already determinized
		return a, nil
	}
	return determinize(a, workLimit)
}

type pointTransitions struct {
	starts []int
	ends   []int
}

func determinize(a *Automaton, workLimit int) (*Automaton, error) {
	return determinizeFrom(a, []int{0}, workLimit)
}

// determinizeFrom runs the subset construction starting from the set of initial states, which must be
// sorted. States not reachable from that set are dropped.
func determinizeFrom(a *Automaton, initial []int, workLimit int) (*Automaton, error) {
	if a.GetNumStates() == 0 || len(initial) == 0 {
		return NewAutomaton(), nil
	}

	// subset construction
	b := NewBuilder()
	initialSet := NewFrozenIntSet(initial, b.CreateState())
	b.SetAccept(0, slices.ContainsFunc(initial, a.IsAccept))

	newState := NewHashMap[int](WithCapacity(16))
	newState.Set(initialSet, initialSet.State())

	worklist := []*FrozenIntSet{initialSet}
	statesSet := NewStateSet()
	t := NewTransition()

	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]

		// Collate all outgoing transitions by start/end point:
		points := make(map[int]*pointTransitions)
		pointAt := func(p int) *pointTransitions {
			pt, ok := points[p]
			if !ok {
				pt = &pointTransitions{}
				points[p] = pt
			}
			return pt
		}
		for _, member := range s.GetArray() {
			count := a.InitTransition(member, t)
			for i := 0; i < count; i++ {
				a.GetNextTransition(t)
				pointAt(t.Min).starts = append(pointAt(t.Min).starts, t.Dest)
				pointAt(t.Max+1).ends = append(pointAt(t.Max+1).ends, t.Dest)
			}
		}

		sortedPoints := make([]int, 0, len(points))
		for p := range points {
			sortedPoints = append(sortedPoints, p)
		}
		slices.Sort(sortedPoints)

		lastPoint := -1
		for _, point := range sortedPoints {
			if statesSet.Size() > 0 {
				q, ok := newState.Get(statesSet)
				if !ok {
					if workLimit > 0 && b.GetNumStates() >= workLimit {
						return nil, fmt.Errorf("%w: budget of %d states", ErrDFABudgetExceeded, workLimit)
					}
					frozen := statesSet.Freeze(b.CreateState())
					q = frozen.State()
					worklist = append(worklist, frozen)
					newState.Set(frozen, q)

					accept := false
					for _, member := range frozen.GetArray() {
						if a.IsAccept(member) {
							accept = true
							break
						}
					}
					b.SetAccept(q, accept)
				}
				b.AddTransition(s.State(), q, lastPoint, point-1)
			}

			pt := points[point]
			for _, dest := range pt.ends {
				statesSet.Decr(dest)
			}
			for _, dest := range pt.starts {
				statesSet.Incr(dest)
			}
			lastPoint = point
		}
	}

	return b.Finish()
}

// Reverse Returns an automaton accepting the reverse language.
func Reverse(a *Automaton) (*Automaton, error) {
	return reverse(a, nil)
}

// reverse Reverses the automaton. State 0 of the result is a synthetic initial state with epsilon copies of
// the old accept states; when initialStates is not nil those old accept states are also added to it, so
// a caller can start from them directly instead.
func reverse(a *Automaton, initialStates map[int]struct{}) (*Automaton, error) {
	if IsEmpty(a) {
		return NewAutomaton(), nil
	}

	numStates := a.GetNumStates()

	// Build a new automaton with all edges reversed
	builder := NewBuilder()

	// Initial node; we'll add epsilon transitions in the end:
	builder.CreateState()

	for s := 0; s < numStates; s++ {
		builder.CreateState()
	}

	// Old initial state becomes new accept state:
	builder.SetAccept(1, true)

	t := NewTransition()
	for s := 0; s < numStates; s++ {
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			builder.AddTransition(t.Dest+1, s+1, t.Min, t.Max)
		}
	}

	result, err := builder.Finish()
	if err != nil {
		return nil, err
	}

	for _, s := range acceptStates(a, 0) {
		if err := result.AddEpsilon(0, s+1); err != nil {
			return nil, err
		}
		if initialStates != nil {
			initialStates[s+1] = struct{}{}
		}
	}

	result.FinishState()
	return result, nil
}

// IsEmpty
// Returns true if the given automaton accepts no strings.
func IsEmpty(a *Automaton) bool {
	if a.GetNumStates() == 0 {
		// Common case: no states
		return true
	}
	if !a.IsAccept(0) && a.GetNumTransitionsWithState(0) == 0 {
		// Common case: just one initial state
		return true
	}
	if a.IsAccept(0) {
		// Apparently common case: it accepts the damned empty string
		return false
	}

	workList := []int{0}
	seen := bitset.New(uint(a.GetNumStates()))
	seen.Set(0)

	t := NewTransition()
	for len(workList) > 0 {
		state := workList[0]
		workList = workList[1:]
		if a.IsAccept(state) {
			return false
		}
		count := a.InitTransition(state, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			if !seen.Test(uint(t.Dest)) {
				workList = append(workList, t.Dest)
				seen.Set(uint(t.Dest))
			}
		}
	}

	return true
}

// RemoveDeadStates Removes transitions to dead states (a state is "dead" if it is not reachable from the
// initial state or no accept state is reachable from it.)
func RemoveDeadStates(a *Automaton) (*Automaton, error) {
	numStates := a.GetNumStates()
	liveSet := LiveStates(a)

	mp := make([]int, numStates)

	result := NewAutomaton()
	for i := 0; i < numStates; i++ {
		if liveSet.Test(uint(i)) {
			mp[i] = result.CreateState()
			result.SetAccept(mp[i], a.IsAccept(i))
		}
	}

	t := NewTransition()
	for i := 0; i < numStates; i++ {
		if !liveSet.Test(uint(i)) {
			continue
		}
		count := a.InitTransition(i, t)
		// filter out transitions to dead states:
		for j := 0; j < count; j++ {
			a.GetNextTransition(t)
			if liveSet.Test(uint(t.Dest)) {
				if err := result.AddTransition(mp[i], mp[t.Dest], t.Min, t.Max); err != nil {
					return nil, err
				}
			}
		}
	}

	result.FinishState()
	return result, nil
}

// LiveStates Returns the states that are reachable from the initial state and can reach an accept state.
func LiveStates(a *Automaton) *bitset.BitSet {
	live := liveStatesFromInitial(a)
	live.InPlaceIntersection(liveStatesToAccept(a))
	return live
}

func liveStatesFromInitial(a *Automaton) *bitset.BitSet {
	numStates := a.GetNumStates()
	live := bitset.New(uint(numStates))
	if numStates == 0 {
		return live
	}

	live.Set(0)
	workList := []int{0}

	t := NewTransition()
	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			if !live.Test(uint(t.Dest)) {
				live.Set(uint(t.Dest))
				workList = append(workList, t.Dest)
			}
		}
	}

	return live
}

func liveStatesToAccept(a *Automaton) *bitset.BitSet {
	numStates := a.GetNumStates()
	live := bitset.New(uint(numStates))

	// reverse adjacency, then BFS from every accept state
	predecessors := make([][]int, numStates)
	t := NewTransition()
	for s := 0; s < numStates; s++ {
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			predecessors[t.Dest] = append(predecessors[t.Dest], s)
		}
	}

	workList := acceptStates(a, 0)
	for _, s := range workList {
		live.Set(uint(s))
	}
	for len(workList) > 0 {
		s := workList[0]
		workList = workList[1:]
		for _, p := range predecessors[s] {
			if !live.Test(uint(p)) {
				live.Set(uint(p))
				workList = append(workList, p)
			}
		}
	}

	return live
}
