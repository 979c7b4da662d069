package automaton

// Run Returns true if the given deterministic automaton accepts the whole string.
func Run(a *Automaton, s string) bool {
	if a.GetNumStates() == 0 {
		return false
	}
	state := 0
	for _, v := range s {
		nextState := a.Step(state, int(v))
		if nextState == -1 {
			return false
		}
		state = nextState
	}
	return a.IsAccept(state)
}
