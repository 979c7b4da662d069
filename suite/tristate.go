package suite

// Tristate A boolean that may be undetermined, for verdicts a suite cannot decide.
type Tristate int8

const (
	Undetermined Tristate = iota
	True
	False
)

func FromBool(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// Bool Returns the value and whether it was determined.
func (t Tristate) Bool() (value, ok bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	}
	return false, false
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "undetermined"
}
