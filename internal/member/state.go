package member

// State is the protocol state of a cluster member. States are declared in
// ascending precedence order: at equal incarnation, a higher state is the
// more authoritative claim about the member.
type State uint8

const (
	// StateAlive is the healthy state. Every member starts Alive.
	StateAlive State = iota
	// StateSuspect marks a member that failed a probe and has not yet
	// refuted the suspicion by reincarnating.
	StateSuspect
	// StateDown marks a confirmed failure. A Down member only returns
	// with a strictly newer incarnation.
	StateDown
	// StateLeft marks a graceful departure. Terminal.
	StateLeft
)

func (s State) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateSuspect:
		return "suspect"
	case StateDown:
		return "down"
	case StateLeft:
		return "left"
	}
	return "unknown"
}

// Terminal returns true if no transition out of s exists.
func (s State) Terminal() bool { return s == StateLeft }

// code is the single-letter wire form of a state.
func (s State) code() string {
	switch s {
	case StateAlive:
		return "a"
	case StateSuspect:
		return "s"
	case StateDown:
		return "d"
	case StateLeft:
		return "l"
	}
	return ""
}

func stateFromCode(code string) (State, bool) {
	switch code {
	case "a":
		return StateAlive, true
	case "s":
		return StateSuspect, true
	case "d":
		return StateDown, true
	case "l":
		return StateLeft, true
	}
	return 0, false
}
