package member

// Reconcile decides which of two conflicting records for the same host is
// the most up to date and should be believed going forward. It is a pure
// function of the two (state, incarnation) pairs: no clock, no side
// effects. Callers are responsible for only passing records that share a
// host key; the rule is applied mechanically either way.
//
// lhs is kept when:
//
//	Alive   vs Suspect  i > j
//	Alive   vs Alive    i > j
//	Suspect vs Suspect  i > j
//	Suspect vs Alive    i >= j
//	Down    vs Alive    always
//	Down    vs Suspect  always
//	Left    vs any      always
//
// Every other combination returns rhs, including rhs Down or Left beating
// lhs Alive/Suspect, and the equal-state Down/Left pairs. Ties therefore
// break toward the second argument, never toward a timestamp.
//
// The Suspect-vs-Alive asymmetry is deliberate: at equal incarnation,
// suspicion beats an Alive claim, so a node cannot suppress legitimate
// suspicion by re-announcing Alive at an unchanged incarnation. It has to
// reincarnate. Down beats Alive and Suspect at any incarnation because a
// Down report reflects confirmed probe failures; only a strictly newer
// incarnation from the node itself walks it back. Left is absorbing.
func Reconcile(lhs, rhs *Member) *Member {
	i, j := lhs.incarnation, rhs.incarnation
	var overrides bool
	switch {
	case lhs.state == StateLeft:
		overrides = true
	case lhs.state == StateDown && rhs.state < StateDown:
		overrides = true
	case lhs.state == StateSuspect && rhs.state == StateAlive:
		overrides = i >= j
	case lhs.state == StateAlive && rhs.state <= StateSuspect,
		lhs.state == StateSuspect && rhs.state == StateSuspect:
		overrides = i > j
	}
	if overrides {
		return lhs
	}
	return rhs
}
