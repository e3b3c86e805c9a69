package member

// StateChange is the unit of gossip dissemination: an envelope around one
// member snapshot. The envelope carries no state of its own and is mutated
// in place, so a dissemination queue keeps a single envelope per pending
// host and coalesces repeated changes by replacing the snapshot with the
// reconciliation winner.
type StateChange struct {
	member *Member
}

// NewStateChange wraps a member snapshot for dissemination.
func NewStateChange(m *Member) *StateChange { return &StateChange{member: m} }

// Member returns the wrapped snapshot.
func (c *StateChange) Member() *Member { return c.member }

// Update replaces the wrapped snapshot wholesale.
func (c *StateChange) Update(m *Member) { c.member = m }

// MarshalBinary encodes the envelope as its wrapped member; the envelope is
// transparent on the wire.
func (c *StateChange) MarshalBinary() ([]byte, error) {
	return c.member.MarshalBinary()
}

// UnmarshalBinary decodes a member record into the envelope.
func (c *StateChange) UnmarshalBinary(data []byte) error {
	var m Member
	if err := m.UnmarshalBinary(data); err != nil {
		return err
	}
	c.member = &m
	return nil
}
