package member

import (
	"bytes"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

// Label is a single key/value pair attached to a member. Labels identify
// attributes of a node that are meaningful to users; the protocol never
// interprets them.
type Label struct {
	Key   string
	Value string
}

// Labels is an ordered list of labels with unique keys.
type Labels []Label

// Copy returns a deep copy of the label list.
func (l Labels) Copy() Labels {
	if l == nil {
		return nil
	}
	c := make(Labels, len(l))
	copy(c, l)
	return c
}

// Member is the record a node keeps about one peer in the cluster: who it
// is, where to reach it, and what the node currently believes about its
// liveness. The host key is assigned once when the record is first created
// and never changes, even across address rebinds or state transitions.
type Member struct {
	hostKey         uuid.UUID
	remoteHost      *net.UDPAddr
	incarnation     uint64
	state           State
	lastStateChange time.Time
	labels          Labels
	metadata        []byte
}

// New creates a record for a remote peer learned through gossip.
func New(
	hostKey uuid.UUID,
	remoteHost *net.UDPAddr,
	incarnation uint64,
	state State,
	labels Labels,
	metadata []byte,
) *Member {
	return &Member{
		hostKey:         hostKey,
		remoteHost:      copyAddr(remoteHost),
		incarnation:     incarnation,
		state:           state,
		lastStateChange: time.Now(),
		labels:          labels.Copy(),
		metadata:        copyBytes(metadata),
	}
}

// NewCurrent creates the record for the local node itself: incarnation zero,
// Alive, and no remote address.
func NewCurrent(hostKey uuid.UUID, labels Labels, metadata []byte) *Member {
	return &Member{
		hostKey:         hostKey,
		state:           StateAlive,
		lastStateChange: time.Now(),
		labels:          labels.Copy(),
		metadata:        copyBytes(metadata),
	}
}

// HostKey returns the member's immutable identifier.
func (m *Member) HostKey() uuid.UUID { return m.hostKey }

// RemoteHost returns the member's reachable address, or nil for the record
// that denotes the local node.
func (m *Member) RemoteHost() *net.UDPAddr { return copyAddr(m.remoteHost) }

// Incarnation returns the member's incarnation number.
func (m *Member) Incarnation() uint64 { return m.incarnation }

// State returns the member's protocol state.
func (m *Member) State() State { return m.state }

// LastStateChange returns the wall-clock time of the last effective state
// transition.
func (m *Member) LastStateChange() time.Time { return m.lastStateChange }

// Labels returns a copy of the member's labels.
func (m *Member) Labels() Labels { return m.labels.Copy() }

// Metadata returns a copy of the member's metadata blob.
func (m *Member) Metadata() []byte { return copyBytes(m.metadata) }

// IsCurrent returns true if the record denotes the local node.
func (m *Member) IsCurrent() bool { return m.remoteHost == nil }

// IsRemote returns true if the record denotes a remote peer.
func (m *Member) IsRemote() bool { return m.remoteHost != nil }

// StateChangeOlderThan returns true if more than d has elapsed since the
// last effective state transition. Drives suspicion confirmation and
// eviction timers; the caller owns the timer, this is only the predicate.
func (m *Member) StateChangeOlderThan(d time.Duration) bool {
	return time.Since(m.lastStateChange) > d
}

// SetState transitions the member to state. The transition timestamp moves
// only when the state actually changes; re-asserting the current state is a
// no-op, so redundant gossip cannot reset suspicion timers.
func (m *Member) SetState(state State) {
	if m.state == state {
		return
	}
	m.state = state
	m.lastStateChange = time.Now()
}

// Reincarnate bumps the incarnation number. Only the member itself does
// this, to refute a stale Suspect or Down report. No other field changes.
func (m *Member) Reincarnate() { m.incarnation++ }

// WithRemoteHost returns a copy of the record bound to a new address,
// sharing every other field. Used when a peer becomes reachable at a
// different address.
func (m *Member) WithRemoteHost(remoteHost *net.UDPAddr) *Member {
	c := m.Copy()
	c.remoteHost = copyAddr(remoteHost)
	return c
}

// Copy returns a deep copy of the record.
func (m *Member) Copy() *Member {
	return &Member{
		hostKey:         m.hostKey,
		remoteHost:      copyAddr(m.remoteHost),
		incarnation:     m.incarnation,
		state:           m.state,
		lastStateChange: m.lastStateChange,
		labels:          m.labels.Copy(),
		metadata:        copyBytes(m.metadata),
	}
}

// Equal reports field-wise equality. Addresses compare structurally and
// timestamps by instant, so a record survives a codec round trip equal.
func (m *Member) Equal(other *Member) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.hostKey != other.hostKey ||
		m.incarnation != other.incarnation ||
		m.state != other.state ||
		!m.lastStateChange.Equal(other.lastStateChange) ||
		!addrEqual(m.remoteHost, other.remoteHost) ||
		!bytes.Equal(m.metadata, other.metadata) ||
		len(m.labels) != len(other.labels) {
		return false
	}
	for i, l := range m.labels {
		if other.labels[i] != l {
			return false
		}
	}
	return true
}

// MarshalLogObject implements zapcore.ObjectMarshaler so records can be
// logged with zap.Object.
func (m *Member) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("hostKey", m.hostKey.String())
	enc.AddString("state", m.state.String())
	enc.AddUint64("incarnation", m.incarnation)
	enc.AddDuration("sinceStateChange", time.Since(m.lastStateChange))
	if m.remoteHost != nil {
		enc.AddString("remoteHost", m.remoteHost.String())
	} else {
		enc.AddString("remoteHost", "current")
	}
	return nil
}

func copyAddr(addr *net.UDPAddr) *net.UDPAddr {
	if addr == nil {
		return nil
	}
	c := *addr
	c.IP = append(net.IP(nil), addr.IP...)
	return &c
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func addrEqual(a, b *net.UDPAddr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.IP.Equal(b.IP) && a.Port == b.Port && a.Zone == b.Zone
}
