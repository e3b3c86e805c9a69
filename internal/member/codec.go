package member

import (
	"encoding/json"
	"net"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrDecode marks a record that could not be decoded at all.
	ErrDecode = errors.New("malformed member record")
	// ErrInvalidMember marks a record that decoded structurally but
	// carries invalid content. Never recovered partially.
	ErrInvalidMember = errors.New("invalid member record")
)

// wireMember is the codec schema for a member record. The single-letter
// tags and field order are shared by both the compact binary form and the
// readable JSON form.
type wireMember struct {
	HostKey     []byte      `msgpack:"h" json:"h"`
	RemoteHost  *string     `msgpack:"r" json:"r"`
	Incarnation uint64      `msgpack:"i" json:"i"`
	State       string      `msgpack:"m" json:"m"`
	LastChange  time.Time   `msgpack:"t" json:"t"`
	Labels      [][2]string `msgpack:"l" json:"l"`
	Metadata    []byte      `msgpack:"d" json:"d"`
}

func (m *Member) toWire() wireMember {
	w := wireMember{
		HostKey:     m.hostKey[:],
		Incarnation: m.incarnation,
		State:       m.state.code(),
		LastChange:  m.lastStateChange,
		Metadata:    m.metadata,
	}
	if m.remoteHost != nil {
		addr := m.remoteHost.String()
		w.RemoteHost = &addr
	}
	if m.labels != nil {
		w.Labels = make([][2]string, len(m.labels))
		for i, l := range m.labels {
			w.Labels[i] = [2]string{l.Key, l.Value}
		}
	}
	return w
}

func (m *Member) fromWire(w wireMember) error {
	hostKey, err := uuid.FromBytes(w.HostKey)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "host key"), ErrInvalidMember)
	}
	state, ok := stateFromCode(w.State)
	if !ok {
		return errors.Mark(
			errors.Newf("unknown state code %q", w.State), ErrInvalidMember,
		)
	}
	var remote *net.UDPAddr
	if w.RemoteHost != nil {
		remote, err = net.ResolveUDPAddr("udp", *w.RemoteHost)
		if err != nil {
			return errors.Mark(errors.Wrap(err, "remote host"), ErrInvalidMember)
		}
	}
	var labels Labels
	if w.Labels != nil {
		labels = make(Labels, len(w.Labels))
		seen := make(map[string]struct{}, len(w.Labels))
		for i, pair := range w.Labels {
			if _, dup := seen[pair[0]]; dup {
				return errors.Mark(
					errors.Newf("duplicate label key %q", pair[0]),
					ErrInvalidMember,
				)
			}
			seen[pair[0]] = struct{}{}
			labels[i] = Label{Key: pair[0], Value: pair[1]}
		}
	}
	m.hostKey = hostKey
	m.remoteHost = remote
	m.incarnation = w.Incarnation
	m.state = state
	m.lastStateChange = w.LastChange
	m.labels = labels
	m.metadata = w.Metadata
	return nil
}

// MarshalBinary encodes the record in its compact wire form.
func (m *Member) MarshalBinary() ([]byte, error) {
	b, err := msgpack.Marshal(m.toWire())
	return b, errors.Wrap(err, "encode member")
}

// UnmarshalBinary decodes a compact wire record. Undecodable input fails
// with ErrDecode; decodable input with invalid content fails with
// ErrInvalidMember.
func (m *Member) UnmarshalBinary(data []byte) error {
	var w wireMember
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return errors.Mark(err, ErrDecode)
	}
	return m.fromWire(w)
}

// MarshalJSON encodes the record in its readable form.
func (m *Member) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.toWire())
}

// UnmarshalJSON decodes the readable form with the same error split as
// UnmarshalBinary.
func (m *Member) UnmarshalJSON(data []byte) error {
	var w wireMember
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Mark(err, ErrDecode)
	}
	return m.fromWire(w)
}
