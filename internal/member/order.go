package member

import (
	"bytes"
	"net"
	"sort"
)

// Compare defines a total order over members for deterministic set
// operations: canonical digests, sorted dissemination. It ranks
// lexicographically by (host key bytes, remote address, incarnation, state
// precedence). This is bookkeeping only; it says nothing about which record
// is more up to date. Use Reconcile for that.
func Compare(a, b *Member) int {
	if c := bytes.Compare(a.hostKey[:], b.hostKey[:]); c != 0 {
		return c
	}
	if c := compareAddr(a.remoteHost, b.remoteHost); c != 0 {
		return c
	}
	if a.incarnation != b.incarnation {
		if a.incarnation < b.incarnation {
			return -1
		}
		return 1
	}
	if a.state != b.state {
		if a.state < b.state {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether a sorts before b under Compare.
func Less(a, b *Member) bool { return Compare(a, b) < 0 }

// compareAddr orders addresses structurally: the local record (nil address)
// first, then IP bytes in 16-byte form, then port, then zone.
func compareAddr(a, b *net.UDPAddr) int {
	if a == nil || b == nil {
		if a == b {
			return 0
		}
		if a == nil {
			return -1
		}
		return 1
	}
	if c := bytes.Compare(a.IP.To16(), b.IP.To16()); c != 0 {
		return c
	}
	if a.Port != b.Port {
		if a.Port < b.Port {
			return -1
		}
		return 1
	}
	if a.Zone != b.Zone {
		if a.Zone < b.Zone {
			return -1
		}
		return 1
	}
	return 0
}

// Members is a set of records that sorts into the canonical order.
type Members []*Member

func (m Members) Len() int           { return len(m) }
func (m Members) Less(i, j int) bool { return Less(m[i], m[j]) }
func (m Members) Swap(i, j int)      { m[i], m[j] = m[j], m[i] }

// Sort orders the set canonically, in place.
func (m Members) Sort() { sort.Sort(m) }
