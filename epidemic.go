// Package epidemic is the membership core of a SWIM-style gossip failure
// detector: the member data model, the deterministic rule for merging
// conflicting views of a peer, and the cluster configuration that
// parameterizes probing. Transports, probe scheduling, and dissemination
// queues consume this core; they live elsewhere.
//
// The protocol tolerates permanent, bounded inconsistency. Two nodes that
// disagree about a peer converge by exchanging records and keeping the
// Reconcile winner, a rule that is deterministic, commutative in outcome,
// and needs no coordination.
package epidemic

import (
	"github.com/calder-io/epidemic/internal/cluster/store"
	"github.com/calder-io/epidemic/internal/member"
)

type (
	Member      = member.Member
	Members     = member.Members
	State       = member.State
	Label       = member.Label
	Labels      = member.Labels
	StateChange = member.StateChange
	Store       = store.Store
)

const (
	StateAlive   = member.StateAlive
	StateSuspect = member.StateSuspect
	StateDown    = member.StateDown
	StateLeft    = member.StateLeft
)

var (
	// NewMember creates a record for a remote peer.
	NewMember = member.New
	// NewCurrentMember creates the record for the local node.
	NewCurrentMember = member.NewCurrent
	// NewStateChange wraps a member snapshot for dissemination.
	NewStateChange = member.NewStateChange
	// NewStore creates an empty membership table.
	NewStore = store.New
	// Reconcile picks the most up-to-date of two records for one host.
	Reconcile = member.Reconcile
	// Compare is the canonical total order over member records.
	Compare = member.Compare

	ErrDecode        = member.ErrDecode
	ErrInvalidMember = member.ErrInvalidMember
)
