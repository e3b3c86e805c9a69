// Package store holds the live membership table: one record per host key,
// with all read-modify-write on a record serialized behind the table lock.
// The reconciliation rule itself is pure; the store is what makes it safe
// to apply against a shared table, and it is the single synchronization
// point the rest of the system relies on.
package store

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/calder-io/epidemic/internal/member"
)

// Store is a keyed membership table. Reads hand out copies, so a snapshot
// never aliases table memory and reconcile inputs stay immutable.
type Store struct {
	mu      sync.RWMutex
	hostKey uuid.UUID
	members map[uuid.UUID]*member.Member
	logger  *zap.Logger
}

// New creates an empty table. A nil logger is replaced with a nop logger.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{members: make(map[uuid.UUID]*member.Member), logger: logger}
}

// SetHost installs the record for the local node.
func (s *Store) SetHost(m *member.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hostKey = m.HostKey()
	s.members[m.HostKey()] = m.Copy()
}

// Host returns the local node's record, if one has been installed.
func (s *Store) Host() (*member.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[s.hostKey]
	if !ok {
		return nil, false
	}
	return m.Copy(), true
}

// Set inserts or replaces a record unconditionally. Used for locally
// decided updates (state transitions, address rebinds) that bypass
// reconciliation.
func (s *Store) Set(m *member.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.HostKey()] = m.Copy()
}

// Get returns a copy of the record for the given host key.
func (s *Store) Get(hostKey uuid.UUID) (*member.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[hostKey]
	if !ok {
		return nil, false
	}
	return m.Copy(), true
}

// Apply reconciles an incoming record against the table and keeps the
// winner. It returns a copy of the accepted record and whether the table's
// view moved, which is what drives further dissemination. The reconcile
// and the write happen under one critical section, so concurrent reports
// about the same host serialize.
func (s *Store) Apply(incoming *member.Member) (*member.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.members[incoming.HostKey()]
	if !ok {
		kept := incoming.Copy()
		s.members[kept.HostKey()] = kept
		s.logger.Debug("member discovered", zap.Object("member", kept))
		return kept.Copy(), true
	}
	winner := member.Reconcile(existing, incoming)
	if winner == existing || winner.Equal(existing) {
		return existing.Copy(), false
	}
	kept := winner.Copy()
	s.members[kept.HostKey()] = kept
	s.logger.Debug("member updated",
		zap.Object("member", kept),
		zap.String("previousState", existing.State().String()),
	)
	return kept.Copy(), true
}

// Snapshot returns a copy of every record in canonical order.
func (s *Store) Snapshot() member.Members {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(member.Members, 0, len(s.members))
	for _, m := range s.members {
		snap = append(snap, m.Copy())
	}
	snap.Sort()
	return snap
}

// Sweep removes every record matching the predicate and returns how many
// were removed. The eviction policy (states, grace periods) belongs to the
// caller; the predicate typically combines Down/Left checks with
// StateChangeOlderThan.
func (s *Store) Sweep(pred func(*member.Member) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, m := range s.members {
		if pred(m.Copy()) {
			delete(s.members, key)
			removed++
			s.logger.Debug("member evicted", zap.String("hostKey", key.String()))
		}
	}
	return removed
}

// Len returns the number of records in the table.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}
