package store_test

import (
	"net"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/calder-io/epidemic/internal/cluster/store"
	"github.com/calder-io/epidemic/internal/member"
)

func addr(port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: port}
}

var _ = Describe("Store", func() {
	var s *store.Store

	BeforeEach(func() { s = store.New(zap.NewNop()) })

	Describe("Host", func() {
		It("Should report no host on an empty table", func() {
			_, ok := s.Host()
			Expect(ok).To(BeFalse())
		})
		It("Should install and return the local record", func() {
			host := member.NewCurrent(uuid.New(), nil, nil)
			s.SetHost(host)
			got, ok := s.Host()
			Expect(ok).To(BeTrue())
			Expect(got.Equal(host)).To(BeTrue())
			Expect(got.IsCurrent()).To(BeTrue())
		})
	})

	Describe("Apply", func() {
		It("Should admit an unknown member and report a change", func() {
			m := member.New(uuid.New(), addr(1337), 0, member.StateAlive, nil, nil)
			kept, changed := s.Apply(m)
			Expect(changed).To(BeTrue())
			Expect(kept.Equal(m)).To(BeTrue())
			Expect(s.Len()).To(Equal(1))
		})
		It("Should keep the reconciliation winner", func() {
			key := uuid.New()
			s.Apply(member.New(key, addr(1337), 5, member.StateAlive, nil, nil))

			// An equal-incarnation suspicion wins.
			kept, changed := s.Apply(member.New(key, addr(1337), 5, member.StateSuspect, nil, nil))
			Expect(changed).To(BeTrue())
			Expect(kept.State()).To(Equal(member.StateSuspect))

			// A stale Alive claim does not walk it back.
			kept, changed = s.Apply(member.New(key, addr(1337), 5, member.StateAlive, nil, nil))
			Expect(changed).To(BeFalse())
			Expect(kept.State()).To(Equal(member.StateSuspect))

			// Reincarnating clears suspicion.
			kept, changed = s.Apply(member.New(key, addr(1337), 6, member.StateAlive, nil, nil))
			Expect(changed).To(BeTrue())
			Expect(kept.State()).To(Equal(member.StateAlive))
		})
		It("Should serialize concurrent reports about one host", func() {
			key := uuid.New()
			s.Apply(member.New(key, addr(1337), 0, member.StateAlive, nil, nil))
			var g errgroup.Group
			for i := 0; i < 8; i++ {
				i := i
				g.Go(func() error {
					for inc := uint64(0); inc < 50; inc++ {
						state := member.StateAlive
						if i%2 == 0 {
							state = member.StateSuspect
						}
						s.Apply(member.New(key, addr(1337), inc, state, nil, nil))
					}
					return nil
				})
			}
			Expect(g.Wait()).To(Succeed())
			got, ok := s.Get(key)
			Expect(ok).To(BeTrue())
			Expect(got.Incarnation()).To(Equal(uint64(49)))
			Expect(s.Len()).To(Equal(1))
		})
	})

	Describe("Snapshot", func() {
		It("Should return copies in canonical order", func() {
			for i := 0; i < 10; i++ {
				s.Apply(member.New(uuid.New(), addr(1000+i), 0, member.StateAlive, nil, nil))
			}
			snap := s.Snapshot()
			Expect(snap).To(HaveLen(10))
			for i := 1; i < len(snap); i++ {
				Expect(member.Less(snap[i-1], snap[i])).To(BeTrue())
			}
			// Mutating the snapshot leaves the table untouched.
			snap[0].SetState(member.StateLeft)
			got, _ := s.Get(snap[0].HostKey())
			Expect(got.State()).To(Equal(member.StateAlive))
		})
	})

	Describe("Sweep", func() {
		It("Should evict only records matching the predicate", func() {
			left := member.New(uuid.New(), addr(1337), 0, member.StateLeft, nil, nil)
			alive := member.New(uuid.New(), addr(1338), 0, member.StateAlive, nil, nil)
			s.Apply(left)
			s.Apply(alive)
			removed := s.Sweep(func(m *member.Member) bool {
				return m.State().Terminal() && m.StateChangeOlderThan(-time.Second)
			})
			Expect(removed).To(Equal(1))
			_, ok := s.Get(left.HostKey())
			Expect(ok).To(BeFalse())
			_, ok = s.Get(alive.HostKey())
			Expect(ok).To(BeTrue())
		})
	})
})
