package member_test

import (
	"math/rand"
	"net"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/calder-io/epidemic/internal/member"
)

var _ = Describe("Ordering", func() {
	It("Should be reflexive-equal and antisymmetric", func() {
		a := member.New(uuid.New(), remoteAddr(1337), 1, member.StateAlive, nil, nil)
		b := member.New(uuid.New(), remoteAddr(1337), 1, member.StateAlive, nil, nil)
		Expect(member.Compare(a, a)).To(Equal(0))
		Expect(member.Compare(a, b)).To(Equal(-member.Compare(b, a)))
	})

	It("Should order the local record before any remote record of the same host", func() {
		key := uuid.New()
		current := member.NewCurrent(key, nil, nil)
		remote := member.New(key, remoteAddr(1337), 0, member.StateAlive, nil, nil)
		Expect(member.Less(current, remote)).To(BeTrue())
	})

	It("Should break host and address ties by incarnation then state precedence", func() {
		key := uuid.New()
		older := member.New(key, remoteAddr(1337), 1, member.StateLeft, nil, nil)
		newer := member.New(key, remoteAddr(1337), 2, member.StateAlive, nil, nil)
		Expect(member.Less(older, newer)).To(BeTrue())

		alive := member.New(key, remoteAddr(1337), 2, member.StateAlive, nil, nil)
		suspect := member.New(key, remoteAddr(1337), 2, member.StateSuspect, nil, nil)
		Expect(member.Less(alive, suspect)).To(BeTrue())
	})

	It("Should compare addresses structurally, not by their printed form", func() {
		key := uuid.New()
		// Same address in 4-byte and 16-byte representations.
		four := &net.UDPAddr{IP: net.ParseIP("127.0.0.1").To4(), Port: 1337}
		sixteen := &net.UDPAddr{IP: net.ParseIP("127.0.0.1").To16(), Port: 1337}
		a := member.New(key, four, 0, member.StateAlive, nil, nil)
		b := a.WithRemoteHost(sixteen)
		Expect(member.Compare(a, b)).To(Equal(0))
		Expect(a.Equal(b)).To(BeTrue())
	})

	It("Should sort a shuffled set into a strict total order", func() {
		set := make(member.Members, 0, 50)
		for i := 0; i < 50; i++ {
			set = append(set, member.New(
				uuid.New(),
				remoteAddr(1000+rand.Intn(100)),
				uint64(rand.Intn(10)),
				member.State(rand.Intn(4)),
				nil,
				nil,
			))
		}
		set.Sort()
		for i := 1; i < len(set); i++ {
			Expect(member.Compare(set[i-1], set[i]) <= 0).To(BeTrue())
		}
		// Distinct host keys guarantee strictness.
		for i := 1; i < len(set); i++ {
			Expect(member.Compare(set[i-1], set[i])).ToNot(Equal(0))
		}
	})
})
