package epidemic

import (
	"net"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/calder-io/epidemic/internal/member"
)

const (
	// infectionPort is the well-known protocol port the default listen
	// address binds to.
	infectionPort = 1337
	// defaultPacketSize caps how much gossip state a single message may
	// carry.
	defaultPacketSize = 512
)

// ErrInvalidListenAddr is returned when a configuration's listen address is
// empty or resolves to no socket addresses.
var ErrInvalidListenAddr = errors.New("invalid listen address")

// ClusterConfig parameterizes failure detection for one node. Build it with
// New, which merges defaults and validates; the result is read-only input
// to the probe scheduler and transport and is never mutated afterwards.
type ClusterConfig struct {
	// Key is the shared cluster secret the transport uses to
	// authenticate gossip traffic. Opaque here.
	Key []byte
	// PingInterval is how often the scheduler probes a random peer.
	PingInterval time.Duration
	// NetworkMTU caps how much gossip state one message may carry.
	NetworkMTU int
	// PingRequestHostCount is how many indirect-probe relays to use per
	// suspected peer.
	PingRequestHostCount int
	// PingTimeout is how long a probe may go unanswered before the peer
	// becomes a suspect.
	PingTimeout time.Duration
	// ListenAddr is the local listen address, as a host:port string.
	ListenAddr string
	// Labels are attached to the local node's record and gossiped as-is.
	Labels member.Labels
	// Metadata is an opaque blob attached to the local node's record.
	Metadata []byte
	// Logger receives protocol-level debug output.
	Logger *zap.Logger

	listenUDPAddr *net.UDPAddr
}

// DefaultConfig returns the stock configuration: loopback listen address on
// the infection port, one second probes, three relays.
func DefaultConfig() ClusterConfig {
	return ClusterConfig{
		Key:                  []byte("default"),
		PingInterval:         1 * time.Second,
		NetworkMTU:           defaultPacketSize,
		PingRequestHostCount: 3,
		PingTimeout:          3 * time.Second,
		ListenAddr:           net.JoinHostPort("127.0.0.1", strconv.Itoa(infectionPort)),
		Logger:               zap.NewNop(),
	}
}

// Merge fills cfg's unset fields from def.
func (cfg ClusterConfig) Merge(def ClusterConfig) ClusterConfig {
	if cfg.Key == nil {
		cfg.Key = def.Key
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.NetworkMTU == 0 {
		cfg.NetworkMTU = def.NetworkMTU
	}
	if cfg.PingRequestHostCount == 0 {
		cfg.PingRequestHostCount = def.PingRequestHostCount
	}
	if cfg.PingTimeout == 0 {
		cfg.PingTimeout = def.PingTimeout
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	return cfg
}

// New merges cfg with the defaults and validates it. An unresolvable listen
// address is an error here, at construction, never substituted at runtime.
func New(cfg ClusterConfig) (*ClusterConfig, error) {
	cfg = cfg.Merge(DefaultConfig())
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *ClusterConfig) validate() error {
	if cfg.ListenAddr == "" {
		return errors.Mark(errors.New("listen address is empty"), ErrInvalidListenAddr)
	}
	addr, err := net.ResolveUDPAddr("udp", cfg.ListenAddr)
	if err != nil {
		return errors.Mark(
			errors.Wrapf(err, "resolve %q", cfg.ListenAddr), ErrInvalidListenAddr,
		)
	}
	cfg.listenUDPAddr = addr
	if cfg.PingInterval < 0 || cfg.PingTimeout < 0 {
		return errors.New("ping durations must not be negative")
	}
	if cfg.PingRequestHostCount < 0 {
		return errors.New("ping request host count must not be negative")
	}
	if cfg.NetworkMTU < 0 {
		return errors.New("network MTU must not be negative")
	}
	return nil
}

// ListenUDPAddr returns the resolved listen address.
func (cfg *ClusterConfig) ListenUDPAddr() *net.UDPAddr { return cfg.listenUDPAddr }
