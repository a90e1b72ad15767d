// Package pingtcp measures TCP handshake latency against a single host:port,
// the way ping(8) measures ICMP echo round trips.
package pingtcp

import (
	"context"
	"net/netip"
	"time"

	"github.com/pingtcp/pingtcp/transports"
)

var (
	// List of compile time checks for all transports
	_ Transport = (*transports.Direct)(nil)
	_ Transport = (*transports.SOCKS)(nil)
)

// Transport opens TCP handshakes on behalf of the Sampler.
// The active implementation is chosen once at startup.
type Transport interface {
	// Resolve returns the address host should be probed at.
	Resolve(ctx context.Context, host string) (netip.Addr, error)

	// ReverseLookup returns a display name for addr.
	ReverseLookup(ctx context.Context, addr netip.Addr) (string, error)

	// Connect performs one handshake with addr and releases the socket.
	// It returns nil when the handshake completed, and never blocks
	// much longer than timeout.
	Connect(ctx context.Context, addr netip.AddrPort, timeout time.Duration) error
}

// Target is the endpoint being probed.
type Target struct {
	Host string
	Port uint16
}
