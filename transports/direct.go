package transports

import (
	"context"
	"net/netip"

	"github.com/pingtcp/pingtcp/dns"
)

// Direct opens handshakes from the local host.
type Direct struct {
	resolver *dns.Resolver
}

// NewDirect returns a Direct transport resolving names through resolver.
func NewDirect(resolver *dns.Resolver) *Direct {
	if resolver == nil {
		resolver = dns.NewResolver()
	}
	return &Direct{resolver: resolver}
}

// Resolve implements Transport.
func (d *Direct) Resolve(ctx context.Context, host string) (netip.Addr, error) {
	return d.resolver.Resolve(ctx, host)
}

// ReverseLookup implements Transport.
func (d *Direct) ReverseLookup(ctx context.Context, addr netip.Addr) (string, error) {
	return d.resolver.ReverseLookup(ctx, addr)
}

// String implements fmt.Stringer.
func (d *Direct) String() string {
	return "direct"
}
