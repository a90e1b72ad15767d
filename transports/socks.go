package transports

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"golang.org/x/net/proxy"

	"github.com/pingtcp/pingtcp/dns"
)

// SOCKS opens handshakes through a SOCKS5 proxy, so the target sees the
// proxy (for instance a Tor exit) instead of the local host. A successful
// CONNECT reply from the proxy counts as a completed handshake.
type SOCKS struct {
	resolver *dns.Resolver
	dialer   proxy.Dialer
	server   string
}

// NewSOCKS builds a SOCKS5 transport from cfg.
func NewSOCKS(resolver *dns.Resolver, cfg SOCKSConfig) (*SOCKS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if resolver == nil {
		resolver = dns.NewResolver()
	}

	var auth *proxy.Auth
	if cfg.Username != "" {
		auth = &proxy.Auth{
			User:     cfg.Username,
			Password: cfg.Password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", cfg.Address(), auth, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("%w: create socks5 dialer: %w", ErrEnvironment, err)
	}

	return &SOCKS{
		resolver: resolver,
		dialer:   dialer,
		server:   cfg.Address(),
	}, nil
}

// Resolve implements Transport. Names are resolved locally; pass an IP
// literal to keep the lookup off the local resolver.
func (s *SOCKS) Resolve(ctx context.Context, host string) (netip.Addr, error) {
	return s.resolver.Resolve(ctx, host)
}

// ReverseLookup implements Transport. It never queries: a PTR lookup would
// reveal the target to the local resolver.
func (s *SOCKS) ReverseLookup(_ context.Context, _ netip.Addr) (string, error) {
	return "", ErrReverseLookupDisabled
}

// Connect implements Transport. The proxy negotiation and the CONNECT
// request share the timeout; a stop request does not cut them short.
func (s *SOCKS) Connect(ctx context.Context, addr netip.AddrPort, timeout time.Duration) error {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	conn, err := s.dial(dctx, addr.String())
	if err != nil {
		if dctx.Err() != nil {
			return ErrTimeout
		}
		return fmt.Errorf("connect %s via %s: %w", addr, s.server, err)
	}

	closeConn(conn)
	return nil
}

func (s *SOCKS) dial(ctx context.Context, addr string) (net.Conn, error) {
	if cd, ok := s.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, "tcp", addr)
	}

	log.Errorf("socks5 dialer for %s is not context aware, timeout is not enforced", s.server)
	return s.dialer.Dial("tcp", addr)
}

// String implements fmt.Stringer.
func (s *SOCKS) String() string {
	return "socks5://" + s.server
}
