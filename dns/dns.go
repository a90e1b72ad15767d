// Package dns handles hostname resolution and reverse lookups
package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/pingtcp/pingtcp/option"
)

var (
	ErrNoIPv4Address = errors.New("no ipv4 address found")
	ErrNoIPv6Address = errors.New("no ipv6 address found")
	ErrResolve       = errors.New("resolve hostname")
	ErrNoPTRRecord   = errors.New("no ptr record")
)

// Family selects which address family a hostname is resolved to.
type Family int

const (
	IPv4 Family = iota
	IPv6
)

func (f Family) String() string {
	if f == IPv6 {
		return "IPv6"
	}
	return "IPv4"
}

// Lookuper is the subset of *net.Resolver used here.
type Lookuper interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// Resolver handles hostname resolution with configurable options
type Resolver struct {
	timeout time.Duration
	family  Family
	lookup  Lookuper
}

type ResolverOption = option.Option[Resolver]

// WithTimeout sets the DNS resolution timeout
func WithTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// WithFamily restricts resolution to a single address family.
func WithFamily(f Family) ResolverOption {
	return func(r *Resolver) {
		r.family = f
	}
}

// WithLookuper replaces net.DefaultResolver.
func WithLookuper(l Lookuper) ResolverOption {
	return func(r *Resolver) {
		r.lookup = l
	}
}

const defaultTimeout = 2 * time.Second

// NewResolver creates a new DNS resolver with optional configuration.
// Without options it resolves to IPv4 through net.DefaultResolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		timeout: defaultTimeout,
		family:  IPv4,
		lookup:  net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Family returns the address family r resolves to.
func (r *Resolver) Family() Family {
	return r.family
}

// Resolve returns the first address of hostname in the configured family.
// IP literals are returned as is when they belong to that family.
func (r *Resolver) Resolve(ctx context.Context, hostname string) (netip.Addr, error) {
	if ip, err := netip.ParseAddr(hostname); err == nil {
		return r.pick(hostname, []netip.Addr{ip})
	}

	lctx, cancel := r.withTimeout(ctx)
	defer cancel()

	ipAddrs, err := r.lookup.LookupNetIP(lctx, r.network(), hostname)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %s: %w", ErrResolve, hostname, err)
	}

	return r.pick(hostname, ipAddrs)
}

// ReverseLookup returns the first PTR name of addr without the trailing dot.
func (r *Resolver) ReverseLookup(ctx context.Context, addr netip.Addr) (string, error) {
	lctx, cancel := r.withTimeout(ctx)
	defer cancel()

	names, err := r.lookup.LookupAddr(lctx, addr.String())
	if err != nil {
		return "", fmt.Errorf("reverse lookup %s: %w", addr, err)
	}

	for _, name := range names {
		if name = strings.TrimSuffix(name, "."); name != "" {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoPTRRecord, addr)
}

func (r *Resolver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Resolver) network() string {
	if r.family == IPv6 {
		return "ip6"
	}
	return "ip4"
}

func (r *Resolver) pick(hostname string, ipAddrs []netip.Addr) (netip.Addr, error) {
	if r.family == IPv6 {
		if list := filterIPv6(ipAddrs); len(list) > 0 {
			return list[0], nil
		}
		return netip.Addr{}, fmt.Errorf("%w: %s", ErrNoIPv6Address, hostname)
	}

	if list := filterIPv4(ipAddrs); len(list) > 0 {
		return list[0], nil
	}
	return netip.Addr{}, fmt.Errorf("%w: %s", ErrNoIPv4Address, hostname)
}

func filterIPv4(ipAddrs []netip.Addr) []netip.Addr {
	var ipList []netip.Addr
	for _, ip := range ipAddrs {
		// static builds (CGO=0) return IPv4-mapped IPv6 addresses
		if ip.Is4() || ip.Is4In6() {
			ipList = append(ipList, ip.Unmap())
		}
	}
	return ipList
}

func filterIPv6(ipAddrs []netip.Addr) []netip.Addr {
	var ipList []netip.Addr
	for _, ip := range ipAddrs {
		if ip.Is6() && !ip.Is4In6() {
			ipList = append(ipList, ip)
		}
	}
	return ipList
}
