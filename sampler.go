package pingtcp

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/pingtcp/pingtcp/option"
	"github.com/pingtcp/pingtcp/statistics"
	"github.com/pingtcp/pingtcp/transports"
)

var (
	// ErrResolution is returned when the target cannot be resolved. It ends the run.
	ErrResolution = errors.New("resolve target")

	// ErrEnvironment is returned when the local host cannot perform a handshake at all.
	ErrEnvironment = transports.ErrEnvironment
)

const DefaultConnectTimeout = 1 * time.Second

// Sampler performs exactly one handshake attempt per call.
type Sampler struct {
	transport     Transport
	target        Target
	timeout       time.Duration
	reverseLookup bool
	now           func() time.Time
}

type SamplerOption = option.Option[Sampler]

// WithConnectTimeout bounds each handshake.
func WithConnectTimeout(timeout time.Duration) SamplerOption {
	return func(s *Sampler) {
		s.timeout = timeout
	}
}

// WithReverseLookup controls whether the resolved address is turned
// into a name for display.
func WithReverseLookup(enabled bool) SamplerOption {
	return func(s *Sampler) {
		s.reverseLookup = enabled
	}
}

// WithClock replaces time.Now. The function must return monotonic readings
// for RTTs to be immune to wall clock jumps.
func WithClock(now func() time.Time) SamplerOption {
	return func(s *Sampler) {
		s.now = now
	}
}

// NewSampler returns a Sampler that connects to target through transport.
func NewSampler(transport Transport, target Target, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		transport:     transport,
		target:        target,
		timeout:       DefaultConnectTimeout,
		reverseLookup: true,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Target returns the endpoint being sampled.
func (s *Sampler) Target() Target {
	return s.target
}

// Run performs attempt number attempt. A failed handshake is reported in the
// outcome; the returned error is reserved for failures that make further
// attempts pointless, and wraps ErrResolution or ErrEnvironment.
//
// Cancelling ctx does not cut the attempt short: resolution, reverse lookup
// and the handshake are each bounded by their own timeouts instead.
func (s *Sampler) Run(ctx context.Context, attempt uint64) (statistics.Outcome, error) {
	ctx = context.WithoutCancel(ctx)

	outcome := statistics.Outcome{
		Attempt: attempt,
		Name:    s.target.Host,
	}

	ip, err := s.transport.Resolve(ctx, s.target.Host)
	if err != nil {
		return outcome, fmt.Errorf("%w %s: %w", ErrResolution, s.target.Host, err)
	}
	outcome.IP = ip

	if s.reverseLookup {
		outcome.Name = s.displayName(ctx, ip)
	}

	start := s.now()
	err = s.transport.Connect(ctx, netip.AddrPortFrom(ip, s.target.Port), s.timeout)
	elapsed := s.now().Sub(start)

	outcome.Time = start

	if errors.Is(err, ErrEnvironment) {
		return outcome, err
	}

	if err != nil {
		outcome.Err = err
		return outcome, nil
	}

	outcome.Success = true
	outcome.RTT = statistics.NanoToMillisecond(elapsed.Nanoseconds())

	return outcome, nil
}

func (s *Sampler) displayName(ctx context.Context, ip netip.Addr) string {
	name, err := s.transport.ReverseLookup(ctx, ip)
	if err != nil || name == "" {
		return s.target.Host
	}
	return name
}
