package pingtcp_test

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"github.com/pingtcp/pingtcp/statistics"
)

var errRefused = errors.New("connection refused")

// step scripts one Connect call: how long it takes on the fake clock and what it returns.
type step struct {
	elapsed time.Duration
	err     error
	hook    func()
}

// fakeTransport resolves to a fixed address and replays steps, repeating the last one.
// Lookups fail with the context error once ctx is done, like the real resolvers.
type fakeTransport struct {
	clock      *fakeClock
	ip         netip.Addr
	resolveErr error
	onResolve  func()
	name       string
	lookupErr  error
	steps      []step

	connects []netip.AddrPort
	timeouts []time.Duration
}

func (f *fakeTransport) Resolve(ctx context.Context, _ string) (netip.Addr, error) {
	if f.onResolve != nil {
		f.onResolve()
	}
	if err := ctx.Err(); err != nil {
		return netip.Addr{}, err
	}
	if f.resolveErr != nil {
		return netip.Addr{}, f.resolveErr
	}
	return f.ip, nil
}

func (f *fakeTransport) ReverseLookup(ctx context.Context, _ netip.Addr) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.name, f.lookupErr
}

func (f *fakeTransport) Connect(_ context.Context, addr netip.AddrPort, timeout time.Duration) error {
	f.connects = append(f.connects, addr)
	f.timeouts = append(f.timeouts, timeout)

	s := f.steps[min(len(f.connects), len(f.steps))-1]
	f.clock.advance(s.elapsed)
	if s.hook != nil {
		s.hook()
	}
	return s.err
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// mockPrinter implements Printer interface for testing
type mockPrinter struct {
	startCalls         int
	totalDownTimeCalls int
	errorCalls         int
	outcomes           []statistics.Outcome
	summaries          []statistics.Summary
	onProbe            func(o statistics.Outcome)
}

func (m *mockPrinter) PrintStart(_ *statistics.Statistics) {
	m.startCalls++
}

func (m *mockPrinter) PrintProbeSuccess(_ *statistics.Statistics, o statistics.Outcome) {
	m.probe(o)
}

func (m *mockPrinter) PrintProbeFailure(_ *statistics.Statistics, o statistics.Outcome) {
	m.probe(o)
}

func (m *mockPrinter) probe(o statistics.Outcome) {
	m.outcomes = append(m.outcomes, o)
	if m.onProbe != nil {
		m.onProbe(o)
	}
}

func (m *mockPrinter) PrintTotalDownTime(_ *statistics.Statistics) {
	m.totalDownTimeCalls++
}

func (m *mockPrinter) PrintStatistics(s *statistics.Statistics) {
	m.summaries = append(m.summaries, s.Summary)
}

func (m *mockPrinter) PrintError(_ string, _ ...any) {
	m.errorCalls++
}
