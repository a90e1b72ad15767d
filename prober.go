package pingtcp

import (
	"context"
	"time"

	"github.com/pingtcp/pingtcp/option"
	"github.com/pingtcp/pingtcp/printers"
	"github.com/pingtcp/pingtcp/statistics"
)

const DefaultInterval = 1 * time.Second

// Prober paces attempts against one target and keeps the session statistics.
type Prober struct {
	sampler          *Sampler
	printer          Printer
	Interval         time.Duration
	ProbeCountLimit  uint
	ShowFailuresOnly bool
	statsRequests    <-chan struct{}
	Statistics       *statistics.Statistics
}

type ProberOption = option.Option[Prober]

// WithInterval configures the pause between the end of one attempt
// and the start of the next.
func WithInterval(interval time.Duration) ProberOption {
	return func(p *Prober) {
		p.Interval = interval
	}
}

// WithPrinter configures the printer for probe output formatting.
func WithPrinter(printer Printer) ProberOption {
	return func(p *Prober) {
		p.printer = printer
	}
}

// WithProbeCount configures the maximum number of probes before stopping.
// If set to 0, probing continues until ctx is cancelled.
func WithProbeCount(count uint) ProberOption {
	return func(p *Prober) {
		p.ProbeCountLimit = count
	}
}

// WithShowFailuresOnly configures the prober to only print failed attempts.
func WithShowFailuresOnly(show bool) ProberOption {
	return func(p *Prober) {
		p.ShowFailuresOnly = show
	}
}

// WithStatsRequests makes the prober print the statistics gathered so far
// every time a value arrives on requests while it is waiting.
func WithStatsRequests(requests <-chan struct{}) ProberOption {
	return func(p *Prober) {
		p.statsRequests = requests
	}
}

// NewProber creates a new prober driving the given sampler.
func NewProber(s *Sampler, opts ...ProberOption) *Prober {
	pr := Prober{
		sampler:  s,
		printer:  printers.NewColorPrinter(),
		Interval: DefaultInterval,
	}

	for _, opt := range opts {
		opt(&pr)
	}
	return &pr
}

// Probe runs attempts until the probe count limit is reached or ctx is
// cancelled while waiting between attempts. An attempt in progress always
// finishes first. A non-nil error means the run was aborted by a fatal
// condition and the statistics are incomplete.
func (p *Prober) Probe(ctx context.Context) (*statistics.Statistics, error) {
	target := p.sampler.Target()

	p.Statistics = statistics.New(target.Host, target.Port)
	p.Statistics.StartTime = p.sampler.now()

	for attempt := uint64(1); ; attempt++ {
		outcome, err := p.sampler.Run(ctx, attempt)
		if err != nil {
			p.Statistics.EndTime = p.sampler.now()
			return p.Statistics, err
		}

		recovered := p.Statistics.Record(outcome)

		if attempt == 1 {
			p.printer.PrintStart(p.Statistics)
		}

		if outcome.Success {
			if !p.ShowFailuresOnly {
				p.printer.PrintProbeSuccess(p.Statistics, outcome)
			}
		} else {
			p.printer.PrintProbeFailure(p.Statistics, outcome)
		}

		if recovered {
			p.printer.PrintTotalDownTime(p.Statistics)
		}

		if p.ProbeCountLimit > 0 && attempt >= uint64(p.ProbeCountLimit) {
			break
		}

		if !p.wait(ctx) {
			break
		}
	}

	p.Statistics.Finalize(p.sampler.now())
	return p.Statistics, nil
}

// wait sleeps for the interval and reports whether probing should go on.
func (p *Prober) wait(ctx context.Context) bool {
	if p.Interval <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(p.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		case <-p.statsRequests:
			p.Statistics.Summary = p.Statistics.Snapshot(p.sampler.now())
			p.printer.PrintStatistics(p.Statistics)
		}
	}
}
