package printers

import (
	"fmt"
	"strings"

	"github.com/pingtcp/pingtcp/statistics"
)

// PlainPrinter is a printer that prints the results in a simple, plain text format.
type PlainPrinter struct {
	opts options
}

func (p *PlainPrinter) options() *options { return &p.opts }

type PlainPrinterOption = func(*PlainPrinter)

// NewPlainPrinter creates a new PlainPrinter instance.
func NewPlainPrinter(opts ...PlainPrinterOption) *PlainPrinter {
	p := &PlainPrinter{opts: defaultOptions()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PlainPrinter) println(line string) {
	fmt.Fprintln(p.opts.Writer, line)
}

// PrintStart prints the banner with the target and its resolved address.
func (p *PlainPrinter) PrintStart(s *statistics.Statistics) {
	p.println(startLine(s))
}

// PrintProbeSuccess prints a success message for a probe, including round-trip time.
func (p *PlainPrinter) PrintProbeSuccess(s *statistics.Statistics, o statistics.Outcome) {
	p.println(withTimestamp(&p.opts, o.Time, successLine(s, o)))
}

// PrintProbeFailure prints a failure message for a probe.
func (p *PlainPrinter) PrintProbeFailure(s *statistics.Statistics, o statistics.Outcome) {
	p.println(withTimestamp(&p.opts, o.Time, failureLine(s, o)))
}

// PrintTotalDownTime prints for how long the target was unreachable.
func (p *PlainPrinter) PrintTotalDownTime(s *statistics.Statistics) {
	p.println(downtimeLine(s))
}

// PrintError prints error messages.
func (p *PlainPrinter) PrintError(format string, args ...any) {
	p.println(errorLine(format, args...))
}

// PrintStatistics prints the summary and session details.
func (p *PlainPrinter) PrintStatistics(s *statistics.Statistics) {
	var b strings.Builder

	b.WriteString("\n" + headerLine(s) + "\n")
	b.WriteString(countersLine(s.Summary) + "\n")
	b.WriteString(rttLine(s.Summary) + "\n")

	for _, line := range sessionLines(s) {
		b.WriteString(line + "\n")
	}

	fmt.Fprint(p.opts.Writer, b.String())
}
