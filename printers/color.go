package printers

import (
	"fmt"
	"strings"

	"github.com/gookit/color"

	"github.com/pingtcp/pingtcp/statistics"
)

// Colors used when printing information
var (
	ColorCyan        = color.Cyan
	ColorLightCyan   = color.LightCyan
	ColorGreen       = color.Green
	ColorLightGreen  = color.LightGreen
	ColorYellow      = color.Yellow
	ColorLightYellow = color.LightYellow
	ColorRed         = color.Red
	ColorLightBlue   = color.FgLightBlue
)

// ColorPrinter provides functionality for printing messages with color support.
// It optionally includes a timestamp in the output if ShowTimestamp is enabled.
type ColorPrinter struct {
	opts options
}

func (p *ColorPrinter) options() *options { return &p.opts }

type ColorPrinterOption = func(*ColorPrinter)

// NewColorPrinter creates a new ColorPrinter instance.
func NewColorPrinter(opts ...ColorPrinterOption) *ColorPrinter {
	p := &ColorPrinter{opts: defaultOptions()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ColorPrinter) println(c color.Color, line string) {
	fmt.Fprintln(p.opts.Writer, c.Sprint(line))
}

// PrintStart prints the banner in light cyan.
func (p *ColorPrinter) PrintStart(s *statistics.Statistics) {
	p.println(ColorLightCyan, startLine(s))
}

// PrintProbeSuccess prints a successful probe in light green.
func (p *ColorPrinter) PrintProbeSuccess(s *statistics.Statistics, o statistics.Outcome) {
	p.println(ColorLightGreen, withTimestamp(&p.opts, o.Time, successLine(s, o)))
}

// PrintProbeFailure prints a failed probe in red.
func (p *ColorPrinter) PrintProbeFailure(s *statistics.Statistics, o statistics.Outcome) {
	p.println(ColorRed, withTimestamp(&p.opts, o.Time, failureLine(s, o)))
}

// PrintTotalDownTime prints for how long the target was unreachable.
func (p *ColorPrinter) PrintTotalDownTime(s *statistics.Statistics) {
	p.println(ColorLightYellow, downtimeLine(s))
}

// PrintError prints an error message in red.
func (p *ColorPrinter) PrintError(format string, args ...any) {
	p.println(ColorRed, errorLine(format, args...))
}

// PrintStatistics prints the summary in yellow, with loss colored by severity.
func (p *ColorPrinter) PrintStatistics(s *statistics.Statistics) {
	var b strings.Builder

	b.WriteString("\n" + ColorYellow.Sprint(headerLine(s)) + "\n")
	b.WriteString(lossColor(s.Summary).Sprint(countersLine(s.Summary)) + "\n")
	b.WriteString(ColorCyan.Sprint(rttLine(s.Summary)) + "\n")

	for _, line := range sessionLines(s) {
		b.WriteString(ColorLightBlue.Sprint(line) + "\n")
	}

	fmt.Fprint(p.opts.Writer, b.String())
}

func lossColor(sum statistics.Summary) color.Color {
	switch {
	case sum.LossPercent == 0:
		return ColorLightGreen
	case sum.LossPercent > 0 && sum.LossPercent <= 30:
		return ColorLightYellow
	default:
		return ColorRed
	}
}
