package pingtcp

import (
	"errors"
	"io"

	"github.com/pingtcp/pingtcp/printers"
	"github.com/pingtcp/pingtcp/statistics"
)

var (
	_ Printer = (*printers.ColorPrinter)(nil)
	_ Printer = (*printers.JSONPrinter)(nil)
	_ Printer = (*printers.PlainPrinter)(nil)
)

// ErrPrettyWithoutJSON is returned when pretty output is requested for a non-JSON printer.
var ErrPrettyWithoutJSON = errors.New("-pretty has no effect without the -j flag")

// Printer defines a set of methods that any printer implementation must provide.
// Printers are responsible for outputting information, but should not modify data or perform calculations.
type Printer interface {
	// PrintStart prints the banner naming the target and its resolved address.
	// It is printed once, right after the first attempt.
	PrintStart(s *statistics.Statistics)

	// PrintProbeSuccess should print a message after each successful probe.
	PrintProbeSuccess(s *statistics.Statistics, o statistics.Outcome)

	// PrintProbeFailure should print a message after each failed probe.
	PrintProbeFailure(s *statistics.Statistics, o statistics.Outcome)

	// PrintTotalDownTime should print a downtime duration.
	//
	// This is being called when host was unavailable for some time
	// but the latest probe was successful (became available).
	PrintTotalDownTime(s *statistics.Statistics)

	// PrintStatistics should print s.Summary along with the session details.
	//
	// This is being called on exit and when user hits "Enter".
	PrintStatistics(s *statistics.Statistics)

	// PrintError should print an error message.
	// Printer should also apply \n to the given string, if needed.
	PrintError(format string, args ...any)
}

// NewPrinter creates and returns an appropriate printer based on configuration
func NewPrinter(cfg PrinterConfig) (Printer, error) {
	if cfg.PrettyJSON && !cfg.OutputJSON {
		return nil, ErrPrettyWithoutJSON
	}

	switch {
	case cfg.OutputJSON:
		opts := []printers.JSONPrinterOption{}
		if cfg.PrettyJSON {
			opts = append(opts, printers.WithPrettyJSON())
		}
		if cfg.Writer != nil {
			opts = append(opts, printers.WithWriter[*printers.JSONPrinter](cfg.Writer))
		}
		if cfg.WithTimestamp {
			opts = append(opts, printers.WithTimestamp[*printers.JSONPrinter]())
		}
		return printers.NewJSONPrinter(opts...), nil

	case cfg.NoColor:
		opts := []printers.PlainPrinterOption{}
		if cfg.Writer != nil {
			opts = append(opts, printers.WithWriter[*printers.PlainPrinter](cfg.Writer))
		}
		if cfg.WithTimestamp {
			opts = append(opts, printers.WithTimestamp[*printers.PlainPrinter]())
		}
		return printers.NewPlainPrinter(opts...), nil

	default:
		opts := []printers.ColorPrinterOption{}
		if cfg.Writer != nil {
			opts = append(opts, printers.WithWriter[*printers.ColorPrinter](cfg.Writer))
		}
		if cfg.WithTimestamp {
			opts = append(opts, printers.WithTimestamp[*printers.ColorPrinter]())
		}
		return printers.NewColorPrinter(opts...), nil
	}
}

// PrinterConfig holds all configuration options for Printer creation
type PrinterConfig struct {
	OutputJSON    bool
	PrettyJSON    bool
	NoColor       bool
	WithTimestamp bool
	// Writer defaults to stdout.
	Writer io.Writer
}
