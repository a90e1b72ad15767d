// Package app wires command-line input to the prober and maps
// the outcome of a run to a process exit status.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/pingtcp/pingtcp"
	"github.com/pingtcp/pingtcp/dns"
	"github.com/pingtcp/pingtcp/transports"
)

// Exit statuses, following sysexits.h.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitSoftware = 70
	ExitOSErr    = 71
)

// Run executes the pingtcp application and returns an exit code
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) int {
	config, err := ProcessUserInput(args[1:])
	if err != nil {
		return handleInputError(ctx, err, args[0], stdout, stderr)
	}

	config.PrinterConfig.Writer = stdout

	printer, err := pingtcp.NewPrinter(config.PrinterConfig)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitUsage
	}

	transports.SetLogger(printerLogger{printer})
	defer transports.SetLogger(nil)

	transport, err := buildTransport(config)
	if err != nil {
		printer.PrintError("%v", err)
		return exitCode(err)
	}

	var opts []pingtcp.ProberOption
	if !config.NonInteractive && stdin != nil && term.IsTerminal(int(stdin.Fd())) {
		requests := make(chan struct{}, 1)
		go monitorStdin(ctx, stdin, requests)
		opts = append(opts, pingtcp.WithStatsRequests(requests))
	}

	prober := buildProber(transport, printer, config, opts...)

	stats, err := prober.Probe(ctx)
	if err != nil {
		printer.PrintError("%v", err)
		return exitCode(err)
	}

	printer.PrintStatistics(stats)

	return ExitOK
}

func buildTransport(config ProberConfig) (pingtcp.Transport, error) {
	resolver := dns.NewResolver(dns.WithFamily(config.Family))

	if config.SOCKS != nil {
		return transports.NewSOCKS(resolver, *config.SOCKS)
	}

	return transports.NewDirect(resolver), nil
}

func buildProber(transport pingtcp.Transport, printer pingtcp.Printer, config ProberConfig, opts ...pingtcp.ProberOption) *pingtcp.Prober {
	sampler := pingtcp.NewSampler(transport,
		pingtcp.Target{Host: config.Hostname, Port: config.Port},
		pingtcp.WithConnectTimeout(config.Timeout),
		pingtcp.WithReverseLookup(config.ReverseLookup),
	)

	opts = append([]pingtcp.ProberOption{
		pingtcp.WithPrinter(printer),
		pingtcp.WithInterval(config.Interval),
		pingtcp.WithProbeCount(config.ProbeCountLimit),
		pingtcp.WithShowFailuresOnly(config.ShowFailuresOnly),
	}, opts...)

	return pingtcp.NewProber(sampler, opts...)
}

// printerLogger reports transport errors through the printer, so they
// follow the selected output format.
type printerLogger struct {
	printer pingtcp.Printer
}

func (printerLogger) Infof(string, ...interface{}) {}

func (l printerLogger) Errorf(format string, a ...interface{}) {
	l.printer.PrintError(format, a...)
}

// monitorStdin sends a request whenever the 'Enter' key is pressed on an
// empty line, until stdin is closed.
func monitorStdin(ctx context.Context, stdin io.Reader, requests chan<- struct{}) {
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		if strings.TrimSpace(scanner.Text()) != "" {
			continue
		}

		select {
		case requests <- struct{}{}:
		default: // one pending request is enough
		}
	}
}

func handleInputError(ctx context.Context, err error, executableName string, stdout, stderr io.Writer) int {
	switch {
	case errors.Is(err, ErrHelpRequested):
		PrintUsage(stdout, executableName)
		return ExitOK

	case errors.Is(err, ErrUsageRequested):
		PrintUsage(stderr, executableName)
		return ExitUsage

	case errors.Is(err, ErrVersionRequested):
		PrintVersion(stdout)
		return ExitOK

	case errors.Is(err, ErrUpdateCheckRequested):
		msg, checkErr := CheckForUpdates(ctx, nil)
		if checkErr != nil {
			fmt.Fprintf(stderr, "error: %v\n", checkErr)
			return ExitOSErr
		}
		fmt.Fprintln(stdout, msg)
		return ExitOK
	}

	fmt.Fprintf(stderr, "error: %v\n", err)
	return ExitUsage
}

// exitCode classifies a fatal error.
func exitCode(err error) int {
	switch {
	case errors.Is(err, pingtcp.ErrResolution),
		errors.Is(err, pingtcp.ErrEnvironment):
		return ExitOSErr
	case errors.Is(err, transports.ErrInvalidSOCKSConfig):
		return ExitUsage
	default:
		return ExitSoftware
	}
}
