package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/pingtcp/pingtcp"
	"github.com/pingtcp/pingtcp/dns"
	"github.com/pingtcp/pingtcp/statistics"
	"github.com/pingtcp/pingtcp/transports"
)

var (
	// ErrUsageRequested indicates usage help was requested
	ErrUsageRequested = errors.New("usage requested")

	// ErrHelpRequested indicates -h was given
	ErrHelpRequested = errors.New("help requested")

	// ErrVersionRequested indicates version display was requested
	ErrVersionRequested = errors.New("version requested")

	// ErrUpdateCheckRequested indicates update check was requested
	ErrUpdateCheckRequested = errors.New("update check requested")

	// ErrInvalidInput wraps every rejected flag or argument
	ErrInvalidInput = errors.New("invalid input")
)

// ProberConfig contains all configuration needed to create and run a prober.
type ProberConfig struct {
	// Target configuration
	Hostname string
	Port     uint16

	// Network options
	Family dns.Family
	SOCKS  *transports.SOCKSConfig

	// Timing options
	Timeout  time.Duration
	Interval time.Duration

	// Probe control
	ProbeCountLimit  uint
	ShowFailuresOnly bool
	ReverseLookup    bool

	// Output options
	PrinterConfig pingtcp.PrinterConfig

	// Runtime options
	NonInteractive bool
}

type options struct {
	useIPv4               *bool
	useIPv6               *bool
	noReverseLookup       *bool
	showFailuresOnly      *bool
	nonInteractive        *bool
	probesBeforeQuit      *uint
	socksAddress          *string
	socksConfigPath       *string
	timeout               *float64
	intervalBetweenProbes *float64
	args                  []string
}

// flags that consume the following argument
var valueFlags = []string{"c", "i", "t", "S", "socks-config"}

// setOptions assigns the user provided flags after sanity checks
func setOptions(config *ProberConfig, opts options) error {
	if *opts.useIPv4 && *opts.useIPv6 {
		return fmt.Errorf("%w: only one IP version can be specified", ErrInvalidInput)
	}

	if *opts.useIPv6 {
		config.Family = dns.IPv6
	}

	port, err := convertAndValidatePort(opts.args[1])
	if err != nil {
		return err
	}

	if opts.args[0] == "" {
		return fmt.Errorf("%w: empty target", ErrInvalidInput)
	}

	if *opts.timeout <= 0 {
		return fmt.Errorf("%w: timeout must be greater than zero, got %g", ErrInvalidInput, *opts.timeout)
	}

	if !(*opts.timeout < statistics.MaxDurationSeconds) {
		return fmt.Errorf("%w: timeout is too large, got %g", ErrInvalidInput, *opts.timeout)
	}

	if *opts.intervalBetweenProbes < 0 {
		return fmt.Errorf("%w: interval cannot be negative, got %g", ErrInvalidInput, *opts.intervalBetweenProbes)
	}

	if !(*opts.intervalBetweenProbes < statistics.MaxDurationSeconds) {
		return fmt.Errorf("%w: interval is too large, got %g", ErrInvalidInput, *opts.intervalBetweenProbes)
	}

	config.Hostname = opts.args[0]
	config.Port = port
	config.ProbeCountLimit = *opts.probesBeforeQuit
	config.Timeout = statistics.SecondsToDuration(*opts.timeout)
	config.Interval = statistics.SecondsToDuration(*opts.intervalBetweenProbes)
	config.NonInteractive = *opts.nonInteractive
	config.ShowFailuresOnly = *opts.showFailuresOnly
	config.ReverseLookup = !*opts.noReverseLookup

	socks, err := socksConfig(*opts.socksAddress, *opts.socksConfigPath)
	if err != nil {
		return err
	}
	config.SOCKS = socks

	return nil
}

func socksConfig(address, path string) (*transports.SOCKSConfig, error) {
	switch {
	case address != "" && path != "":
		return nil, fmt.Errorf("%w: -S and -socks-config are mutually exclusive", ErrInvalidInput)

	case address != "":
		cfg, err := transports.ParseSOCKSAddress(address)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return &cfg, nil

	case path != "":
		cfg, err := transports.LoadSOCKSConfig(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return &cfg, nil
	}

	return nil, nil
}

// convertAndValidatePort validates and returns the TCP port
func convertAndValidatePort(portStr string) (uint16, error) {
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid port number: %s", ErrInvalidInput, portStr)
	}

	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: port should be in 1..65535 range", ErrInvalidInput)
	}

	return uint16(port), nil
}

// permuteArgs moves flags in front of positional arguments, since flag
// parsing stops just before the first non-flag argument.
// see: https://pkg.go.dev/flag
func permuteArgs(args []string) error {
	var flagArgs []string
	var nonFlagArgs []string

	for i := 0; i < len(args); i++ {
		v := args[i]
		if len(v) < 2 || v[0] != '-' {
			nonFlagArgs = append(nonFlagArgs, v)
			continue
		}

		optionName := v[1:]
		if optionName[0] == '-' {
			optionName = optionName[1:]
		}

		if !slices.Contains(valueFlags, optionName) {
			flagArgs = append(flagArgs, v)
			continue
		}

		// out of index
		if len(args) <= i+1 {
			return ErrUsageRequested
		}

		// the next flag has come
		optionVal := args[i+1]
		if len(optionVal) > 0 && optionVal[0] == '-' {
			return ErrUsageRequested
		}

		flagArgs = append(flagArgs, args[i:i+2]...)
		i++
	}

	permutedArgs := slices.Concat(flagArgs, nonFlagArgs)

	// replace args in place
	copy(args, permutedArgs)

	return nil
}

// newFlagSet declares every flag on a fresh set so parsing is repeatable.
func newFlagSet() (*flag.FlagSet, *parsedFlags) {
	fs := flag.NewFlagSet("pingtcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	f := &parsedFlags{}
	f.useIPv4 = fs.Bool("4", false, "only use IPv4 to initiate probes (default).")
	f.useIPv6 = fs.Bool("6", false, "only use IPv6 to initiate probes.")
	f.probesBeforeQuit = fs.Uint("c",
		0,
		"stop after <n> handshakes, regardless of the result. By default, no limit will be applied.")
	f.showTimestamp = fs.Bool("D", false, "show timestamp for each probe in the output.")
	f.outputJSON = fs.Bool("j", false, "output in JSON format.")
	f.prettyJSON = fs.Bool("pretty",
		false,
		"use indentation when using json output format. No effect without the '-j' flag.")
	f.nonInteractive = fs.Bool("non-interactive",
		false,
		"do not print statistics when Enter is pressed, for instance when running under nohup or disown.")
	f.noColor = fs.Bool("no-color", false, "do not colorize output.")
	f.noReverseLookup = fs.Bool("n", false, "do not look up the name of the resolved address.")
	f.intervalBetweenProbes = fs.Float64("i",
		1,
		"interval between handshakes, in seconds. Real number allowed with dot as a decimal separator.")
	f.timeout = fs.Float64("t",
		1,
		"time to wait for a handshake to complete, in seconds. Real number allowed.")
	f.socksAddress = fs.String("S", "", "open handshakes through the SOCKS5 proxy at <host:port>, e.g. 127.0.0.1:9050 for Tor.")
	f.socksConfigPath = fs.String("socks-config", "", "path to a YAML file with the SOCKS5 server, port, username and password.")
	f.showFailuresOnly = fs.Bool("show-failures-only", false, "show only the failed handshakes.")
	f.showVer = fs.Bool("v", false, "show version and exit.")
	f.showVersion = fs.Bool("version", false, "show version and exit.")
	f.checkUpdates = fs.Bool("u", false, "check for updates and exit.")

	return fs, f
}

type parsedFlags struct {
	options
	showTimestamp *bool
	outputJSON    *bool
	prettyJSON    *bool
	noColor       *bool
	showVer       *bool
	showVersion   *bool
	checkUpdates  *bool
}

// ProcessUserInput parses command-line arguments. Returns ErrUsageRequested,
// ErrHelpRequested, ErrVersionRequested, or ErrUpdateCheckRequested for
// special control flow and ErrInvalidInput for rejected values.
func ProcessUserInput(args []string) (ProberConfig, error) {
	args = slices.Clone(args)
	if err := permuteArgs(args); err != nil {
		return ProberConfig{}, err
	}

	fs, f := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ProberConfig{}, ErrHelpRequested
		}
		return ProberConfig{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if *f.showVer || *f.showVersion {
		return ProberConfig{}, ErrVersionRequested
	}

	if *f.checkUpdates {
		return ProberConfig{}, ErrUpdateCheckRequested
	}

	if fs.NArg() != 2 {
		return ProberConfig{}, ErrUsageRequested
	}

	f.args = fs.Args()

	config := ProberConfig{
		PrinterConfig: pingtcp.PrinterConfig{
			OutputJSON:    *f.outputJSON,
			PrettyJSON:    *f.prettyJSON,
			NoColor:       *f.noColor,
			WithTimestamp: *f.showTimestamp,
		},
	}

	if err := setOptions(&config, f.options); err != nil {
		return ProberConfig{}, fmt.Errorf("set options: %w", err)
	}

	return config, nil
}
