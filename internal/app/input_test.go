package app_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pingtcp/pingtcp/dns"
	"github.com/pingtcp/pingtcp/internal/app"
	"github.com/pingtcp/pingtcp/transports"
)

func TestProcessUserInput_Defaults(t *testing.T) {
	config, err := app.ProcessUserInput([]string{"example.com", "443"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Hostname != "example.com" {
		t.Errorf("Hostname = %q, want %q", config.Hostname, "example.com")
	}

	if config.Port != 443 {
		t.Errorf("Port = %d, want 443", config.Port)
	}

	if config.Timeout != time.Second {
		t.Errorf("Timeout = %v, want %v", config.Timeout, time.Second)
	}

	if config.Interval != time.Second {
		t.Errorf("Interval = %v, want %v", config.Interval, time.Second)
	}

	if config.ProbeCountLimit != 0 {
		t.Errorf("ProbeCountLimit = %d, want 0", config.ProbeCountLimit)
	}

	if config.Family != dns.IPv4 {
		t.Errorf("Family = %v, want %v", config.Family, dns.IPv4)
	}

	if !config.ReverseLookup {
		t.Error("ReverseLookup should be enabled by default")
	}

	if config.SOCKS != nil {
		t.Errorf("SOCKS should be nil, got %+v", config.SOCKS)
	}
}

func TestProcessUserInput_AllOptions(t *testing.T) {
	args := []string{
		"-c", "5",
		"-i", "0.25",
		"-t", "2.5",
		"-6",
		"-n",
		"-D",
		"-j", "-pretty",
		"-show-failures-only",
		"-non-interactive",
		"-S", "127.0.0.1:9050",
		"db.example.com", "5432",
	}

	config, err := app.ProcessUserInput(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.ProbeCountLimit != 5 {
		t.Errorf("ProbeCountLimit = %d, want 5", config.ProbeCountLimit)
	}

	if config.Interval != 250*time.Millisecond {
		t.Errorf("Interval = %v, want 250ms", config.Interval)
	}

	if config.Timeout != 2500*time.Millisecond {
		t.Errorf("Timeout = %v, want 2.5s", config.Timeout)
	}

	if config.Family != dns.IPv6 {
		t.Errorf("Family = %v, want %v", config.Family, dns.IPv6)
	}

	if config.ReverseLookup {
		t.Error("ReverseLookup should be disabled by -n")
	}

	if !config.ShowFailuresOnly || !config.NonInteractive {
		t.Error("ShowFailuresOnly and NonInteractive should be set")
	}

	pc := config.PrinterConfig
	if !pc.OutputJSON || !pc.PrettyJSON || !pc.WithTimestamp || pc.NoColor {
		t.Errorf("unexpected printer config: %+v", pc)
	}

	want := transports.SOCKSConfig{Server: "127.0.0.1", Port: 9050}
	if config.SOCKS == nil || *config.SOCKS != want {
		t.Errorf("SOCKS = %+v, want %+v", config.SOCKS, want)
	}
}

func TestProcessUserInput_FlagsAfterPositionals(t *testing.T) {
	config, err := app.ProcessUserInput([]string{"example.com", "80", "-c", "3", "-no-color", "-i", "0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Hostname != "example.com" || config.Port != 80 {
		t.Errorf("target = %s:%d, want example.com:80", config.Hostname, config.Port)
	}

	if config.ProbeCountLimit != 3 {
		t.Errorf("ProbeCountLimit = %d, want 3", config.ProbeCountLimit)
	}

	if config.Interval != 0 {
		t.Errorf("Interval = %v, want 0", config.Interval)
	}

	if !config.PrinterConfig.NoColor {
		t.Error("NoColor should be set")
	}
}

func TestProcessUserInput_SOCKSConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tor.yaml")
	if err := os.WriteFile(path, []byte("server: 127.0.0.1\nport: 9050\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := app.ProcessUserInput([]string{"-socks-config", path, "example.com", "443"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.SOCKS == nil || config.SOCKS.Port != 9050 {
		t.Errorf("SOCKS = %+v, want port 9050", config.SOCKS)
	}
}

func TestProcessUserInput_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "no arguments", args: nil, want: app.ErrUsageRequested},
		{name: "missing port", args: []string{"example.com"}, want: app.ErrUsageRequested},
		{name: "too many arguments", args: []string{"example.com", "443", "extra"}, want: app.ErrUsageRequested},
		{name: "flag without value", args: []string{"example.com", "443", "-c"}, want: app.ErrUsageRequested},
		{name: "value looks like a flag", args: []string{"-t", "-1", "example.com", "443"}, want: app.ErrUsageRequested},
		{name: "help", args: []string{"-h"}, want: app.ErrHelpRequested},
		{name: "version", args: []string{"-v"}, want: app.ErrVersionRequested},
		{name: "long version", args: []string{"--version"}, want: app.ErrVersionRequested},
		{name: "long version after target", args: []string{"example.com", "443", "-version"}, want: app.ErrVersionRequested},
		{name: "update check", args: []string{"-u"}, want: app.ErrUpdateCheckRequested},
		{name: "non-numeric port", args: []string{"example.com", "https"}, want: app.ErrInvalidInput},
		{name: "port zero", args: []string{"example.com", "0"}, want: app.ErrInvalidInput},
		{name: "port too large", args: []string{"example.com", "65536"}, want: app.ErrInvalidInput},
		{name: "both families", args: []string{"-4", "-6", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "negative timeout", args: []string{"-t=-1", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "zero timeout", args: []string{"-t", "0", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "negative interval", args: []string{"-i=-0.5", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "timeout too large", args: []string{"-t", "1e10", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "interval too large", args: []string{"-i", "1e10", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "infinite timeout", args: []string{"-t", "Inf", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "timeout not a number", args: []string{"-t", "NaN", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "unknown flag", args: []string{"-x", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "bad count", args: []string{"-c", "many", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "bad proxy", args: []string{"-S", "localhost", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "two proxy sources", args: []string{"-S", "127.0.0.1:9050", "-socks-config", "tor.yaml", "example.com", "443"}, want: app.ErrInvalidInput},
		{name: "missing proxy file", args: []string{"-socks-config", "does-not-exist.yaml", "example.com", "443"}, want: app.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := app.ProcessUserInput(tt.args)
			if !errors.Is(err, tt.want) {
				t.Errorf("ProcessUserInput(%q) error = %v, want %v", tt.args, err, tt.want)
			}
		})
	}
}

func TestProcessUserInput_DoesNotModifyArgs(t *testing.T) {
	args := []string{"example.com", "443", "-c", "1"}

	if _, err := app.ProcessUserInput(args); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if args[0] != "example.com" || args[3] != "1" {
		t.Errorf("args were permuted in place: %q", args)
	}
}
