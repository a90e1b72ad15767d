// Package printers contains the logic for printing information
package printers

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/pingtcp/pingtcp/statistics"
)

// The plain and color printers share these line layouts.

func startLine(s *statistics.Statistics) string {
	return fmt.Sprintf("PINGTCP %s (%s)", s.Hostname, endpoint(s.IP, s.Port))
}

func successLine(s *statistics.Statistics, o statistics.Outcome) string {
	return fmt.Sprintf("Handshaked with %s:%d (%s): attempt=%d time=%.3f ms",
		o.Name,
		s.Port,
		addrStr(o.IP),
		o.Attempt,
		o.RTT)
}

func failureLine(s *statistics.Statistics, o statistics.Outcome) string {
	return fmt.Sprintf("Unable to handshake with %s:%d (%s): attempt=%d",
		o.Name,
		s.Port,
		addrStr(o.IP),
		o.Attempt)
}

func downtimeLine(s *statistics.Statistics) string {
	return fmt.Sprintf("No response received for %s", statistics.DurationToString(s.DownTime))
}

func headerLine(s *statistics.Statistics) string {
	return fmt.Sprintf("--- %s:%d pingtcp statistics ---", s.Hostname, s.Port)
}

func countersLine(sum statistics.Summary) string {
	return fmt.Sprintf("%d handshakes started, %d succeeded, %.3f%% loss, time %.3f ms",
		sum.Attempts,
		sum.Successes,
		sum.LossPercent,
		statistics.NanoToMillisecond(sum.Duration.Nanoseconds()))
}

func rttLine(sum statistics.Summary) string {
	return fmt.Sprintf("rtt min/avg/max/mdev = %.3f/%.3f/%.3f/%.3f",
		sum.Min,
		sum.Avg,
		sum.Max,
		sum.MDev)
}

// sessionLines describes uptime, downtime and address changes.
func sessionLines(s *statistics.Statistics) []string {
	var lines []string

	if s.LastSuccessfulProbe.IsZero() {
		lines = append(lines, "last successful probe:   Never succeeded")
	} else {
		lines = append(lines, "last successful probe:   "+s.LastSuccessfulProbe.Format(time.DateTime))
	}

	if s.LastUnsuccessfulProbe.IsZero() {
		lines = append(lines, "last unsuccessful probe: Never failed")
	} else {
		lines = append(lines, "last unsuccessful probe: "+s.LastUnsuccessfulProbe.Format(time.DateTime))
	}

	lines = append(lines,
		"total uptime:   "+statistics.DurationToString(s.TotalUptime),
		"total downtime: "+statistics.DurationToString(s.TotalDowntime))

	if s.LongestUp.Duration != 0 {
		lines = append(lines, "longest consecutive uptime:   "+longestStr(s.LongestUp))
	}

	if s.LongestDown.Duration != 0 {
		lines = append(lines, "longest consecutive downtime: "+longestStr(s.LongestDown))
	}

	if !s.DestIsIP && len(s.HostnameChanges) >= 2 {
		lines = append(lines, "IP address changes:")
		for i := 0; i < len(s.HostnameChanges)-1; i++ {
			lines = append(lines, fmt.Sprintf("  from %s to %s at %s",
				s.HostnameChanges[i].Addr,
				s.HostnameChanges[i+1].Addr,
				s.HostnameChanges[i+1].When.Format(time.DateTime)))
		}
	}

	return lines
}

func longestStr(l statistics.LongestTime) string {
	return fmt.Sprintf("%s from %s to %s",
		statistics.DurationToString(l.Duration),
		l.Start.Format(time.DateTime),
		l.End.Format(time.DateTime))
}

func endpoint(ip netip.Addr, port uint16) string {
	if !ip.IsValid() {
		return fmt.Sprintf("unknown:%d", port)
	}
	return netip.AddrPortFrom(ip, port).String()
}

func addrStr(ip netip.Addr) string {
	if !ip.IsValid() {
		return "unknown"
	}
	return ip.String()
}

func withTimestamp(opts *options, t time.Time, line string) string {
	if !opts.ShowTimestamp || t.IsZero() {
		return line
	}
	return t.Format(time.DateTime) + " " + line
}

func errorLine(format string, args ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
