// Package statistics keeps the running state of a pingtcp session:
// the handshake accumulator plus uptime and downtime bookkeeping.
package statistics

import (
	"fmt"
	"net/netip"
	"time"
)

// Statistics holds everything the printers need to describe a session.
// It is owned by the prober and only read by printers.
type Statistics struct {
	// Target information
	Hostname string
	Port     uint16
	IP       netip.Addr // most recently resolved address
	DestIsIP bool

	// Time tracking
	StartTime             time.Time
	EndTime               time.Time
	StartOfUptime         time.Time
	StartOfDowntime       time.Time
	LastSuccessfulProbe   time.Time
	LastUnsuccessfulProbe time.Time

	// Uptime/Downtime tracking
	DestWasDown   bool
	TotalUptime   time.Duration
	TotalDowntime time.Duration
	DownTime      time.Duration // most recent downtime period (for printing)
	LongestUp     LongestTime
	LongestDown   LongestTime

	// Streaks
	OngoingSuccessfulProbes   uint64
	OngoingUnsuccessfulProbes uint64

	// Handshake accounting
	Running Running
	Summary Summary

	// DNS tracking
	HostnameChanges []HostnameChange
}

// New returns the statistics for a session against hostname:port.
func New(hostname string, port uint16) *Statistics {
	_, err := netip.ParseAddr(hostname)

	return &Statistics{
		Hostname: hostname,
		Port:     port,
		DestIsIP: err == nil,
		Running:  NewRunning(),
	}
}

// Record folds a finished attempt into the session.
// It reports whether the attempt ended a downtime period.
func (s *Statistics) Record(o Outcome) (recovered bool) {
	s.Running.Update(o)
	s.trackAddress(o)

	if !o.Success {
		s.OngoingSuccessfulProbes = 0
		s.OngoingUnsuccessfulProbes++
		s.LastUnsuccessfulProbe = o.Time

		if !s.DestWasDown {
			s.closeUptime(o.Time)
			s.DestWasDown = true
			s.StartOfDowntime = o.Time
		}

		return false
	}

	s.OngoingSuccessfulProbes++
	s.OngoingUnsuccessfulProbes = 0
	s.LastSuccessfulProbe = o.Time

	if s.DestWasDown {
		s.DownTime = o.Time.Sub(s.StartOfDowntime)
		s.closeDowntime(o.Time)
		s.DestWasDown = false
		recovered = true
	}

	if s.StartOfUptime.IsZero() {
		s.StartOfUptime = o.Time
	}

	return recovered
}

// Finalize closes the open uptime or downtime period at end and computes the summary.
func (s *Statistics) Finalize(end time.Time) Summary {
	s.EndTime = end

	if s.DestWasDown {
		s.closeDowntime(end)
	} else {
		s.closeUptime(end)
	}

	s.Summary = s.Running.Summarize()
	s.Summary.Duration = s.EndTime.Sub(s.StartTime)

	return s.Summary
}

// Snapshot returns the summary of the session as of now without closing it.
func (s *Statistics) Snapshot(now time.Time) Summary {
	summary := s.Running.Summarize()
	summary.Duration = now.Sub(s.StartTime)
	return summary
}

func (s *Statistics) closeUptime(at time.Time) {
	if s.StartOfUptime.IsZero() {
		return
	}

	d := at.Sub(s.StartOfUptime)
	s.TotalUptime += d
	SetLongestDuration(s.StartOfUptime, d, &s.LongestUp)
	s.StartOfUptime = time.Time{}
}

func (s *Statistics) closeDowntime(at time.Time) {
	if s.StartOfDowntime.IsZero() {
		return
	}

	d := at.Sub(s.StartOfDowntime)
	s.TotalDowntime += d
	SetLongestDuration(s.StartOfDowntime, d, &s.LongestDown)
	s.StartOfDowntime = time.Time{}
}

func (s *Statistics) trackAddress(o Outcome) {
	if !o.IP.IsValid() {
		return
	}

	s.IP = o.IP

	n := len(s.HostnameChanges)
	if n > 0 && s.HostnameChanges[n-1].Addr == o.IP {
		return
	}

	s.HostnameChanges = append(s.HostnameChanges, HostnameChange{Addr: o.IP, When: o.Time})
}

// PortStr returns the port as a string.
func (s *Statistics) PortStr() string {
	return fmt.Sprint(s.Port)
}

// IPStr returns the most recently resolved address.
func (s *Statistics) IPStr() string {
	if !s.IP.IsValid() {
		return "unknown"
	}
	return s.IP.String()
}

// LongestTime holds information about the longest period of uptime or downtime.
type LongestTime struct {
	Start    time.Time     // Start time of the longest period.
	End      time.Time     // End time of the longest period.
	Duration time.Duration // Duration of the longest period.
}

// NewLongestTime creates and returns a LongestTime instance with the provided start time and duration.
func NewLongestTime(startTime time.Time, duration time.Duration) LongestTime {
	return LongestTime{
		Start:    startTime,
		End:      startTime.Add(duration),
		Duration: duration,
	}
}

// HostnameChange records the moment the target started resolving to Addr.
type HostnameChange struct {
	Addr netip.Addr `json:"addr"`
	When time.Time  `json:"when"`
}

// SetLongestDuration replaces longest when the given period is at least as long.
func SetLongestDuration(start time.Time, duration time.Duration, longest *LongestTime) {
	if start.IsZero() || duration == 0 {
		return
	}

	newLongest := NewLongestTime(start, duration)

	if longest.End.IsZero() || newLongest.Duration >= longest.Duration {
		*longest = newLongest
	}
}
