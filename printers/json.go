package printers

import (
	"encoding/json"
	"time"

	"github.com/pingtcp/pingtcp/statistics"
)

// JSONEventType is a special type for each method
// in the printer interface so that automatic tools
// can understand what kind of an event they've received.
// For instance, start vs probe vs statistics...
type JSONEventType string

const (
	startEvent      JSONEventType = "start"      // Event type for `PrintStart` method.
	probeEvent      JSONEventType = "probe"      // Event type for both `PrintProbeSuccess` and `PrintProbeFailure`.
	downtimeEvent   JSONEventType = "downtime"   // Event type for `PrintTotalDownTime` method.
	statisticsEvent JSONEventType = "statistics" // Event type for `PrintStatistics` method.
	errorEvent      JSONEventType = "error"      // Event type for `PrintError` method.
)

// JSONData contains all possible fields for JSON output.
// Because one event usually contains only a subset of fields,
// other fields will be omitted in the output.
type JSONData struct {
	Type JSONEventType `json:"type"` // Specifies type of a message/event.
	// Success is a pointer so that success=false is still printed
	// for probe events while being omitted for the others.
	Success   *bool  `json:"success,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Message   string `json:"message"` // Message contains a message similar to other plain and colored printers.
	Hostname  string `json:"hostname,omitempty"`
	Name      string `json:"name,omitempty"` // Name is the display name of the probed address.
	IPAddr    string `json:"ipAddress,omitempty"`
	Port      uint16 `json:"port,omitempty"`
	Attempt   uint64 `json:"attempt,omitempty"`
	// Latency in ms for successful probe messages.
	Latency float64 `json:"latency,omitempty"`

	HostnameChanges []statistics.HostnameChange `json:"hostnameChanges,omitempty"`

	Attempts    uint64   `json:"attempts,omitempty"`
	Successes   *uint64  `json:"successes,omitempty"`
	LossPercent *float64 `json:"lossPercent,omitempty"`
	LatencyMin  *float64 `json:"latencyMin,omitempty"`
	LatencyAvg  *float64 `json:"latencyAvg,omitempty"`
	LatencyMax  *float64 `json:"latencyMax,omitempty"`
	LatencyMDev *float64 `json:"latencyMdev,omitempty"`
	// TotalDuration is the time in ms the session has been running.
	TotalDuration *float64 `json:"totalDuration,omitempty"`

	StartTimestamp        string  `json:"startTimestamp,omitempty"`
	EndTimestamp          string  `json:"endTimestamp,omitempty"`
	LastSuccessfulProbe   string  `json:"lastSuccessfulProbe,omitempty"`
	LastUnsuccessfulProbe string  `json:"lastUnsuccessfulProbe,omitempty"`
	Downtime              float64 `json:"downtime,omitempty"`        // Downtime in seconds for downtime events.
	TotalUptime           float64 `json:"totalUptime,omitempty"`     // TotalUptime in seconds.
	TotalDowntime         float64 `json:"totalDowntime,omitempty"`   // TotalDowntime in seconds.
	LongestUptime         float64 `json:"longestUptime,omitempty"`   // LongestUptime in seconds.
	LongestDowntime       float64 `json:"longestDowntime,omitempty"` // LongestDowntime in seconds.
}

// JSONPrinter is a struct that holds a JSON encoder to print structured JSON output.
type JSONPrinter struct {
	opts    options
	pretty  bool
	encoder *json.Encoder
}

func (p *JSONPrinter) options() *options { return &p.opts }

type JSONPrinterOption = func(*JSONPrinter)

// WithPrettyJSON indents every event.
func WithPrettyJSON() JSONPrinterOption {
	return func(p *JSONPrinter) {
		p.pretty = true
	}
}

// NewJSONPrinter creates a new JSONPrinter instance writing one event per line.
func NewJSONPrinter(opts ...JSONPrinterOption) *JSONPrinter {
	p := &JSONPrinter{opts: defaultOptions()}
	for _, opt := range opts {
		opt(p)
	}

	p.encoder = json.NewEncoder(p.opts.Writer)
	if p.pretty {
		p.encoder.SetIndent("", "\t")
	}

	return p
}

func (p *JSONPrinter) print(data JSONData) {
	// nothing sensible can be reported when the output itself is broken
	_ = p.encoder.Encode(data)
}

func (p *JSONPrinter) timestamp(t time.Time) string {
	if !p.opts.ShowTimestamp || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// PrintStart prints the initial message once the target is resolved.
func (p *JSONPrinter) PrintStart(s *statistics.Statistics) {
	p.print(JSONData{
		Type:     startEvent,
		Message:  startLine(s),
		Hostname: s.Hostname,
		IPAddr:   addrStr(s.IP),
		Port:     s.Port,
	})
}

// PrintProbeSuccess prints successful handshakes in JSON format.
func (p *JSONPrinter) PrintProbeSuccess(s *statistics.Statistics, o statistics.Outcome) {
	t := true

	p.print(JSONData{
		Type:      probeEvent,
		Success:   &t,
		Timestamp: p.timestamp(o.Time),
		Message:   successLine(s, o),
		Hostname:  s.Hostname,
		Name:      o.Name,
		IPAddr:    addrStr(o.IP),
		Port:      s.Port,
		Attempt:   o.Attempt,
		Latency:   o.RTT,
	})
}

// PrintProbeFailure prints a JSON message when a handshake fails.
func (p *JSONPrinter) PrintProbeFailure(s *statistics.Statistics, o statistics.Outcome) {
	f := false

	p.print(JSONData{
		Type:      probeEvent,
		Success:   &f,
		Timestamp: p.timestamp(o.Time),
		Message:   failureLine(s, o),
		Hostname:  s.Hostname,
		Name:      o.Name,
		IPAddr:    addrStr(o.IP),
		Port:      s.Port,
		Attempt:   o.Attempt,
	})
}

// PrintTotalDownTime prints the length of the downtime that just ended.
func (p *JSONPrinter) PrintTotalDownTime(s *statistics.Statistics) {
	p.print(JSONData{
		Type:     downtimeEvent,
		Message:  downtimeLine(s),
		Hostname: s.Hostname,
		Port:     s.Port,
		Downtime: s.DownTime.Seconds(),
	})
}

// PrintError prints an error event.
func (p *JSONPrinter) PrintError(format string, args ...any) {
	p.print(JSONData{
		Type:    errorEvent,
		Message: errorLine(format, args...),
	})
}

// PrintStatistics prints all gathered stats.
func (p *JSONPrinter) PrintStatistics(s *statistics.Statistics) {
	sum := s.Summary
	duration := statistics.NanoToMillisecond(sum.Duration.Nanoseconds())

	data := JSONData{
		Type:            statisticsEvent,
		Message:         headerLine(s),
		Hostname:        s.Hostname,
		IPAddr:          addrStr(s.IP),
		Port:            s.Port,
		Attempts:        sum.Attempts,
		Successes:       &sum.Successes,
		LossPercent:     &sum.LossPercent,
		LatencyMin:      &sum.Min,
		LatencyAvg:      &sum.Avg,
		LatencyMax:      &sum.Max,
		LatencyMDev:     &sum.MDev,
		TotalDuration:   &duration,
		StartTimestamp:  formatTime(s.StartTime),
		EndTimestamp:    formatTime(s.EndTime),
		TotalUptime:     s.TotalUptime.Seconds(),
		TotalDowntime:   s.TotalDowntime.Seconds(),
		LongestUptime:   s.LongestUp.Duration.Seconds(),
		LongestDowntime: s.LongestDown.Duration.Seconds(),

		LastSuccessfulProbe:   formatTime(s.LastSuccessfulProbe),
		LastUnsuccessfulProbe: formatTime(s.LastUnsuccessfulProbe),
	}

	if !s.DestIsIP && len(s.HostnameChanges) >= 2 {
		data.HostnameChanges = s.HostnameChanges
	}

	p.print(data)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
