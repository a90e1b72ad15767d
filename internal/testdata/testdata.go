// Package testdata provides shared test helpers and fixtures.
package testdata

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/netip"
	"testing"
	"time"

	"github.com/pingtcp/pingtcp/printers"
	"github.com/pingtcp/pingtcp/statistics"
)

// Common test fixture values
const (
	TestHostname = "example.com"
	TestPort     = uint16(443)
	TestPort80   = uint16(80)
)

var (
	TestIP         = netip.MustParseAddr("192.168.1.1")
	TestIP2        = netip.MustParseAddr("10.0.0.1")
	TestTimestamp  = time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	TestTimestamp2 = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	TestTimestamp3 = time.Date(2024, 1, 15, 14, 22, 10, 0, time.UTC)
)

// ToPtr returns a pointer to the provided value.
func ToPtr[T any](v T) *T {
	return &v
}

// Session returns statistics for TestHostname:TestPort that went through
// a success at TestTimestamp, a failure at TestTimestamp2 and a recovery at
// TestTimestamp3, finalized one minute later.
func Session() *statistics.Statistics {
	s := statistics.New(TestHostname, TestPort)
	s.StartTime = TestTimestamp

	s.Record(statistics.Outcome{Attempt: 1, Success: true, RTT: 10, Name: TestHostname, IP: TestIP, Time: TestTimestamp})
	s.Record(statistics.Outcome{Attempt: 2, Name: TestHostname, IP: TestIP2, Time: TestTimestamp2})
	s.Record(statistics.Outcome{Attempt: 3, Success: true, RTT: 30, Name: TestHostname, IP: TestIP2, Time: TestTimestamp3})
	s.Finalize(TestTimestamp3.Add(time.Minute))

	return s
}

// DecodeJSONEvents parses one JSON event per line of output.
func DecodeJSONEvents(t *testing.T, output []byte) []printers.JSONData {
	t.Helper()

	var events []printers.JSONData

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var data printers.JSONData
		if err := json.Unmarshal(line, &data); err != nil {
			t.Fatalf("parse JSON: %v\nOutput: %s", err, line)
		}
		events = append(events, data)
	}

	return events
}

// DecodeJSONEvent parses output holding exactly one JSON event.
func DecodeJSONEvent(t *testing.T, output []byte) printers.JSONData {
	t.Helper()

	events := DecodeJSONEvents(t, output)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d\nOutput: %s", len(events), output)
	}

	return events[0]
}
