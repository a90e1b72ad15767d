package statistics

import (
	"fmt"
	"math"
	"time"
)

// DurationToString creates a human-readable string for a given duration
func DurationToString(duration time.Duration) string {
	hours := math.Floor(duration.Hours())
	if hours > 0 {
		duration -= time.Duration(hours * float64(time.Hour))
	}

	minutes := math.Floor(duration.Minutes())
	if minutes > 0 {
		duration -= time.Duration(minutes * float64(time.Minute))
	}

	seconds := duration.Seconds()

	switch {
	case hours >= 2:
		return fmt.Sprintf("%.0f hours %.0f minutes %.0f seconds", hours, minutes, seconds)
	case hours == 1 && minutes == 0 && seconds == 0:
		return "1 hour"
	case hours == 1:
		return fmt.Sprintf("1 hour %.0f minutes %.0f seconds", minutes, seconds)

	case minutes >= 2:
		return fmt.Sprintf("%.0f minutes %.0f seconds", minutes, seconds)
	case minutes == 1 && seconds == 0:
		return "1 minute"
	case minutes == 1:
		return fmt.Sprintf("1 minute %.0f seconds", seconds)

	case seconds == 0 || seconds >= 1 && seconds < 1.1:
		return fmt.Sprintf("%.0f second", seconds)
	case seconds < 1:
		return fmt.Sprintf("%.1f seconds", seconds)

	default:
		return fmt.Sprintf("%.0f seconds", seconds)
	}
}

// NanoToMillisecond converts nanoseconds to fractional milliseconds.
// duration.Milliseconds() truncates, which is useless for sub-millisecond handshakes.
func NanoToMillisecond(nano int64) float64 {
	return float64(nano) / float64(time.Millisecond)
}

// MaxDurationSeconds is the largest number of seconds a time.Duration can hold.
const MaxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// SecondsToDuration converts fractional seconds, as given on the command line, to a duration.
// Values outside the time.Duration range saturate; NaN converts to zero.
func SecondsToDuration(seconds float64) time.Duration {
	switch {
	case math.IsNaN(seconds):
		return 0
	case seconds >= MaxDurationSeconds:
		return math.MaxInt64
	case seconds <= -MaxDurationSeconds:
		return math.MinInt64
	}
	return time.Duration(seconds * float64(time.Second))
}
