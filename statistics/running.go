package statistics

import (
	"math"
	"net/netip"
	"time"
)

// Outcome is the result of a single handshake attempt.
type Outcome struct {
	Attempt uint64     // 1-based sequence number assigned by the prober.
	Success bool       // Whether the handshake completed.
	RTT     float64    // Handshake time in milliseconds, only meaningful when Success is true.
	Name    string     // Reverse name of IP, or the target host when there is none.
	IP      netip.Addr // Address the attempt was made to.
	Time    time.Time  // Wall clock time the attempt started.
	Err     error      // Why the handshake failed, nil on success.
}

// Running accumulates handshake results in constant space so that
// unbounded runs never grow in memory.
type Running struct {
	Attempts     uint64
	Successes    uint64
	Failures     uint64
	Min          float64
	Max          float64
	Sum          float64
	SumOfSquares float64
}

// NewRunning returns an empty accumulator with Min and Max set to their sentinels.
func NewRunning() Running {
	return Running{
		Min: math.Inf(1),
		Max: math.Inf(-1),
	}
}

// Update folds o into the accumulator.
func (r *Running) Update(o Outcome) {
	r.Attempts++

	if !o.Success {
		r.Failures++
		return
	}

	r.Successes++

	if o.RTT < r.Min {
		r.Min = o.RTT
	}

	if o.RTT > r.Max {
		r.Max = o.RTT
	}

	r.Sum += o.RTT
	r.SumOfSquares += o.RTT * o.RTT
}

// Summary is the condensed view of a Running accumulator.
type Summary struct {
	Attempts    uint64
	Successes   uint64
	Failures    uint64
	LossPercent float64
	Min         float64
	Avg         float64
	Max         float64
	MDev        float64       // population standard deviation of the successful RTTs
	Duration    time.Duration // wall clock time of the whole run, set by the owner of the session
}

// Summarize computes loss and min/avg/max/mdev.
// All RTT values are zero when nothing succeeded.
func (r *Running) Summarize() Summary {
	s := Summary{
		Attempts:  r.Attempts,
		Successes: r.Successes,
		Failures:  r.Failures,
	}

	if r.Attempts > 0 {
		s.LossPercent = float64(r.Failures) / float64(r.Attempts) * 100
	}

	if r.Successes == 0 {
		return s
	}

	n := float64(r.Successes)

	s.Min = r.Min
	s.Max = r.Max
	s.Avg = r.Sum / n

	// rounding can push the difference slightly below zero for identical samples
	variance := r.SumOfSquares/n - s.Avg*s.Avg
	if variance > 0 {
		s.MDev = math.Sqrt(variance)
	}

	return s
}
