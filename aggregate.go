package functrace

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Aggregate accumulates every duration recorded for one
// (identity, window) pair. It is mutated in place under the owning shard's
// lock and never mutated again after being drained.
type Aggregate struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Sum   time.Duration

	// Errors counts failed invocations by friendly error label. Nil until
	// the first failure.
	Errors map[string]int64

	// hist is non-nil only when percentile tracking is enabled.
	hist *hdrhistogram.Histogram
}

func newAggregate(withPercentiles bool) *Aggregate {
	a := &Aggregate{}
	if withPercentiles {
		// Track latencies from 1µs up to 60s with 3 significant figures.
		a.hist = hdrhistogram.New(1, 60_000_000, 3)
	}
	return a
}

// observe folds one sample into the aggregate. The merge is commutative,
// so arrival order never affects the final values.
func (a *Aggregate) observe(d time.Duration, err error) {
	if d < 0 {
		d = 0
	}

	if a.Count == 0 || d < a.Min {
		a.Min = d
	}
	if d > a.Max {
		a.Max = d
	}
	a.Count++
	a.Sum += d

	if a.hist != nil {
		us := d.Microseconds()
		if us < a.hist.LowestTrackableValue() {
			us = a.hist.LowestTrackableValue()
		}
		if us > a.hist.HighestTrackableValue() {
			us = a.hist.HighestTrackableValue()
		}
		_ = a.hist.RecordValue(us)
	}

	if err != nil {
		if a.Errors == nil {
			a.Errors = make(map[string]int64)
		}
		a.Errors[errorLabel(err)]++
	}
}

// Avg returns the mean recorded duration, or 0 when nothing was recorded.
func (a *Aggregate) Avg() time.Duration {
	if a.Count == 0 {
		return 0
	}
	return time.Duration(int64(a.Sum) / a.Count)
}

func (a *Aggregate) percentile(q float64) time.Duration {
	if a.hist == nil || a.hist.TotalCount() == 0 {
		return 0
	}
	return time.Duration(a.hist.ValueAtQuantile(q)) * time.Microsecond
}
