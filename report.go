package functrace

import (
	"fmt"
	"time"
)

// WindowStats is the wire form of one aggregate. Durations are
// milliseconds as floating-point values.
type WindowStats struct {
	Count int64   `json:"count"`
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`

	// Present only when percentile tracking is enabled.
	P50 float64 `json:"p50,omitempty"`
	P90 float64 `json:"p90,omitempty"`
	P99 float64 `json:"p99,omitempty"`

	// Failed invocations by error label; omitted when every call succeeded.
	Errors map[string]int64 `json:"errors,omitempty"`
}

// Report is the payload handed to drivers: instance metadata plus every
// drained aggregate, keyed by function identity and window start.
type Report struct {
	Instance Instance                          `json:"instance"`
	Traces   map[string]map[string]WindowStats `json:"traces"`
}

// BuildReport converts a drained snapshot into a driver payload. It
// returns nil for an empty snapshot.
func (c *Collector) BuildReport(snap Snapshot) *Report {
	if len(snap) == 0 {
		return nil
	}

	traces := make(map[string]map[string]WindowStats, len(snap))
	for identity, windows := range snap {
		stats := make(map[string]WindowStats, len(windows))
		for window, agg := range windows {
			stats[window.Key()] = windowStats(agg)
		}
		traces[identity] = stats
	}

	return &Report{
		Instance: c.instance,
		Traces:   traces,
	}
}

func windowStats(agg *Aggregate) WindowStats {
	if agg.Count > 0 && agg.Max < agg.Min {
		// Impossible by construction; a violation means the aggregation
		// logic is broken, not a runtime condition to recover from.
		panic(fmt.Sprintf("functrace: aggregate invariant violated: max %s < min %s", agg.Max, agg.Min))
	}

	return WindowStats{
		Count:  agg.Count,
		Avg:    toMillis(agg.Avg()),
		Min:    toMillis(agg.Min),
		Max:    toMillis(agg.Max),
		P50:    toMillis(agg.percentile(50)),
		P90:    toMillis(agg.percentile(90)),
		P99:    toMillis(agg.percentile(99)),
		Errors: agg.Errors,
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
