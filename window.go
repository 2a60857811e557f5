package functrace

import "time"

// DefaultResolution is the width of an aggregation window unless
// overridden with WithResolution.
const DefaultResolution = time.Minute

// windowKeyLayout renders window starts as RFC 3339 with an explicit
// numeric UTC offset, e.g. "2016-06-20T23:56:00+00:00".
const windowKeyLayout = "2006-01-02T15:04:05-07:00"

// Window is a fixed-duration, non-overlapping time bucket identified by
// its start instant, normalized to UTC. Two instants in the same physical
// bucket always map to the same Window.
type Window struct {
	Start time.Time
}

// WindowOf returns the window enclosing t at the given resolution. An
// instant exactly on a boundary belongs to the window starting at that
// instant, never the prior one. Non-positive resolutions fall back to
// DefaultResolution.
func WindowOf(t time.Time, resolution time.Duration) Window {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return Window{Start: t.UTC().Truncate(resolution)}
}

// Key returns the canonical string form of the window start.
func (w Window) Key() string {
	return w.Start.Format(windowKeyLayout)
}
