package functrace_test

import (
	"testing"
	"time"

	"github.com/torosent/functrace"
)

func TestWindowOfTruncatesToMinute(t *testing.T) {
	instant := time.Date(2016, 6, 20, 23, 56, 42, 123456789, time.UTC)
	w := functrace.WindowOf(instant, time.Minute)

	want := time.Date(2016, 6, 20, 23, 56, 0, 0, time.UTC)
	if !w.Start.Equal(want) {
		t.Errorf("window start = %s, want %s", w.Start, want)
	}
}

func TestWindowBoundaryBelongsToStartingWindow(t *testing.T) {
	boundary := time.Date(2016, 6, 20, 23, 56, 0, 0, time.UTC)
	w := functrace.WindowOf(boundary, time.Minute)

	if !w.Start.Equal(boundary) {
		t.Errorf("boundary instant mapped to %s, want %s", w.Start, boundary)
	}
}

func TestWindowOfSameMinuteSameWindow(t *testing.T) {
	a := functrace.WindowOf(time.Date(2016, 6, 20, 23, 56, 0, 0, time.UTC), time.Minute)
	b := functrace.WindowOf(time.Date(2016, 6, 20, 23, 56, 59, 999999999, time.UTC), time.Minute)

	if a != b {
		t.Errorf("same-minute instants mapped to different windows: %s vs %s", a.Key(), b.Key())
	}
}

func TestWindowOfStable(t *testing.T) {
	instant := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	first := functrace.WindowOf(instant, time.Minute)
	second := functrace.WindowOf(instant, time.Minute)

	if first != second {
		t.Errorf("WindowOf not referentially stable: %v vs %v", first, second)
	}
}

func TestWindowOfNormalizesToUTC(t *testing.T) {
	zone := time.FixedZone("CEST", 2*60*60)
	local := time.Date(2016, 6, 21, 1, 56, 30, 0, zone)
	utc := time.Date(2016, 6, 20, 23, 56, 30, 0, time.UTC)

	if functrace.WindowOf(local, time.Minute) != functrace.WindowOf(utc, time.Minute) {
		t.Error("equivalent instants in different zones mapped to different windows")
	}
	if got := functrace.WindowOf(local, time.Minute).Key(); got != "2016-06-20T23:56:00+00:00" {
		t.Errorf("Key() = %q, want UTC-normalized key", got)
	}
}

func TestWindowKeyFormat(t *testing.T) {
	w := functrace.WindowOf(time.Date(2016, 6, 20, 23, 56, 17, 0, time.UTC), time.Minute)

	if got, want := w.Key(), "2016-06-20T23:56:00+00:00"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestWindowOfSubMinuteResolution(t *testing.T) {
	instant := time.Date(2016, 6, 20, 23, 56, 47, 0, time.UTC)
	w := functrace.WindowOf(instant, 10*time.Second)

	want := time.Date(2016, 6, 20, 23, 56, 40, 0, time.UTC)
	if !w.Start.Equal(want) {
		t.Errorf("10s window start = %s, want %s", w.Start, want)
	}
}

func TestWindowOfNonPositiveResolutionDefaults(t *testing.T) {
	instant := time.Date(2016, 6, 20, 23, 56, 47, 0, time.UTC)
	if functrace.WindowOf(instant, 0) != functrace.WindowOf(instant, functrace.DefaultResolution) {
		t.Error("zero resolution did not fall back to DefaultResolution")
	}
}
