package functrace_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/torosent/functrace"
)

func testInstance() functrace.Instance {
	return functrace.Instance{Hostname: "test-host", ID: "00000000-0000-0000-0000-000000000001"}
}

func buildTestReport(t *testing.T, opts ...functrace.Option) *functrace.Report {
	t.Helper()
	opts = append([]functrace.Option{functrace.WithInstance(testInstance())}, opts...)
	c, mock := newTestCollector(opts...)
	mock.Set(time.Date(2016, 6, 20, 23, 56, 10, 0, time.UTC))

	c.Record("app:fetch", 10*time.Millisecond, nil)
	c.Record("app:fetch", 30*time.Millisecond, nil)

	report := c.BuildReport(c.Drain())
	if report == nil {
		t.Fatal("BuildReport returned nil for non-empty snapshot")
	}
	return report
}

func TestWriterDriverPayloadSchema(t *testing.T) {
	var buf bytes.Buffer
	d := functrace.NewWriterDriver(&buf)

	if err := d.Emit(context.Background(), buildTestReport(t)); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	line := buf.String()
	if !strings.HasSuffix(line, "\n") || strings.Count(line, "\n") != 1 {
		t.Errorf("expected exactly one JSON line, got %q", line)
	}

	body := gjson.Parse(line)
	if got := body.Get("instance.hostname").String(); got != "test-host" {
		t.Errorf("instance.hostname = %q, want test-host", got)
	}
	if got := body.Get("instance.id").String(); got != testInstance().ID {
		t.Errorf("instance.id = %q, want %q", got, testInstance().ID)
	}

	stats := body.Get("traces").Get("app:fetch").Get("2016-06-20T23:56:00+00:00")
	if !stats.Exists() {
		t.Fatalf("window stats missing, payload = %s", line)
	}
	if got := stats.Get("count").Int(); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if got := stats.Get("avg").Float(); got != 20 {
		t.Errorf("avg = %v ms, want 20", got)
	}
	if got := stats.Get("min").Float(); got != 10 {
		t.Errorf("min = %v ms, want 10", got)
	}
	if got := stats.Get("max").Float(); got != 30 {
		t.Errorf("max = %v ms, want 30", got)
	}
	if stats.Get("p99").Exists() {
		t.Error("p99 present without WithPercentiles")
	}
	if stats.Get("errors").Exists() {
		t.Error("errors present for all-success window")
	}
}

func TestWriterDriverPercentiles(t *testing.T) {
	var buf bytes.Buffer
	d := functrace.NewWriterDriver(&buf)

	report := buildTestReport(t, functrace.WithPercentiles())
	if err := d.Emit(context.Background(), report); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	stats := gjson.Parse(buf.String()).Get("traces").Get("app:fetch").Get("2016-06-20T23:56:00+00:00")
	if !stats.Get("p99").Exists() {
		t.Fatal("p99 missing with WithPercentiles")
	}
	// Samples of 10ms and 30ms: p99 lands on the larger, within histogram
	// precision.
	if got := stats.Get("p99").Float(); got < 29 || got > 31 {
		t.Errorf("p99 = %v ms, want ~30", got)
	}
}

func TestBuildReportEmptySnapshot(t *testing.T) {
	c, _ := newTestCollector()
	if report := c.BuildReport(c.Drain()); report != nil {
		t.Errorf("BuildReport(empty) = %+v, want nil", report)
	}
}

func TestBuildReportErrorBreakdown(t *testing.T) {
	c, _ := newTestCollector(functrace.WithInstance(testInstance()))
	c.Record("app:flaky", 5*time.Millisecond, errBackend)

	report := c.BuildReport(c.Drain())
	for _, windows := range report.Traces["app:flaky"] {
		if len(windows.Errors) != 1 {
			t.Errorf("errors = %v, want one label", windows.Errors)
		}
	}
}

func TestLogDriverEmitsOneEntry(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := functrace.NewLogDriver(zap.New(core))

	if err := d.Emit(context.Background(), buildTestReport(t)); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	if logs.Len() != 1 {
		t.Fatalf("log entries = %d, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "trace report" {
		t.Errorf("message = %q, want \"trace report\"", entry.Message)
	}
	fields := entry.ContextMap()
	if fields["hostname"] != "test-host" {
		t.Errorf("hostname field = %v, want test-host", fields["hostname"])
	}
}

func TestLogDriverNilLogger(t *testing.T) {
	d := functrace.NewLogDriver(nil)
	if err := d.Emit(context.Background(), buildTestReport(t)); err != nil {
		t.Errorf("Emit() with nil logger error = %v", err)
	}
}
