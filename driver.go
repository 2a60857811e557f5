package functrace

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Driver ships one report payload per reporting tick. Implementations
// return errors instead of panicking; the reporter isolates a failing
// driver from the loop and from the other drivers in the same tick.
type Driver interface {
	Emit(ctx context.Context, report *Report) error
}

// WriterDriver serializes each report as a single JSON line to an
// io.Writer. Writes are serialized with a mutex so a WriterDriver can be
// shared.
type WriterDriver struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterDriver creates a driver emitting JSON lines to w.
func NewWriterDriver(w io.Writer) *WriterDriver {
	if w == nil {
		w = io.Discard
	}
	return &WriterDriver{w: w}
}

// NewStdoutDriver creates the default driver: one JSON report per line on
// standard output.
func NewStdoutDriver() *WriterDriver {
	return NewWriterDriver(os.Stdout)
}

// Emit writes the report as one JSON line.
func (d *WriterDriver) Emit(_ context.Context, report *Report) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return json.NewEncoder(d.w).Encode(report)
}

// LogDriver emits each report through a zap logger.
type LogDriver struct {
	logger *zap.Logger
}

// NewLogDriver creates a driver logging reports at info level. A nil
// logger discards reports.
func NewLogDriver(logger *zap.Logger) *LogDriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogDriver{logger: logger}
}

// Emit logs the report.
func (d *LogDriver) Emit(_ context.Context, report *Report) error {
	d.logger.Info("trace report",
		zap.String("instance_id", report.Instance.ID),
		zap.String("hostname", report.Instance.Hostname),
		zap.Any("traces", report.Traces),
	)
	return nil
}
