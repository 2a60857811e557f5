package functrace

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Collector owns the aggregation store and the configuration shared by
// wrappers, reporter, and drivers. It is safe for concurrent use.
type Collector struct {
	clock       clock.Clock
	resolution  time.Duration
	instance    Instance
	drivers     []Driver
	logger      *zap.Logger
	namer       func(string) string
	tracer      trace.Tracer
	percentiles bool

	store *store
}

// New creates a Collector. With no options it aggregates into one-minute
// windows and reports through a single stdout driver.
func New(opts ...Option) *Collector {
	c := &Collector{
		clock:      clock.New(),
		resolution: DefaultResolution,
		instance:   NewInstance(),
		logger:     zap.NewNop(),
		namer:      defaultNamer,
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.drivers) == 0 {
		c.drivers = []Driver{NewStdoutDriver()}
	}
	c.store = newStore(c.percentiles)
	return c
}

// Instance returns the metadata attached to every report.
func (c *Collector) Instance() Instance {
	return c.instance
}

// Resolution returns the window width and reporting interval.
func (c *Collector) Resolution() time.Duration {
	return c.resolution
}

// DoneFunc completes a timed invocation. Pass the invocation's error (nil
// on success); the sample is recorded either way.
type DoneFunc func(error)

// Begin starts a stopwatch for one invocation under the given identity.
// The returned DoneFunc records exactly one sample into the window of the
// start instant. Failures are timed too; the caller still owns the error.
//
// The returned context carries the invocation span when a tracer is
// configured, and is otherwise the input context unchanged.
func (c *Collector) Begin(ctx context.Context, identity string) (context.Context, DoneFunc) {
	start := c.clock.Now()
	window := WindowOf(start, c.resolution)

	var span trace.Span
	if c.tracer != nil {
		ctx, span = c.tracer.Start(ctx, identity, trace.WithSpanKind(trace.SpanKindInternal))
	}

	return ctx, func(err error) {
		elapsed := c.clock.Now().Sub(start)
		c.store.record(identity, window, elapsed, err)

		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.End()
		}
	}
}

// Record folds a single externally measured duration into the current
// window for the given identity.
func (c *Collector) Record(identity string, d time.Duration, err error) {
	c.store.record(identity, WindowOf(c.clock.Now(), c.resolution), d, err)
}

// Drain atomically removes and returns all accumulated aggregates, leaving
// the collector empty. Samples racing with the drain land in this snapshot
// or the next, never both, never neither.
func (c *Collector) Drain() Snapshot {
	return c.store.drainAll()
}
