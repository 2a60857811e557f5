package functrace

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option configures a Collector.
type Option func(*Collector)

// WithResolution sets the aggregation window width and reporting interval.
// Non-positive values are ignored.
func WithResolution(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.resolution = d
		}
	}
}

// WithDriver appends a driver to the set invoked on every reporting tick.
func WithDriver(d Driver) Option {
	return func(c *Collector) {
		if d != nil {
			c.drivers = append(c.drivers, d)
		}
	}
}

// WithDrivers replaces the driver set. Passing none leaves the default
// stdout driver in place.
func WithDrivers(drivers ...Driver) Option {
	return func(c *Collector) {
		if len(drivers) > 0 {
			c.drivers = drivers
		}
	}
}

// WithLogger sets the logger used for reporter lifecycle events and driver
// failures. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock substitutes the time source. Intended for tests.
func WithClock(clk clock.Clock) Option {
	return func(c *Collector) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithInstance overrides the generated instance metadata.
func WithInstance(inst Instance) Option {
	return func(c *Collector) {
		c.instance = inst
	}
}

// WithNamer sets the strategy that turns a runtime function name
// (e.g. "github.com/acme/api.FetchUser") into a reported identity. The
// default produces "<package path>:<name>".
func WithNamer(namer func(runtimeName string) string) Option {
	return func(c *Collector) {
		if namer != nil {
			c.namer = namer
		}
	}
}

// WithPercentiles adds p50/p90/p99 values to every reported window at the
// cost of one histogram per live aggregate.
func WithPercentiles() Option {
	return func(c *Collector) {
		c.percentiles = true
	}
}

// WithTracer emits an OpenTelemetry span per traced invocation in addition
// to the recorded sample. Aggregation is unaffected.
func WithTracer(t trace.Tracer) Option {
	return func(c *Collector) {
		c.tracer = t
	}
}
