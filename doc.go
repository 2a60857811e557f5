// Package functrace instruments functions with low-overhead latency
// collection, aggregates samples into fixed time windows, and streams the
// aggregates to pluggable drivers.
//
// Samples are grouped per function identity and per window (one minute by
// default) into count/min/max/avg aggregates. Raw samples are never
// retained.
//
// # Wrapping functions
//
// The [Wrap] family produces drop-in replacements that time each call:
//
//	collector := functrace.New()
//
//	fetchUser := functrace.Wrap(collector, "", api.FetchUser)
//
//	// Same signature, same results, same errors; latency is recorded.
//	user, err := fetchUser(ctx)
//
// An empty name derives the identity from the function itself
// ("<package>:<name>"). Call sites with other shapes can use the stopwatch
// form:
//
//	ctx, done := collector.Begin(ctx, "billing:settle")
//	err := settle(ctx, invoice)
//	done(err)
//
// Wrappers never swallow or alter errors: failures are timed and
// re-signaled unchanged. Wrapping the same function twice double-counts.
//
// # Reporting
//
// A [Reporter] drains the collector once per window interval and hands the
// resulting [Report] to every configured [Driver]:
//
//	reporter := functrace.NewReporter(collector)
//	reporter.Start()
//	defer reporter.Stop() // final flush, last window is not lost
//
// Empty intervals emit nothing. A failing driver is logged and skipped for
// that tick; it never stops the loop.
//
// # Drivers
//
// The default [NewStdoutDriver] prints one JSON report per tick. Additional
// sinks live under driver/ (NATS, WebSocket, Prometheus pushgateway,
// append-to-file); anything implementing [Driver] can be plugged in.
//
// # Thread safety
//
// The collector uses sharded locks and is safe to call from many
// goroutines. Recording is a short, non-blocking critical section; wrapped
// calls may block or be suspended arbitrarily without holding any lock.
package functrace
