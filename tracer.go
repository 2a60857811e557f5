package functrace

import (
	"context"
	"reflect"
	"runtime"
	"strings"
)

// Wrap returns a drop-in replacement for fn that records one latency
// sample per call. The measured duration is monotonic elapsed time from
// invocation start to completion, including any time the call spends
// blocked or suspended; failures are timed and re-signaled unchanged.
//
// An empty name derives the identity from fn via the runtime, using the
// collector's naming strategy. Wrapping a function twice double-counts.
func Wrap[T any](c *Collector, name string, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	name = c.identityFor(name, fn)
	return func(ctx context.Context) (T, error) {
		ctx, done := c.Begin(ctx, name)
		v, err := fn(ctx)
		done(err)
		return v, err
	}
}

// Wrap1 is Wrap for functions taking one argument besides the context.
func Wrap1[A, T any](c *Collector, name string, fn func(context.Context, A) (T, error)) func(context.Context, A) (T, error) {
	name = c.identityFor(name, fn)
	return func(ctx context.Context, a A) (T, error) {
		ctx, done := c.Begin(ctx, name)
		v, err := fn(ctx, a)
		done(err)
		return v, err
	}
}

// Wrap2 is Wrap for functions taking two arguments besides the context.
func Wrap2[A, B, T any](c *Collector, name string, fn func(context.Context, A, B) (T, error)) func(context.Context, A, B) (T, error) {
	name = c.identityFor(name, fn)
	return func(ctx context.Context, a A, b B) (T, error) {
		ctx, done := c.Begin(ctx, name)
		v, err := fn(ctx, a, b)
		done(err)
		return v, err
	}
}

// Do is Wrap for functions that return only an error.
func Do(c *Collector, name string, fn func(context.Context) error) func(context.Context) error {
	name = c.identityFor(name, fn)
	return func(ctx context.Context) error {
		ctx, done := c.Begin(ctx, name)
		err := fn(ctx)
		done(err)
		return err
	}
}

func (c *Collector) identityFor(name string, fn any) string {
	if name != "" {
		return name
	}
	return c.namer(runtimeFuncName(fn))
}

// runtimeFuncName resolves fn's fully qualified name, e.g.
// "github.com/acme/api.FetchUser" or "main.run.func1".
func runtimeFuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "unknown"
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "unknown"
	}
	return rf.Name()
}

// defaultNamer converts a runtime function name into
// "<package path>:<qualified name>". Method-value and closure suffixes
// added by the runtime ("-fm", ".func1") are kept: they distinguish
// otherwise identical identities.
func defaultNamer(runtimeName string) string {
	if runtimeName == "" {
		return "unknown"
	}
	slash := strings.LastIndex(runtimeName, "/")
	dot := strings.Index(runtimeName[slash+1:], ".")
	if dot == -1 {
		return runtimeName
	}
	dot += slash + 1
	return runtimeName[:dot] + ":" + runtimeName[dot+1:]
}
