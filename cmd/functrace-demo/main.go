// Command functrace-demo runs a simulated workload through functrace and
// streams windowed latency reports to the configured drivers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/torosent/functrace"
	"github.com/torosent/functrace/driver/filedriver"
	"github.com/torosent/functrace/driver/natsdriver"
	"github.com/torosent/functrace/driver/pushgateway"
	"github.com/torosent/functrace/driver/wsdriver"
	"github.com/torosent/functrace/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	drivers, closers, err := buildDrivers(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	opts := []functrace.Option{
		functrace.WithResolution(cfg.Interval),
		functrace.WithDrivers(drivers...),
		functrace.WithLogger(logger),
	}
	if cfg.Percentiles {
		opts = append(opts, functrace.WithPercentiles())
	}
	collector := functrace.New(opts...)

	reporter := functrace.NewReporter(collector)
	reporter.Start()
	defer reporter.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	wl := newWorkload(time.Now().UnixNano())
	fetchProfile := functrace.Wrap(collector, "demo:fetch_profile", wl.fetchProfile)
	storeEvent := functrace.Wrap1(collector, "demo:store_event", wl.storeEvent)
	flakyLookup := functrace.Do(collector, "demo:flaky_lookup", wl.flakyLookup)

	var limiter *rate.Limiter
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Workers)
	}

	var wg sync.WaitGroup
	wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go func(worker int) {
			defer wg.Done()
			for step := worker; ; step++ {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				} else if ctx.Err() != nil {
					return
				}

				switch step % 3 {
				case 0:
					_, _ = fetchProfile(ctx)
				case 1:
					_, _ = storeEvent(ctx, "demo-event")
				default:
					_ = flakyLookup(ctx)
				}
			}
		}(i)
	}
	wg.Wait()

	// Deferred reporter.Stop flushes the last partial window.
	return nil
}

// buildDrivers constructs the configured report sinks. The returned
// closers are released after the final flush.
func buildDrivers(cfg *config.Config, logger *zap.Logger) ([]functrace.Driver, []io.Closer, error) {
	var (
		drivers []functrace.Driver
		closers []io.Closer
	)

	for _, name := range cfg.Drivers {
		switch config.DriverName(strings.ToLower(name)) {
		case config.DriverStdout:
			drivers = append(drivers, functrace.NewStdoutDriver())
		case config.DriverLog:
			drivers = append(drivers, functrace.NewLogDriver(logger))
		case config.DriverNATS:
			d, err := natsdriver.New(cfg.NATSURL, cfg.NATSSubject)
			if err != nil {
				return nil, nil, err
			}
			drivers = append(drivers, d)
			closers = append(closers, closerFunc(func() error { d.Close(); return nil }))
		case config.DriverWebSocket:
			d := wsdriver.New(cfg.WSURL)
			drivers = append(drivers, d)
			closers = append(closers, closerFunc(d.Close))
		case config.DriverPushGateway:
			drivers = append(drivers, pushgateway.New(cfg.PushJob, cfg.PushURL))
		case config.DriverFile:
			drivers = append(drivers, filedriver.New(cfg.FilePath))
		default:
			return nil, nil, fmt.Errorf("unknown driver %q", name)
		}
	}
	return drivers, closers, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
