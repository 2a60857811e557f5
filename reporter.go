package functrace

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Reporter periodically drains a Collector and hands the resulting report
// to every configured driver. A Reporter is good for one Start/Stop cycle.
type Reporter struct {
	collector *Collector
	interval  time.Duration
	logger    *zap.Logger
	mu        sync.Mutex
	cancel    context.CancelFunc
	finished  chan struct{}
	active    int32
}

// NewReporter creates a reporter ticking at the collector's window
// interval.
func NewReporter(c *Collector) *Reporter {
	return &Reporter{
		collector: c,
		interval:  c.resolution,
		logger:    c.logger,
		finished:  make(chan struct{}),
	}
}

// Start begins the reporting loop in a background goroutine.
func (r *Reporter) Start() {
	r.mu.Lock()
	if !atomic.CompareAndSwapInt32(&r.active, 0, 1) {
		r.mu.Unlock()
		return // already running
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()
	go func() {
		defer close(r.finished)
		r.loop(ctx.Done())
	}()
}

// Stop halts a Start-ed loop and blocks until a final flush completes, so
// the last partial window is reported rather than lost. It is a no-op on
// a reporter that was never Start-ed, including one driven by Run, whose
// context governs its shutdown.
func (r *Reporter) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	atomic.StoreInt32(&r.active, 0)
	cancel()
	<-r.finished
}

// Run executes the reporting loop on the calling goroutine until ctx is
// cancelled, then performs a final flush. It is the blocking alternative
// to Start/Stop.
func (r *Reporter) Run(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&r.active, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&r.active, 0)
	r.loop(ctx.Done())
}

func (r *Reporter) loop(stop <-chan struct{}) {
	inst := r.collector.Instance()
	r.logger.Info("reporter started",
		zap.String("instance_id", inst.ID),
		zap.String("hostname", inst.Hostname),
		zap.Duration("interval", r.interval),
	)

	ticker := r.collector.clock.Ticker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Flush(context.Background())
		case <-stop:
			// In-flight work is allowed to finish; the final drain picks
			// up whatever it recorded.
			r.Flush(context.Background())
			r.logger.Info("reporter stopped")
			return
		}
	}
}

// Flush drains the collector once and emits the report, if any, to every
// driver. A failing driver is logged and does not affect the others.
func (r *Reporter) Flush(ctx context.Context) {
	report := r.collector.BuildReport(r.collector.Drain())
	if report == nil {
		return
	}

	for _, driver := range r.collector.drivers {
		if err := driver.Emit(ctx, report); err != nil {
			r.logger.Warn("driver emit failed",
				zap.String("driver", fmt.Sprintf("%T", driver)),
				zap.Error(err),
			)
		}
	}
}
