package main

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

var errUpstreamUnavailable = errors.New("upstream unavailable")

// jitterSource provides goroutine-safe random jitter for the simulated
// operations.
type jitterSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newJitterSource(seed int64) *jitterSource {
	return &jitterSource{rnd: rand.New(rand.NewSource(seed))}
}

func (j *jitterSource) between(lo, hi time.Duration) time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	return lo + time.Duration(j.rnd.Int63n(int64(hi-lo)))
}

func (j *jitterSource) chance(p float64) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rnd.Float64() < p
}

// workload bundles a few simulated async operations with distinct latency
// profiles so the report stream has something interesting to show.
type workload struct {
	jitter *jitterSource
}

func newWorkload(seed int64) *workload {
	return &workload{jitter: newJitterSource(seed)}
}

// fetchProfile simulates a fast read, 20-60ms.
func (w *workload) fetchProfile(ctx context.Context) (string, error) {
	if err := sleepCtx(ctx, w.jitter.between(20*time.Millisecond, 60*time.Millisecond)); err != nil {
		return "", err
	}
	return "profile", nil
}

// storeEvent simulates a slower write, 50-150ms.
func (w *workload) storeEvent(ctx context.Context, payload string) (int, error) {
	if err := sleepCtx(ctx, w.jitter.between(50*time.Millisecond, 150*time.Millisecond)); err != nil {
		return 0, err
	}
	return len(payload), nil
}

// flakyLookup simulates an unreliable dependency: 30-90ms, ~10% failures.
func (w *workload) flakyLookup(ctx context.Context) error {
	if err := sleepCtx(ctx, w.jitter.between(30*time.Millisecond, 90*time.Millisecond)); err != nil {
		return err
	}
	if w.jitter.chance(0.1) {
		return errUpstreamUnavailable
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
