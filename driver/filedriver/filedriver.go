// Package filedriver appends trace reports to a file, one JSON line per
// reporting tick. A sidecar lock file makes appends safe across processes
// sharing the same path.
package filedriver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/torosent/functrace"
)

const lockRetryDelay = 50 * time.Millisecond

// Driver appends JSON lines to a file under an inter-process lock.
type Driver struct {
	path string
	lock *flock.Flock
}

// New creates a driver appending to path. The file and its ".lock"
// sidecar are created on first emit.
func New(path string) *Driver {
	return &Driver{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Emit appends the report as one JSON line.
func (d *Driver) Emit(ctx context.Context, report *functrace.Report) error {
	locked, err := d.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("filedriver: lock %s: %w", d.lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("filedriver: lock %s: not acquired", d.lock.Path())
	}
	defer func() { _ = d.lock.Unlock() }()

	f, err := os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("filedriver: open %s: %w", d.path, err)
	}

	encodeErr := json.NewEncoder(f).Encode(report)
	closeErr := f.Close()
	if encodeErr != nil {
		return fmt.Errorf("filedriver: write %s: %w", d.path, encodeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("filedriver: close %s: %w", d.path, closeErr)
	}
	return nil
}
