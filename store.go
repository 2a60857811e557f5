package functrace

import (
	"hash/fnv"
	"sync"
	"time"
)

const storeShards = 32

// Snapshot is an immutable mapping from function identity to per-window
// aggregates, produced by a single drain. Ownership transfers fully to the
// caller; the store retains nothing from it.
type Snapshot map[string]map[Window]*Aggregate

// Total returns the number of samples across every aggregate in the
// snapshot.
func (s Snapshot) Total() int64 {
	var n int64
	for _, windows := range s {
		for _, agg := range windows {
			n += agg.Count
		}
	}
	return n
}

type entryKey struct {
	identity string
	window   Window
}

// store is the concurrent-safe accumulation map keyed by
// (identity, window). Keys are spread over fixed shards to keep lock
// contention low under many concurrent recorders.
type store struct {
	shards          [storeShards]*storeShard
	withPercentiles bool
}

type storeShard struct {
	mu      sync.Mutex
	entries map[entryKey]*Aggregate
}

func newStore(withPercentiles bool) *store {
	s := &store{withPercentiles: withPercentiles}
	for i := range s.shards {
		s.shards[i] = &storeShard{entries: make(map[entryKey]*Aggregate)}
	}
	return s
}

func (s *store) shardFor(key entryKey) *storeShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.identity))
	_, _ = h.Write([]byte(key.window.Key()))
	return s.shards[h.Sum32()%storeShards]
}

// record folds one sample into the aggregate for (identity, window),
// creating it on first use. The read-modify-write is atomic per key: the
// shard lock is held for the whole update.
func (s *store) record(identity string, w Window, d time.Duration, err error) {
	key := entryKey{identity: identity, window: w}
	shard := s.shardFor(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	agg, ok := shard.entries[key]
	if !ok {
		agg = newAggregate(s.withPercentiles)
		shard.entries[key] = agg
	}
	agg.observe(d, err)
}

// drainAll removes and returns every aggregate, leaving the store empty.
// Each shard's map is swapped out whole under its lock, so a sample
// recorded before the drain reaches a given shard lands in this snapshot,
// and one racing with it lands in the next; either way it is accounted
// exactly once.
func (s *store) drainAll() Snapshot {
	snap := make(Snapshot)
	for _, shard := range s.shards {
		shard.mu.Lock()
		drained := shard.entries
		shard.entries = make(map[entryKey]*Aggregate)
		shard.mu.Unlock()

		for key, agg := range drained {
			windows, ok := snap[key.identity]
			if !ok {
				windows = make(map[Window]*Aggregate)
				snap[key.identity] = windows
			}
			windows[key.window] = agg
		}
	}
	return snap
}
