// Package snapshot implements the delta snapshot engine: a bounded
// history of per-tick world snapshots and the per-client delta
// computation against an acknowledged baseline tick.
package snapshot

import (
	"math"
	"sync"
	"time"

	"github.com/rtype/server/internal/sim"
)

// DefaultPosThreshold is POS_THRESHOLD, the default Euclidean position
// delta above which an unchanged-looking entity is still resent.
const DefaultPosThreshold = 5.0

// worldSnapshot is one tick's full entity state plus a NetId index for
// O(1) delta lookups.
type worldSnapshot struct {
	tick      uint32
	timestamp time.Time
	records   []sim.EntitySnapshot
	byNetID   map[uint32]sim.EntitySnapshot
}

func newWorldSnapshot(tick uint32, ts time.Time, records []sim.EntitySnapshot) worldSnapshot {
	idx := make(map[uint32]sim.EntitySnapshot, len(records))
	for _, r := range records {
		idx[r.NetID] = r
	}
	return worldSnapshot{tick: tick, timestamp: ts, records: records, byNetID: idx}
}

// Ring is the bounded FIFO snapshot history: at most maxHistory
// snapshots, strictly ascending by tick, oldest evicted first.
type Ring struct {
	mu           sync.Mutex
	maxHistory   int
	posThreshold float64
	snapshots    []worldSnapshot
}

func NewRing(maxHistory int, posThreshold float64) *Ring {
	if maxHistory <= 0 {
		maxHistory = 128
	}
	if posThreshold <= 0 {
		posThreshold = DefaultPosThreshold
	}
	return &Ring{
		maxHistory:   maxHistory,
		posThreshold: posThreshold,
		snapshots:    make([]worldSnapshot, 0, maxHistory),
	}
}

// Append implements sim.SnapshotBuilder. Callers (the simulation loop) are
// the sole writer and are expected to call with strictly increasing ticks.
func (r *Ring) Append(tick uint32, timestamp time.Time, records []sim.EntitySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, newWorldSnapshot(tick, timestamp, records))
	if len(r.snapshots) > r.maxHistory {
		r.snapshots = r.snapshots[1:]
	}
}

func (r *Ring) latest() (worldSnapshot, bool) {
	if len(r.snapshots) == 0 {
		return worldSnapshot{}, false
	}
	return r.snapshots[len(r.snapshots)-1], true
}

func (r *Ring) find(tick uint32) (worldSnapshot, bool) {
	for _, s := range r.snapshots {
		if s.tick == tick {
			return s, true
		}
	}
	return worldSnapshot{}, false
}

// Len reports how many snapshots are currently retained.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func changed(old, cur sim.EntitySnapshot, posThreshold float64) bool {
	if cur.HP != old.HP || cur.Score != old.Score {
		return true
	}
	dx, dy := cur.X-old.X, cur.Y-old.Y
	return math.Hypot(dx, dy) > posThreshold
}
