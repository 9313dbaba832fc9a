package sim

import "time"

// EntitySnapshot is one network entity's state at a given tick, read
// straight off its components.
type EntitySnapshot struct {
	NetID      uint32
	EntityType EntityTypeTag
	X, Y       float64
	VX, VY     float64
	HP         int
	Score      int
	Synced     bool
}

// SnapshotBuilder receives the finished records for a tick. Defined here,
// not in the snapshot package, so this package never imports it — the
// snapshot package imports sim for EntitySnapshot, not the other way
// around.
type SnapshotBuilder interface {
	Append(tick uint32, timestamp time.Time, records []EntitySnapshot)
}
