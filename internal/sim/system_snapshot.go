package sim

import (
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// SnapshotSystem is phase 12, the last step of the tick schedule: it reads
// every network entity's current state into an EntitySnapshot and hands
// the batch to the ring.
type SnapshotSystem struct {
	World   *World
	Builder SnapshotBuilder
	Tick    func() uint32
}

func (s *SnapshotSystem) Phase() system.Phase { return system.PhaseSnapshot }

func (s *SnapshotSystem) Update(dt time.Duration) {
	records := make([]EntitySnapshot, 0, s.World.NetworkEntities.Len())
	s.World.NetworkEntities.Each(func(id ecs.EntityID, ne *NetworkEntity) {
		rec := EntitySnapshot{NetID: ne.NetID, EntityType: ne.EntityType, Synced: ne.Synced}
		if pos, ok := s.World.Positions.Get(id); ok {
			rec.X, rec.Y = pos.X, pos.Y
		}
		if vel, ok := s.World.Velocities.Get(id); ok {
			rec.VX, rec.VY = vel.VX, vel.VY
		}
		if hp, ok := s.World.Healths.Get(id); ok {
			rec.HP = hp.CurrentHP
		}
		if sc, ok := s.World.Scores.Get(id); ok {
			rec.Score = sc.CurrentScore
		}
		records = append(records, rec)
	})
	s.Builder.Append(s.Tick(), time.Now(), records)
}
