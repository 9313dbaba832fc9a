package sim

import (
	"time"

	"github.com/rtype/server/internal/core/ecs"
	"github.com/rtype/server/internal/core/system"
)

// MovementSystem is phase 5: integrates every positioned, moving entity by
// velocity * dt. It is the only system that writes Position.
type MovementSystem struct {
	World *World
}

func (s *MovementSystem) Phase() system.Phase { return system.PhaseMovement }

func (s *MovementSystem) Update(dt time.Duration) {
	dtSec := dt.Seconds()
	s.World.Velocities.Each(func(id ecs.EntityID, vel *Velocity) {
		pos, ok := s.World.Positions.Get(id)
		if !ok {
			return
		}
		pos.X += vel.VX * dtSec
		pos.Y += vel.VY * dtSec
	})
}
